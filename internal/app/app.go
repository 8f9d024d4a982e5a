// Package app implements the application layer for otto.
package app

import (
	"context"
	"os"

	"go.trai.ch/otto/internal/commands"
	"go.trai.ch/otto/internal/core/ports"
	"go.trai.ch/otto/internal/engine/scheduler"
	"go.trai.ch/otto/internal/workspace"
	"go.trai.ch/zerr"
)

// RunOptions select where and against what a command runs.
type RunOptions struct {
	// Cwd is the directory workspace discovery starts from. Empty means the
	// process working directory.
	Cwd string

	// Package restricts the run to the named package and its transitive
	// dependencies.
	Package string
}

// App represents the main application logic.
type App struct {
	logger       ports.Logger
	manifests    ports.ManifestLoader
	fingerprints ports.FingerprintOpener
	watcher      ports.Watcher
	scheduler    *scheduler.Scheduler
}

// New creates a new App instance.
func New(
	logger ports.Logger,
	manifests ports.ManifestLoader,
	fingerprints ports.FingerprintOpener,
	watcher ports.Watcher,
	sched *scheduler.Scheduler,
) *App {
	return &App{
		logger:       logger,
		manifests:    manifests,
		fingerprints: fingerprints,
		watcher:      watcher,
		scheduler:    sched,
	}
}

// Build runs the build command against the workspace containing opts.Cwd.
func (a *App) Build(ctx context.Context, opts RunOptions, args commands.BuildArgs) error {
	ws, err := a.load(opts)
	if err != nil {
		return err
	}
	return a.scheduler.Run(ctx, ws, commands.NewBuild(args, a.watcher))
}

// Fix runs the fix command against the workspace containing opts.Cwd.
func (a *App) Fix(ctx context.Context, opts RunOptions, args commands.FixArgs) error {
	ws, err := a.load(opts)
	if err != nil {
		return err
	}
	return a.scheduler.Run(ctx, ws, commands.NewFix(args))
}

func (a *App) load(opts RunOptions) (*workspace.Workspace, error) {
	cwd := opts.Cwd
	if cwd == "" {
		var err error
		cwd, err = os.Getwd()
		if err != nil {
			return nil, zerr.Wrap(err, "failed to determine working directory")
		}
	}

	return workspace.Load(cwd, workspace.Options{
		Package:      opts.Package,
		Logger:       a.logger,
		Manifests:    a.manifests,
		Fingerprints: a.fingerprints,
	})
}
