package commands

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"go.trai.ch/otto/internal/core/domain"
	"go.trai.ch/otto/internal/core/ports"
	"go.trai.ch/otto/internal/workspace"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// BuildScript is the optional per-package pre-build script.
const BuildScript = "build.mjs"

// BuildArgs are the user-facing build options.
type BuildArgs struct {
	// Release builds without source maps and with minification.
	Release bool

	// Watch keeps the build running, rebuilding on file changes.
	Watch bool

	// LintFail makes lint findings fail the build instead of only reporting
	// them.
	LintFail bool
}

// Build compiles, lints and bundles one package. It fans out to the
// package's toolchain: tsc for type checking, biome for linting, and either
// vite (sites, scripts) or an asset copy (libraries) for bundling.
type Build struct {
	args    BuildArgs
	watcher ports.Watcher
}

// NewBuild creates the build command. watcher is only used in watch mode,
// for re-copying changed assets.
func NewBuild(args BuildArgs, watcher ports.Watcher) *Build {
	return &Build{args: args, watcher: watcher}
}

func (c *Build) Name() string { return "build" }

func (c *Build) Runtime() workspace.Runtime {
	if c.args.Watch {
		return workspace.RunForever
	}
	return workspace.WaitForDependencies
}

func (c *Build) Deps() []workspace.Command {
	return []workspace.Command{NewInstall()}
}

// RunPkg runs the package's full toolchain concurrently. In watch mode the
// long-running tools are started first and readiness is signalled once all of
// them are up.
func (c *Build) RunPkg(ctx context.Context, ws *workspace.Workspace, pkg *domain.Package) error {
	if _, err := os.Stat(filepath.Join(pkg.Root, BuildScript)); err == nil {
		if err := c.buildScript(ctx, ws, pkg); err != nil {
			return err
		}
	}

	g, ctx := errgroup.WithContext(ctx)

	if pkg.Target.IsLib() {
		g.Go(func() error { return c.copyAssets(ctx, pkg) })
	} else {
		g.Go(func() error { return c.vite(ctx, ws, pkg) })
	}
	g.Go(func() error { return c.tsc(ctx, ws, pkg) })
	g.Go(func() error { return c.biome(ctx, ws, pkg) })

	if c.args.Watch {
		// The tools are spawned and watching; dependents may proceed.
		workspace.NotifyReady(ctx)
	}

	return g.Wait()
}

// PackageInputFiles makes a build skippable when nothing in the package
// changed.
func (c *Build) PackageInputFiles(ws *workspace.Workspace, pkg *domain.Package) ([]string, error) {
	return workspace.AllFiles(pkg)
}

func (c *Build) tsc(ctx context.Context, ws *workspace.Workspace, pkg *domain.Package) error {
	return ws.PkgExec(ctx, pkg, "tsc", func(cmd *exec.Cmd) {
		cmd.Args = append(cmd.Args, "--pretty")
		if c.args.Watch {
			cmd.Args = append(cmd.Args, "--watch")
		}
		if pkg.Target.IsLib() && !c.args.Release {
			cmd.Args = append(cmd.Args, "--sourceMap")
		}
	})
}

func (c *Build) biome(ctx context.Context, ws *workspace.Workspace, pkg *domain.Package) error {
	sources, err := workspace.SourceFiles(pkg)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return nil
	}

	process, err := ws.PkgStartProcess(ctx, pkg, "biome", func(cmd *exec.Cmd) {
		cmd.Args = append(cmd.Args, "check")
		cmd.Args = append(cmd.Args, sources...)
		cmd.Args = append(cmd.Args, "--colors=force")
	})
	if err != nil {
		return err
	}

	status := process.Wait()
	if c.args.LintFail && !status.Success() {
		return zerr.With(domain.ErrToolFailed, "tool", "biome")
	}
	return nil
}

func (c *Build) vite(ctx context.Context, ws *workspace.Workspace, pkg *domain.Package) error {
	return ws.PkgExec(ctx, pkg, "vite", func(cmd *exec.Cmd) {
		cmd.Env = append(cmd.Env, "FORCE_COLOR=1")
		if pkg.Target.IsSite() && c.args.Watch && !pkg.Config.NoServer {
			cmd.Args = append(cmd.Args, "dev")
			return
		}

		cmd.Args = append(cmd.Args, "build")
		if c.args.Watch {
			cmd.Args = append(cmd.Args, "--watch")
		}
		if !c.args.Release {
			cmd.Args = append(cmd.Args, "--sourcemap", "true", "--minify", "false", "--mode", "development")
		}
	})
}

func (c *Build) buildScript(ctx context.Context, ws *workspace.Workspace, pkg *domain.Package) error {
	return ws.PkgExec(ctx, pkg, "pnpm", func(cmd *exec.Cmd) {
		cmd.Args = append(cmd.Args, "exec", "node", BuildScript)
		if c.args.Watch {
			cmd.Args = append(cmd.Args, "--watch")
		}
		if c.args.Release {
			cmd.Args = append(cmd.Args, "--release")
		}
	})
}

// copyAssets mirrors the package's non-source files from src/ to dist/. In
// watch mode it keeps running, re-copying assets as they change.
func (c *Build) copyAssets(ctx context.Context, pkg *domain.Package) error {
	assets, err := workspace.AssetFiles(pkg)
	if err != nil {
		return err
	}

	srcRoot := filepath.Join(pkg.Root, workspace.SrcDir)
	dstRoot := filepath.Join(pkg.Root, workspace.DistDir)

	for _, asset := range assets {
		if err := copyAsset(srcRoot, dstRoot, asset); err != nil {
			return err
		}
	}

	if !c.args.Watch || len(assets) == 0 {
		return nil
	}

	return c.watcher.Watch(ctx, assets, func(path string) {
		// Best effort: a transiently missing file will be retried on its
		// next change event.
		_ = copyAsset(srcRoot, dstRoot, path)
	})
}

func copyAsset(srcRoot, dstRoot, file string) error {
	rel, err := filepath.Rel(srcRoot, file)
	if err != nil {
		return zerr.Wrap(err, "asset outside source directory")
	}
	target := filepath.Join(dstRoot, rel)

	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return zerr.Wrap(err, "failed to create asset directory")
	}

	data, err := os.ReadFile(file) //nolint:gosec // Path comes from walking the package source tree
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to read asset"), "file", file)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil { //nolint:gosec // Assets keep permissive permissions
		return zerr.With(zerr.Wrap(err, "failed to copy asset"), "file", target)
	}
	return nil
}
