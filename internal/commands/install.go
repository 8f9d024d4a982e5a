// Package commands contains the concrete workspace and package commands:
// install, build and fix.
package commands

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"slices"

	"go.trai.ch/otto/internal/adapters/manifest"
	"go.trai.ch/otto/internal/workspace"
)

// Install brings node_modules in sync with the lockfile. It runs once per
// workspace and is a dependency of every build.
type Install struct{}

// NewInstall creates the install command.
func NewInstall() *Install {
	return &Install{}
}

func (c *Install) Name() string { return "install" }

func (c *Install) Runtime() workspace.Runtime { return workspace.WaitForDependencies }

func (c *Install) Deps() []workspace.Command { return nil }

// RunWs runs the package manager's install in the workspace root.
func (c *Install) RunWs(ctx context.Context, ws *workspace.Workspace) error {
	return ws.Exec(ctx, "pnpm", func(cmd *exec.Cmd) {
		cmd.Args = append(cmd.Args, "install")
	})
}

// InputFiles returns the manifests and the lockfile: install is skippable
// when none of them changed.
func (c *Install) InputFiles(ws *workspace.Workspace) ([]string, error) {
	candidates := []string{
		filepath.Join(ws.Root, manifest.WorkFileName),
		filepath.Join(ws.Root, "package.json"),
		filepath.Join(ws.Root, "pnpm-lock.yaml"),
		filepath.Join(ws.Root, "pnpm-workspace.yaml"),
	}
	for _, pkg := range ws.Packages {
		candidates = append(candidates,
			filepath.Join(pkg.Root, manifest.PackageFileName),
			filepath.Join(pkg.Root, "package.json"),
		)
	}

	var files []string
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			files = append(files, path)
		}
	}
	slices.Sort(files)
	return slices.Compact(files), nil
}
