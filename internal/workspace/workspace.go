// Package workspace models a loaded workspace: its packages and their
// dependency graph, the command abstractions that run against it, the
// fingerprint store and the live process registry.
package workspace

import (
	"context"
	"fmt"
	"iter"
	"os"
	"os/exec"
	"path/filepath"

	"go.trai.ch/otto/internal/adapters/proc"
	"go.trai.ch/otto/internal/build"
	"go.trai.ch/otto/internal/core/domain"
	"go.trai.ch/otto/internal/core/ports"
	"go.trai.ch/zerr"
)

// Options configures workspace loading.
type Options struct {
	// Package restricts the workspace to the named package and its transitive
	// dependencies. Empty means all packages.
	Package string

	Logger       ports.Logger
	Manifests    ports.ManifestLoader
	Fingerprints ports.FingerprintOpener
}

// Workspace is a loaded workspace. It is created once per run and shared by
// reference; the mutable parts (process registry, fingerprint store) carry
// their own synchronization.
type Workspace struct {
	// Root is the absolute path of the workspace root directory.
	Root string

	// Packages are all packages of the workspace, in load order.
	Packages []*domain.Package

	// PkgGraph is the dependency graph restricted to the selected roots.
	PkgGraph *domain.PackageGraph

	// Config holds the workspace-level manifest settings.
	Config domain.WorkspaceConfig

	Logger ports.Logger

	roots        []*domain.Package
	processes    *proc.Registry
	fingerprints ports.FingerprintStore
}

// Load discovers the workspace containing cwd and loads it.
func Load(cwd string, opts Options) (*Workspace, error) {
	root, err := opts.Manifests.FindRoot(cwd)
	if err != nil {
		return nil, err
	}

	packages, cfg, err := opts.Manifests.Load(root)
	if err != nil {
		return nil, err
	}

	if cfg.Version != "" && cfg.Version != build.Version {
		opts.Logger.Warn(fmt.Sprintf(
			"otto binary is v%s but workspace was created with v%s, double-check compatibility",
			build.Version, cfg.Version))
	}

	ws, err := New(root, packages, cfg, opts)
	if err != nil {
		return nil, err
	}
	ws.fingerprints = opts.Fingerprints.Open(root)
	return ws, nil
}

// New assembles a workspace from already loaded packages. Load is the normal
// entry point; New exists so tests can construct workspaces without touching
// disk.
func New(root string, packages []*domain.Package, cfg domain.WorkspaceConfig, opts Options) (*Workspace, error) {
	roots := packages
	if opts.Package != "" {
		pkg, err := packageByName(packages, opts.Package)
		if err != nil {
			return nil, err
		}
		roots = []*domain.Package{pkg}
	}

	pkgGraph, err := domain.BuildPackageGraph(packages, roots)
	if err != nil {
		return nil, err
	}

	return &Workspace{
		Root:      root,
		Packages:  packages,
		PkgGraph:  pkgGraph,
		Config:    cfg,
		Logger:    opts.Logger,
		roots:     roots,
		processes: proc.NewRegistry(opts.Logger),
	}, nil
}

// Roots returns the packages execution was requested for.
func (w *Workspace) Roots() []*domain.Package {
	return w.roots
}

// DisplayOrder yields the selected packages in a stable order: dependencies
// before dependents, ties broken alphabetically.
func (w *Workspace) DisplayOrder() iter.Seq[*domain.Package] {
	return w.PkgGraph.Nodes()
}

// PackageByName returns the workspace package with the given name.
func (w *Workspace) PackageByName(name string) (*domain.Package, error) {
	return packageByName(w.Packages, name)
}

func packageByName(packages []*domain.Package, name string) (*domain.Package, error) {
	for _, pkg := range packages {
		if pkg.Name.String() == name {
			return pkg, nil
		}
	}
	return nil, zerr.With(domain.ErrPackageNotFound, "package", name)
}

// Processes returns the live process registry.
func (w *Workspace) Processes() *proc.Registry {
	return w.processes
}

// Fingerprints returns the fingerprint store, or nil when the workspace was
// constructed without one.
func (w *Workspace) Fingerprints() ports.FingerprintStore {
	return w.fingerprints
}

// SetFingerprints replaces the fingerprint store. Used by tests.
func (w *Workspace) SetFingerprints(store ports.FingerprintStore) {
	w.fingerprints = store
}

// StartProcess spawns tool through the package manager in dir, registered in
// the process registry and bound to ctx. Tools other than the package manager
// itself are invoked via its exec subcommand so workspace-local binaries
// resolve. NODE_PATH points at the workspace's node_modules.
func (w *Workspace) StartProcess(ctx context.Context, tool, tag, dir string, configure func(*exec.Cmd)) (*proc.Process, error) {
	pnpm, err := exec.LookPath("pnpm")
	if err != nil {
		return nil, zerr.Wrap(err, "could not find pnpm on your system")
	}

	cmd := exec.CommandContext(ctx, pnpm)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "NODE_PATH="+filepath.Join(w.Root, "node_modules"))
	if tool != "pnpm" {
		cmd.Args = append(cmd.Args, "exec", tool)
	}

	return w.processes.Start(tool, tag, cmd, configure)
}

// Exec runs tool in the workspace root and waits for a successful exit.
func (w *Workspace) Exec(ctx context.Context, tool string, configure func(*exec.Cmd)) error {
	process, err := w.StartProcess(ctx, tool, tool, w.Root, configure)
	if err != nil {
		return err
	}
	return process.WaitForSuccess()
}

// PkgStartProcess spawns tool in the package directory, tagged with the
// package name.
func (w *Workspace) PkgStartProcess(ctx context.Context, pkg *domain.Package, tool string, configure func(*exec.Cmd)) (*proc.Process, error) {
	tag := pkg.Name.String() + ":" + tool
	return w.StartProcess(ctx, tool, tag, pkg.Root, configure)
}

// PkgExec runs tool in the package directory and waits for a successful exit.
func (w *Workspace) PkgExec(ctx context.Context, pkg *domain.Package, tool string, configure func(*exec.Cmd)) error {
	process, err := w.PkgStartProcess(ctx, pkg, tool, configure)
	if err != nil {
		return err
	}
	return process.WaitForSuccess()
}
