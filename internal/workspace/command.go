package workspace

import (
	"context"

	"go.trai.ch/otto/internal/core/domain"
)

// Runtime describes when a command execution may start relative to its
// dependencies and when it completes.
type Runtime int

const (
	// RunImmediately starts as soon as scheduled, without waiting for
	// dependencies to finish.
	RunImmediately Runtime = iota

	// WaitForDependencies starts only after every dependency execution has
	// completed successfully.
	WaitForDependencies

	// RunForever never completes on its own: it counts as done for its
	// dependents once it signals readiness via NotifyReady, and keeps running
	// until the whole run is cancelled.
	RunForever
)

// Command is a node in the command graph. Concrete commands additionally
// implement PackageCommand or WorkspaceCommand.
type Command interface {
	// Name identifies the command kind; it doubles as the node identity in
	// the command graph.
	Name() string

	// Runtime describes the command's scheduling behavior.
	Runtime() Runtime

	// Deps returns the commands that must run before this one.
	Deps() []Command
}

// PackageCommand is a command that runs once per package, ordered by the
// package dependency graph.
type PackageCommand interface {
	Command
	RunPkg(ctx context.Context, ws *Workspace, pkg *domain.Package) error
}

// WorkspaceCommand is a command that runs once for the whole workspace.
type WorkspaceCommand interface {
	Command
	RunWs(ctx context.Context, ws *Workspace) error
}

// Fingerprinted is implemented by workspace commands whose execution can be
// skipped when their input files are unchanged.
type Fingerprinted interface {
	// InputFiles returns the files whose content determines whether the
	// execution may be skipped.
	InputFiles(ws *Workspace) ([]string, error)
}

// PackageFingerprinted is the per-package analog of Fingerprinted.
type PackageFingerprinted interface {
	PackageInputFiles(ws *Workspace, pkg *domain.Package) ([]string, error)
}

// PkgKey is the execution unit key of a package command applied to one
// package.
func PkgKey(cmd Command, pkg *domain.Package) string {
	return cmd.Name() + "-" + pkg.Name.String()
}

// WsKey is the execution unit key of a workspace command.
func WsKey(cmd Command) string {
	return cmd.Name()
}

// CommandGraph is the DAG of commands reachable from a root command.
type CommandGraph = domain.DepGraph[Command]

// BuildCommandGraph expands the root command's dependencies into a graph.
// Commands declare dependencies as values, so the by-key resolution hook
// should never fire; if it does, expansion fails.
func BuildCommandGraph(root Command) (*CommandGraph, error) {
	return domain.BuildDepGraph(
		[]Command{root},
		Command.Name,
		func(key string) (Command, error) {
			return nil, domain.ErrUnresolvedCommand
		},
		func(cmd Command) []domain.NodeRef[Command] {
			deps := cmd.Deps()
			refs := make([]domain.NodeRef[Command], len(deps))
			for i, dep := range deps {
				refs[i] = domain.RefValue(dep)
			}
			return refs
		},
	)
}
