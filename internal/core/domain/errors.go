package domain

import "go.trai.ch/zerr"

var (
	// ErrConfigInvalid is returned when a workspace or package manifest is malformed.
	ErrConfigInvalid = zerr.New("invalid manifest")

	// ErrMissingDependency is returned when a package references a dependency
	// name that doesn't exist in the workspace.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrCycleDetected is returned when a cycle is detected in the package
	// graph or in the command graph.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrPackageNotFound is returned when a requested package is not part of
	// the workspace.
	ErrPackageNotFound = zerr.New("package not found")

	// ErrWorkspaceNotFound is returned when no workspace manifest exists in
	// the working directory or any of its ancestors.
	ErrWorkspaceNotFound = zerr.New("workspace not found")

	// ErrToolFailed is returned when a spawned tool exits with a non-success
	// status where success was required.
	ErrToolFailed = zerr.New("tool failed")

	// ErrDependencyFailed is returned for a command execution that never
	// started because one of its dependencies failed.
	ErrDependencyFailed = zerr.New("dependency failed")

	// ErrUnresolvedCommand is returned when graph expansion encounters a
	// command referenced only by key. Commands always declare their
	// dependencies as values, so hitting this is a defect.
	ErrUnresolvedCommand = zerr.New("command referenced by key only")
)
