// Package domain contains the core domain models for the workspace
// orchestrator: packages, the package graph and the generic dependency graph.
package domain

import "go.trai.ch/zerr"

// Target describes what kind of artifact a package produces.
type Target int

const (
	// TargetLib is a library consumed by other packages.
	TargetLib Target = iota
	// TargetSite is a deployable web site.
	TargetSite
	// TargetScript is a standalone executable script.
	TargetScript
)

// String returns the manifest spelling of the target.
func (t Target) String() string {
	switch t {
	case TargetSite:
		return "site"
	case TargetScript:
		return "script"
	default:
		return "lib"
	}
}

// ParseTarget parses a manifest target value.
func ParseTarget(s string) (Target, error) {
	switch s {
	case "lib", "":
		return TargetLib, nil
	case "site":
		return TargetSite, nil
	case "script":
		return TargetScript, nil
	default:
		return TargetLib, zerr.With(ErrConfigInvalid, "target", s)
	}
}

// IsLib reports whether the target is a library.
func (t Target) IsLib() bool { return t == TargetLib }

// IsSite reports whether the target is a site.
func (t Target) IsSite() bool { return t == TargetSite }

// WorkspaceConfig holds workspace-level settings from the workspace manifest.
type WorkspaceConfig struct {
	// Version is the orchestrator version the workspace was created with.
	Version string

	// Monorepo is true if the workspace has a packages/ directory; otherwise
	// the root itself is the single package.
	Monorepo bool
}

// PackageConfig holds per-package settings from the manifest that are not
// structural (structural settings become graph edges).
type PackageConfig struct {
	// NoServer disables the dev server for sites in watch mode.
	NoServer bool
}

// Package is one buildable unit within a workspace. Packages are created
// once at workspace load and shared by reference; they are never mutated
// afterwards.
type Package struct {
	// Name is the package name from the manifest.
	Name InternedString

	// Root is the absolute path of the package directory.
	Root string

	// Target is the kind of artifact the package produces.
	Target Target

	// DepNames are the names of workspace packages this package depends on,
	// as declared in the manifest. Resolved into edges by BuildPackageGraph.
	DepNames []InternedString

	// Config holds the remaining manifest settings.
	Config PackageConfig

	// Index is the stable position of the package in the workspace load
	// order. It is used as the node identity in the package graph.
	Index int
}
