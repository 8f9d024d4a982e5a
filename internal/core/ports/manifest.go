package ports

import "go.trai.ch/otto/internal/core/domain"

// ManifestLoader discovers a workspace on disk and loads its manifests.
//
//go:generate go run go.uber.org/mock/mockgen -source=manifest.go -destination=mocks/mock_manifest.go -package=mocks
type ManifestLoader interface {
	// FindRoot walks up from cwd to the nearest directory containing a
	// workspace manifest.
	FindRoot(cwd string) (string, error)

	// Load reads the workspace manifest and every package manifest under
	// root, returning the packages in a stable load order.
	Load(root string) ([]*domain.Package, domain.WorkspaceConfig, error)
}
