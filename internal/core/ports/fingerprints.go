package ports

// FingerprintStore decides whether an execution unit may be skipped based on
// a content digest over its declared input files.
//
//go:generate go run go.uber.org/mock/mockgen -source=fingerprints.go -destination=mocks/mock_fingerprints.go -package=mocks
type FingerprintStore interface {
	// Check reports whether the stored digest for key matches the current
	// content and path set of files. Any added, removed or modified file
	// makes Check return false.
	Check(key string, files []string) bool

	// Record recomputes and persists the digest for key. It is called only
	// after the owning unit succeeded.
	Record(key string, files []string) error
}

// FingerprintOpener opens the fingerprint store persisted under a workspace
// root. A missing or unreadable store is a cold start, not an error.
type FingerprintOpener interface {
	Open(root string) FingerprintStore
}
