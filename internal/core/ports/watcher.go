package ports

import "context"

// Watcher observes a set of files for changes.
//
//go:generate go run go.uber.org/mock/mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks
type Watcher interface {
	// Watch blocks until ctx is done, invoking onChange for each debounced
	// change among paths.
	Watch(ctx context.Context, paths []string, onChange func(path string)) error
}
