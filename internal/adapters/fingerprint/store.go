// Package fingerprint implements the content-fingerprint cache that decides
// whether an execution unit may be skipped.
package fingerprint

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"go.trai.ch/zerr"
)

// Filename is the store location relative to the workspace root.
const Filename = ".otto/fingerprints.json"

// Entry is the persisted fingerprint for one (command, package) key.
type Entry struct {
	// Digest is the combined hash over the sorted (path, content-hash) pairs
	// of the input files.
	Digest string `json:"digest"`

	// Files is the sorted list of input paths the digest was computed over.
	// A changed path set invalidates the entry even if the digest happens to
	// collide.
	Files []string `json:"files"`
}

// Store implements ports.FingerprintStore using a flat JSON file under the
// workspace root. Concurrent writers are serialized; many execution units
// share one store.
type Store struct {
	path    string
	mu      sync.Mutex
	entries map[string]Entry
}

// Open loads the store persisted under the given workspace root. A missing
// file is a cold start; an unreadable or corrupt file is recovered by
// treating the cache as cold. Open never fails.
func Open(root string) *Store {
	s := &Store{
		path:    filepath.Join(root, Filename),
		entries: make(map[string]Entry),
	}
	s.load()
	return s
}

func (s *Store) load() {
	data, err := os.ReadFile(s.path) //nolint:gosec // Path is derived from the workspace root
	if err != nil || len(data) == 0 {
		return
	}
	if err := json.Unmarshal(data, &s.entries); err != nil {
		// Corrupt store: start cold rather than failing the run.
		s.entries = make(map[string]Entry)
	}
}

func (s *Store) save() error {
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal fingerprint store")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return zerr.Wrap(err, "failed to create fingerprint store directory")
	}

	//nolint:gosec // Path is derived from the workspace root
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return zerr.Wrap(err, "failed to write fingerprint store")
	}

	return nil
}

// Check reports whether the stored digest for key matches the current content
// and path set of files. A file that can no longer be read counts as a
// mismatch, not an error.
func (s *Store) Check(key string, files []string) bool {
	s.mu.Lock()
	entry, ok := s.entries[key]
	s.mu.Unlock()
	if !ok {
		return false
	}

	current, sorted, err := digest(files)
	if err != nil {
		return false
	}

	return current == entry.Digest && slices.Equal(sorted, entry.Files)
}

// Record recomputes and persists the digest for key. The whole store is
// written back so a crash never leaves a partially updated file behind a
// stale in-memory view.
func (s *Store) Record(key string, files []string) error {
	d, sorted, err := digest(files)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to fingerprint inputs"), "key", key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = Entry{Digest: d, Files: sorted}
	return s.save()
}
