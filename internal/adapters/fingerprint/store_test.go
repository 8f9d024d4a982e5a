package fingerprint_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/otto/internal/adapters/fingerprint"
)

func writeFile(t *testing.T, root, name, content string) string {
	t.Helper()
	path := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestStore_ColdStart(t *testing.T) {
	root := t.TempDir()
	file := writeFile(t, root, "a.ts", "export {}")

	store := fingerprint.Open(root)
	assert.False(t, store.Check("build-app", []string{file}))
}

func TestStore_RecordThenCheck(t *testing.T) {
	root := t.TempDir()
	file := writeFile(t, root, "a.ts", "export {}")

	store := fingerprint.Open(root)
	require.NoError(t, store.Record("build-app", []string{file}))

	assert.True(t, store.Check("build-app", []string{file}))
	assert.False(t, store.Check("build-other", []string{file}), "keys are independent")
}

func TestStore_ContentChangeInvalidates(t *testing.T) {
	root := t.TempDir()
	file := writeFile(t, root, "a.ts", "export {}")

	store := fingerprint.Open(root)
	require.NoError(t, store.Record("build-app", []string{file}))

	writeFile(t, root, "a.ts", "export const x = 1")
	assert.False(t, store.Check("build-app", []string{file}))
}

func TestStore_FileSetChangeInvalidates(t *testing.T) {
	root := t.TempDir()
	a := writeFile(t, root, "a.ts", "a")
	b := writeFile(t, root, "b.ts", "b")

	store := fingerprint.Open(root)
	require.NoError(t, store.Record("build-app", []string{a, b}))

	assert.False(t, store.Check("build-app", []string{a}), "removed file")
	c := writeFile(t, root, "c.ts", "c")
	assert.False(t, store.Check("build-app", []string{a, b, c}), "added file")
	assert.True(t, store.Check("build-app", []string{b, a}), "order does not matter")
}

func TestStore_UnreadableFileIsMiss(t *testing.T) {
	root := t.TempDir()
	file := writeFile(t, root, "a.ts", "a")

	store := fingerprint.Open(root)
	require.NoError(t, store.Record("build-app", []string{file}))

	require.NoError(t, os.Remove(file))
	assert.False(t, store.Check("build-app", []string{file}))
}

func TestStore_PersistsAcrossOpens(t *testing.T) {
	root := t.TempDir()
	file := writeFile(t, root, "a.ts", "a")

	store := fingerprint.Open(root)
	require.NoError(t, store.Record("build-app", []string{file}))

	reopened := fingerprint.Open(root)
	assert.True(t, reopened.Check("build-app", []string{file}))
}

func TestStore_CorruptFileIsCold(t *testing.T) {
	root := t.TempDir()
	file := writeFile(t, root, "a.ts", "a")
	writeFile(t, root, fingerprint.Filename, "{not json")

	store := fingerprint.Open(root)
	assert.False(t, store.Check("build-app", []string{file}))

	// A corrupt store must still accept new entries.
	require.NoError(t, store.Record("build-app", []string{file}))
	assert.True(t, store.Check("build-app", []string{file}))
}

func TestStore_DuplicatePathsCollapse(t *testing.T) {
	root := t.TempDir()
	file := writeFile(t, root, "a.ts", "a")

	store := fingerprint.Open(root)
	require.NoError(t, store.Record("build-app", []string{file, file}))
	assert.True(t, store.Check("build-app", []string{file}))
}
