package fingerprint

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"
)

// fileHash computes the XXHash of a file's content.
func fileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open input file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to hash input file"), "path", path)
	}

	return hasher.Sum64(), nil
}

// digest combines the content hashes of the given files into a single hex
// digest. Files are hashed as sorted (path, content-hash) pairs so the result
// is independent of enumeration order.
func digest(files []string) (string, []string, error) {
	sorted := slices.Clone(files)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	hasher := xxhash.New()
	for _, path := range sorted {
		h, err := fileHash(path)
		if err != nil {
			return "", nil, err
		}
		_, _ = hasher.WriteString(path)
		_, _ = hasher.Write([]byte{0})
		if err := binary.Write(hasher, binary.LittleEndian, h); err != nil {
			return "", nil, zerr.Wrap(err, "failed to write hash to digest")
		}
	}

	return fmt.Sprintf("%016x", hasher.Sum64()), sorted, nil
}
