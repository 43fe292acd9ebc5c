package testutil

import (
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

// Snapshot returns a digest of every path, mode, and byte under dir. Two
// equal snapshots mean the tree was not touched.
func Snapshot(t testing.TB, dir string) string {
	t.Helper()

	h := sha256.New()
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}

		_, _ = h.Write([]byte(rel))
		_, _ = h.Write([]byte(info.Mode().String()))
		if d.Type().IsRegular() {
			data, err := os.ReadFile(path) //#nosec G304 -- test fixture paths
			if err != nil {
				return err
			}
			_, _ = h.Write(data)
			_, _ = h.Write([]byte(info.ModTime().UTC().String()))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("failed to snapshot %s: %v", dir, err)
	}
	return hex.EncodeToString(h.Sum(nil))
}
