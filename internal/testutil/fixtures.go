package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// UnisonDir is a temporary unison directory populated by tests.
type UnisonDir struct {
	t   testing.TB
	Dir string
}

// NewUnisonDir creates an empty unison directory under t.TempDir().
func NewUnisonDir(t testing.TB) *UnisonDir {
	t.Helper()

	dir := filepath.Join(t.TempDir(), ".unison")
	CreateTestDirectory(t, dir)
	return &UnisonDir{t: t, Dir: dir}
}

// Path returns the absolute path of name inside the directory.
func (u *UnisonDir) Path(name string) string {
	return filepath.Join(u.Dir, name)
}

// WriteProfile writes <name>.prf and returns its path.
func (u *UnisonDir) WriteProfile(name, content string) string {
	u.t.Helper()

	path := u.Path(name + ".prf")
	WriteTestFile(u.t, path, content)
	return path
}

// WriteArtifact writes a state file with the given content and modification time.
func (u *UnisonDir) WriteArtifact(name string, data []byte, modTime time.Time) string {
	u.t.Helper()

	path := u.Path(name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		u.t.Fatalf("failed to create artifact %s: %v", path, err)
	}
	SetModTime(u.t, path, modTime)
	return path
}

// SetModTime sets both access and modification time of path.
func SetModTime(t testing.TB, path string, modTime time.Time) {
	t.Helper()

	if err := os.Chtimes(path, modTime, modTime); err != nil {
		t.Fatalf("failed to set times on %s: %v", path, err)
	}
}

// ValidProfile returns minimal well-formed profile content for two roots.
func ValidProfile(source, destination string, extra ...string) string {
	lines := []string{
		"# test profile",
		"root = " + source,
		"root = " + destination,
		"auto = true",
		"batch = true",
		"ignore = Name .DS_Store",
		"ignore = Name .git",
		"ignore = Name node_modules",
		"ignore = Name *.tmp",
		"ignore = Name .Trash*",
	}
	lines = append(lines, extra...)
	return strings.Join(lines, "\n") + "\n"
}

// ArchiveBytes returns n bytes shaped like a Unison archive: a short text
// header followed by mixed binary content.
func ArchiveBytes(n int) []byte {
	header := []byte("Unison archive format 22\n")
	data := make([]byte, n)
	copy(data, header)
	for i := len(header); i < n; i++ {
		// mostly non-null with a sprinkling of control bytes
		data[i] = byte(1 + (i*31)%250)
	}
	return data
}

// HexName returns a Unison-style state file name such as "ar0123abcd...".
func HexName(prefix string, seed int) string {
	return fmt.Sprintf("%s%032x", prefix, seed)
}

// CreateTestDirectory creates a directory and any missing parents.
func CreateTestDirectory(t testing.TB, dirPath string) {
	t.Helper()

	if err := os.MkdirAll(dirPath, 0o750); err != nil {
		t.Fatalf("failed to create directory %s: %v", dirPath, err)
	}
}

// WriteTestFile creates a single test file with custom content, creating parents.
func WriteTestFile(t testing.TB, filePath, content string) {
	t.Helper()

	CreateTestDirectory(t, filepath.Dir(filePath))
	if err := os.WriteFile(filePath, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to create test file %s: %v", filePath, err)
	}
}
