package profile

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	appErrors "github.com/mrz1836/go-syncguard/internal/errors"
)

// Path returns the profile file path for name inside dir.
func Path(dir, name string) string {
	return filepath.Join(dir, name+Extension)
}

// NameFromPath returns the profile name of a .prf path.
func NameFromPath(path string) string {
	return strings.TrimSuffix(filepath.Base(path), Extension)
}

// List returns the names of all profiles in dir, sorted. A missing dir yields
// an empty list.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, appErrors.DirectoryReadError(dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), Extension) {
			continue
		}
		names = append(names, NameFromPath(entry.Name()))
	}
	sort.Strings(names)
	return names, nil
}

// Exists reports whether the named profile exists in dir.
func Exists(dir, name string) bool {
	info, err := os.Stat(Path(dir, name))
	return err == nil && !info.IsDir()
}
