package strutil

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}

// NormalizePath expands "~", makes the path absolute and cleans it.
// Symlinks are not resolved so comparisons stay lexical.
func NormalizePath(path string) string {
	if IsEmpty(path) {
		return ""
	}

	expanded := ExpandHome(strings.TrimSpace(path))
	if abs, err := filepath.Abs(expanded); err == nil {
		expanded = abs
	}
	return filepath.Clean(expanded)
}

// IsRemotePath reports whether path is a unison remote root such as ssh://host/dir.
func IsRemotePath(path string) bool {
	return strings.Contains(path, "://")
}

// IsAbsolutePath checks if a path is absolute.
func IsAbsolutePath(path string) bool {
	return filepath.IsAbs(path)
}

// HasPathTraversal checks if a path contains path traversal attempts.
// A path is considered to have traversal if:
// - For absolute paths: any ".." component exists (even if it doesn't escape root)
// - For relative paths: it escapes upward from its starting point
func HasPathTraversal(path string) bool {
	normalizedPath := filepath.ToSlash(path)

	if strings.HasPrefix(normalizedPath, "/") {
		for _, part := range strings.Split(normalizedPath, "/") {
			if part == ".." {
				return true
			}
		}
		return false
	}

	cleanPath := filepath.ToSlash(filepath.Clean(path))
	if cleanPath == ".." || strings.HasPrefix(cleanPath, "../") {
		return true
	}

	for _, part := range strings.Split(cleanPath, "/") {
		if part == ".." {
			return true
		}
	}
	return false
}

// IsDescendant reports whether path lies strictly below ancestor.
// Both arguments must already be normalized.
func IsDescendant(path, ancestor string) bool {
	if path == ancestor {
		return false
	}
	rel, err := filepath.Rel(ancestor, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, "../")
}

// IsHiddenFile checks if a file or directory is hidden (starts with dot).
func IsHiddenFile(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") && base != "." && base != ".."
}

// ToUnixPath converts a path to Unix-style forward slashes.
func ToUnixPath(path string) string {
	return filepath.ToSlash(path)
}

// SplitPath splits a path into its directory components.
// Returns nil for empty paths or paths with no components (e.g., "/").
func SplitPath(path string) []string {
	if IsEmpty(path) {
		return nil
	}

	parts := strings.Split(ToUnixPath(filepath.Clean(path)), "/")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" && part != "." {
			result = append(result, part)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
