package strutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, home, ExpandHome("~"))
	assert.Equal(t, filepath.Join(home, "SyncHub"), ExpandHome("~/SyncHub"))
	assert.Equal(t, "/abs/path", ExpandHome("/abs/path"))
	assert.Equal(t, "~other/x", ExpandHome("~other/x"))
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace", "   ", ""},
		{"trailing slash", "/Users/alice/SyncHub/", "/Users/alice/SyncHub"},
		{"dot segments", "/Users/alice/./SyncHub/../SyncHub", "/Users/alice/SyncHub"},
		{"double slash", "/Users//alice", "/Users/alice"},
		{"root", "/", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePath(tt.in))
		})
	}
}

func TestHasPathTraversal(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/Users/alice/SyncHub", false},
		{"/Users/alice/../bob", true},
		{"docs/a.txt", false},
		{"../etc", true},
		{"..", true},
		{"a/../../b", true},
		{"a/../b", false},
		{"..hidden/file", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, HasPathTraversal(tt.path))
		})
	}
}

func TestIsDescendant(t *testing.T) {
	assert.True(t, IsDescendant("/a/b/c", "/a/b"))
	assert.True(t, IsDescendant("/a/b", "/"))
	assert.False(t, IsDescendant("/a/b", "/a/b"))
	assert.False(t, IsDescendant("/a", "/a/b"))
	assert.False(t, IsDescendant("/a/bc", "/a/b"))
}

func TestSplitPath(t *testing.T) {
	assert.Nil(t, SplitPath(""))
	assert.Nil(t, SplitPath("/"))
	assert.Equal(t, []string{"a", "b", "c.txt"}, SplitPath("a/b/c.txt"))
	assert.Equal(t, []string{"Users", "alice"}, SplitPath("/Users/alice/"))
}

func TestIsRemotePath(t *testing.T) {
	assert.True(t, IsRemotePath("ssh://host//home/me"))
	assert.True(t, IsRemotePath("socket://host:5000/dir"))
	assert.False(t, IsRemotePath("/home/me/Documents"))
	assert.False(t, IsRemotePath("~/SyncHub"))
}

func TestIsHiddenFile(t *testing.T) {
	assert.True(t, IsHiddenFile("/x/.DS_Store"))
	assert.False(t, IsHiddenFile("/x/file.txt"))
	assert.False(t, IsHiddenFile(".."))
}
