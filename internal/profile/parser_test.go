package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleProfile = `# generated
root = /Users/me/SyncHub
root = /Users/me/Google Drive/SyncHub

auto = true
batch = true
prefer = newer

ignore = Name .DS_Store
ignore = Name node_modules
ignore = Regex .*#scratch
include common
`

func TestParse(t *testing.T) {
	doc, err := Parse("work", []byte(sampleProfile))
	require.NoError(t, err)

	assert.Equal(t, "work", doc.Name)
	assert.Equal(t, []string{"/Users/me/SyncHub", "/Users/me/Google Drive/SyncHub"}, doc.Roots)
	assert.Equal(t, "/Users/me/SyncHub", doc.Source())
	assert.Equal(t, "/Users/me/Google Drive/SyncHub", doc.Destination())
	assert.Equal(t, []string{"Name .DS_Store", "Name node_modules", "Regex .*#scratch"}, doc.Ignores)
	assert.Equal(t, []string{"common"}, doc.Includes)
	assert.Equal(t, "newer", doc.Option("prefer"))
	assert.Equal(t, "true", doc.Option("auto"))
	assert.Empty(t, doc.Option("missing"))
	assert.Empty(t, doc.Unknown)
}

func TestParseCollectsUnknownLines(t *testing.T) {
	content := "root = /a\n3f2a9c0d1e2b3c4d5e6f708192a3b4c5d6e7f8091a2b\nfrobnicate = yes\n[section]\n"

	doc, err := Parse("broken", []byte(content))
	require.NoError(t, err)

	assert.Equal(t, []string{"/a"}, doc.Roots)
	assert.Contains(t, doc.Unknown, "3f2a9c0d1e2b3c4d5e6f708192a3b4c5d6e7f8091a2b")
	assert.Contains(t, doc.Unknown, "frobnicate")
	assert.Contains(t, doc.Unknown, "[section]")
}

func TestParseEmpty(t *testing.T) {
	doc, err := Parse("empty", nil)
	require.NoError(t, err)
	assert.Empty(t, doc.Roots)
	assert.Empty(t, doc.Source())
	assert.Empty(t, doc.Destination())
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "work.prf")
	require.NoError(t, os.WriteFile(path, []byte(sampleProfile), 0o600))

	doc, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "work", doc.Name)
	assert.Equal(t, path, doc.Path)
	assert.Len(t, doc.Roots, 2)

	_, err = ParseFile(filepath.Join(dir, "missing.prf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file operation failed")
}
