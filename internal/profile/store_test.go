package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathAndName(t *testing.T) {
	assert.Equal(t, filepath.Join("/u", "work.prf"), Path("/u", "work"))
	assert.Equal(t, "work", NameFromPath("/u/work.prf"))
	assert.Equal(t, "default", NameFromPath("default.prf"))
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"zeta.prf", "alpha.prf", "ar123", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "dir.prf"), 0o750))

	names, err := List(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta"}, names)

	assert.True(t, Exists(dir, "alpha"))
	assert.False(t, Exists(dir, "dir"))
	assert.False(t, Exists(dir, "missing"))
}

func TestListMissingDirectory(t *testing.T) {
	names, err := List(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, names)
}
