package testutil

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUnisonDir(t *testing.T) {
	u := NewUnisonDir(t)
	path := u.WriteProfile("work", ValidProfile("/a", "/b"))
	assert.FileExists(t, path)

	when := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	artifact := u.WriteArtifact(HexName("ar", 1), ArchiveBytes(256), when)
	info, err := os.Stat(artifact)
	require.NoError(t, err)
	assert.Equal(t, int64(256), info.Size())
	assert.True(t, info.ModTime().Equal(when))
	assert.Len(t, HexName("fp", 7), 34)
}

func TestSnapshot(t *testing.T) {
	u := NewUnisonDir(t)
	u.WriteProfile("work", "root = /a\n")

	before := Snapshot(t, u.Dir)
	assert.Equal(t, before, Snapshot(t, u.Dir))

	u.WriteProfile("work", "root = /b\n")
	assert.NotEqual(t, before, Snapshot(t, u.Dir))
}

func TestMockHelpers(t *testing.T) {
	require.NoError(t, ExtractError(mock.Arguments{nil}))
	require.Error(t, ExtractError(mock.Arguments{}))
	require.Error(t, ExtractError(mock.Arguments{"x"}))
}
