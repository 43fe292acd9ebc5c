package preview

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/go-syncguard/internal/config"
	appErrors "github.com/mrz1836/go-syncguard/internal/errors"
	"github.com/mrz1836/go-syncguard/internal/testutil"
)

func setup(t *testing.T, ignores ...string) (*config.Config, string) {
	t.Helper()

	source := filepath.Join(t.TempDir(), "SyncHub")
	files := map[string]string{
		"notes.md":                    "hello",
		"project/main.go":             "package main",
		"project/.git/HEAD":           "ref: refs/heads/main",
		"project/node_modules/x/y.js": "x",
		"build/out/app.bin":           "binary",
		"report.tmp":                  "scratch",
		".DS_Store":                   "meta",
	}
	for rel, content := range files {
		testutil.WriteTestFile(t, filepath.Join(source, filepath.FromSlash(rel)), content)
	}

	u := testutil.NewUnisonDir(t)
	lines := []string{"root = " + source, "root = /dst/Dropbox/SyncHub"}
	for _, ignore := range ignores {
		lines = append(lines, "ignore = "+ignore)
	}
	content := ""
	for _, line := range lines {
		content += line + "\n"
	}
	u.WriteProfile("work", content)

	cfg := config.Default()
	cfg.UnisonDir = u.Dir
	return cfg, source
}

func byPath(result *Result) map[string]IgnoredFile {
	out := make(map[string]IgnoredFile)
	for _, f := range result.FilesToIgnore {
		out[f.Path] = f
	}
	return out
}

func TestPreview(t *testing.T) {
	cfg, source := setup(t,
		"Name .DS_Store",
		"Name .git",
		"Name *.tmp",
		"Path project/node_modules",
		"Regex build",
	)

	result, err := NewPreviewer(cfg).Preview(context.Background(), "work")
	require.NoError(t, err)

	assert.Equal(t, source, result.SourceRoot)
	assert.Equal(t, 7, result.Statistics.TotalFiles)
	assert.Equal(t, 2, result.Statistics.FilesToSync)
	assert.Equal(t, 5, result.Statistics.FilesToIgnore)
	assert.Equal(t, 5, result.Statistics.Patterns)
	assert.False(t, result.Truncated)

	synced := []string{}
	for _, f := range result.FilesToSync {
		synced = append(synced, f.Path)
	}
	assert.ElementsMatch(t, []string{"notes.md", "project/main.go"}, synced)

	ignored := byPath(result)
	assert.Equal(t, "Name .git", ignored["project/.git/HEAD"].Pattern)
	assert.Equal(t, 1, ignored["project/.git/HEAD"].PatternIndex)
	assert.Equal(t, "Path project/node_modules", ignored["project/node_modules/x/y.js"].Pattern)
	assert.Equal(t, "Name *.tmp", ignored["report.tmp"].Pattern)

	// the regex only matches the directory itself; its files inherit it
	build := ignored["build/out/app.bin"]
	assert.Equal(t, "Regex build", build.Pattern)
	assert.Equal(t, "build", build.Via)
}

func TestPreview_HiddenToSync(t *testing.T) {
	cfg, _ := setup(t, "Name *.tmp", "Regex build")

	result, err := NewPreviewer(cfg).Preview(context.Background(), "work")
	require.NoError(t, err)

	// .DS_Store and project/.git/HEAD
	assert.Equal(t, 2, result.Statistics.HiddenToSync)
	assert.Equal(t, 5, result.Statistics.FilesToSync)
}

func TestPreview_FirstPatternWins(t *testing.T) {
	cfg, _ := setup(t, "Name *.tmp", "Regex .*\\.tmp")

	result, err := NewPreviewer(cfg).Preview(context.Background(), "work")
	require.NoError(t, err)

	assert.Equal(t, "Name *.tmp", byPath(result)["report.tmp"].Pattern)
	assert.Equal(t, 1, result.Statistics.PatternHits["Name *.tmp"])
	assert.Zero(t, result.Statistics.PatternHits["Regex .*\\.tmp"])
}

func TestPreview_InvalidPatternsAreReported(t *testing.T) {
	cfg, _ := setup(t, "Regex (", "Bogus x", "Name .DS_Store")

	result, err := NewPreviewer(cfg).Preview(context.Background(), "work")
	require.NoError(t, err)

	assert.Len(t, result.Statistics.InvalidPatterns, 2)
	assert.Equal(t, 1, result.Statistics.Patterns)
	assert.Equal(t, 2, byPath(result)[".DS_Store"].PatternIndex)
}

func TestPreview_Truncated(t *testing.T) {
	cfg, _ := setup(t)

	result, err := NewPreviewer(cfg, WithMaxListed(3)).Preview(context.Background(), "work")
	require.NoError(t, err)

	assert.True(t, result.Truncated)
	assert.Len(t, result.FilesToSync, 3)
	assert.Equal(t, 7, result.Statistics.FilesToSync)
}

func TestPreview_Errors(t *testing.T) {
	cfg, source := setup(t)

	_, err := NewPreviewer(cfg).Preview(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.KindGenericConfigurationError, appErrors.KindOf(err))

	testutil.WriteTestFile(t, filepath.Join(cfg.UnisonDir, "gone.prf"), "root = "+filepath.Join(source, "nope")+"\nroot = /x\n")
	_, err = NewPreviewer(cfg).Preview(context.Background(), "gone")
	require.Error(t, err)
	assert.Equal(t, appErrors.KindDirectoryAccessError, appErrors.KindOf(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewPreviewer(cfg).Preview(ctx, "work")
	require.ErrorIs(t, err, context.Canceled)
}
