package journal

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournal_RecordAndList(t *testing.T) {
	ctx := context.Background()
	j := TestJournal(t)

	entries := []*Entry{
		{Kind: KindBackup, Action: "backed_up", Profile: "work", ArtifactPath: "/u/work.prf", BackupPath: "/u/backups/work.prf.backup.x", Verified: true, Success: true},
		{Kind: KindRecovery, Action: "regenerated", Profile: "work", ArtifactPath: "/u/work.prf", Success: true},
		{Kind: KindRecovery, Action: "would_remove", ArtifactPath: "/u/ar01", DryRun: true, Success: true},
	}
	for _, e := range entries {
		require.NoError(t, j.Record(ctx, e))
		assert.NotZero(t, e.ID)
		assert.False(t, e.CreatedAt.IsZero())
	}

	all, err := j.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "would_remove", all[0].Action, "newest first")

	work, err := j.List(ctx, Filter{Profile: "work"})
	require.NoError(t, err)
	assert.Len(t, work, 2)

	backups, err := j.List(ctx, Filter{Kind: KindBackup})
	require.NoError(t, err)
	require.Len(t, backups, 1)
	assert.True(t, backups[0].Verified)

	limited, err := j.List(ctx, Filter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	count, err := j.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestJournal_AppendOnly(t *testing.T) {
	ctx := context.Background()
	j := TestJournal(t)

	entry := &Entry{Kind: KindRecovery, Action: "removed", ArtifactPath: "/u/ar01", Success: true}
	require.NoError(t, j.Record(ctx, entry))

	entry.Success = false
	require.ErrorIs(t, j.db.Save(entry).Error, ErrAppendOnly)
	require.ErrorIs(t, j.db.Delete(entry).Error, ErrAppendOnly)

	stored, err := j.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.True(t, stored[0].Success)
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "journal.db")
	j, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, j.Record(context.Background(), &Entry{Kind: KindBackup, Action: "backed_up"}))
	require.NoError(t, j.Close())
	assert.FileExists(t, path)

	_, err = Open("")
	require.ErrorIs(t, err, ErrEmptyPath)
}

func TestNop(t *testing.T) {
	var r Recorder = Nop{}
	require.NoError(t, r.Record(context.Background(), &Entry{}))
}
