package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAppendAndRecent(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	base := time.Now().Truncate(time.Second)

	require.NoError(t, store.Append(ctx, Record{
		RunID:       "run-1",
		Phase:       "build",
		Status:      "success",
		Fingerprint: "abc123",
		Duration:    1500 * time.Millisecond,
		StartedAt:   base,
	}))
	require.NoError(t, store.Append(ctx, Record{
		RunID:     "run-2",
		Phase:     "install",
		Status:    "failed",
		Error:     "staging path escapes root",
		Duration:  20 * time.Millisecond,
		StartedAt: base.Add(time.Minute),
	}))

	records, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest first.
	require.Equal(t, "run-2", records[0].RunID)
	require.Equal(t, "failed", records[0].Status)
	require.Equal(t, "staging path escapes root", records[0].Error)

	require.Equal(t, "run-1", records[1].RunID)
	require.Equal(t, "abc123", records[1].Fingerprint)
	require.Equal(t, 1500*time.Millisecond, records[1].Duration)
	require.Equal(t, base.Unix(), records[1].StartedAt.Unix())
}

func TestRecentLimit(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Append(ctx, Record{
			RunID:     "run",
			Phase:     "build",
			Status:    "success",
			StartedAt: time.Now(),
		}))
	}

	records, err := store.Recent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, records, 3)
}

func TestRecentEmpty(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer store.Close()

	records, err := store.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Empty(t, records)
}
