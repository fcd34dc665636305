package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAbsentReturnsNil(t *testing.T) {
	s := NewStore(t.TempDir())
	rec, err := s.Load()
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := NewStore(t.TempDir())
	want := &BuildRecord{
		RunID:       "run-1",
		Fingerprint: "abc123",
		CompletedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, s.Save(want))

	got, err := s.Load()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.RunID, got.RunID)
	assert.Equal(t, want.Fingerprint, got.Fingerprint)
	assert.True(t, want.CompletedAt.Equal(got.CompletedAt))
}

func TestIsCurrent(t *testing.T) {
	s := NewStore(t.TempDir())

	current, err := s.IsCurrent("abc")
	require.NoError(t, err)
	assert.False(t, current, "no record means not current")

	require.NoError(t, s.Save(&BuildRecord{RunID: "r", Fingerprint: "abc", CompletedAt: time.Now()}))

	current, err = s.IsCurrent("abc")
	require.NoError(t, err)
	assert.True(t, current)

	current, err = s.IsCurrent("other")
	require.NoError(t, err)
	assert.False(t, current, "changed fingerprint must force a rebuild")
}

func TestClearIdempotent(t *testing.T) {
	s := NewStore(t.TempDir())

	// Clearing with no record present is success.
	require.NoError(t, s.Clear())

	require.NoError(t, s.Save(&BuildRecord{RunID: "r", Fingerprint: "x", CompletedAt: time.Now()}))
	require.NoError(t, s.Clear())

	rec, err := s.Load()
	require.NoError(t, err)
	assert.Nil(t, rec)

	require.NoError(t, s.Clear())
}
