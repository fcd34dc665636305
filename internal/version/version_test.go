package version

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plumbingHash(t *testing.T, s string) plumbing.Hash {
	t.Helper()
	h := plumbing.NewHash(s)
	require.False(t, h.IsZero())
	return h
}

func TestResolveConfiguredWins(t *testing.T) {
	got, err := Resolve(t.TempDir(), "0.3.1")
	require.NoError(t, err)
	assert.Equal(t, "0.3.1", got)
}

func TestResolveNoRepositoryFallsBack(t *testing.T) {
	got, err := Resolve(t.TempDir(), "")
	require.NoError(t, err)
	assert.Equal(t, Fallback, got)
}

func TestResolveFromTag(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	wt, err := repo.Worktree()
	require.NoError(t, err)

	commit := func(name, content string, when time.Time) string {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
		_, err := wt.Add(name)
		require.NoError(t, err)
		hash, err := wt.Commit("add "+name, &git.CommitOptions{
			Author:    &object.Signature{Name: "test", Email: "t@example.com", When: when},
			Committer: &object.Signature{Name: "test", Email: "t@example.com", When: when},
		})
		require.NoError(t, err)
		return hash.String()
	}

	base := time.Date(2013, 1, 1, 0, 0, 0, 0, time.UTC)
	first := commit("a.py", "pass\n", base)
	second := commit("b.py", "pass\n", base.Add(time.Hour))

	_, err = repo.CreateTag("v0.3.0", plumbingHash(t, first), nil)
	require.NoError(t, err)
	_, err = repo.CreateTag("v0.3.1", plumbingHash(t, second), nil)
	require.NoError(t, err)

	got, err := Resolve(dir, "")
	require.NoError(t, err)
	assert.Equal(t, "0.3.1", got, "the newest tag wins and the v prefix is stripped")
}

func TestResolveRepoWithoutTags(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	got, err := Resolve(dir, "")
	require.NoError(t, err)
	assert.Equal(t, Fallback, got)
}
