package fingerprint

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestTreeDeterministic(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.py", "print('a')\n")
	writeFile(t, dir, "sub/b.py", "print('b')\n")

	first, err := Tree([]string{dir}, nil)
	require.NoError(t, err)
	second, err := Tree([]string{dir}, nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
}

func TestTreeChangesWithContent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.py", "print('a')\n")

	before, err := Tree([]string{dir}, nil)
	require.NoError(t, err)

	writeFile(t, dir, "a.py", "print('changed')\n")
	after, err := Tree([]string{dir}, nil)
	require.NoError(t, err)

	assert.NotEqual(t, before, after)
}

func TestTreeIgnoresMtime(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.py", "print('a')\n")

	before, err := Tree([]string{dir}, nil)
	require.NoError(t, err)

	// Touching the file without changing content must not change the hash.
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, later, later))

	after, err := Tree([]string{dir}, nil)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestTreeSkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.py", "print('a')\n")
	writeFile(t, dir, "build/out.pyc", "compiled")
	skip := []string{filepath.Join(dir, "build")}

	withBuild, err := Tree([]string{dir}, nil)
	require.NoError(t, err)
	skipped, err := Tree([]string{dir}, skip)
	require.NoError(t, err)

	assert.NotEqual(t, withBuild, skipped)

	// Removing the skipped dir entirely leaves the skipped hash unchanged.
	require.NoError(t, os.RemoveAll(filepath.Join(dir, "build")))
	again, err := Tree([]string{dir}, skip)
	require.NoError(t, err)
	assert.Equal(t, skipped, again)
}

func TestTreeSkipMatchesExactPathOnly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "src/build/extra.py", "A = 1\n")
	skip := []string{filepath.Join(dir, "build")}

	before, err := Tree([]string{dir}, skip)
	require.NoError(t, err)

	// A nested directory sharing the skipped name is still hashed.
	writeFile(t, dir, "src/build/extra.py", "A = 2\n")
	after, err := Tree([]string{dir}, skip)
	require.NoError(t, err)
	assert.NotEqual(t, before, after)
}

func TestTreeMissingRootTolerated(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.py", "x")

	got, err := Tree([]string{dir, filepath.Join(dir, "does-not-exist")}, nil)
	require.NoError(t, err)
	only, err := Tree([]string{dir}, nil)
	require.NoError(t, err)
	assert.Equal(t, only, got)
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.po", "msgid \"hello\"\nmsgstr \"hallo\"\n")

	sum, err := File(path)
	require.NoError(t, err)
	assert.Len(t, sum, 64)

	_, err = File(filepath.Join(dir, "missing"))
	require.Error(t, err)
}
