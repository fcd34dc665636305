package archive

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pkgforge/internal/run"
)

func stageFile(t *testing.T, root, rel, content string, mode os.FileMode) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), mode))
	return path
}

func TestInstallChangelog(t *testing.T) {
	src := filepath.Join(t.TempDir(), "changelog")
	require.NoError(t, os.WriteFile(src, []byte("0.3.1: fixes\n"), 0o644))

	root := t.TempDir()
	a := &Assembler{}
	require.NoError(t, a.InstallChangelog(root, "pb-dbhandler", src))

	data, err := os.ReadFile(filepath.Join(root, "usr", "share", "doc", "pb-dbhandler", "changelog"))
	require.NoError(t, err)
	assert.Equal(t, "0.3.1: fixes\n", string(data))
}

func TestInstallChangelogMissingTolerated(t *testing.T) {
	a := &Assembler{}
	require.NoError(t, a.InstallChangelog(t.TempDir(), "pb-dbhandler", filepath.Join(t.TempDir(), "nope")))
	require.NoError(t, a.InstallChangelog(t.TempDir(), "pb-dbhandler", ""))
}

func TestCompressDocs(t *testing.T) {
	root := t.TempDir()
	stageFile(t, root, "usr/share/doc/pb-dbhandler/changelog", "0.3.1: fixes\n", 0o644)
	stageFile(t, root, "usr/share/doc/pb-dbhandler/copyright", "LGPLv3+\n", 0o644)
	stageFile(t, root, "usr/share/doc/pb-dbhandler/html/index.html", "<html></html>", 0o644)
	stageFile(t, root, "usr/share/doc/pb-dbhandler/examples/demo.py", "pass\n", 0o644)

	a := &Assembler{CompressExcludes: []string{"demo.py"}}
	require.NoError(t, a.CompressDocs(root, "pb-dbhandler"))

	docDir := filepath.Join(root, "usr", "share", "doc", "pb-dbhandler")
	assert.NoFileExists(t, filepath.Join(docDir, "changelog"))
	require.FileExists(t, filepath.Join(docDir, "changelog.gz"))
	assert.FileExists(t, filepath.Join(docDir, "copyright"), "copyright is never compressed")
	assert.FileExists(t, filepath.Join(docDir, "html", "index.html"), "hypertext stays uncompressed")
	assert.FileExists(t, filepath.Join(docDir, "examples", "demo.py"), "declared exclusions are honored")

	// Compressed content round-trips.
	f, err := os.Open(filepath.Join(docDir, "changelog.gz"))
	require.NoError(t, err)
	defer f.Close()
	zr, err := gzip.NewReader(f)
	require.NoError(t, err)
	var buf bytes.Buffer
	_, err = io.Copy(&buf, zr)
	require.NoError(t, err)
	assert.Equal(t, "0.3.1: fixes\n", buf.String())
}

func TestCompressDocsIdempotent(t *testing.T) {
	root := t.TempDir()
	stageFile(t, root, "usr/share/doc/pb-dbhandler/changelog", "x\n", 0o644)

	a := &Assembler{}
	require.NoError(t, a.CompressDocs(root, "pb-dbhandler"))
	require.NoError(t, a.CompressDocs(root, "pb-dbhandler"))

	entries, err := os.ReadDir(filepath.Join(root, "usr", "share", "doc", "pb-dbhandler"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "changelog.gz", entries[0].Name())
}

func TestNormalizePermissions(t *testing.T) {
	root := t.TempDir()
	plain := stageFile(t, root, "usr/share/pb-dbhandler/handler.py", "pass\n", 0o600)
	script := stageFile(t, root, "usr/bin/pb-tool", "#!/usr/bin/python\n", 0o700)

	a := &Assembler{}
	require.NoError(t, a.NormalizePermissions(root))

	info, err := os.Stat(plain)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	info, err = os.Stat(script)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm(), "executables keep execute bits")

	info, err = os.Stat(filepath.Join(root, "usr", "bin"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func TestWriteChecksums(t *testing.T) {
	root := t.TempDir()
	stageFile(t, root, "usr/share/pb-dbhandler/b.py", "b\n", 0o644)
	stageFile(t, root, "usr/share/pb-dbhandler/a.py", "a\n", 0o644)

	a := &Assembler{}
	require.NoError(t, a.WriteChecksums(root))

	data, err := os.ReadFile(filepath.Join(root, "DEBIAN", "md5sums"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "usr/share/pb-dbhandler/a.py")
	assert.Contains(t, lines[1], "usr/share/pb-dbhandler/b.py")

	for _, line := range lines {
		digest, _, found := strings.Cut(line, "  ")
		require.True(t, found)
		assert.Len(t, digest, 32)
	}

	// Re-running must not checksum the manifest itself.
	require.NoError(t, a.WriteChecksums(root))
	data, err = os.ReadFile(filepath.Join(root, "DEBIAN", "md5sums"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "md5sums")
}

func TestAssembleDelegates(t *testing.T) {
	rec := run.NewRecorder()
	a := &Assembler{
		Runner:          rec,
		AssembleCommand: []string{"dpkg-deb", "--build", "{root}", "{out}"},
	}

	root := filepath.Join(t.TempDir(), "stage")
	out := filepath.Join(t.TempDir(), "dist")
	require.NoError(t, a.Assemble(context.Background(), root, out, "pb-dbhandler"))
	require.Len(t, rec.Calls(), 1)
	assert.Equal(t, []string{"dpkg-deb", "--build", root, out}, rec.Calls()[0])
}

func TestAssembleSkipsWhenUnconfigured(t *testing.T) {
	rec := run.NewRecorder()
	a := &Assembler{Runner: rec}
	require.NoError(t, a.Assemble(context.Background(), "/tmp/stage", "/tmp/dist", "pb-dbhandler"))
	assert.Empty(t, rec.Calls())
}
