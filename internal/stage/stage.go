// Package stage manages staging trees: directory hierarchies mirroring the
// absolute install paths of the final package. Every write goes through Join,
// which enforces that no install path can escape the tree root.
package stage

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/pkgforge/internal/config"
	"git.home.luguber.info/inful/pkgforge/internal/errors"
	"git.home.luguber.info/inful/pkgforge/internal/logfields"
)

// Tree is one staging root. Multiple independent trees exist per build (one
// per output package); they never share paths.
type Tree struct {
	root string
}

// NewTree returns a staging tree rooted at root. The directory is created on
// first use, not here.
func NewTree(root string) *Tree {
	return &Tree{root: root}
}

// Root returns the tree's root path.
func (t *Tree) Root() string {
	return t.root
}

// Join resolves a target path inside the tree. Targets are written in the
// package's absolute install convention ("/usr/share/..." or "usr/share/...");
// both resolve relative to the root. A target that would land outside the
// root is an error, never a silent write.
func (t *Tree) Join(target string) (string, error) {
	rel := strings.TrimPrefix(filepath.ToSlash(target), "/")
	if rel == "" || !filepath.IsLocal(filepath.FromSlash(rel)) {
		return "", errors.StagingEscape(t.root, target)
	}
	return filepath.Join(t.root, filepath.FromSlash(rel)), nil
}

// Prepare creates directories inside the tree.
func (t *Tree) Prepare(dirs ...string) error {
	for _, dir := range dirs {
		path, err := t.Join(dir)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return errors.StagingFailed("prepare "+dir, err)
		}
	}
	return nil
}

// InstallFile copies one file into a directory inside the tree.
func (t *Tree) InstallFile(src, destDir string, mode os.FileMode) error {
	if mode == 0 {
		mode = 0o644
	}
	dir, err := t.Join(destDir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.StagingFailed("install "+src, err)
	}

	in, err := os.Open(src)
	if err != nil {
		return errors.StagingFailed("install "+src, err)
	}
	defer in.Close()

	dst := filepath.Join(dir, filepath.Base(src))
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return errors.StagingFailed("install "+src, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return errors.StagingFailed("install "+src, err)
	}
	return nil
}

// InstallFiles runs the declarative static-file installer.
func (t *Tree) InstallFiles(files []config.InstallFile) error {
	for _, f := range files {
		if err := t.InstallFile(f.Src, f.Dest, os.FileMode(f.Mode)); err != nil {
			return err
		}
		slog.Debug("Installed static file", logfields.Path(f.Src), logfields.Root(t.root))
	}
	return nil
}

// Link creates a symlink inside the tree. The link target is stored verbatim
// (it names a path on the installed system, not in the staging tree).
func (t *Tree) Link(target, name string) error {
	path, err := t.Join(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.StagingFailed("link "+name, err)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.StagingFailed("link "+name, err)
	}
	if err := os.Symlink(target, path); err != nil {
		return errors.StagingFailed("link "+name, err)
	}
	return nil
}

// Links creates every declared symlink.
func (t *Tree) Links(links []config.Link) error {
	for _, l := range links {
		if err := t.Link(l.Target, l.Name); err != nil {
			return err
		}
	}
	return nil
}

// Remove deletes the whole tree. A tree that never existed is success.
func (t *Tree) Remove() error {
	if err := os.RemoveAll(t.root); err != nil {
		return fmt.Errorf("remove staging tree %s: %w", t.root, err)
	}
	return nil
}
