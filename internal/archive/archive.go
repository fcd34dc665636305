// Package archive implements the architecture-independent packaging helpers
// run after staging: documentation installation, compression, permission
// normalization, checksum manifests, and delegated archive assembly. The
// binary-indep phase sequences them in a fixed order; assembly assumes the
// earlier steps completed.
package archive

import (
	"compress/gzip"
	"context"
	"crypto/md5"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/pkgforge/internal/errors"
	"git.home.luguber.info/inful/pkgforge/internal/logfields"
	"git.home.luguber.info/inful/pkgforge/internal/run"
)

const metaDir = "DEBIAN"

// Assembler holds the shared knobs of the packaging helpers.
type Assembler struct {
	Dir              string
	Runner           run.Runner
	AssembleCommand  []string // packaging toolchain delegate, {root} and {out} substituted
	CompressExcludes []string // base names excluded from compression
}

// InstallChangelog copies the upstream changelog into the package's doc
// directory. A project without a changelog file is tolerated.
func (a *Assembler) InstallChangelog(root, pkgName, changelogPath string) error {
	if changelogPath == "" {
		return nil
	}
	data, err := os.ReadFile(changelogPath)
	if os.IsNotExist(err) {
		slog.Debug("No changelog present, skipping", logfields.Path(changelogPath))
		return nil
	}
	if err != nil {
		return errors.StagingFailed("install changelog", err)
	}

	docDir := filepath.Join(root, "usr", "share", "doc", pkgName)
	if err := os.MkdirAll(docDir, 0o755); err != nil {
		return errors.StagingFailed("install changelog", err)
	}
	return os.WriteFile(filepath.Join(docDir, "changelog"), data, 0o644)
}

// CompressDocs gzips the files under the package's doc directory, honoring
// the declared exclusions. Already-compressed files are left alone.
func (a *Assembler) CompressDocs(root, pkgName string) error {
	docDir := filepath.Join(root, "usr", "share", "doc", pkgName)
	if _, err := os.Stat(docDir); os.IsNotExist(err) {
		return nil
	}

	excluded := make(map[string]bool, len(a.CompressExcludes)+1)
	excluded["copyright"] = true
	for _, name := range a.CompressExcludes {
		excluded[name] = true
	}

	return filepath.WalkDir(docDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		name := d.Name()
		if excluded[name] || strings.HasSuffix(name, ".gz") || strings.HasSuffix(name, ".html") {
			return nil
		}
		return gzipFile(path)
	})
}

func gzipFile(path string) error {
	in, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("compress %s: %w", path, err)
	}

	out, err := os.Create(path + ".gz")
	if err != nil {
		return fmt.Errorf("compress %s: %w", path, err)
	}
	zw, err := gzip.NewWriterLevel(out, gzip.BestCompression)
	if err != nil {
		out.Close()
		return fmt.Errorf("compress %s: %w", path, err)
	}
	if _, err := zw.Write(in); err != nil {
		zw.Close()
		out.Close()
		return fmt.Errorf("compress %s: %w", path, err)
	}
	if err := zw.Close(); err != nil {
		out.Close()
		return fmt.Errorf("compress %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("compress %s: %w", path, err)
	}
	return os.Remove(path)
}

// NormalizePermissions fixes modes across the staging tree: directories 0755,
// regular files 0644, executables 0755.
func (a *Assembler) NormalizePermissions(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		if d.IsDir() {
			return os.Chmod(path, 0o755)
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		mode := os.FileMode(0o644)
		if info.Mode().Perm()&0o111 != 0 {
			mode = 0o755
		}
		return os.Chmod(path, mode)
	})
}

// WriteChecksums writes the md5 manifest over every staged file, relative to
// the root, sorted for reproducible output. The manifest itself and other
// control metadata are not part of the payload and are skipped.
func (a *Assembler) WriteChecksums(root string) error {
	type sum struct {
		digest string
		path   string
	}
	var sums []sum

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == metaDir {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		h := md5.New()
		if _, err := io.Copy(h, f); err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		sums = append(sums, sum{digest: fmt.Sprintf("%x", h.Sum(nil)), path: filepath.ToSlash(rel)})
		return nil
	})
	if err != nil {
		return errors.StagingFailed("checksums", err)
	}

	sort.Slice(sums, func(i, j int) bool { return sums[i].path < sums[j].path })

	var b strings.Builder
	for _, s := range sums {
		fmt.Fprintf(&b, "%s  %s\n", s.digest, s.path)
	}

	dir := filepath.Join(root, metaDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.StagingFailed("checksums", err)
	}
	return os.WriteFile(filepath.Join(dir, "md5sums"), []byte(b.String()), 0o644)
}

// Assemble delegates final archive assembly to the packaging toolchain. With
// no toolchain configured the step is skipped with a warning, leaving the
// completed staging tree as the build product.
func (a *Assembler) Assemble(ctx context.Context, root, outDir, pkgName string) error {
	if len(a.AssembleCommand) == 0 {
		slog.Warn("No archive assembly command configured, leaving staging tree as build product",
			logfields.Package(pkgName), logfields.Root(root))
		return nil
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return errors.ArchiveAssemblyFailed(pkgName, err)
	}

	argv := run.Substitute(a.AssembleCommand, map[string]string{"root": root, "out": outDir})
	if err := a.Runner.Run(ctx, a.Dir, argv...); err != nil {
		return errors.ArchiveAssemblyFailed(pkgName, err)
	}
	slog.Info("Assembled package archive", logfields.Package(pkgName), logfields.Path(outDir))
	return nil
}
