package catalog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/language"

	"git.home.luguber.info/inful/pkgforge/internal/errors"
	"git.home.luguber.info/inful/pkgforge/internal/logfields"
)

// Compiler is the catalog sub-build. It turns source-form locale catalogs
// under PoDir into compiled form and stages them in the conventional
// <locale>/LC_MESSAGES/<domain>.mo layout.
type Compiler struct {
	PoDir  string
	Domain string
}

// Locales enumerates the locale catalogs present in source form, sorted.
// Locale codes are validated so a typoed catalog name fails loudly instead of
// producing an uninstallable directory.
func (c *Compiler) Locales() ([]string, error) {
	entries, err := os.ReadDir(c.PoDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read po directory: %w", err)
	}

	var locales []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".po") {
			continue
		}
		locale := strings.TrimSuffix(e.Name(), ".po")
		if _, err := language.Parse(strings.ReplaceAll(locale, "_", "-")); err != nil {
			return nil, errors.CatalogCompileFailed(locale, fmt.Errorf("invalid locale code: %w", err))
		}
		locales = append(locales, locale)
	}
	sort.Strings(locales)
	return locales, nil
}

// poPath and moPath name the source and compiled forms of one locale.
func (c *Compiler) poPath(locale string) string { return filepath.Join(c.PoDir, locale+".po") }
func (c *Compiler) moPath(locale string) string { return filepath.Join(c.PoDir, locale+".mo") }

// stagedPath names the staged copy under the locale subdirectory structure.
func (c *Compiler) stagedPath(locale string) string {
	return filepath.Join(c.PoDir, locale, "LC_MESSAGES", c.Domain+".mo")
}

// All ensures every locale's compiled form is current and staged. A compiled
// catalog is regenerated when it is absent or older than its source, or when
// force is set. A malformed source catalog is fatal.
func (c *Compiler) All(force bool) error {
	locales, err := c.Locales()
	if err != nil {
		return err
	}

	for _, locale := range locales {
		recompiled, err := c.ensureCompiled(locale, force)
		if err != nil {
			return err
		}
		if err := c.stage(locale, recompiled); err != nil {
			return err
		}
	}
	return nil
}

// ensureCompiled reports whether the compiled form was regenerated.
func (c *Compiler) ensureCompiled(locale string, force bool) (bool, error) {
	src := c.poPath(locale)
	dst := c.moPath(locale)

	if !force {
		srcInfo, err := os.Stat(src)
		if err != nil {
			return false, errors.CatalogCompileFailed(locale, err)
		}
		dstInfo, err := os.Stat(dst)
		if err == nil && !dstInfo.ModTime().Before(srcInfo.ModTime()) {
			return false, nil
		}
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return false, errors.CatalogCompileFailed(locale, err)
	}
	po, err := ParsePO(data)
	if err != nil {
		return false, errors.CatalogMalformed(src, err)
	}

	if err := os.WriteFile(dst, CompileMO(po), 0o644); err != nil {
		return false, errors.CatalogCompileFailed(locale, err)
	}

	slog.Info("Compiled locale catalog",
		logfields.Locale(locale),
		logfields.Domain(c.Domain),
		slog.Int("messages", len(po.Entries)))
	return true, nil
}

// stage copies the compiled form into <locale>/LC_MESSAGES/<domain>.mo,
// creating the directory on demand.
func (c *Compiler) stage(locale string, recompiled bool) error {
	staged := c.stagedPath(locale)
	if !recompiled {
		if _, err := os.Stat(staged); err == nil {
			return nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(staged), 0o755); err != nil {
		return errors.CatalogCompileFailed(locale, err)
	}
	data, err := os.ReadFile(c.moPath(locale))
	if err != nil {
		return errors.CatalogCompileFailed(locale, err)
	}
	if err := os.WriteFile(staged, data, 0o644); err != nil {
		return errors.CatalogCompileFailed(locale, err)
	}
	return nil
}

// Clean removes every locale output subdirectory actually present and every
// compiled-form file. Missing files are not an error.
func (c *Compiler) Clean() error {
	entries, err := os.ReadDir(c.PoDir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read po directory: %w", err)
	}

	for _, e := range entries {
		name := e.Name()
		switch {
		case e.IsDir():
			if err := os.RemoveAll(filepath.Join(c.PoDir, name)); err != nil {
				return fmt.Errorf("remove locale output %s: %w", name, err)
			}
		case strings.HasSuffix(name, ".mo"):
			if err := os.Remove(filepath.Join(c.PoDir, name)); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("remove compiled catalog %s: %w", name, err)
			}
		}
	}
	return nil
}

// Install ensures everything is compiled, then copies each locale output
// subdirectory under the destination locale-root, creating it on demand. The
// caller always passes the staging-tree locale root during a package build;
// the real system root is only the default for direct invocations.
func (c *Compiler) Install(localeRoot string) error {
	if err := c.All(false); err != nil {
		return err
	}

	locales, err := c.Locales()
	if err != nil {
		return err
	}

	for _, locale := range locales {
		src := filepath.Join(c.PoDir, locale)
		if _, err := os.Stat(src); os.IsNotExist(err) {
			continue
		}
		dst := filepath.Join(localeRoot, locale)
		if err := copyTree(src, dst); err != nil {
			return errors.StagingFailed("install locale "+locale, err)
		}
		slog.Info("Installed locale catalog", logfields.Locale(locale), logfields.Root(localeRoot))
	}
	return nil
}

// copyTree recursively copies a directory, creating destinations on demand.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644)
	})
}
