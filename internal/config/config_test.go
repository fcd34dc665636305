package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pkgforge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
package:
  name: pb-dbhandler
i18n:
  domain: py_pb_dbhandler
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.Source.Dir)
	assert.Equal(t, "python", cfg.Source.Language)
	assert.Equal(t, []string{".py"}, cfg.Source.Extensions)
	assert.Equal(t, []string{"_", "__"}, cfg.Source.Markers)
	assert.Equal(t, "/usr/share/locale", cfg.I18n.LocaleRoot)
	assert.Equal(t, 76, cfg.I18n.WrapWidth)
	assert.Equal(t, "debian/pb-dbhandler", cfg.Staging.Root)
	assert.Equal(t, ".pkgforge", cfg.Build.StateDir)
}

func TestLoadDocDefaultsFollowDocName(t *testing.T) {
	path := writeConfig(t, `
package:
  name: pb-dbhandler
  doc_name: pb-dbhandler-doc
i18n:
  domain: py_pb_dbhandler
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debian/pb-dbhandler-doc", cfg.Staging.DocRoot)
	assert.Equal(t, "usr/share/doc/pb-dbhandler-doc/html", cfg.Docs.HTMLDir)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateRejectsMissingName(t *testing.T) {
	path := writeConfig(t, `
i18n:
  domain: py_pb_dbhandler
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "package.name")
}

func TestValidateRejectsPathyDomain(t *testing.T) {
	cfg := &Config{
		Package: PackageConfig{Name: "p"},
		I18n:    I18nConfig{Domain: "a/b"},
	}
	require.Error(t, cfg.Validate())
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("PKG_NAME", "pb-dbhandler")
	path := writeConfig(t, `
package:
  name: ${PKG_NAME}
i18n:
  domain: py_pb_dbhandler
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "pb-dbhandler", cfg.Package.Name)
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pkgforge.yaml")
	require.NoError(t, WriteDefault(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "pb-dbhandler", cfg.Package.Name)
	assert.Equal(t, "py_pb_dbhandler", cfg.I18n.Domain)

	// Second write without force refuses to clobber.
	require.Error(t, WriteDefault(path, false))
	require.NoError(t, WriteDefault(path, true))
}
