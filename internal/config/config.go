// Package config loads and validates the pkgforge configuration file.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the full pkgforge configuration
type Config struct {
	Package PackageConfig `yaml:"package"`
	Source  SourceConfig  `yaml:"source"`
	I18n    I18nConfig    `yaml:"i18n"`
	Build   BuildConfig   `yaml:"build"`
	Staging StagingConfig `yaml:"staging"`
	Docs    DocsConfig    `yaml:"docs"`
	Archive ArchiveConfig `yaml:"archive"`
	App     AppConfig     `yaml:"app"`
	Watch   WatchConfig   `yaml:"watch"`
}

// PackageConfig identifies the packages being produced
type PackageConfig struct {
	Name       string `yaml:"name"`
	DocName    string `yaml:"doc_name,omitempty"`
	Version    string `yaml:"version,omitempty"` // discovered from git tags when empty
	Maintainer string `yaml:"maintainer,omitempty"`
	Contact    string `yaml:"contact,omitempty"` // bug-report address for catalog headers
}

// SourceConfig describes the application source tree
type SourceConfig struct {
	Dir        string   `yaml:"dir"`
	Language   string   `yaml:"language,omitempty"`   // declared, not inferred
	Extensions []string `yaml:"extensions,omitempty"` // files considered for extraction
	Markers    []string `yaml:"markers,omitempty"`    // translation marker function names
}

// I18nConfig describes catalog layout and conventions
type I18nConfig struct {
	Domain     string `yaml:"domain"`
	PoDir      string `yaml:"po_dir,omitempty"`
	LocaleRoot string `yaml:"locale_root,omitempty"` // default /usr/share/locale
	WrapWidth  int    `yaml:"wrap_width,omitempty"`
}

// BuildConfig holds build output and state locations
type BuildConfig struct {
	OutputDir string `yaml:"output_dir,omitempty"`
	StateDir  string `yaml:"state_dir,omitempty"` // marker record + history live here
}

// InstallFile is one entry of the declarative static-file installer
type InstallFile struct {
	Src  string `yaml:"src"`
	Dest string `yaml:"dest"` // directory relative to the staging root
	Mode uint32 `yaml:"mode,omitempty"`
}

// Link declares a symlink to create under the staging root
type Link struct {
	Target string `yaml:"target"`
	Name   string `yaml:"name"` // relative to the staging root
}

// StagingConfig describes the staging trees
type StagingConfig struct {
	Root         string        `yaml:"root"`
	DocRoot      string        `yaml:"doc_root,omitempty"`
	InstallFiles []InstallFile `yaml:"install_files,omitempty"`
	Links        []Link        `yaml:"links,omitempty"`
}

// DocsConfig describes documentation generation
type DocsConfig struct {
	SourcePaths      []string `yaml:"source_paths,omitempty"`
	HTMLDir          string   `yaml:"html_dir,omitempty"` // relative to the doc staging root
	PaginatedDir     string   `yaml:"paginated_dir,omitempty"`
	PaginatedCommand []string `yaml:"paginated_command,omitempty"` // external generator, {out} substituted
}

// ArchiveConfig describes final archive assembly
type ArchiveConfig struct {
	OutputDir        string   `yaml:"output_dir,omitempty"`
	Changelog        string   `yaml:"changelog,omitempty"` // upstream changelog file, missing tolerated
	AssembleCommand  []string `yaml:"assemble_command,omitempty"` // {root} and {out} substituted
	CompressExcludes []string `yaml:"compress_excludes,omitempty"`
}

// AppConfig holds the external application builder command contracts
type AppConfig struct {
	BuildCommand   []string `yaml:"build_command,omitempty"`
	InstallCommand []string `yaml:"install_command,omitempty"` // {root} substituted
}

// WatchConfig configures the watch daemon
type WatchConfig struct {
	Paths           []string `yaml:"paths,omitempty"`
	DebounceMS      int      `yaml:"debounce_ms,omitempty"`
	RebuildInterval string   `yaml:"rebuild_interval,omitempty"` // periodic full rebuild, e.g. "1h"
	MetricsAddr     string   `yaml:"metrics_addr,omitempty"`
}

// Load loads configuration from the specified file
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	if err := loadEnvFile(); err != nil {
		// Don't fail if .env doesn't exist, just log it
		fmt.Fprintf(os.Stderr, "Note: .env file not found or couldn't be loaded: %v\n", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func loadEnvFile() error {
	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		return err
	}
	return godotenv.Load()
}

func (c *Config) applyDefaults() {
	if c.Source.Dir == "" {
		c.Source.Dir = "."
	}
	if c.Source.Language == "" {
		c.Source.Language = "python"
	}
	if len(c.Source.Extensions) == 0 {
		c.Source.Extensions = []string{".py"}
	}
	if len(c.Source.Markers) == 0 {
		c.Source.Markers = []string{"_", "__"}
	}
	if c.I18n.PoDir == "" {
		c.I18n.PoDir = "po"
	}
	if c.I18n.LocaleRoot == "" {
		c.I18n.LocaleRoot = "/usr/share/locale"
	}
	if c.I18n.WrapWidth == 0 {
		c.I18n.WrapWidth = 76
	}
	if c.Build.OutputDir == "" {
		c.Build.OutputDir = "build"
	}
	if c.Build.StateDir == "" {
		c.Build.StateDir = ".pkgforge"
	}
	if c.Staging.Root == "" {
		c.Staging.Root = "debian/" + c.Package.Name
	}
	if c.Staging.DocRoot == "" && c.Package.DocName != "" {
		c.Staging.DocRoot = "debian/" + c.Package.DocName
	}
	if c.Docs.HTMLDir == "" && c.Package.DocName != "" {
		c.Docs.HTMLDir = "usr/share/doc/" + c.Package.DocName + "/html"
	}
	if c.Archive.OutputDir == "" {
		c.Archive.OutputDir = "dist"
	}
	if c.Watch.DebounceMS == 0 {
		c.Watch.DebounceMS = 500
	}
	if c.Watch.MetricsAddr == "" {
		c.Watch.MetricsAddr = ":9637"
	}
}

// Validate checks the configuration for required fields and consistency
func (c *Config) Validate() error {
	if c.Package.Name == "" {
		return fmt.Errorf("package.name is required")
	}
	if c.I18n.Domain == "" {
		return fmt.Errorf("i18n.domain is required")
	}
	if strings.ContainsAny(c.I18n.Domain, "/\\") {
		return fmt.Errorf("i18n.domain must not contain path separators: %q", c.I18n.Domain)
	}
	for i, f := range c.Staging.InstallFiles {
		if f.Src == "" || f.Dest == "" {
			return fmt.Errorf("staging.install_files[%d]: src and dest are required", i)
		}
	}
	for i, l := range c.Staging.Links {
		if l.Target == "" || l.Name == "" {
			return fmt.Errorf("staging.links[%d]: target and name are required", i)
		}
	}
	return nil
}
