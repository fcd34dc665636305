// Package pkgbuild provides the concrete pipeline phases: build, clean,
// install, binary-indep, binary-arch and binary. Each phase is a command
// registered with the phase engine; dependencies between phases are declared,
// not imperative, so any phase is safe to invoke standalone.
package pkgbuild

import (
	"path/filepath"

	"git.home.luguber.info/inful/pkgforge/internal/appbuild"
	"git.home.luguber.info/inful/pkgforge/internal/catalog"
	"git.home.luguber.info/inful/pkgforge/internal/phase"
)

// Phase names.
const (
	PhaseBuild       phase.Name = "build"
	PhaseClean       phase.Name = "clean"
	PhaseInstall     phase.Name = "install"
	PhaseBinaryIndep phase.Name = "binary-indep"
	PhaseBinaryArch  phase.Name = "binary-arch"
	PhaseBinary      phase.Name = "binary"
)

// NewRegistry returns a registry with every pipeline phase registered.
func NewRegistry() *phase.Registry {
	reg := phase.NewRegistry()
	reg.Register(NewBuildCommand())
	reg.Register(NewCleanCommand())
	reg.Register(NewInstallCommand())
	reg.Register(NewBinaryIndepCommand())
	reg.Register(NewBinaryArchCommand())
	reg.Register(NewBinaryCommand())
	return reg
}

// absPath resolves a config-relative path against the working directory.
func absPath(workDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(workDir, path)
}

func newCompiler(bs *phase.BuildState) *catalog.Compiler {
	return &catalog.Compiler{
		PoDir:  absPath(bs.WorkDir, bs.Config.I18n.PoDir),
		Domain: bs.Config.I18n.Domain,
	}
}

func newBuilder(bs *phase.BuildState) *appbuild.Builder {
	return &appbuild.Builder{
		Dir:            bs.WorkDir,
		Runner:         bs.Runner,
		BuildCommand:   bs.Config.App.BuildCommand,
		InstallCommand: bs.Config.App.InstallCommand,
	}
}

// buildInputs lists the inputs whose contents decide whether a build is
// stale: the source tree plus each source-form catalog. Catalogs are listed
// as individual files because compiled artifacts land in the same directory
// and must not feed back into the staleness decision.
func buildInputs(bs *phase.BuildState) ([]string, error) {
	cfg := bs.Config
	inputs := []string{absPath(bs.WorkDir, cfg.Source.Dir)}

	locales, err := newCompiler(bs).Locales()
	if err != nil {
		return nil, err
	}
	poDir := absPath(bs.WorkDir, cfg.I18n.PoDir)
	for _, locale := range locales {
		inputs = append(inputs, filepath.Join(poDir, locale+".po"))
	}
	return inputs, nil
}

// skipDirs resolves the directories pruned from fingerprinting: build outputs
// and state must never feed back into the staleness decision. Only the
// configured directories themselves are pruned; a source subdirectory that
// happens to share a name stays fingerprinted.
func skipDirs(bs *phase.BuildState) []string {
	cfg := bs.Config
	skip := []string{
		absPath(bs.WorkDir, ".git"),
		absPath(bs.WorkDir, cfg.Build.StateDir),
		absPath(bs.WorkDir, cfg.Build.OutputDir),
		absPath(bs.WorkDir, cfg.Archive.OutputDir),
		absPath(bs.WorkDir, cfg.I18n.PoDir),
	}
	if cfg.Staging.Root != "" {
		skip = append(skip, absPath(bs.WorkDir, cfg.Staging.Root))
	}
	if cfg.Staging.DocRoot != "" {
		skip = append(skip, absPath(bs.WorkDir, cfg.Staging.DocRoot))
	}
	return skip
}
