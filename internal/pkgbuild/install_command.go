package pkgbuild

import (
	"context"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/pkgforge/internal/config"
	"git.home.luguber.info/inful/pkgforge/internal/docgen"
	"git.home.luguber.info/inful/pkgforge/internal/errors"
	"git.home.luguber.info/inful/pkgforge/internal/phase"
	"git.home.luguber.info/inful/pkgforge/internal/stage"
)

// InstallCommand populates the staging trees: declared static files, the
// application's own install procedure, compiled locale catalogs, rendered
// documentation and declared links. Every write goes through a staging tree,
// never to the real system root.
type InstallCommand struct {
	phase.BaseCommand
}

// NewInstallCommand creates the install phase.
func NewInstallCommand() *InstallCommand {
	return &InstallCommand{
		BaseCommand: phase.NewBaseCommand(phase.Metadata{
			Name:         PhaseInstall,
			Description:  "Populate the staging trees from build artifacts",
			Dependencies: []phase.Name{PhaseBuild},
		}),
	}
}

// Execute runs the install phase.
func (c *InstallCommand) Execute(ctx context.Context, bs *phase.BuildState) phase.Execution {
	c.LogPhaseStart()
	cfg := bs.Config

	mainTree := stage.NewTree(absPath(bs.WorkDir, cfg.Staging.Root))
	var docTree *stage.Tree
	if cfg.Staging.DocRoot != "" {
		docTree = stage.NewTree(absPath(bs.WorkDir, cfg.Staging.DocRoot))
	}

	for _, t := range []*stage.Tree{mainTree, docTree} {
		if t == nil {
			continue
		}
		if err := os.MkdirAll(t.Root(), 0o755); err != nil {
			err = errors.StagingFailed("prepare staging root", err)
			c.LogPhaseFailure(err)
			return phase.Failure(err)
		}
	}

	files := make([]config.InstallFile, len(cfg.Staging.InstallFiles))
	for i, f := range cfg.Staging.InstallFiles {
		f.Src = absPath(bs.WorkDir, f.Src)
		files[i] = f
	}
	if err := mainTree.InstallFiles(files); err != nil {
		c.LogPhaseFailure(err)
		return phase.Failure(err)
	}

	if err := newBuilder(bs).Install(ctx, mainTree.Root()); err != nil {
		c.LogPhaseFailure(err)
		return phase.Failure(err)
	}

	localeDest, err := mainTree.Join(cfg.I18n.LocaleRoot)
	if err != nil {
		c.LogPhaseFailure(err)
		return phase.Failure(err)
	}
	compiler := newCompiler(bs)
	if err := compiler.Install(localeDest); err != nil {
		c.LogPhaseFailure(err)
		return phase.Failure(err)
	}
	locales, err := compiler.Locales()
	if err != nil {
		c.LogPhaseFailure(err)
		return phase.Failure(err)
	}
	for _, locale := range locales {
		bs.Recorder().IncCatalogCompiled(locale)
	}

	if docTree != nil {
		if err := c.generateDocs(ctx, bs, docTree); err != nil {
			c.LogPhaseFailure(err)
			return phase.Failure(err)
		}
	}

	if err := mainTree.Links(cfg.Staging.Links); err != nil {
		c.LogPhaseFailure(err)
		return phase.Failure(err)
	}

	staged, err := countFiles(mainTree.Root())
	if err != nil {
		c.LogPhaseFailure(err)
		return phase.Failure(err)
	}
	bs.Recorder().SetStagedFiles(staged)

	c.LogPhaseSuccess()
	return phase.Success()
}

// countFiles counts the regular files and links staged under root.
func countFiles(root string) (int, error) {
	n := 0
	err := filepath.WalkDir(root, func(_ string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			n++
		}
		return nil
	})
	return n, err
}

func (c *InstallCommand) generateDocs(ctx context.Context, bs *phase.BuildState, docTree *stage.Tree) error {
	cfg := bs.Config

	sources := make([]string, len(cfg.Docs.SourcePaths))
	for i, p := range cfg.Docs.SourcePaths {
		sources[i] = absPath(bs.WorkDir, p)
	}
	gen := &docgen.Generator{
		Dir:              bs.WorkDir,
		SourcePaths:      sources,
		Runner:           bs.Runner,
		PaginatedCommand: cfg.Docs.PaginatedCommand,
	}

	if cfg.Docs.HTMLDir != "" {
		out, err := docTree.Join(cfg.Docs.HTMLDir)
		if err != nil {
			return err
		}
		if err := gen.GenerateHTML(out); err != nil {
			return err
		}
	}
	if cfg.Docs.PaginatedDir != "" {
		out, err := docTree.Join(cfg.Docs.PaginatedDir)
		if err != nil {
			return err
		}
		if err := gen.GeneratePaginated(ctx, out); err != nil {
			return err
		}
	}
	return nil
}
