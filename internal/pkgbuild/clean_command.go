package pkgbuild

import (
	"context"
	"os"

	"git.home.luguber.info/inful/pkgforge/internal/errors"
	"git.home.luguber.info/inful/pkgforge/internal/phase"
	"git.home.luguber.info/inful/pkgforge/internal/stage"
)

// CleanCommand removes the build marker, build outputs, compiled catalogs and
// staging trees. Every removal tolerates the target being absent, so clean is
// safe on a tree that never built.
type CleanCommand struct {
	phase.BaseCommand
}

// NewCleanCommand creates the clean phase.
func NewCleanCommand() *CleanCommand {
	return &CleanCommand{
		BaseCommand: phase.NewBaseCommand(phase.Metadata{
			Name:        PhaseClean,
			Description: "Remove build marker, build outputs, compiled catalogs and staging trees",
		}),
	}
}

// Execute runs the clean phase.
func (c *CleanCommand) Execute(ctx context.Context, bs *phase.BuildState) phase.Execution {
	c.LogPhaseStart()
	cfg := bs.Config

	if err := bs.Marker.Clear(); err != nil {
		err = errors.PhaseFailed(string(PhaseClean), err)
		c.LogPhaseFailure(err)
		return phase.Failure(err)
	}

	if err := os.RemoveAll(absPath(bs.WorkDir, cfg.Build.OutputDir)); err != nil {
		err = errors.PhaseFailed(string(PhaseClean), err)
		c.LogPhaseFailure(err)
		return phase.Failure(err)
	}

	if err := newCompiler(bs).Clean(); err != nil {
		c.LogPhaseFailure(err)
		return phase.Failure(err)
	}

	roots := []string{cfg.Staging.Root}
	if cfg.Staging.DocRoot != "" {
		roots = append(roots, cfg.Staging.DocRoot)
	}
	for _, root := range roots {
		if root == "" {
			continue
		}
		if err := stage.NewTree(absPath(bs.WorkDir, root)).Remove(); err != nil {
			c.LogPhaseFailure(err)
			return phase.Failure(err)
		}
	}

	c.LogPhaseSuccess()
	return phase.Success()
}
