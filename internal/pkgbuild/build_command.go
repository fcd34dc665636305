package pkgbuild

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/pkgforge/internal/errors"
	"git.home.luguber.info/inful/pkgforge/internal/fingerprint"
	"git.home.luguber.info/inful/pkgforge/internal/logfields"
	"git.home.luguber.info/inful/pkgforge/internal/phase"
	"git.home.luguber.info/inful/pkgforge/internal/state"
)

// BuildCommand runs the application build and the catalog sub-build, guarded
// by the build marker. A marker recording the current input fingerprint makes
// the phase a no-op; the marker is written only after every delegated step
// succeeded, so a failed build always re-runs fully.
type BuildCommand struct {
	phase.BaseCommand
}

// NewBuildCommand creates the build phase.
func NewBuildCommand() *BuildCommand {
	return &BuildCommand{
		BaseCommand: phase.NewBaseCommand(phase.Metadata{
			Name:        PhaseBuild,
			Description: "Build the application and compile message catalogs",
		}),
	}
}

// Execute runs the build phase.
func (c *BuildCommand) Execute(ctx context.Context, bs *phase.BuildState) phase.Execution {
	c.LogPhaseStart()

	inputs, err := buildInputs(bs)
	if err != nil {
		err = errors.PhaseFailed(string(PhaseBuild), err)
		c.LogPhaseFailure(err)
		return phase.Failure(err)
	}

	fp, err := fingerprint.Tree(inputs, skipDirs(bs))
	if err != nil {
		err = errors.PhaseFailed(string(PhaseBuild), err)
		c.LogPhaseFailure(err)
		return phase.Failure(err)
	}
	bs.Fingerprint = fp

	current, err := bs.Marker.IsCurrent(fp)
	if err != nil {
		err = errors.PhaseFailed(string(PhaseBuild), err)
		c.LogPhaseFailure(err)
		return phase.Failure(err)
	}
	if current {
		c.LogPhaseSkipped()
		return phase.Skip()
	}

	if err := newBuilder(bs).Build(ctx); err != nil {
		c.LogPhaseFailure(err)
		return phase.Failure(err)
	}

	if err := newCompiler(bs).All(false); err != nil {
		c.LogPhaseFailure(err)
		return phase.Failure(err)
	}

	rec := &state.BuildRecord{
		RunID:       bs.RunID,
		Fingerprint: fp,
		CompletedAt: time.Now(),
	}
	if err := bs.Marker.Save(rec); err != nil {
		err = errors.PhaseFailed(string(PhaseBuild), err)
		c.LogPhaseFailure(err)
		return phase.Failure(err)
	}

	slog.Debug("Build marker written", logfields.Fingerprint(fp), logfields.Path(bs.Marker.Path()))
	c.LogPhaseSuccess()
	return phase.Success()
}
