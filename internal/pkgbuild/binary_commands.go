package pkgbuild

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/pkgforge/internal/archive"
	"git.home.luguber.info/inful/pkgforge/internal/logfields"
	"git.home.luguber.info/inful/pkgforge/internal/phase"
)

// BinaryIndepCommand runs the architecture-independent packaging helpers over
// each completed staging tree in fixed order: changelog installation, doc
// compression, permission normalization, checksum generation, archive
// assembly. Order matters; assembly assumes the earlier steps completed.
type BinaryIndepCommand struct {
	phase.BaseCommand
}

// NewBinaryIndepCommand creates the binary-indep phase.
func NewBinaryIndepCommand() *BinaryIndepCommand {
	return &BinaryIndepCommand{
		BaseCommand: phase.NewBaseCommand(phase.Metadata{
			Name:         PhaseBinaryIndep,
			Description:  "Assemble architecture-independent package archives",
			Dependencies: []phase.Name{PhaseBuild, PhaseInstall},
		}),
	}
}

// Execute runs the binary-indep phase.
func (c *BinaryIndepCommand) Execute(ctx context.Context, bs *phase.BuildState) phase.Execution {
	c.LogPhaseStart()
	cfg := bs.Config

	asm := &archive.Assembler{
		Dir:              bs.WorkDir,
		Runner:           bs.Runner,
		AssembleCommand:  cfg.Archive.AssembleCommand,
		CompressExcludes: cfg.Archive.CompressExcludes,
	}
	outDir := absPath(bs.WorkDir, cfg.Archive.OutputDir)
	changelog := absPath(bs.WorkDir, cfg.Archive.Changelog)

	type target struct {
		root string
		pkg  string
	}
	targets := []target{{absPath(bs.WorkDir, cfg.Staging.Root), cfg.Package.Name}}
	if cfg.Staging.DocRoot != "" && cfg.Package.DocName != "" {
		targets = append(targets, target{absPath(bs.WorkDir, cfg.Staging.DocRoot), cfg.Package.DocName})
	}

	for _, t := range targets {
		slog.Info("Packaging", logfields.Package(t.pkg), logfields.Root(t.root))
		if err := asm.InstallChangelog(t.root, t.pkg, changelog); err != nil {
			c.LogPhaseFailure(err)
			return phase.Failure(err)
		}
		if err := asm.CompressDocs(t.root, t.pkg); err != nil {
			c.LogPhaseFailure(err)
			return phase.Failure(err)
		}
		if err := asm.NormalizePermissions(t.root); err != nil {
			c.LogPhaseFailure(err)
			return phase.Failure(err)
		}
		if err := asm.WriteChecksums(t.root); err != nil {
			c.LogPhaseFailure(err)
			return phase.Failure(err)
		}
		if err := asm.Assemble(ctx, t.root, outDir, t.pkg); err != nil {
			c.LogPhaseFailure(err)
			return phase.Failure(err)
		}
	}

	c.LogPhaseSuccess()
	return phase.Success()
}

// BinaryArchCommand is the architecture-dependent packaging phase. The project
// ships no architecture-specific artifacts, so the phase performs no work, but
// it still depends on build and install so the staging trees exist for
// downstream tooling that inspects them.
type BinaryArchCommand struct {
	phase.BaseCommand
}

// NewBinaryArchCommand creates the binary-arch phase.
func NewBinaryArchCommand() *BinaryArchCommand {
	return &BinaryArchCommand{
		BaseCommand: phase.NewBaseCommand(phase.Metadata{
			Name:         PhaseBinaryArch,
			Description:  "Architecture-dependent packaging (nothing declared)",
			Dependencies: []phase.Name{PhaseBuild, PhaseInstall},
		}),
	}
}

// Execute runs the binary-arch phase.
func (c *BinaryArchCommand) Execute(ctx context.Context, bs *phase.BuildState) phase.Execution {
	c.LogPhaseStart()
	slog.Info("No architecture-dependent packaging declared", logfields.Phase(string(PhaseBinaryArch)))
	return phase.Skip()
}

// BinaryCommand is pure composition: binary-indep followed by binary-arch.
type BinaryCommand struct {
	phase.BaseCommand
}

// NewBinaryCommand creates the binary phase.
func NewBinaryCommand() *BinaryCommand {
	return &BinaryCommand{
		BaseCommand: phase.NewBaseCommand(phase.Metadata{
			Name:         PhaseBinary,
			Description:  "Produce all package archives",
			Dependencies: []phase.Name{PhaseBinaryIndep, PhaseBinaryArch},
		}),
	}
}

// Execute runs the binary phase. All work happens in its dependencies.
func (c *BinaryCommand) Execute(ctx context.Context, bs *phase.BuildState) phase.Execution {
	c.LogPhaseStart()
	c.LogPhaseSuccess()
	return phase.Success()
}
