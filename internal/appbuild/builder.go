// Package appbuild drives the external application builder. The application's
// own build system is a black box reached through two command contracts: a
// parameterless build and an install accepting a staging-root override.
package appbuild

import (
	"context"

	"git.home.luguber.info/inful/pkgforge/internal/errors"
	"git.home.luguber.info/inful/pkgforge/internal/run"
)

// Builder invokes the application's build and install procedures.
type Builder struct {
	Dir            string
	Runner         run.Runner
	BuildCommand   []string
	InstallCommand []string // {root} is substituted with the staging root
}

// Build produces the application's build artifacts in its conventional
// build-output directory.
func (b *Builder) Build(ctx context.Context) error {
	if len(b.BuildCommand) == 0 {
		return errors.ConfigRequired("app.build_command")
	}
	if err := b.Runner.Run(ctx, b.Dir, b.BuildCommand...); err != nil {
		return errors.CommandFailed(b.BuildCommand[0], err)
	}
	return nil
}

// Install copies the build artifacts into the staging tree rooted at root.
func (b *Builder) Install(ctx context.Context, root string) error {
	if len(b.InstallCommand) == 0 {
		return errors.ConfigRequired("app.install_command")
	}
	argv := run.Substitute(b.InstallCommand, map[string]string{"root": root})
	if err := b.Runner.Run(ctx, b.Dir, argv...); err != nil {
		return errors.CommandFailed(argv[0], err)
	}
	return nil
}
