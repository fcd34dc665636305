// Package phase provides the build phase engine: named phases declare their
// predecessors, execution resolves an explicit dependency graph in topological
// order, and a phase satisfied once in a run is not executed again.
package phase

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/pkgforge/internal/logfields"
)

// Name identifies a phase.
type Name string

// Execution is the outcome of running a single phase.
type Execution struct {
	Err      error
	Skipped  bool
	Duration time.Duration
}

// IsSuccess reports whether the phase completed (or was legitimately skipped).
func (e Execution) IsSuccess() bool {
	return e.Err == nil
}

// Success returns a successful execution result.
func Success() Execution {
	return Execution{}
}

// Skip returns a successful execution result for a phase that had nothing to do.
func Skip() Execution {
	return Execution{Skipped: true}
}

// Failure returns a failed execution result.
func Failure(err error) Execution {
	return Execution{Err: err}
}

// Command represents a single build phase that can be executed.
type Command interface {
	// Name returns the name of this phase
	Name() Name

	// Execute runs the phase with the given build state
	Execute(ctx context.Context, bs *BuildState) Execution

	// Description returns a human-readable description of what this phase does
	Description() string

	// Dependencies returns the names of phases that must complete successfully
	// before this phase
	Dependencies() []Name
}

// Metadata provides additional information about a command.
type Metadata struct {
	Name         Name
	Description  string
	Dependencies []Name
}

// BaseCommand provides a common implementation for phase commands.
type BaseCommand struct {
	metadata Metadata
}

// NewBaseCommand creates a new base command with the given metadata.
func NewBaseCommand(metadata Metadata) BaseCommand {
	return BaseCommand{metadata: metadata}
}

// Name returns the phase name.
func (c BaseCommand) Name() Name {
	return c.metadata.Name
}

// Description returns the phase description.
func (c BaseCommand) Description() string {
	return c.metadata.Description
}

// Dependencies returns the phase dependencies.
func (c BaseCommand) Dependencies() []Name {
	return c.metadata.Dependencies
}

// LogPhaseStart writes the phase-boundary banner.
func (c BaseCommand) LogPhaseStart() {
	slog.Info("=== Phase starting ===", logfields.Phase(string(c.Name())))
}

// LogPhaseSuccess logs successful completion of a phase.
func (c BaseCommand) LogPhaseSuccess() {
	slog.Info("Phase completed", logfields.Phase(string(c.Name())))
}

// LogPhaseSkipped logs that a phase had nothing to do.
func (c BaseCommand) LogPhaseSkipped() {
	slog.Info("Phase up to date, skipping", logfields.Phase(string(c.Name())))
}

// LogPhaseFailure logs failure of a phase.
func (c BaseCommand) LogPhaseFailure(err error) {
	slog.Error("Phase failed", logfields.Phase(string(c.Name())), logfields.Error(err))
}
