// Package run executes delegated external commands. The pipeline never
// interprets a delegate's failure; diagnostics pass through verbatim and the
// non-zero status aborts the calling phase.
package run

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"git.home.luguber.info/inful/pkgforge/internal/logfields"
)

// Runner runs an external command to completion in the given directory.
type Runner interface {
	Run(ctx context.Context, dir string, argv ...string) error
}

// ExecRunner runs commands through os/exec, wiring the delegate's output
// streams straight through.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner returns a Runner writing delegate output to this process's
// stdout and stderr.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr}
}

func (r *ExecRunner) Run(ctx context.Context, dir string, argv ...string) error {
	if len(argv) == 0 {
		return fmt.Errorf("empty command")
	}

	slog.Debug("Running command", logfields.Command(argv[0]), slog.String("args", strings.Join(argv[1:], " ")))

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", argv[0], err)
	}
	return nil
}

// Substitute replaces {placeholder} tokens in every argument. Used to thread
// the staging root and output directories into configured command contracts.
func Substitute(argv []string, vars map[string]string) []string {
	if len(argv) == 0 {
		return nil
	}
	out := make([]string, len(argv))
	for i, a := range argv {
		for k, v := range vars {
			a = strings.ReplaceAll(a, "{"+k+"}", v)
		}
		out[i] = a
	}
	return out
}
