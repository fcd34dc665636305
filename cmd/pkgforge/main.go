package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/pkgforge/internal/catalog"
	"git.home.luguber.info/inful/pkgforge/internal/config"
	"git.home.luguber.info/inful/pkgforge/internal/daemon"
	"git.home.luguber.info/inful/pkgforge/internal/history"
	"git.home.luguber.info/inful/pkgforge/internal/metrics"
	"git.home.luguber.info/inful/pkgforge/internal/phase"
	"git.home.luguber.info/inful/pkgforge/internal/pkgbuild"
	"git.home.luguber.info/inful/pkgforge/internal/run"
	"git.home.luguber.info/inful/pkgforge/internal/state"
	"git.home.luguber.info/inful/pkgforge/internal/version"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"pkgforge.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build struct{} `cmd:"" help:"Build the application and compile message catalogs"`

	Clean struct{} `cmd:"" help:"Remove build outputs, compiled catalogs and staging trees"`

	Install struct{} `cmd:"" help:"Populate the staging trees from build artifacts"`

	BinaryIndep struct{} `cmd:"" name:"binary-indep" help:"Assemble architecture-independent package archives"`

	BinaryArch struct{} `cmd:"" name:"binary-arch" help:"Architecture-dependent packaging"`

	Binary struct{} `cmd:"" help:"Produce all package archives"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`

	Extract struct {
		Output string `short:"o" help:"Template catalog output path (default <po_dir>/<domain>.pot)"`
	} `cmd:"" help:"Extract translatable strings into a template catalog"`

	Catalogs struct {
		All struct {
			Force bool `help:"Recompile even when compiled catalogs are current"`
		} `cmd:"" help:"Compile every locale catalog"`
		Clean   struct{} `cmd:"" help:"Remove compiled catalogs"`
		Install struct {
			LocaleRoot string `help:"Destination locale root (default from configuration)"`
		} `cmd:"" help:"Compile and install catalogs under a locale root"`
	} `cmd:"" help:"Operate the message catalog sub-build directly"`

	Watch struct {
		Phase string `help:"Phase to run on change" default:"install"`
	} `cmd:"" help:"Watch package inputs and rebuild on change"`

	History struct {
		Limit int `short:"n" help:"Number of runs to show" default:"20"`
	} `cmd:"" help:"Show recent pipeline runs"`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("pkgforge"),
		kong.Description("Staged package build pipeline with catalog compilation and tree staging"))

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	var err error
	switch kctx.Command() {
	case "build":
		err = runPhases(pkgbuild.PhaseBuild)
	case "clean":
		err = runPhases(pkgbuild.PhaseClean)
	case "install":
		err = runPhases(pkgbuild.PhaseInstall)
	case "binary-indep":
		err = runPhases(pkgbuild.PhaseBinaryIndep)
	case "binary-arch":
		err = runPhases(pkgbuild.PhaseBinaryArch)
	case "binary":
		err = runPhases(pkgbuild.PhaseBinary)
	case "init":
		err = config.WriteDefault(CLI.Config, CLI.Init.Force)
	case "extract":
		err = runExtract()
	case "catalogs all":
		err = runCatalogs(func(c *catalog.Compiler) error { return c.All(CLI.Catalogs.All.Force) })
	case "catalogs clean":
		err = runCatalogs(func(c *catalog.Compiler) error { return c.Clean() })
	case "catalogs install":
		err = runCatalogsInstall()
	case "watch":
		err = runWatch()
	case "history":
		err = runHistory()
	default:
		err = fmt.Errorf("unknown command: %s", kctx.Command())
	}
	if err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps a failure to the process exit status: when a delegated
// command's non-zero exit is in the error chain, its code passes through;
// everything else exits 1.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
		return exitErr.ExitCode()
	}
	return 1
}

// newBuildState loads configuration and assembles the shared state for one
// pipeline invocation.
func newBuildState() (*phase.BuildState, error) {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return nil, err
	}
	workDir, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	ver, err := version.Resolve(workDir, cfg.Package.Version)
	if err != nil {
		return nil, err
	}
	return &phase.BuildState{
		Config:  cfg,
		Runner:  run.NewExecRunner(),
		Marker:  state.NewStore(statePath(workDir, cfg)),
		WorkDir: workDir,
		RunID:   uuid.NewString(),
		Version: ver,
	}, nil
}

func statePath(workDir string, cfg *config.Config) string {
	if filepath.IsAbs(cfg.Build.StateDir) {
		return cfg.Build.StateDir
	}
	return filepath.Join(workDir, cfg.Build.StateDir)
}

func runPhases(names ...phase.Name) error {
	bs, err := newBuildState()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return executePipeline(ctx, bs, metrics.NoopRecorder{}, names...)
}

// executePipeline runs the requested phases, then records per-phase outcomes
// in the history store and the metrics recorder.
func executePipeline(ctx context.Context, bs *phase.BuildState, rec metrics.Recorder, names ...phase.Name) error {
	bs.Metrics = rec
	started := time.Now()
	result, execErr := phase.NewPipeline(pkgbuild.NewRegistry()).Execute(ctx, bs, names...)
	elapsed := time.Since(started)

	rec.ObservePipelineDuration(elapsed)
	outcome := "success"
	switch {
	case result != nil && result.Canceled:
		outcome = "canceled"
	case execErr != nil:
		outcome = "failed"
	}
	rec.IncPipelineOutcome(outcome)

	if result != nil {
		recordRuns(bs, result, rec, started)
	}
	return execErr
}

func recordRuns(bs *phase.BuildState, result *phase.ExecutionResult, rec metrics.Recorder, started time.Time) {
	store, err := history.Open(filepath.Join(statePath(bs.WorkDir, bs.Config), "history.db"))
	if err != nil {
		slog.Warn("History store unavailable", "error", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	for name, exec := range result.ExecutedPhases {
		rec.ObservePhaseDuration(string(name), exec.Duration)
		label := metrics.ResultSuccess
		status := "success"
		errText := ""
		switch {
		case exec.Err != nil:
			label = metrics.ResultFailed
			status = "failed"
			errText = exec.Err.Error()
		case exec.Skipped:
			label = metrics.ResultSkipped
		}
		rec.IncPhaseResult(string(name), label)

		if store == nil {
			continue
		}
		appendErr := store.Append(context.Background(), history.Record{
			RunID:       bs.RunID,
			Phase:       string(name),
			Status:      status,
			Error:       errText,
			Fingerprint: bs.Fingerprint,
			Duration:    exec.Duration,
			StartedAt:   started,
		})
		if appendErr != nil {
			slog.Warn("Failed to record phase run", "error", appendErr)
		}
	}
}

func runExtract() error {
	bs, err := newBuildState()
	if err != nil {
		return err
	}
	cfg := bs.Config

	poDir := cfg.I18n.PoDir
	if !filepath.IsAbs(poDir) {
		poDir = filepath.Join(bs.WorkDir, poDir)
	}
	out := CLI.Extract.Output
	if out == "" {
		out = filepath.Join(poDir, cfg.I18n.Domain+".pot")
	}

	extractor := &catalog.Extractor{
		SourceDir:   filepath.Join(bs.WorkDir, cfg.Source.Dir),
		Extensions:  cfg.Source.Extensions,
		Markers:     cfg.Source.Markers,
		PackageName: cfg.Package.Name,
		Version:     bs.Version,
		Contact:     cfg.Package.Contact,
		WrapWidth:   cfg.I18n.WrapWidth,
	}
	if err := extractor.Extract(out); err != nil {
		return err
	}
	slog.Info("Template catalog written", "path", out)
	return nil
}

func newCompiler() (*catalog.Compiler, *config.Config, error) {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return nil, nil, err
	}
	workDir, err := os.Getwd()
	if err != nil {
		return nil, nil, err
	}
	poDir := cfg.I18n.PoDir
	if !filepath.IsAbs(poDir) {
		poDir = filepath.Join(workDir, poDir)
	}
	return &catalog.Compiler{PoDir: poDir, Domain: cfg.I18n.Domain}, cfg, nil
}

func runCatalogs(op func(*catalog.Compiler) error) error {
	compiler, _, err := newCompiler()
	if err != nil {
		return err
	}
	return op(compiler)
}

func runCatalogsInstall() error {
	compiler, cfg, err := newCompiler()
	if err != nil {
		return err
	}
	root := CLI.Catalogs.Install.LocaleRoot
	if root == "" {
		root = cfg.I18n.LocaleRoot
	}
	return compiler.Install(root)
}

func runWatch() error {
	bs, err := newBuildState()
	if err != nil {
		return err
	}

	registry := prom.NewRegistry()
	rec := metrics.NewPrometheusRecorder(registry)
	target := phase.Name(CLI.Watch.Phase)

	d := &daemon.Daemon{
		Config:   bs.Config,
		WorkDir:  bs.WorkDir,
		Registry: registry,
		Rebuild: func(ctx context.Context) error {
			fresh, err := newBuildState()
			if err != nil {
				return err
			}
			return executePipeline(ctx, fresh, rec, target)
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return d.Run(ctx)
}

func runHistory() error {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return err
	}
	workDir, err := os.Getwd()
	if err != nil {
		return err
	}
	store, err := history.Open(filepath.Join(statePath(workDir, cfg), "history.db"))
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.Recent(context.Background(), CLI.History.Limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("no recorded runs")
		return nil
	}

	fmt.Printf("%-22s %-36s %-13s %-8s %10s  %s\n",
		"STARTED", "RUN", "PHASE", "STATUS", "DURATION", "ERROR")
	for _, r := range records {
		fmt.Printf("%-22s %-36s %-13s %-8s %10s  %s\n",
			r.StartedAt.Format("2006-01-02 15:04:05"),
			r.RunID, r.Phase, r.Status, r.Duration, r.Error)
	}
	return nil
}
