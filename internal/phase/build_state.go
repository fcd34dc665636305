package phase

import (
	"git.home.luguber.info/inful/pkgforge/internal/config"
	"git.home.luguber.info/inful/pkgforge/internal/metrics"
	"git.home.luguber.info/inful/pkgforge/internal/run"
	"git.home.luguber.info/inful/pkgforge/internal/state"
)

// BuildState carries the shared context threaded through every phase of a
// single pipeline run. Phases communicate only through the filesystem and the
// fields here.
type BuildState struct {
	Config *config.Config
	Runner run.Runner
	Marker *state.Store

	// Metrics records phase observability; nil disables recording.
	Metrics metrics.Recorder

	// WorkDir is the package working directory all relative paths resolve
	// against.
	WorkDir string

	// RunID identifies this pipeline invocation in logs and history records.
	RunID string

	// Version is the resolved package version (config or git tag discovery).
	Version string

	// Fingerprint is the content hash of the build inputs, computed once per
	// run by the build phase.
	Fingerprint string
}

// Recorder returns the metrics recorder, substituting a noop when none is
// configured.
func (bs *BuildState) Recorder() metrics.Recorder {
	if bs.Metrics == nil {
		return metrics.NoopRecorder{}
	}
	return bs.Metrics
}
