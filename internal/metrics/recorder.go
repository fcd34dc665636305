package metrics

import "time"

// ResultLabel enumerates phase result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultSkipped  ResultLabel = "skipped"
	ResultFailed   ResultLabel = "failed"
	ResultCanceled ResultLabel = "canceled"
)

// Recorder defines observability hooks for pipeline and phase metrics.
// Implementations may forward to Prometheus, OpenTelemetry, etc. All methods
// must be safe for the zero NoopRecorder (allowing optional injection).
type Recorder interface {
	ObservePhaseDuration(phase string, d time.Duration)
	ObservePipelineDuration(d time.Duration)
	IncPhaseResult(phase string, result ResultLabel)
	IncPipelineOutcome(outcome string) // outcome: success|failed|canceled
	IncCatalogCompiled(locale string)
	SetStagedFiles(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObservePhaseDuration(string, time.Duration) {}
func (NoopRecorder) ObservePipelineDuration(time.Duration)      {}
func (NoopRecorder) IncPhaseResult(string, ResultLabel)         {}
func (NoopRecorder) IncPipelineOutcome(string)                  {}
func (NoopRecorder) IncCatalogCompiled(string)                  {}
func (NoopRecorder) SetStagedFiles(int)                         {}
