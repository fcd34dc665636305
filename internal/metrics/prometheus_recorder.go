package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once             sync.Once
	phaseDuration    *prom.HistogramVec
	pipelineDuration prom.Histogram
	phaseResults     *prom.CounterVec
	pipelineOutcome  *prom.CounterVec
	catalogsCompiled *prom.CounterVec
	stagedFiles      prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.phaseDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "pkgforge",
			Name:      "phase_duration_seconds",
			Help:      "Duration of individual pipeline phases",
			Buckets:   prom.DefBuckets,
		}, []string{"phase"})
		pr.pipelineDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "pkgforge",
			Name:      "pipeline_duration_seconds",
			Help:      "Total pipeline duration",
			Buckets:   prom.DefBuckets,
		})
		pr.phaseResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "pkgforge",
			Name:      "phase_results_total",
			Help:      "Phase result counts by outcome",
		}, []string{"phase", "result"})
		pr.pipelineOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "pkgforge",
			Name:      "pipeline_outcomes_total",
			Help:      "Pipeline outcomes by final status",
		}, []string{"outcome"})
		pr.catalogsCompiled = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "pkgforge",
			Name:      "catalogs_compiled_total",
			Help:      "Message catalogs compiled, by locale",
		}, []string{"locale"})
		pr.stagedFiles = prom.NewGauge(prom.GaugeOpts{
			Namespace: "pkgforge",
			Name:      "staged_files",
			Help:      "Files installed into staging trees in the last install phase",
		})
		reg.MustRegister(pr.phaseDuration, pr.pipelineDuration, pr.phaseResults,
			pr.pipelineOutcome, pr.catalogsCompiled, pr.stagedFiles)
	})
	return pr
}

func (p *PrometheusRecorder) ObservePhaseDuration(phase string, d time.Duration) {
	if p == nil || p.phaseDuration == nil {
		return
	}
	p.phaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObservePipelineDuration(d time.Duration) {
	if p == nil || p.pipelineDuration == nil {
		return
	}
	p.pipelineDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncPhaseResult(phase string, result ResultLabel) {
	if p == nil || p.phaseResults == nil {
		return
	}
	p.phaseResults.WithLabelValues(phase, string(result)).Inc()
}

func (p *PrometheusRecorder) IncPipelineOutcome(outcome string) {
	if p == nil || p.pipelineOutcome == nil {
		return
	}
	p.pipelineOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) IncCatalogCompiled(locale string) {
	if p == nil || p.catalogsCompiled == nil {
		return
	}
	p.catalogsCompiled.WithLabelValues(locale).Inc()
}

func (p *PrometheusRecorder) SetStagedFiles(n int) {
	if p == nil || p.stagedFiles == nil {
		return
	}
	p.stagedFiles.Set(float64(n))
}
