package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "docpress"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration  *prom.HistogramVec
	stageResults   *prom.CounterVec
	runDuration    *prom.HistogramVec
	runOutcomes    *prom.CounterVec
	hookDuration   *prom.HistogramVec
	assetsEmitted  prom.Counter
	reconcileEvent *prom.CounterVec
	reloadEvents   *prom.CounterVec
	reloadClients  prom.Gauge
}

// NewPrometheusRecorder constructs the metrics and registers them on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual pipeline stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"}),
		runDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of full and scoped pipeline runs",
			Buckets:   prom.DefBuckets,
		}, []string{"scope"}),
		runOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "run_outcomes_total",
			Help:      "Pipeline run outcomes",
		}, []string{"outcome"}),
		hookDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "hook_duration_seconds",
			Help:      "Duration of hook point firings",
			Buckets:   prom.DefBuckets,
		}, []string{"point"}),
		assetsEmitted: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "assets_emitted_total",
			Help:      "Assets written to the output tree",
		}),
		reconcileEvent: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_events_total",
			Help:      "Filesystem events handled by the watch reconciler",
		}, []string{"kind", "outcome"}),
		reloadEvents: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "livereload_events_total",
			Help:      "Live reload connections, disconnections, broadcasts and dropped clients",
		}, []string{"event"}),
		reloadClients: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "livereload_clients",
			Help:      "Currently connected live reload clients",
		}),
	}
	reg.MustRegister(pr.stageDuration, pr.stageResults, pr.runDuration, pr.runOutcomes,
		pr.hookDuration, pr.assetsEmitted, pr.reconcileEvent, pr.reloadEvents, pr.reloadClients)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveRunDuration(scope string, d time.Duration) {
	p.runDuration.WithLabelValues(scope).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRunOutcome(outcome ResultLabel) {
	p.runOutcomes.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) ObserveHookDuration(point string, d time.Duration) {
	p.hookDuration.WithLabelValues(point).Observe(d.Seconds())
}

func (p *PrometheusRecorder) AddAssetsEmitted(n int) {
	if n > 0 {
		p.assetsEmitted.Add(float64(n))
	}
}

func (p *PrometheusRecorder) IncReconcileEvent(kind string, outcome ResultLabel) {
	p.reconcileEvent.WithLabelValues(kind, string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncLiveReloadEvent(event string) {
	p.reloadEvents.WithLabelValues(event).Inc()
}

func (p *PrometheusRecorder) SetLiveReloadClients(n int) {
	p.reloadClients.Set(float64(n))
}
