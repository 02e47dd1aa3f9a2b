package metrics

import "time"

// ResultLabel enumerates result categories for counters.
type ResultLabel string

const (
	ResultSuccess   ResultLabel = "success"
	ResultFailed    ResultLabel = "failed"
	ResultIgnored   ResultLabel = "ignored"
	ResultUnchanged ResultLabel = "unchanged"
)

// Scope labels for run durations.
const (
	ScopeFull   = "full"
	ScopeScoped = "scoped"
)

// Live reload hub events.
const (
	LiveReloadConnected    = "connected"
	LiveReloadDisconnected = "disconnected"
	LiveReloadBroadcast    = "broadcast"
	LiveReloadDropped      = "dropped"
)

// Recorder defines observability hooks for pipeline and reconciler metrics.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	ObserveRunDuration(scope string, d time.Duration)
	IncRunOutcome(outcome ResultLabel)
	ObserveHookDuration(point string, d time.Duration)
	AddAssetsEmitted(n int)
	IncReconcileEvent(kind string, outcome ResultLabel)
	IncLiveReloadEvent(event string)
	SetLiveReloadClients(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) ObserveRunDuration(string, time.Duration)   {}
func (NoopRecorder) IncRunOutcome(ResultLabel)                  {}
func (NoopRecorder) ObserveHookDuration(string, time.Duration)  {}
func (NoopRecorder) AddAssetsEmitted(int)                       {}
func (NoopRecorder) IncReconcileEvent(string, ResultLabel)      {}
func (NoopRecorder) IncLiveReloadEvent(string)                  {}
func (NoopRecorder) SetLiveReloadClients(int)                   {}
