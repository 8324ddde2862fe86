package metrics

import "time"

// EntryOutcome enumerates how a catalog entry finished.
type EntryOutcome string

const (
	EntryDone          EntryOutcome = "done"
	EntrySkipped       EntryOutcome = "skipped"
	EntryPolicySkipped EntryOutcome = "policy_skipped"
	EntryFailed        EntryOutcome = "failed"
)

// PluginOutcome enumerates how a logical plugin's artifact finished.
type PluginOutcome string

const (
	PluginWritten         PluginOutcome = "written"
	PluginUnchanged       PluginOutcome = "unchanged"
	PluginDocsUnavailable PluginOutcome = "docs_unavailable"
	PluginWriteFailed     PluginOutcome = "write_failed"
)

// Recorder defines observability hooks for a generation run. Implementations
// must be safe for concurrent use by all workers.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveRunDuration(d time.Duration)
	IncEntryOutcome(outcome EntryOutcome)
	IncPluginOutcome(pluginType string, outcome PluginOutcome)
	SetWorkers(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveRunDuration(time.Duration)           {}
func (NoopRecorder) IncEntryOutcome(EntryOutcome)               {}
func (NoopRecorder) IncPluginOutcome(string, PluginOutcome)     {}
func (NoopRecorder) SetWorkers(int)                             {}
