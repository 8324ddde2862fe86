package pipeline

import (
	"log/slog"

	"git.home.luguber.info/inful/plugindocs/internal/catalog"
	"git.home.luguber.info/inful/plugindocs/internal/logfields"
	"git.home.luguber.info/inful/plugindocs/internal/metrics"
)

// State is the lifecycle position of one catalog entry.
type State string

const (
	StatePending   State = "pending"
	StateSkipped   State = "skipped"
	StateResolving State = "resolving"
	StateResolved  State = "resolved"
	StateExpanding State = "expanding"
	StateRendering State = "rendering"
	StateDone      State = "done"
	StateFailed    State = "failed"
)

// Terminal reports whether no further transition can follow s.
func (s State) Terminal() bool {
	return s == StateSkipped || s == StateDone || s == StateFailed
}

// PluginResult is the outcome for one logical plugin.
type PluginResult struct {
	CanonicalName string
	Path          string
	Outcome       metrics.PluginOutcome
	Err           error
}

// EntryResult is the outcome for one catalog entry. Each worker owns the
// results of the entries it processes.
type EntryResult struct {
	Entry catalog.Entry
	State State
	// Tag is set once the release is resolved.
	Tag string
	// PolicySkipped marks entries skipped after resolution (integration outside the default set).
	PolicySkipped bool
	Err           error
	Plugins       []PluginResult
}

func (r *EntryResult) enter(log *slog.Logger, s State) {
	log.Debug("Entry state", logfields.Stage(string(s)), slog.String("from", string(r.State)))
	r.State = s
}

// Outcome maps the terminal state onto its metrics label.
func (r *EntryResult) Outcome() metrics.EntryOutcome {
	switch {
	case r.State == StateFailed, !r.State.Terminal():
		return metrics.EntryFailed
	case r.PolicySkipped:
		return metrics.EntryPolicySkipped
	case r.State == StateSkipped:
		return metrics.EntrySkipped
	default:
		return metrics.EntryDone
	}
}

// Summary aggregates the results of a run.
type Summary struct {
	RunID   string
	Results []EntryResult

	Done          int
	Skipped       int
	PolicySkipped int
	Failed        int

	Written         int
	Unchanged       int
	DocsUnavailable int
	WriteFailed     int
}

func summarize(runID string, results []EntryResult) Summary {
	s := Summary{RunID: runID, Results: results}
	for _, r := range results {
		switch r.Outcome() {
		case metrics.EntryDone:
			s.Done++
		case metrics.EntrySkipped:
			s.Skipped++
		case metrics.EntryPolicySkipped:
			s.PolicySkipped++
		case metrics.EntryFailed:
			s.Failed++
		}
		for _, p := range r.Plugins {
			switch p.Outcome {
			case metrics.PluginWritten:
				s.Written++
			case metrics.PluginUnchanged:
				s.Unchanged++
			case metrics.PluginDocsUnavailable:
				s.DocsUnavailable++
			case metrics.PluginWriteFailed:
				s.WriteFailed++
			}
		}
	}
	return s
}

// FailedEntries lists the names of entries abandoned on error.
func (s Summary) FailedEntries() []string {
	var names []string
	for _, r := range s.Results {
		if r.Outcome() == metrics.EntryFailed {
			names = append(names, r.Entry.Name)
		}
	}
	return names
}
