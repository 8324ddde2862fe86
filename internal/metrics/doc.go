// Package metrics records run metrics for documentation generation.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no call site needs a nil check:
//
//	o := pipeline.New(deps, opts) // NoopRecorder
//	o.WithRecorder(metrics.NewPrometheusRecorder(reg))
//
// A PrometheusRecorder registers its collectors on the given registry. A
// batch run has no scrape endpoint, so the registry is dumped once at the end
// of the run with WriteTextfile (node_exporter textfile collector format).
package metrics
