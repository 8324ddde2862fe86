// Package pipeline drives catalog entries through resolution, expansion,
// rendering and writing on a bounded worker pool.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/plugindocs/internal/artifact"
	"git.home.luguber.info/inful/plugindocs/internal/catalog"
	"git.home.luguber.info/inful/plugindocs/internal/config"
	ferrors "git.home.luguber.info/inful/plugindocs/internal/foundation/errors"
	"git.home.luguber.info/inful/plugindocs/internal/logfields"
	"git.home.luguber.info/inful/plugindocs/internal/metrics"
	"git.home.luguber.info/inful/plugindocs/internal/plugin"
	"git.home.luguber.info/inful/plugindocs/internal/release"
	"git.home.luguber.info/inful/plugindocs/internal/render"
)

// Resolver resolves a package to a release.
type Resolver interface {
	Resolve(ctx context.Context, name string, version *string) (*release.Resolved, error)
}

// Expander expands a release into logical plugins.
type Expander interface {
	Expand(rel *release.Resolved, origin catalog.Origin) []plugin.Plugin
}

// Renderer renders one logical plugin's documentation.
type Renderer interface {
	Render(ctx context.Context, p plugin.Plugin, rel *release.Resolved, c render.Context) (string, bool, error)
}

// Writer stores rendered artifacts.
type Writer interface {
	WriteRendered(a artifact.Rendered, skipIfUnchanged bool) (artifact.Result, error)
}

// Deps are the collaborators of an Orchestrator.
type Deps struct {
	Resolver Resolver
	Expander Expander
	Renderer Renderer
	Writer   Writer
}

// Options control a run.
type Options struct {
	OutputRoot string
	// UseLatest ignores report versions and resolves the latest release of every entry.
	UseLatest    bool
	SkipExisting bool
	Parallelism  int
	Skip         []string
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(o *Orchestrator) {
		if r != nil {
			o.recorder = r
		}
	}
}

// WithOutput redirects the progress (stdout) and diagnostic (stderr) streams.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(o *Orchestrator) {
		o.stdout = &lineWriter{w: stdout}
		o.stderr = &lineWriter{w: stderr}
	}
}

// WithLogger sets the base logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// Orchestrator processes catalog entries. Entries never share errors: a
// failure abandons at most the entry or plugin it occurred in.
type Orchestrator struct {
	deps     Deps
	opts     Options
	skip     map[string]struct{}
	recorder metrics.Recorder
	logger   *slog.Logger
	stdout   *lineWriter
	stderr   *lineWriter
}

// New creates an Orchestrator.
func New(deps Deps, opts Options, options ...Option) *Orchestrator {
	if opts.Parallelism < 1 {
		opts.Parallelism = config.DefaultParallelism
	}
	o := &Orchestrator{
		deps:     deps,
		opts:     opts,
		skip:     make(map[string]struct{}, len(opts.Skip)),
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
		stdout:   &lineWriter{w: os.Stdout},
		stderr:   &lineWriter{w: os.Stderr},
	}
	for _, name := range opts.Skip {
		o.skip[name] = struct{}{}
	}
	for _, opt := range options {
		opt(o)
	}
	return o
}

// Run processes all entries and returns the aggregated outcome. Per-entry
// and per-plugin failures are reported in the Summary, never returned.
func (o *Orchestrator) Run(ctx context.Context, entries []catalog.Entry) Summary {
	runID := uuid.NewString()
	log := o.logger.With(logfields.RunID(runID))
	start := time.Now()

	o.recorder.SetWorkers(o.opts.Parallelism)
	log.Info("Generating plugin documentation",
		slog.Int("entries", len(entries)),
		slog.Int("parallelism", o.opts.Parallelism),
		slog.Bool("latest", o.opts.UseLatest),
		logfields.Path(o.opts.OutputRoot))

	results := runPool(ctx, entries, o.opts.Parallelism, func(ctx context.Context, worker int, e catalog.Entry) EntryResult {
		res := o.process(ctx, log.With(logfields.Worker(worker), logfields.Package(e.Name)), e)
		o.recorder.IncEntryOutcome(res.Outcome())
		return res
	})

	elapsed := time.Since(start)
	o.recorder.ObserveRunDuration(elapsed)
	s := summarize(runID, results)
	log.Info("Generation finished",
		slog.Int("done", s.Done),
		slog.Int("skipped", s.Skipped+s.PolicySkipped),
		slog.Int("failed", s.Failed),
		slog.Int("written", s.Written),
		slog.Int("unchanged", s.Unchanged),
		slog.Int("docs_unavailable", s.DocsUnavailable),
		slog.Int("write_failed", s.WriteFailed),
		logfields.DurationMS(float64(elapsed.Milliseconds())))
	return s
}

func (o *Orchestrator) process(ctx context.Context, log *slog.Logger, e catalog.Entry) EntryResult {
	res := EntryResult{Entry: e, State: StatePending}

	if _, skip := o.skip[e.Name]; skip {
		o.stderr.printf("Skipping %s", e.Name)
		res.Err = ferrors.SkippedByPolicy("listed in skip settings").WithContext("package", e.Name).Build()
		res.enter(log, StateSkipped)
		return res
	}

	version := e.RequestedVersion(o.opts.UseLatest)
	if err := ctx.Err(); err != nil {
		res.Err = err
		res.enter(log, StateFailed)
		return res
	}

	res.enter(log, StateResolving)
	started := time.Now()
	rel, err := o.deps.Resolver.Resolve(ctx, e.Name, version)
	o.recorder.ObserveStageDuration("resolve", time.Since(started))
	if err != nil {
		o.stderr.printf("[repository:%s]: failed to find release package `%s`: %v", e.Name, release.Tag(version), err)
		log.Error("Release resolution failed", logfields.Tag(release.Tag(version)), logfields.Error(err))
		res.Err = err
		res.enter(log, StateFailed)
		return res
	}
	res.Tag = rel.Tag
	log.Debug("Release resolved", logfields.Tag(rel.Tag), logfields.Version(rel.Version))
	res.enter(log, StateResolved)

	if !plugin.Admitted(rel, e.Origin) {
		o.stderr.printf("[repository:%s]: Skipping non-default Integration Plugin", e.Name)
		log.Info("Integration outside the default distribution skipped", logfields.Origin(string(e.Origin)))
		res.Err = ferrors.SkippedByPolicy("integration outside the default distribution").
			WithContext("package", e.Name).
			WithContext("origin", string(e.Origin)).
			Build()
		res.PolicySkipped = true
		res.enter(log, StateSkipped)
		return res
	}

	res.enter(log, StateExpanding)
	plugins := o.deps.Expander.Expand(rel, e.Origin)

	res.enter(log, StateRendering)
	rc := render.Context{DefaultPlugin: e.IsDefault()}
	for _, p := range plugins {
		pr := o.generate(ctx, log.With(logfields.Plugin(p.CanonicalName), logfields.Tag(p.Tag)), p, rel, rc)
		o.recorder.IncPluginOutcome(string(p.Type), pr.Outcome)
		res.Plugins = append(res.Plugins, pr)
	}

	res.enter(log, StateDone)
	return res
}

// generate renders and writes one logical plugin.
func (o *Orchestrator) generate(ctx context.Context, log *slog.Logger, p plugin.Plugin, rel *release.Resolved, rc render.Context) PluginResult {
	pr := PluginResult{CanonicalName: p.CanonicalName}

	o.stderr.printf("%s: fetching documentation", p.Desc())
	started := time.Now()
	content, ok, err := o.deps.Renderer.Render(ctx, p, rel, rc)
	o.recorder.ObserveStageDuration("render", time.Since(started))
	if err != nil || !ok {
		if err == nil {
			err = ferrors.DocumentationUnavailable(p.CanonicalName).WithContext("doc_path", p.DocPath).Build()
		}
		o.stderr.printf("%s: failed to fetch doc; skipping", p.Desc())
		log.Warn("Documentation unavailable", logfields.Error(err))
		pr.Outcome, pr.Err = metrics.PluginDocsUnavailable, err
		return pr
	}

	pr.Path = artifact.Path(o.opts.OutputRoot, p.Type, p.Name)
	started = time.Now()
	result, err := o.deps.Writer.WriteRendered(artifact.Rendered{OutputPath: pr.Path, Content: content}, o.opts.SkipExisting)
	o.recorder.ObserveStageDuration("write", time.Since(started))
	switch {
	case err != nil:
		o.stderr.printf("%s: failed to write %s: %v", p.Desc(), pr.Path, err)
		log.Error("Artifact write failed", logfields.Path(pr.Path), logfields.Error(err))
		pr.Outcome, pr.Err = metrics.PluginWriteFailed, err
	case result == artifact.Skipped:
		o.stderr.printf("%s: skipping since no version bump and doc exists.", p.Desc())
		pr.Outcome = metrics.PluginUnchanged
	default:
		o.stdout.printf("%s@%s: %s", p.CanonicalName, p.Tag, rel.FormattedDate())
		log.Debug("Artifact written", logfields.Path(pr.Path))
		pr.Outcome = metrics.PluginWritten
	}
	return pr
}

// lineWriter serializes whole lines from concurrent workers onto one stream.
type lineWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lineWriter) printf(format string, args ...any) {
	line := fmt.Sprintf(format, args...) + "\n"
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.w, line)
}
