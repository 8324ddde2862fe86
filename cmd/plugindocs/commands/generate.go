package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/plugindocs/internal/alias"
	"git.home.luguber.info/inful/plugindocs/internal/artifact"
	"git.home.luguber.info/inful/plugindocs/internal/catalog"
	"git.home.luguber.info/inful/plugindocs/internal/config"
	ferrors "git.home.luguber.info/inful/plugindocs/internal/foundation/errors"
	"git.home.luguber.info/inful/plugindocs/internal/logfields"
	"git.home.luguber.info/inful/plugindocs/internal/metrics"
	"git.home.luguber.info/inful/plugindocs/internal/pipeline"
	"git.home.luguber.info/inful/plugindocs/internal/plugin"
	"git.home.luguber.info/inful/plugindocs/internal/registry"
	"git.home.luguber.info/inful/plugindocs/internal/release"
	"git.home.luguber.info/inful/plugindocs/internal/render"
	"git.home.luguber.info/inful/plugindocs/internal/retry"
	"git.home.luguber.info/inful/plugindocs/internal/source"
	"git.home.luguber.info/inful/plugindocs/internal/workspace"
)

// Source providers selectable with --source.
const (
	SourceAPI = "api"
	SourceGit = "git"
)

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	PluginsJSON  string `arg:"" name:"plugins-json" help:"Plugin catalog report (JSON with a \"successful\" mapping)" type:"path"`
	OutputPath   string `name:"output-path" short:"o" required:"" help:"Root directory for generated documentation" type:"path"`
	Main         bool   `name:"main" help:"Document the latest release (main) instead of the reported versions"`
	Settings     string `name:"settings" help:"Settings file" default:"settings.yml" type:"path"`
	Parallelism  int    `name:"parallelism" short:"p" help:"Number of parallel workers (default: settings, else 4)"`
	SkipExisting bool   `name:"skip-existing" help:"Keep existing docs whose :version: is unchanged"`
	Aliases      string `name:"aliases" help:"Alias definitions (file path or http(s) URL); overrides settings"`
	Source       string `name:"source" help:"Documentation source: api (GitHub REST) or git (shallow clones)" enum:"api,git" default:"api"`
	RegistryURL  string `name:"registry-url" help:"RubyGems-compatible registry URL; overrides settings"`
	GitHubAPIURL string `name:"github-api-url" help:"GitHub API root (GitHub Enterprise)"`
	Workspace    string `name:"workspace" help:"Persistent checkout directory for --source=git (default: temporary)" type:"path"`
	CloneDepth   int    `name:"clone-depth" help:"Clone depth for --source=git (0 = full history)" default:"1"`
	MetricsFile  string `name:"metrics-file" help:"Write run metrics to this Prometheus textfile" type:"path"`

	stdout io.Writer
	stderr io.Writer
}

// Validate is called by kong after parsing.
func (g *GenerateCmd) Validate() error {
	if g.Parallelism < 0 {
		return ferrors.ValidationError(fmt.Sprintf("--parallelism must be a positive integer, got %d", g.Parallelism)).Build()
	}
	if g.CloneDepth < 0 {
		return ferrors.ValidationError("--clone-depth cannot be negative").Build()
	}
	return nil
}

func (g *GenerateCmd) Run(_ *Global, _ *CLI) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	_, err := g.run(ctx)
	return err
}

func (g *GenerateCmd) run(ctx context.Context) (pipeline.Summary, error) {
	if err := g.Validate(); err != nil {
		return pipeline.Summary{}, err
	}
	if name, err := config.LoadEnvFiles(); err != nil {
		slog.Warn("Failed to load env file", logfields.Path(name), logfields.Error(err))
	}

	settings, err := config.LoadSettings(g.Settings)
	if err != nil {
		return pipeline.Summary{}, err
	}
	entries, err := catalog.LoadReport(g.PluginsJSON)
	if err != nil {
		return pipeline.Summary{}, err
	}

	aliasSource := settings.Aliases
	if g.Aliases != "" {
		aliasSource = g.Aliases
	}
	aliases, err := alias.Load(ctx, aliasSource, &http.Client{Timeout: settings.Registry.Timeout})
	if err != nil {
		return pipeline.Summary{}, err
	}

	reg, err := g.registry(settings)
	if err != nil {
		return pipeline.Summary{}, err
	}
	provider, cleanup, err := g.sourceProvider()
	if err != nil {
		return pipeline.Summary{}, err
	}
	defer cleanup()

	parallelism := settings.Parallelism
	if g.Parallelism > 0 {
		parallelism = g.Parallelism
	}

	recorder := metrics.Recorder(metrics.NoopRecorder{})
	var promRegistry *prom.Registry
	if g.MetricsFile != "" {
		promRegistry = prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(promRegistry)
	}

	options := []pipeline.Option{pipeline.WithRecorder(recorder)}
	if g.stdout != nil && g.stderr != nil {
		options = append(options, pipeline.WithOutput(g.stdout, g.stderr))
	}
	orchestrator := pipeline.New(pipeline.Deps{
		Resolver: release.NewResolver(reg, provider, config.SourceOrg()),
		Expander: plugin.NewExpander(aliases, provider),
		Renderer: render.New(),
		Writer:   artifact.NewWriter(),
	}, pipeline.Options{
		OutputRoot:   g.OutputPath,
		UseLatest:    g.Main,
		SkipExisting: g.SkipExisting,
		Parallelism:  parallelism,
		Skip:         settings.Skip,
	}, options...)

	summary := orchestrator.Run(ctx, entries)

	if promRegistry != nil {
		if err := metrics.WriteTextfile(g.MetricsFile, promRegistry); err != nil {
			return summary, ferrors.FileSystemError("failed to write metrics file").
				WithCause(err).
				WithContext("path", g.MetricsFile).
				Build()
		}
	}
	if failed := summary.FailedEntries(); len(failed) > 0 {
		slog.Warn("Some catalog entries were not documented", slog.Any("packages", failed))
	}
	return summary, nil
}

func (g *GenerateCmd) registry(settings *config.Settings) (*registry.Client, error) {
	policy := retry.FromConfig(settings.Registry.Retry)
	if err := policy.Validate(); err != nil {
		return nil, ferrors.ConfigError("invalid registry retry settings").WithCause(err).Build()
	}
	url := settings.Registry.URL
	if g.RegistryURL != "" {
		url = g.RegistryURL
	}
	slog.Debug("Using package registry", logfields.URL(url), slog.Duration("timeout", settings.Registry.Timeout))
	return registry.NewClient(url, settings.Registry.Timeout, policy), nil
}

// sourceProvider builds the selected provider. The returned cleanup is never nil.
func (g *GenerateCmd) sourceProvider() (source.Provider, func(), error) {
	noop := func() {}
	switch g.Source {
	case SourceGit:
		ws := workspace.NewManager("")
		if g.Workspace != "" {
			ws = workspace.NewPersistentManager(g.Workspace)
		}
		if err := ws.Create(); err != nil {
			return nil, noop, ferrors.FileSystemError("failed to create workspace").WithCause(err).Build()
		}
		cleanup := func() {
			if err := ws.Cleanup(); err != nil {
				slog.Warn("Failed to cleanup workspace", logfields.Error(err))
			}
		}
		return source.NewGitProvider(ws, g.CloneDepth), cleanup, nil
	default:
		token := config.GitHubToken()
		if token == "" {
			slog.Info("GITHUB_TOKEN not set; using unauthenticated GitHub API access")
		}
		p := source.NewGitHubProvider(token)
		if g.GitHubAPIURL != "" {
			var err error
			if p, err = p.WithBaseURL(g.GitHubAPIURL); err != nil {
				return nil, noop, ferrors.ConfigError("invalid --github-api-url").WithCause(err).Build()
			}
		}
		return p, noop, nil
	}
}

