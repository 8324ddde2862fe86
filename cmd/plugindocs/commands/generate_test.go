package commands

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/plugindocs/internal/foundation/errors"
)

const fooDoc = `:plugin: foo
:type: input
:version: %VERSION%
:release_date: %RELEASE_DATE%
:changelog_url: %CHANGELOG_URL%

== Foo input plugin
`

// fakeUpstream serves both the registry API and (under /gh/) the GitHub API.
func fakeUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v2/rubygems/logstash-input-foo/versions/3.2.0.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"name":"logstash-input-foo","version":"3.2.0","created_at":"2024-03-01T10:00:00Z","metadata":{}}`))
	})
	mux.HandleFunc("/gh/repos/logstash-plugins/logstash-input-foo/contents/docs/index.asciidoc", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "v3.2.0", r.URL.Query().Get("ref"))
		fmt.Fprintf(w, `{"type":"file","encoding":"base64","name":"index.asciidoc","path":"docs/index.asciidoc","content":%q}`,
			base64.StdEncoding.EncodeToString([]byte(fooDoc)))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newGenerateFixture(t *testing.T) (*GenerateCmd, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("PLUGIN_ORG", "")

	srv := fakeUpstream(t)
	report := writeFile(t, filepath.Join(dir, "plugins.json"), `{"successful": {
		"logstash-input-foo": {"version": "3.2.0", "from": "default"},
		"logstash-filter-skipme": {"version": "1.0.0", "from": "default"},
		"logstash-output-gone": {"version": "0.1.0", "from": "community"}
	}}`)
	settings := writeFile(t, filepath.Join(dir, "settings.yml"), "skip:\n  - logstash-filter-skipme\nregistry:\n  retry:\n    max_retries: 0\n")

	var stdout, stderr bytes.Buffer
	cmd := &GenerateCmd{
		PluginsJSON:  report,
		OutputPath:   filepath.Join(dir, "out"),
		Settings:     settings,
		Source:       SourceAPI,
		RegistryURL:  srv.URL,
		GitHubAPIURL: srv.URL + "/gh/",
		CloneDepth:   1,
		stdout:       &stdout,
		stderr:       &stderr,
	}
	return cmd, &stdout, &stderr
}

func TestGenerateEndToEnd(t *testing.T) {
	cmd, stdout, stderr := newGenerateFixture(t)
	cmd.MetricsFile = filepath.Join(t.TempDir(), "plugindocs.prom")

	summary, err := cmd.run(context.Background())
	require.NoError(t, err, "per-entry failures never fail the run")

	assert.Equal(t, 1, summary.Written)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, []string{"logstash-output-gone"}, summary.FailedEntries())

	data, err := os.ReadFile(filepath.Join(cmd.OutputPath, "docs", "plugins", "inputs", "foo.asciidoc"))
	require.NoError(t, err)
	assert.Contains(t, string(data), ":version: v3.2.0\n")
	assert.Contains(t, string(data), ":default_plugin: 1\n")
	assert.Contains(t, string(data), ":release_date: 2024-03-01\n")
	assert.Contains(t, string(data), "https://github.com/logstash-plugins/logstash-input-foo/blob/v3.2.0/CHANGELOG.md")

	assert.Equal(t, "logstash-input-foo@v3.2.0: 2024-03-01\n", stdout.String())
	assert.Contains(t, stderr.String(), "Skipping logstash-filter-skipme")

	metrics, err := os.ReadFile(cmd.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), `plugindocs_entries_total{outcome="done"} 1`)
}

func TestGenerateMissingReportIsConfigError(t *testing.T) {
	cmd, _, _ := newGenerateFixture(t)
	cmd.PluginsJSON = filepath.Join(t.TempDir(), "missing.json")

	_, err := cmd.run(context.Background())
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
	assert.Equal(t, 7, ferrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestGenerateMissingSettingsIsConfigError(t *testing.T) {
	cmd, _, _ := newGenerateFixture(t)
	cmd.Settings = filepath.Join(t.TempDir(), "nope.yml")

	_, err := cmd.run(context.Background())
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestGenerateRejectsNegativeParallelism(t *testing.T) {
	cmd, _, _ := newGenerateFixture(t)
	cmd.Parallelism = -1

	_, err := cmd.run(context.Background())
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
}

func newTestParser(t *testing.T) (*CLI, *kong.Kong) {
	t.Helper()
	cli := &CLI{}
	parser, err := kong.New(cli, kong.Vars{"version": "test"})
	require.NoError(t, err)
	return cli, parser
}

func TestCLIParsing(t *testing.T) {
	cli, parser := newTestParser(t)

	kctx, err := parser.Parse([]string{"--output-path", "out", "--main", "--source", "git", "-p", "8", "report.json"})
	require.NoError(t, err)

	assert.Equal(t, "generate <plugins-json>", kctx.Command())
	g := cli.Generate
	assert.True(t, g.Main)
	assert.Equal(t, SourceGit, g.Source)
	assert.Equal(t, 8, g.Parallelism)
	assert.Equal(t, 1, g.CloneDepth)
	assert.Equal(t, "settings.yml", filepath.Base(g.Settings))
	assert.Equal(t, "report.json", filepath.Base(g.PluginsJSON))
	assert.False(t, g.SkipExisting)

}

func TestCLIParsingRejectsInvalidArgs(t *testing.T) {
	cases := []struct {
		name string
		args []string
		want string
	}{
		{"missing output path", []string{"report.json"}, "--output-path"},
		{"missing output path explicit command", []string{"generate", "report.json"}, "--output-path"},
		{"unknown source", []string{"--output-path", "out", "--source", "svn", "report.json"}, "--source"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, parser := newTestParser(t)
			_, err := parser.Parse(tc.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
