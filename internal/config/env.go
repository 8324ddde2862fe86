package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

const (
	// EnvSourceOrg overrides the default source organization for packages without a declared source.
	EnvSourceOrg = "PLUGIN_ORG"
	// EnvGitHubToken authenticates GitHub API calls.
	EnvGitHubToken = "GITHUB_TOKEN"
	// EnvLogLevel selects the log level when -v is not given.
	EnvLogLevel = "PLUGINDOCS_LOG_LEVEL"

	// DefaultSourceOrg is used when PLUGIN_ORG is unset.
	DefaultSourceOrg = "logstash-plugins"
)

var envFiles = []string{".env", ".env.local"}

// LoadEnvFiles loads the first of .env/.env.local found in the working directory.
// Variables already set in the process environment are left untouched. It
// returns the loaded file name, or "" when none exists.
func LoadEnvFiles() (string, error) {
	for _, name := range envFiles {
		if _, err := os.Stat(name); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			return "", err
		}
		slog.Debug("Loaded environment variables", slog.String("file", name))
		return name, nil
	}
	return "", nil
}

// SourceOrg returns the organization used to derive a package's default source repository.
func SourceOrg() string {
	if org := os.Getenv(EnvSourceOrg); org != "" {
		return org
	}
	return DefaultSourceOrg
}

// GitHubToken returns the GitHub API token, if any.
func GitHubToken() string {
	return os.Getenv(EnvGitHubToken)
}
