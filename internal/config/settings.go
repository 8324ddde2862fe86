package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/plugindocs/internal/foundation/errors"
)

const (
	// DefaultParallelism is the worker count used when neither the settings file nor the CLI sets one.
	DefaultParallelism = 4
	// DefaultRegistryURL is the RubyGems-compatible registry consulted for releases.
	DefaultRegistryURL = "https://rubygems.org"
)

// Settings represents the generator settings document.
type Settings struct {
	// Skip lists package names that are never resolved or documented.
	Skip []string `yaml:"skip"`
	// Aliases points at the alias definition source (file path or http(s) URL).
	Aliases     string         `yaml:"aliases,omitempty"`
	Parallelism int            `yaml:"parallelism,omitempty"`
	Registry    RegistryConfig `yaml:"registry,omitempty"`
}

// RegistryConfig configures the package registry client.
type RegistryConfig struct {
	URL     string        `yaml:"url,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
	Retry   RetryConfig   `yaml:"retry,omitempty"`
}

// RetryConfig holds raw retry settings; see retry.NewPolicy for defaults.
type RetryConfig struct {
	Mode       string        `yaml:"mode,omitempty"`
	Initial    time.Duration `yaml:"initial,omitempty"`
	Max        time.Duration `yaml:"max,omitempty"`
	MaxRetries *int          `yaml:"max_retries,omitempty"`
}

// RetryBackoffMode names a backoff strategy for registry retries.
type RetryBackoffMode string

const (
	RetryBackoffFixed       RetryBackoffMode = "fixed"
	RetryBackoffLinear      RetryBackoffMode = "linear"
	RetryBackoffExponential RetryBackoffMode = "exponential"
)

// NormalizeRetryBackoff parses a mode name case-insensitively; unknown names yield "".
func NormalizeRetryBackoff(raw string) RetryBackoffMode {
	switch m := RetryBackoffMode(strings.ToLower(strings.TrimSpace(raw))); m {
	case RetryBackoffFixed, RetryBackoffLinear, RetryBackoffExponential:
		return m
	default:
		return ""
	}
}

// LoadSettings reads the settings YAML at path, expanding environment variables in its content.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ferrors.ConfigError("failed to read settings file").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return ParseSettings([]byte(os.ExpandEnv(string(data))))
}

// ParseSettings decodes a settings document and applies defaults.
func ParseSettings(data []byte) (*Settings, error) {
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, ferrors.ConfigError("failed to unmarshal settings").WithCause(err).Build()
	}
	s.applyDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Settings) applyDefaults() {
	if s.Parallelism == 0 {
		s.Parallelism = DefaultParallelism
	}
	if s.Registry.URL == "" {
		s.Registry.URL = DefaultRegistryURL
	}
	if s.Registry.Timeout == 0 {
		s.Registry.Timeout = 30 * time.Second
	}
}

// Validate checks invariants that defaults cannot repair.
func (s *Settings) Validate() error {
	if s.Parallelism < 1 {
		return ferrors.ValidationError(fmt.Sprintf("parallelism must be a positive integer, got %d", s.Parallelism)).Build()
	}
	if s.Registry.Retry.Mode != "" && NormalizeRetryBackoff(s.Registry.Retry.Mode) == "" {
		return ferrors.ValidationError(fmt.Sprintf("unknown retry mode %q", s.Registry.Retry.Mode)).Build()
	}
	return nil
}

// MaxRetriesOrDefault returns the configured retry count or -1 when unset.
func (r RetryConfig) MaxRetriesOrDefault() int {
	if r.MaxRetries == nil {
		return -1
	}
	return *r.MaxRetries
}
