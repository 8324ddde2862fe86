// Package registry is a client for RubyGems-compatible package registries.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	ferrors "git.home.luguber.info/inful/plugindocs/internal/foundation/errors"
	"git.home.luguber.info/inful/plugindocs/internal/logfields"
	"git.home.luguber.info/inful/plugindocs/internal/retry"
	"git.home.luguber.info/inful/plugindocs/internal/version"
)

// Client looks up package versions on a RubyGems-compatible registry.
type Client struct {
	baseURL    string
	httpClient *http.Client
	policy     retry.Policy
}

// NewClient creates a registry client for baseURL (e.g. https://rubygems.org).
func NewClient(baseURL string, timeout time.Duration, policy retry.Policy) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		policy:     policy,
	}
}

// Lookup returns metadata for name at version, or for its latest release when version is nil.
// A missing package or version yields a ReleaseNotFound error.
func (c *Client) Lookup(ctx context.Context, name string, version *string) (*Metadata, error) {
	endpoint := fmt.Sprintf("%s/api/v1/gems/%s.json", c.baseURL, url.PathEscape(name))
	tag := "latest"
	if version != nil {
		endpoint = fmt.Sprintf("%s/api/v2/rubygems/%s/versions/%s.json", c.baseURL, url.PathEscape(name), url.PathEscape(*version))
		tag = "v" + *version
	}

	var gem gemResponse
	err := c.policy.Do(ctx, func(attempt int) error {
		if attempt > 0 {
			slog.Debug("Retrying registry lookup", logfields.Package(name), slog.Int("attempt", attempt))
		}
		return c.get(ctx, endpoint, name, tag, &gem)
	})
	if err != nil {
		return nil, err
	}
	if version != nil && gem.Version != "" && gem.Version != *version {
		return nil, ferrors.ReleaseNotFound(name, tag).
			WithContext("returned_version", gem.Version).
			Build()
	}
	return gem.toMetadata(), nil
}

func (c *Client) get(ctx context.Context, endpoint, name, tag string, out *gemResponse) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return ferrors.InternalError("failed to build registry request").WithCause(err).Build()
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "plugindocs/"+version.Version)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ferrors.NetworkError("registry request failed").
			WithCause(err).
			WithContext("url", endpoint).
			Build()
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ferrors.ReleaseNotFound(name, tag).Build()
	case resp.StatusCode == http.StatusTooManyRequests:
		return ferrors.RegistryError("registry rate limit exceeded").RateLimit().WithContext("url", endpoint).Build()
	case resp.StatusCode >= 500:
		return ferrors.RegistryError(fmt.Sprintf("registry error: %s", resp.Status)).WithContext("url", endpoint).Build()
	case resp.StatusCode >= 400:
		return ferrors.RegistryError(fmt.Sprintf("registry rejected request: %s", resp.Status)).
			WithRetry(ferrors.RetryNever).
			WithContext("url", endpoint).
			Build()
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return ferrors.RegistryError("failed to decode registry response").
			WithRetry(ferrors.RetryNever).
			WithCause(err).
			WithContext("url", endpoint).
			Build()
	}
	return nil
}
