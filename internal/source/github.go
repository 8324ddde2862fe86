package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v74/github"

	ferrors "git.home.luguber.info/inful/plugindocs/internal/foundation/errors"
	"git.home.luguber.info/inful/plugindocs/internal/logfields"
)

// GitHubProvider reads repository files and releases through the GitHub REST API.
type GitHubProvider struct {
	client *github.Client
}

// NewGitHubProvider creates a provider; token may be empty for anonymous access.
func NewGitHubProvider(token string) *GitHubProvider {
	client := github.NewClient(&http.Client{Timeout: 30 * time.Second})
	if token != "" {
		client = client.WithAuthToken(token)
	}
	return &GitHubProvider{client: client}
}

// WithBaseURL points the provider at another API root (GitHub Enterprise or a test server).
func (p *GitHubProvider) WithBaseURL(raw string) (*GitHubProvider, error) {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid GitHub API URL %q: %w", raw, err)
	}
	p.client.BaseURL = u
	return p, nil
}

// Fetch returns the file at path as of ref.
func (p *GitHubProvider) Fetch(ctx context.Context, repo Repo, ref, path string) ([]byte, error) {
	opts := &github.RepositoryContentGetOptions{Ref: ref}
	file, _, resp, err := p.client.Repositories.GetContents(ctx, repo.Org, repo.Repo, path, opts)
	if err != nil {
		if isNotFound(resp) {
			return nil, fmt.Errorf("%s@%s:%s: %w", repo, ref, path, ErrNotFound)
		}
		return nil, p.classify(err, repo, "failed to fetch file")
	}
	if file == nil {
		// path names a directory
		return nil, fmt.Errorf("%s@%s:%s is not a file: %w", repo, ref, path, ErrNotFound)
	}

	content, err := file.GetContent()
	if err == nil {
		return []byte(content), nil
	}
	// Files above the contents API size limit come back without inline content.
	slog.Debug("Falling back to raw download", logfields.Source(repo.String()), logfields.Path(path), logfields.Error(err))
	rc, resp, err := p.client.Repositories.DownloadContents(ctx, repo.Org, repo.Repo, path, opts)
	if err != nil {
		if isNotFound(resp) {
			return nil, fmt.Errorf("%s@%s:%s: %w", repo, ref, path, ErrNotFound)
		}
		return nil, p.classify(err, repo, "failed to download file")
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// ReleaseDate returns the publication date of the GitHub release for tag, or nil when none exists.
func (p *GitHubProvider) ReleaseDate(ctx context.Context, repo Repo, tag string) (*time.Time, error) {
	rel, resp, err := p.client.Repositories.GetReleaseByTag(ctx, repo.Org, repo.Repo, tag)
	if err != nil {
		if isNotFound(resp) {
			return nil, nil
		}
		return nil, p.classify(err, repo, "failed to look up release")
	}
	switch {
	case rel.PublishedAt != nil:
		t := rel.GetPublishedAt().Time
		return &t, nil
	case rel.CreatedAt != nil:
		t := rel.GetCreatedAt().Time
		return &t, nil
	default:
		return nil, nil
	}
}

func (p *GitHubProvider) classify(err error, repo Repo, message string) error {
	b := ferrors.SourceError(message).WithCause(err).WithContext("repository", repo.String())
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		b = b.RateLimit()
	}
	return b.Build()
}

func isNotFound(resp *github.Response) bool {
	return resp != nil && resp.StatusCode == http.StatusNotFound
}
