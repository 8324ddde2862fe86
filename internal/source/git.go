package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"

	ferrors "git.home.luguber.info/inful/plugindocs/internal/foundation/errors"
	"git.home.luguber.info/inful/plugindocs/internal/logfields"
	"git.home.luguber.info/inful/plugindocs/internal/workspace"
)

// GitProvider reads documentation from shallow checkouts of tags (or MainRef)
// placed in a workspace. Each repo@ref is cloned at most once per run.
type GitProvider struct {
	ws     *workspace.Manager
	depth  int
	urlFor func(Repo) string

	mu        sync.Mutex
	checkouts map[string]*checkout
}

type checkout struct {
	once sync.Once
	repo *git.Repository
	err  error
}

// NewGitProvider creates a provider cloning into ws with the given depth (0 = full history).
func NewGitProvider(ws *workspace.Manager, depth int) *GitProvider {
	return &GitProvider{
		ws:        ws,
		depth:     depth,
		urlFor:    Repo.CloneURL,
		checkouts: make(map[string]*checkout),
	}
}

// WithURLResolver overrides how a Repo maps to a clone URL (mirrors, local fixtures).
func (p *GitProvider) WithURLResolver(fn func(Repo) string) *GitProvider { p.urlFor = fn; return p }

// Fetch returns the file at path from the checkout of ref.
func (p *GitProvider) Fetch(ctx context.Context, repo Repo, ref, path string) ([]byte, error) {
	if !filepath.IsLocal(filepath.FromSlash(path)) {
		return nil, fmt.Errorf("document path %q escapes the repository: %w", path, ErrNotFound)
	}
	_, dir, err := p.open(ctx, repo, ref)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(path)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s@%s:%s: %w", repo, ref, path, ErrNotFound)
	}
	return data, err
}

// ReleaseDate returns the committer date of the commit tag points at.
func (p *GitProvider) ReleaseDate(ctx context.Context, repo Repo, tag string) (*time.Time, error) {
	co, _, err := p.open(ctx, repo, tag)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	head, err := co.repo.Head()
	if err != nil {
		return nil, ferrors.SourceError("failed to resolve checkout head").WithCause(err).Build()
	}
	commit, err := co.repo.CommitObject(head.Hash())
	if err != nil {
		return nil, ferrors.SourceError("failed to read tagged commit").WithCause(err).Build()
	}
	when := commit.Committer.When.UTC()
	return &when, nil
}

func (p *GitProvider) open(ctx context.Context, repo Repo, ref string) (*checkout, string, error) {
	dir, err := p.ws.Subdir(repo.Org, repo.Repo+"@"+ref)
	if err != nil {
		return nil, "", ferrors.InternalError("invalid checkout location").WithCause(err).Build()
	}

	key := repo.String() + "@" + ref
	p.mu.Lock()
	co, ok := p.checkouts[key]
	if !ok {
		co = &checkout{}
		p.checkouts[key] = co
	}
	p.mu.Unlock()

	co.once.Do(func() {
		co.repo, co.err = p.clone(ctx, repo, ref, dir)
	})
	return co, dir, co.err
}

func (p *GitProvider) clone(ctx context.Context, repo Repo, ref, dir string) (*git.Repository, error) {
	if existing, err := git.PlainOpen(dir); err == nil {
		slog.Debug("Reusing checkout", logfields.Source(repo.String()), logfields.Tag(ref), logfields.Path(dir))
		return existing, nil
	}
	refName := plumbing.NewTagReferenceName(ref)
	if ref == MainRef {
		refName = plumbing.NewBranchReferenceName(ref)
	}
	url := p.urlFor(repo)
	slog.Debug("Cloning source", logfields.URL(url), logfields.Tag(ref), logfields.Path(dir))
	r, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:           url,
		ReferenceName: refName,
		SingleBranch:  true,
		Depth:         p.depth,
		Tags:          git.NoTags,
	})
	if err == nil {
		return r, nil
	}
	_ = os.RemoveAll(dir)
	if errors.Is(err, git.NoMatchingRefSpecError{}) ||
		errors.Is(err, plumbing.ErrReferenceNotFound) ||
		errors.Is(err, transport.ErrRepositoryNotFound) {
		return nil, fmt.Errorf("%s@%s: %w", repo, ref, ErrNotFound)
	}
	return nil, ferrors.SourceError("failed to clone source repository").
		Retryable().
		WithCause(err).
		WithContext("repository", repo.String()).
		WithContext("ref", ref).
		Build()
}
