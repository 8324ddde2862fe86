package release

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	ferrors "git.home.luguber.info/inful/plugindocs/internal/foundation/errors"
	"git.home.luguber.info/inful/plugindocs/internal/logfields"
	"git.home.luguber.info/inful/plugindocs/internal/plugintype"
	"git.home.luguber.info/inful/plugindocs/internal/registry"
	"git.home.luguber.info/inful/plugindocs/internal/source"
)

// Registry looks up package metadata.
type Registry interface {
	Lookup(ctx context.Context, name string, version *string) (*registry.Metadata, error)
}

// DateSource looks up release dates in the source repository.
type DateSource interface {
	ReleaseDate(ctx context.Context, repo source.Repo, tag string) (*time.Time, error)
}

// Resolver turns package names into Resolved releases. It holds no mutable
// state and is shared by all workers.
type Resolver struct {
	registry   Registry
	dates      DateSource
	defaultOrg string
}

// NewResolver creates a resolver. dates may be nil to rely on registry dates only.
func NewResolver(reg Registry, dates DateSource, defaultOrg string) *Resolver {
	return &Resolver{registry: reg, dates: dates, defaultOrg: defaultOrg}
}

// Resolve resolves name at version, or its latest release when version is nil.
func (r *Resolver) Resolve(ctx context.Context, name string, version *string) (*Resolved, error) {
	tag := Tag(version)

	meta, err := r.registry.Lookup(ctx, name, version)
	if err != nil {
		if ferrors.IsReleaseNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("registry lookup for %s@%s: %w", name, tag, err)
	}

	repo, err := source.Locate(name, meta.SourceCodeURI, r.defaultOrg)
	if err != nil {
		return nil, err
	}

	typ, err := declaredType(name, meta.PluginType)
	if err != nil {
		return nil, ferrors.ValidationError("unrecognized plugin type").
			WithCause(err).
			WithContext("package", name).
			Build()
	}

	rel := &Resolved{
		PackageName:  name,
		Version:      meta.Version,
		Tag:          tag,
		ChangelogURL: repo.ChangelogURL(tag),
		Type:         typ,
		Source:       repo,
	}
	if version != nil {
		rel.ReleaseDate = r.releaseDate(ctx, meta, repo, tag)
	}
	return rel, nil
}

// releaseDate prefers the registry's publication time and falls back to the
// source repository. A failed fallback only costs the date.
func (r *Resolver) releaseDate(ctx context.Context, meta *registry.Metadata, repo source.Repo, tag string) *time.Time {
	if meta.PublishedAt != nil {
		t := meta.PublishedAt.UTC()
		return &t
	}
	if r.dates == nil {
		return nil
	}
	t, err := r.dates.ReleaseDate(ctx, repo, tag)
	if err != nil {
		slog.Warn("Release date lookup failed", logfields.Package(meta.Name), logfields.Tag(tag), logfields.Error(err))
		return nil
	}
	return t
}

func declaredType(name, declared string) (plugintype.Type, error) {
	if declared != "" {
		return plugintype.Parse(declared)
	}
	typ, _, err := plugintype.SplitPackageName(name)
	return typ, err
}
