package source

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a document or release does not exist at the requested ref.
var ErrNotFound = errors.New("not found")

// Provider reads from source repositories.
type Provider interface {
	// Fetch returns the file at path as of ref (a tag or MainRef).
	Fetch(ctx context.Context, repo Repo, ref, path string) ([]byte, error)
	// ReleaseDate returns the publication date of tag, or nil when unknown.
	ReleaseDate(ctx context.Context, repo Repo, tag string) (*time.Time, error)
}
