// Package release resolves a catalog package to an immutable, concrete release.
package release

import (
	"time"

	"git.home.luguber.info/inful/plugindocs/internal/plugintype"
	"git.home.luguber.info/inful/plugindocs/internal/source"
)

// DateLayout formats release dates in documentation.
const DateLayout = "2006-01-02"

// Unreleased replaces the release date of releases without one.
const Unreleased = "unreleased"

// Resolved is one concrete release of a package. It is never mutated after Resolve returns.
type Resolved struct {
	PackageName  string
	Version      string // registry version; informational for MainRef releases
	Tag          string
	ReleaseDate  *time.Time
	ChangelogURL string
	Type         plugintype.Type
	Source       source.Repo
}

// Kind is the declared kind of the release.
func (r *Resolved) Kind() plugintype.Kind { return r.Type.Kind() }

// FormattedDate renders ReleaseDate, or Unreleased when absent.
func (r *Resolved) FormattedDate() string {
	if r.ReleaseDate == nil {
		return Unreleased
	}
	return r.ReleaseDate.Format(DateLayout)
}

// Tag formats the tag for a requested version: "v"+version, or MainRef when unversioned.
func Tag(version *string) string {
	if version == nil {
		return source.MainRef
	}
	return "v" + *version
}
