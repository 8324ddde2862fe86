// Package source locates a package's source repository and reads
// documentation and release dates from it.
package source

import (
	"fmt"
	"regexp"
	"strings"

	ferrors "git.home.luguber.info/inful/plugindocs/internal/foundation/errors"
)

// MainRef is the tag sentinel for unversioned (latest) resolution.
const MainRef = "main"

// Repo identifies a GitHub repository.
type Repo struct {
	Org  string
	Repo string
}

func (r Repo) String() string { return r.Org + "/" + r.Repo }

// URL is the repository's web location.
func (r Repo) URL() string { return fmt.Sprintf("https://github.com/%s/%s", r.Org, r.Repo) }

// CloneURL is the repository's git transport location.
func (r Repo) CloneURL() string { return r.URL() + ".git" }

// ChangelogURL points at CHANGELOG.md as of ref.
func (r Repo) ChangelogURL(ref string) string {
	return fmt.Sprintf("%s/blob/%s/CHANGELOG.md", r.URL(), ref)
}

var githubPattern = regexp.MustCompile(`\bgithub\.com[/:](?P<org>[^/]+)/(?P<repo>[^/?#]+)`)

// Locate determines the authoritative repository for pkg. A declared
// sourceCodeURI must point at github.com; without one the repository is
// defaultOrg/pkg.
func Locate(pkg, sourceCodeURI, defaultOrg string) (Repo, error) {
	uri := strings.TrimSpace(sourceCodeURI)
	if uri == "" {
		return Repo{Org: defaultOrg, Repo: pkg}, nil
	}
	m := githubPattern.FindStringSubmatch(uri)
	if m == nil {
		return Repo{}, ferrors.UnsupportedSourceLocation(pkg, uri).Build()
	}
	repo := strings.TrimSuffix(m[githubPattern.SubexpIndex("repo")], ".git")
	if repo == "" {
		return Repo{}, ferrors.UnsupportedSourceLocation(pkg, uri).Build()
	}
	return Repo{Org: m[githubPattern.SubexpIndex("org")], Repo: repo}, nil
}
