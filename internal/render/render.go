// Package render turns fetched plugin documentation into artifact content.
package render

import (
	"context"
	"regexp"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	ferrors "git.home.luguber.info/inful/plugindocs/internal/foundation/errors"
	"git.home.luguber.info/inful/plugindocs/internal/plugin"
	"git.home.luguber.info/inful/plugindocs/internal/release"
)

// Placeholders substituted with release metadata.
const (
	VersionPlaceholder      = "%VERSION%"
	ReleaseDatePlaceholder  = "%RELEASE_DATE%"
	ChangelogURLPlaceholder = "%CHANGELOG_URL%"
)

var typeDeclaration = regexp.MustCompile(`(?m)^:type: .*`)

// Context carries the variables injected into every document.
type Context struct {
	DefaultPlugin bool
}

// Variable is one injected attribute line.
type Variable struct {
	Name  string
	Value string
}

// Variables serializes the context in injection order.
func (c Context) Variables() []Variable {
	return []Variable{{Name: "default_plugin", Value: boolFlag(c.DefaultPlugin)}}
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// Renderer renders plugin documentation. The zero value is ready to use.
type Renderer struct{}

// New returns a Renderer.
func New() *Renderer { return &Renderer{} }

// Render fetches p's documentation and fills in rel's metadata. ok is false
// when the plugin has no documentation; a failing fetch is reported as
// DocumentationUnavailable.
func (r *Renderer) Render(ctx context.Context, p plugin.Plugin, rel *release.Resolved, c Context) (string, bool, error) {
	raw, ok, err := p.Fetch(ctx)
	if err != nil {
		return "", false, ferrors.DocumentationUnavailable(p.CanonicalName).
			WithCause(err).
			WithContext("tag", p.Tag).
			WithContext("doc_path", p.DocPath).
			Build()
	}
	if !ok {
		return "", false, nil
	}
	content, err := decode(raw)
	if err != nil {
		return "", false, ferrors.DocumentationUnavailable(p.CanonicalName).WithCause(err).Build()
	}
	content = Substitute(content, rel)
	return InjectVariables(content, c.Variables()), true, nil
}

// decode normalizes content to UTF-8 without a byte order mark.
func decode(s string) (string, error) {
	out, _, err := transform.String(unicode.BOMOverride(unicode.UTF8.NewDecoder()), s)
	return out, err
}

// Substitute replaces the release placeholders literally. Other %...% tokens are left alone.
func Substitute(content string, rel *release.Resolved) string {
	return strings.NewReplacer(
		VersionPlaceholder, rel.Tag,
		ReleaseDatePlaceholder, rel.FormattedDate(),
		ChangelogURLPlaceholder, rel.ChangelogURL,
	).Replace(content)
}

// InjectVariables inserts ":<name>: <value>" lines right after the first
// ":type:" declaration. Content without one is returned unchanged.
func InjectVariables(content string, vars []Variable) string {
	loc := typeDeclaration.FindStringIndex(content)
	if loc == nil || len(vars) == 0 {
		return content
	}
	var b strings.Builder
	b.Grow(len(content) + 32*len(vars))
	b.WriteString(content[:loc[1]])
	for _, v := range vars {
		b.WriteString("\n:" + v.Name + ": " + v.Value)
	}
	b.WriteString(content[loc[1]:])
	return b.String()
}
