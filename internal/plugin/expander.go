package plugin

import (
	"context"
	"log/slog"
	"strings"

	"git.home.luguber.info/inful/plugindocs/internal/alias"
	"git.home.luguber.info/inful/plugindocs/internal/catalog"
	"git.home.luguber.info/inful/plugindocs/internal/logfields"
	"git.home.luguber.info/inful/plugindocs/internal/plugintype"
	"git.home.luguber.info/inful/plugindocs/internal/release"
	"git.home.luguber.info/inful/plugindocs/internal/source"
)

// DefaultDocPath is where a plugin repository keeps its own documentation.
const DefaultDocPath = "docs/index.asciidoc"

// Expander maps releases onto logical plugins using the alias catalog.
type Expander struct {
	aliases  *alias.Catalog
	provider source.Provider
}

// NewExpander creates an expander. aliases may be nil.
func NewExpander(aliases *alias.Catalog, provider source.Provider) *Expander {
	return &Expander{aliases: aliases, provider: provider}
}

// Admitted reports whether a release from origin is documented at all.
// Integration bundles are only documented as part of the default distribution.
func Admitted(rel *release.Resolved, origin catalog.Origin) bool {
	return rel.Kind() != plugintype.KindIntegration || origin == catalog.OriginDefault
}

// Expand returns the logical plugins documented by rel, in alias definition
// order. It performs no I/O.
func (e *Expander) Expand(rel *release.Resolved, origin catalog.Origin) []Plugin {
	if !Admitted(rel, origin) {
		return nil
	}

	defs := e.aliases.For(rel.PackageName)
	if len(defs) == 0 {
		return []Plugin{e.plugin(rel, selfName(rel.PackageName), rel.Type, DefaultDocPath, nil)}
	}

	seen := make(map[string]struct{}, len(defs))
	plugins := make([]Plugin, 0, len(defs))
	for _, d := range defs {
		canonical := plugintype.CanonicalName(d.LogicalType, d.LogicalName)
		if _, dup := seen[canonical]; dup {
			slog.Debug("Dropping duplicate alias", logfields.Package(rel.PackageName), logfields.Plugin(canonical))
			continue
		}
		seen[canonical] = struct{}{}
		plugins = append(plugins, e.plugin(rel, d.LogicalName, d.LogicalType, docPath(rel, d), d.Replacements))
	}
	return plugins
}

func (e *Expander) plugin(rel *release.Resolved, name string, typ plugintype.Type, path string, repl []alias.Replacement) Plugin {
	repo, tag := rel.Source, rel.Tag
	fetch := func(ctx context.Context) ([]byte, error) {
		return e.provider.Fetch(ctx, repo, tag, path)
	}
	return New(name, typ, tag, path, fetch, repl...)
}

func docPath(rel *release.Resolved, d alias.Definition) string {
	switch {
	case d.DocPath != "":
		return d.DocPath
	case rel.Kind() == plugintype.KindIntegration:
		return "docs/" + string(d.LogicalType) + "-" + d.LogicalName + ".asciidoc"
	default:
		return DefaultDocPath
	}
}

// selfName strips "logstash-<type>-" from a package name.
func selfName(pkg string) string {
	if _, name, err := plugintype.SplitPackageName(pkg); err == nil {
		return name
	}
	rest, ok := strings.CutPrefix(pkg, "logstash-")
	if !ok {
		return pkg
	}
	if _, name, ok := strings.Cut(rest, "-"); ok && name != "" {
		return name
	}
	return rest
}
