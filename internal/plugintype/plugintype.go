// Package plugintype names the documented plugin types and the package naming
// convention (logstash-<type>-<name>) that encodes them.
package plugintype

import (
	"fmt"
	"strings"
)

// Type is a documented plugin type.
type Type string

const (
	Input       Type = "input"
	Filter      Type = "filter"
	Output      Type = "output"
	Codec       Type = "codec"
	Integration Type = "integration"
)

// Kind is the declared kind of a release: a single plugin or an integration bundle.
type Kind string

const (
	KindPlugin      Kind = "plugin"
	KindIntegration Kind = "integration"
)

const packagePrefix = "logstash-"

var known = []Type{Input, Filter, Output, Codec, Integration}

// Parse validates a raw type name.
func Parse(raw string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(raw)))
	for _, k := range known {
		if t == k {
			return t, nil
		}
	}
	return "", fmt.Errorf("unrecognized plugin type %q", raw)
}

// Kind maps the type onto its declared kind.
func (t Type) Kind() Kind {
	if t == Integration {
		return KindIntegration
	}
	return KindPlugin
}

// Dir is the artifact directory name for the type ("inputs", "codecs", ...).
func (t Type) Dir() string { return string(t) + "s" }

// SplitPackageName splits "logstash-input-foo" into (input, "foo").
func SplitPackageName(pkg string) (Type, string, error) {
	rest, ok := strings.CutPrefix(pkg, packagePrefix)
	if !ok {
		return "", "", fmt.Errorf("package %q does not follow the %s<type>-<name> convention", pkg, packagePrefix)
	}
	rawType, name, ok := strings.Cut(rest, "-")
	if !ok || name == "" {
		return "", "", fmt.Errorf("package %q has no plugin name", pkg)
	}
	t, err := Parse(rawType)
	if err != nil {
		return "", "", err
	}
	return t, name, nil
}

// CanonicalName joins a type and name back into the package naming convention.
func CanonicalName(t Type, name string) string {
	return packagePrefix + string(t) + "-" + name
}
