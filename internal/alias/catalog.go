// Package alias loads the definitions mapping physical packages onto the
// logical plugins they document (integration bundles and renamed plugins).
//
// A Catalog is built once before fan-out and never mutated afterwards, so it
// is safe for concurrent readers without locking.
package alias

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/plugindocs/internal/foundation/errors"
	"git.home.luguber.info/inful/plugindocs/internal/logfields"
	"git.home.luguber.info/inful/plugindocs/internal/plugintype"
)

// Replacement is a literal text substitution applied to an alias's documentation.
type Replacement struct {
	Replace string `yaml:"replace"`
	With    string `yaml:"with"`
}

// Definition maps one physical package onto one logical plugin.
type Definition struct {
	PhysicalPackage string          `yaml:"physical_package"`
	LogicalName     string          `yaml:"logical_name"`
	LogicalType     plugintype.Type `yaml:"logical_type"`
	// DocPath overrides the documentation location inside the source repository.
	DocPath      string        `yaml:"doc_path,omitempty"`
	Replacements []Replacement `yaml:"replacements,omitempty"`
}

// Catalog indexes definitions by physical package.
type Catalog struct {
	byPackage map[string][]Definition
}

// NewCatalog validates and indexes definitions, preserving their order per package.
func NewCatalog(defs []Definition) (*Catalog, error) {
	c := &Catalog{byPackage: make(map[string][]Definition)}
	for i, d := range defs {
		if d.PhysicalPackage == "" || d.LogicalName == "" {
			return nil, ferrors.ValidationError(fmt.Sprintf("alias definition #%d needs physical_package and logical_name", i+1)).Build()
		}
		typ, err := plugintype.Parse(string(d.LogicalType))
		if err != nil {
			return nil, ferrors.ValidationError(fmt.Sprintf("alias definition #%d: %v", i+1, err)).Build()
		}
		d.LogicalType = typ
		c.byPackage[d.PhysicalPackage] = append(c.byPackage[d.PhysicalPackage], d)
	}
	return c, nil
}

// Empty returns a catalog without definitions.
func Empty() *Catalog { return &Catalog{byPackage: map[string][]Definition{}} }

// For returns the definitions whose physical package is pkg.
func (c *Catalog) For(pkg string) []Definition {
	if c == nil {
		return nil
	}
	return slices.Clone(c.byPackage[pkg])
}

// Len reports the number of definitions.
func (c *Catalog) Len() int {
	n := 0
	for _, defs := range c.byPackage {
		n += len(defs)
	}
	return n
}

// Parse decodes a YAML list of definitions.
func Parse(data []byte) (*Catalog, error) {
	var defs []Definition
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, ferrors.ConfigError("failed to parse alias definitions").WithCause(err).Build()
	}
	return NewCatalog(defs)
}

// Load reads definitions from a file path or an http(s) URL. An empty source yields an empty catalog.
func Load(ctx context.Context, source string, client *http.Client) (*Catalog, error) {
	if source == "" {
		return Empty(), nil
	}
	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		data, err = fetch(ctx, source, client)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, ferrors.ConfigError("failed to load alias definitions").
			WithCause(err).
			WithContext("source", source).
			Build()
	}
	c, err := Parse(data)
	if err != nil {
		return nil, err
	}
	slog.Info("Loaded alias definitions", logfields.Source(source), slog.Int("count", c.Len()))
	return c, nil
}

func fetch(ctx context.Context, url string, client *http.Client) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	return io.ReadAll(resp.Body)
}
