package registry

import "time"

// Metadata describes one published version of a package.
type Metadata struct {
	Name    string
	Version string
	// PublishedAt is the registry's creation time for the version, when known.
	PublishedAt *time.Time
	// SourceCodeURI is the declared source repository, empty when undeclared.
	SourceCodeURI string
	// PluginType is the declared logstash_plugin_type, empty when undeclared.
	PluginType string
}

// gemResponse covers both the v1 gem endpoint and the v2 version endpoint.
type gemResponse struct {
	Name             string            `json:"name"`
	Version          string            `json:"version"`
	CreatedAt        *time.Time        `json:"created_at"`
	VersionCreatedAt *time.Time        `json:"version_created_at"`
	SourceCodeURI    string            `json:"source_code_uri"`
	Metadata         map[string]string `json:"metadata"`
}

func (g gemResponse) toMetadata() *Metadata {
	m := &Metadata{
		Name:          g.Name,
		Version:       g.Version,
		PublishedAt:   g.VersionCreatedAt,
		SourceCodeURI: g.SourceCodeURI,
		PluginType:    g.Metadata["logstash_plugin_type"],
	}
	if m.PublishedAt == nil {
		m.PublishedAt = g.CreatedAt
	}
	if uri := g.Metadata["source_code_uri"]; uri != "" {
		m.SourceCodeURI = uri
	}
	return m
}
