// Package catalog parses the plugin catalog report into immutable entries.
package catalog

// Origin tells where a catalog entry comes from.
type Origin string

const (
	// OriginDefault marks plugins bundled in the default distribution.
	OriginDefault Origin = "default"
	// OriginCommunity marks optionally installed plugins.
	OriginCommunity Origin = "community"
)

// Entry is one package of the catalog.
type Entry struct {
	Name    string
	Version string // empty when the report carries no version
	Origin  Origin
}

// IsDefault reports whether the entry belongs to the default distribution.
func (e Entry) IsDefault() bool { return e.Origin == OriginDefault }

// RequestedVersion returns the version to resolve, or nil for the latest release.
// When useLatest is set the report version is ignored.
func (e Entry) RequestedVersion(useLatest bool) *string {
	if useLatest || e.Version == "" {
		return nil
	}
	v := e.Version
	return &v
}
