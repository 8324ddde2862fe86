package catalog

import (
	"encoding/json"
	"os"
	"sort"

	ferrors "git.home.luguber.info/inful/plugindocs/internal/foundation/errors"
)

type reportDetails struct {
	Version string `json:"version"`
	From    string `json:"from"`
}

type report struct {
	Successful map[string]reportDetails `json:"successful"`
}

// LoadReport reads the plugin versions report at path.
func LoadReport(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ferrors.ConfigError("failed to read plugins report").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return ParseReport(data)
}

// ParseReport decodes the report's "successful" mapping into entries sorted by name.
// Processing order is irrelevant; sorting only keeps logs and tests stable.
func ParseReport(data []byte) ([]Entry, error) {
	var r report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, ferrors.ConfigError("failed to parse plugins report").WithCause(err).Build()
	}
	if r.Successful == nil {
		return nil, ferrors.ConfigError(`plugins report has no "successful" mapping`).Build()
	}
	entries := make([]Entry, 0, len(r.Successful))
	for name, d := range r.Successful {
		entries = append(entries, Entry{Name: name, Version: d.Version, Origin: Origin(d.From)})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}
