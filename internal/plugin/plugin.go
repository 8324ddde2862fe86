// Package plugin expands a resolved release into the logical plugins it documents.
package plugin

import (
	"context"
	"errors"
	"strings"

	"git.home.luguber.info/inful/plugindocs/internal/alias"
	"git.home.luguber.info/inful/plugindocs/internal/plugintype"
	"git.home.luguber.info/inful/plugindocs/internal/source"
)

// FetchFunc reads a document from the plugin's source repository.
type FetchFunc func(ctx context.Context) ([]byte, error)

// Plugin is a logical view of one documented plugin. It is derived per
// release and holds no content until Fetch is called.
type Plugin struct {
	Name          string
	Type          plugintype.Type
	CanonicalName string
	Tag           string
	DocPath       string

	fetch        FetchFunc
	replacements []alias.Replacement
}

// New builds a Plugin around a deferred fetch.
func New(name string, typ plugintype.Type, tag, docPath string, fetch FetchFunc, replacements ...alias.Replacement) Plugin {
	return Plugin{
		Name:          name,
		Type:          typ,
		CanonicalName: plugintype.CanonicalName(typ, name),
		Tag:           tag,
		DocPath:       docPath,
		fetch:         fetch,
		replacements:  replacements,
	}
}

// Desc identifies the plugin in diagnostics, e.g. "[plugin:logstash-input-foo@v1.2.0]".
func (p Plugin) Desc() string {
	return "[plugin:" + p.CanonicalName + "@" + p.Tag + "]"
}

// Fetch retrieves the plugin's documentation. ok is false when the source
// has no document at DocPath for the plugin's tag.
func (p Plugin) Fetch(ctx context.Context) (content string, ok bool, err error) {
	if p.fetch == nil {
		return "", false, nil
	}
	data, err := p.fetch(ctx)
	if err != nil {
		if errors.Is(err, source.ErrNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	content = string(data)
	for _, r := range p.replacements {
		if r.Replace == "" {
			continue
		}
		content = strings.ReplaceAll(content, r.Replace, r.With)
	}
	return content, true, nil
}
