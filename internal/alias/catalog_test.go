package alias

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/plugindocs/internal/foundation/errors"
	"git.home.luguber.info/inful/plugindocs/internal/plugintype"
)

const sampleAliases = `
- physical_package: logstash-integration-kafka
  logical_name: kafka
  logical_type: input
- physical_package: logstash-integration-kafka
  logical_name: kafka
  logical_type: output
- physical_package: logstash-input-beats
  logical_name: elastic_agent
  logical_type: input
  doc_path: docs/index.asciidoc
  replacements:
    - replace: ":plugin: beats"
      with: ":plugin: elastic_agent"
`

func TestParseIndexesByPackage(t *testing.T) {
	c, err := Parse([]byte(sampleAliases))
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())

	kafka := c.For("logstash-integration-kafka")
	require.Len(t, kafka, 2)
	assert.Equal(t, plugintype.Input, kafka[0].LogicalType)
	assert.Equal(t, plugintype.Output, kafka[1].LogicalType)

	beats := c.For("logstash-input-beats")
	require.Len(t, beats, 1)
	assert.Equal(t, "docs/index.asciidoc", beats[0].DocPath)
	assert.Equal(t, []Replacement{{Replace: ":plugin: beats", With: ":plugin: elastic_agent"}}, beats[0].Replacements)

	assert.Empty(t, c.For("logstash-input-foo"))
}

func TestForReturnsCopy(t *testing.T) {
	c, err := Parse([]byte(sampleAliases))
	require.NoError(t, err)

	defs := c.For("logstash-integration-kafka")
	defs[0].LogicalName = "mutated"
	assert.Equal(t, "kafka", c.For("logstash-integration-kafka")[0].LogicalName)
}

func TestParseValidation(t *testing.T) {
	_, err := Parse([]byte("- physical_package: x\n  logical_type: input\n"))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))

	_, err = Parse([]byte("- physical_package: x\n  logical_name: y\n  logical_type: widget\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized plugin type")
}

func TestLoadSources(t *testing.T) {
	ctx := context.Background()

	empty, err := Load(ctx, "", nil)
	require.NoError(t, err)
	assert.Zero(t, empty.Len())

	path := filepath.Join(t.TempDir(), "aliases.yml")
	require.NoError(t, os.WriteFile(path, []byte(sampleAliases), 0o600))
	fromFile, err := Load(ctx, path, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, fromFile.Len())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/aliases.yml" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(sampleAliases))
	}))
	defer srv.Close()

	fromURL, err := Load(ctx, srv.URL+"/aliases.yml", srv.Client())
	require.NoError(t, err)
	assert.Equal(t, 3, fromURL.Len())

	_, err = Load(ctx, srv.URL+"/missing.yml", srv.Client())
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestNilCatalog(t *testing.T) {
	var c *Catalog
	assert.Nil(t, c.For("anything"))
}
