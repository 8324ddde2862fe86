package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/plugindocs/internal/foundation/errors"
)

const sampleReport = `{
  "successful": {
    "logstash-output-elasticsearch": {"version": "11.22.3", "from": "default"},
    "logstash-input-foo": {"version": "3.2.0", "from": "community"},
    "logstash-filter-bare": {"from": "default"}
  },
  "failed": {"logstash-input-broken": {}}
}`

func TestParseReport(t *testing.T) {
	entries, err := ParseReport([]byte(sampleReport))
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, Entry{Name: "logstash-filter-bare", Origin: OriginDefault}, entries[0])
	assert.Equal(t, Entry{Name: "logstash-input-foo", Version: "3.2.0", Origin: OriginCommunity}, entries[1])
	assert.True(t, entries[2].IsDefault())
	assert.False(t, entries[1].IsDefault())
}

func TestRequestedVersion(t *testing.T) {
	e := Entry{Name: "logstash-input-foo", Version: "3.2.0"}

	v := e.RequestedVersion(false)
	require.NotNil(t, v)
	assert.Equal(t, "3.2.0", *v)
	assert.Nil(t, e.RequestedVersion(true), "--main ignores the pinned version")
	assert.Nil(t, Entry{Name: "x"}.RequestedVersion(false))
}

func TestParseReportErrors(t *testing.T) {
	_, err := ParseReport([]byte(`{"failed": {}}`))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))

	_, err = ParseReport([]byte(`not json`))
	require.Error(t, err)

	_, err = LoadReport(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestLoadReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plugins.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleReport), 0o600))

	entries, err := LoadReport(path)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}
