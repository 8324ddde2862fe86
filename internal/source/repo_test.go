package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/plugindocs/internal/foundation/errors"
)

func TestLocate(t *testing.T) {
	cases := []struct {
		name string
		uri  string
		want Repo
	}{
		{"undeclared uses default org", "", Repo{Org: "logstash-plugins", Repo: "logstash-input-foo"}},
		{"plain https", "https://github.com/acme/logstash-input-foo", Repo{Org: "acme", Repo: "logstash-input-foo"}},
		{"git suffix", "https://github.com/acme/logstash-input-foo.git", Repo{Org: "acme", Repo: "logstash-input-foo"}},
		{"tree path", "https://github.com/acme/foo/tree/main/docs", Repo{Org: "acme", Repo: "foo"}},
		{"www and fragment", "http://www.github.com/acme/foo#readme", Repo{Org: "acme", Repo: "foo"}},
		{"scp-like ssh", "git@github.com:acme/foo.git", Repo{Org: "acme", Repo: "foo"}},
		{"ssh scheme", "ssh://git@github.com/elastic/logstash-input-foo.git", Repo{Org: "elastic", Repo: "logstash-input-foo"}},
		{"git+https scheme", "git+https://github.com/acme/foo", Repo{Org: "acme", Repo: "foo"}},
		{"git scheme", "git://github.com/acme/foo.git", Repo{Org: "acme", Repo: "foo"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Locate("logstash-input-foo", tc.uri, "logstash-plugins")
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLocateUnsupported(t *testing.T) {
	for _, uri := range []string{
		"https://gitlab.com/acme/logstash-input-foo",
		"https://notgithub.com/acme/foo",
		"https://github.com/acme",
	} {
		_, err := Locate("logstash-input-foo", uri, "logstash-plugins")
		require.Error(t, err, uri)
		assert.True(t, ferrors.IsUnsupportedSourceLocation(err), uri)
	}
}

func TestRepoURLs(t *testing.T) {
	r := Repo{Org: "logstash-plugins", Repo: "logstash-input-foo"}
	assert.Equal(t, "logstash-plugins/logstash-input-foo", r.String())
	assert.Equal(t, "https://github.com/logstash-plugins/logstash-input-foo/blob/v3.2.0/CHANGELOG.md", r.ChangelogURL("v3.2.0"))
	assert.Equal(t, "https://github.com/logstash-plugins/logstash-input-foo.git", r.CloneURL())
}
