package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSelector(t *testing.T) {
	tests := []struct {
		in   string
		want Selector
	}{
		{"[role='tab']", Selector{CSS: "[role='tab']"}},
		{"button:has-text('Load more')", Selector{CSS: "button", Text: "Load more"}},
		{`a:has-text("Next")`, Selector{CSS: "a", Text: "Next"}},
		{":has-text('More')", Selector{CSS: "*", Text: "More"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSelector(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseSelector("   ")
	assert.Error(t, err)
}

func TestSelectorString_RoundTrip(t *testing.T) {
	for _, s := range []string{"button:has-text('Show more')", "a.morelink"} {
		assert.Equal(t, s, MustSelector(s).String())
	}
}

func TestParse_OverridesOnlyGivenLists(t *testing.T) {
	r, err := Parse([]byte(`
js_heavy_domains:
  - WWW.Example.com
load_more:
  - "button:has-text('More results')"
`))
	require.NoError(t, err)

	assert.Equal(t, []string{"example.com"}, r.JSHeavyDomains)
	require.Len(t, r.LoadMore, 1)
	assert.Equal(t, Selector{CSS: "button", Text: "More results"}, r.LoadMore[0])

	def := Default()
	assert.Equal(t, def.Tabs, r.Tabs)
	assert.Equal(t, def.Pagination, r.Pagination)
	assert.Equal(t, def.Noise, r.Noise)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("noise:\n  - \"[class*='promo']\"\n"), 0644))

	r, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"[class*='promo']"}, r.Noise)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParse_InvalidSelector(t *testing.T) {
	_, err := Parse([]byte("tabs:\n  - \"\"\n"))
	assert.Error(t, err)
}
