package feed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochj23/NewsMobile/internal/model"
)

func TestDefaultSourcesCoverEveryCategory(t *testing.T) {
	byCategory := map[model.Category]int{}
	for _, s := range DefaultSources() {
		byCategory[s.Category]++
		assert.NotEmpty(t, s.Name)
		assert.True(t, validLink(s.FeedURL), "source %s has invalid URL", s.Name)
		assert.Greater(t, s.Reliability, 0.0)
	}
	for _, c := range model.AllCategories() {
		assert.Positive(t, byCategory[c], "category %s has no source", c)
	}
}

func TestLoadSourcesAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yaml")
	yaml := `sources:
  - name: Minimal
    url: https://example.com/feed
  - name: Full
    url: https://example.com/full
    category: Sports
    bias: Lean Right
    reliability: 0.7
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	sources, err := LoadSources(path)
	require.NoError(t, err)
	require.Len(t, sources, 2)

	minimal := sources[0]
	assert.Equal(t, model.BiasUnknown, minimal.Bias)
	assert.Equal(t, 0.8, minimal.Reliability)
	assert.Equal(t, model.CategoryTopStories, minimal.Category)

	full := sources[1]
	assert.Equal(t, model.CategorySports, full.Category)
	assert.Equal(t, model.BiasLeanRight, full.Bias)
	assert.Equal(t, 0.7, full.Reliability)
}

func TestLoadSourcesRejectsEmptyCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sources: []\n"), 0o644))

	_, err := LoadSources(path)
	assert.Error(t, err)
}

func TestLoadSourcesMissingFile(t *testing.T) {
	_, err := LoadSources(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestSearchSourceEscapesQuery(t *testing.T) {
	src := SearchSource("San Jose")
	assert.Equal(t, "Local News", src.Name)
	assert.Contains(t, src.FeedURL, "San+Jose+news")
	assert.Equal(t, model.CategoryUS, src.Category)
}

func TestSourceForCustomFeed(t *testing.T) {
	cf := model.CustomFeed{Name: "Hacker News", URL: "https://hnrss.org/frontpage", Category: model.CategoryTechnology}
	src := SourceForCustomFeed(cf)
	assert.Equal(t, cf.Name, src.Name)
	assert.Equal(t, cf.URL, src.FeedURL)
	assert.Equal(t, model.BiasUnknown, src.Bias)
}
