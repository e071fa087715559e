package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabelForScore(t *testing.T) {
	cases := []struct {
		score float64
		want  SentimentLabel
	}{
		{0.5, SentimentPositive},
		{0.11, SentimentPositive},
		{0.1, SentimentNeutral},
		{0.0, SentimentNeutral},
		{-0.1, SentimentNeutral},
		{-0.11, SentimentNegative},
		{-1.0, SentimentNegative},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, LabelForScore(c.score), "score %v", c.score)
	}
}

func TestSourceCount(t *testing.T) {
	cluster := StoryCluster{Articles: []Article{
		{Source: Source{Name: "AP"}},
		{Source: Source{Name: "Reuters"}},
		{Source: Source{Name: "AP"}},
	}}
	assert.Equal(t, 2, cluster.SourceCount())
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	assert.True(t, s.FilterAds)
	assert.True(t, s.FilterClickbait)
	assert.True(t, s.EnablePersonalization)
	assert.True(t, s.EnableNotifications)
	assert.Equal(t, 15, s.RefreshInterval)
	assert.Empty(t, s.KeywordAlerts)
}

func TestNewKeywordAlert(t *testing.T) {
	a := NewKeywordAlert("election")
	assert.Equal(t, "election", a.Keyword)
	assert.True(t, a.IsEnabled)
	assert.True(t, a.NotifyOnMatch)
	assert.Zero(t, a.MatchCount)
	assert.Nil(t, a.LastMatchDate)
}

func TestAllCategoriesCoversDeclaredSet(t *testing.T) {
	cats := AllCategories()
	assert.Len(t, cats, 10)
	assert.Equal(t, CategoryTopStories, cats[0])
}
