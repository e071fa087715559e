package feed

import (
	"fmt"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kochj23/NewsMobile/internal/model"
)

// DefaultSources is the built-in catalog. Immutable; user additions go
// through the custom feed manager instead.
func DefaultSources() []model.Source {
	return []model.Source{
		{Name: "Associated Press", FeedURL: "https://feedx.net/rss/ap.xml", Category: model.CategoryTopStories, Bias: model.BiasCenter, Reliability: 0.95},
		{Name: "Reuters", FeedURL: "https://feedx.net/rss/reuters.xml", Category: model.CategoryTopStories, Bias: model.BiasCenter, Reliability: 0.95},
		{Name: "NPR", FeedURL: "https://feeds.npr.org/1001/rss.xml", Category: model.CategoryTopStories, Bias: model.BiasLeanLeft, Reliability: 0.9},
		{Name: "NY Times US", FeedURL: "https://rss.nytimes.com/services/xml/rss/nyt/US.xml", Category: model.CategoryUS, Bias: model.BiasLeanLeft, Reliability: 0.9},
		{Name: "BBC World", FeedURL: "https://feeds.bbci.co.uk/news/world/rss.xml", Category: model.CategoryWorld, Bias: model.BiasCenter, Reliability: 0.9},
		{Name: "The Guardian", FeedURL: "https://www.theguardian.com/world/rss", Category: model.CategoryWorld, Bias: model.BiasLeanLeft, Reliability: 0.85},
		{Name: "CNBC", FeedURL: "https://search.cnbc.com/rs/search/combinedcms/view.xml?partnerId=wrss01&id=100003114", Category: model.CategoryBusiness, Bias: model.BiasCenter, Reliability: 0.85},
		{Name: "TechCrunch", FeedURL: "https://techcrunch.com/feed/", Category: model.CategoryTechnology, Bias: model.BiasCenter, Reliability: 0.85},
		{Name: "Ars Technica", FeedURL: "https://feeds.arstechnica.com/arstechnica/index", Category: model.CategoryTechnology, Bias: model.BiasCenter, Reliability: 0.9},
		{Name: "The Verge", FeedURL: "https://www.theverge.com/rss/index.xml", Category: model.CategoryTechnology, Bias: model.BiasCenter, Reliability: 0.85},
		{Name: "Science Daily", FeedURL: "https://www.sciencedaily.com/rss/all.xml", Category: model.CategoryScience, Bias: model.BiasCenter, Reliability: 0.9},
		{Name: "Medical News Today", FeedURL: "https://www.medicalnewstoday.com/rss/featured.xml", Category: model.CategoryHealth, Bias: model.BiasCenter, Reliability: 0.85},
		{Name: "ESPN", FeedURL: "https://www.espn.com/espn/rss/news", Category: model.CategorySports, Bias: model.BiasCenter, Reliability: 0.85},
		{Name: "Variety", FeedURL: "https://variety.com/feed/", Category: model.CategoryEntertainment, Bias: model.BiasCenter, Reliability: 0.85},
		{Name: "Politico", FeedURL: "https://rss.politico.com/politics-news.xml", Category: model.CategoryPolitics, Bias: model.BiasCenter, Reliability: 0.85},
		{Name: "The Hill", FeedURL: "https://thehill.com/feed/", Category: model.CategoryPolitics, Bias: model.BiasCenter, Reliability: 0.85},
	}
}

// SuggestedFeeds are shown to users adding a custom feed.
func SuggestedFeeds() []model.CustomFeed {
	suggestions := []struct {
		name     string
		url      string
		category model.Category
	}{
		{"Hacker News", "https://hnrss.org/frontpage", model.CategoryTechnology},
		{"Reddit Technology", "https://www.reddit.com/r/technology/.rss", model.CategoryTechnology},
		{"MacRumors", "https://feeds.macrumors.com/MacRumors-All", model.CategoryTechnology},
		{"9to5Mac", "https://9to5mac.com/feed/", model.CategoryTechnology},
		{"Wired", "https://www.wired.com/feed/rss", model.CategoryTechnology},
		{"Nature News", "https://www.nature.com/nature.rss", model.CategoryScience},
		{"NASA", "https://www.nasa.gov/rss/dyn/breaking_news.rss", model.CategoryScience},
	}

	feeds := make([]model.CustomFeed, 0, len(suggestions))
	for _, s := range suggestions {
		feeds = append(feeds, model.CustomFeed{Name: s.name, URL: s.url, Category: s.category, IsEnabled: true})
	}
	return feeds
}

type sourcesConfig struct {
	Sources []model.Source `yaml:"sources"`
}

// LoadSources reads a catalog override from a YAML file.
func LoadSources(path string) ([]model.Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg sourcesConfig
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode sources config: %w", err)
	}
	if len(cfg.Sources) == 0 {
		return nil, fmt.Errorf("sources config %s declares no sources", path)
	}

	for i := range cfg.Sources {
		s := &cfg.Sources[i]
		if s.Bias == "" {
			s.Bias = model.BiasUnknown
		}
		if s.Reliability == 0 {
			s.Reliability = 0.8
		}
		if s.Category == "" {
			s.Category = model.CategoryTopStories
		}
	}
	return cfg.Sources, nil
}

// SearchSource builds a local-news source for a city or ZIP query against
// the Google News search endpoint.
func SearchSource(location string) model.Source {
	q := url.QueryEscape(location + " news")
	return model.Source{
		Name:        "Local News",
		FeedURL:     "https://news.google.com/rss/search?q=" + q + "&hl=en-US&gl=US&ceid=US:en",
		Category:    model.CategoryUS,
		Bias:        model.BiasCenter,
		Reliability: 0.8,
	}
}

// SourceForCustomFeed adapts a user feed into a source with unknown bias.
func SourceForCustomFeed(cf model.CustomFeed) model.Source {
	return model.Source{
		Name:        cf.Name,
		FeedURL:     cf.URL,
		Category:    cf.Category,
		Bias:        model.BiasUnknown,
		Reliability: 0.8,
	}
}
