package feed

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kochj23/NewsMobile/internal/model"
)

// SettingsStore is the slice of the settings manager the feed layer needs.
type SettingsStore interface {
	Current() model.Settings
	Update(mutate func(*model.Settings)) error
}

// CustomFeeds manages the user-added feed list inside settings. Adding a
// malformed URL fails synchronously; everything downstream degrades instead.
type CustomFeeds struct {
	settings SettingsStore
	fetcher  *Fetcher
	parser   *Parser
}

func NewCustomFeeds(settings SettingsStore, fetcher *Fetcher, parser *Parser) *CustomFeeds {
	return &CustomFeeds{settings: settings, fetcher: fetcher, parser: parser}
}

// Add validates and appends a feed. Duplicate URLs are rejected.
func (cf *CustomFeeds) Add(name, rawURL string, category model.Category) (model.CustomFeed, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.CustomFeed{}, fmt.Errorf("feed name must not be empty")
	}

	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return model.CustomFeed{}, fmt.Errorf("invalid feed URL %q", rawURL)
	}

	feed := model.CustomFeed{
		ID:        uuid.New(),
		Name:      name,
		URL:       u.String(),
		Category:  category,
		IsEnabled: true,
	}

	var dup bool
	updateErr := cf.settings.Update(func(s *model.Settings) {
		for _, existing := range s.CustomFeeds {
			if existing.URL == feed.URL {
				dup = true
				return
			}
		}
		s.CustomFeeds = append(s.CustomFeeds, feed)
	})
	if updateErr != nil {
		return model.CustomFeed{}, updateErr
	}
	if dup {
		return model.CustomFeed{}, fmt.Errorf("feed %s already added", feed.URL)
	}
	return feed, nil
}

// Remove deletes a feed by id.
func (cf *CustomFeeds) Remove(id uuid.UUID) error {
	return cf.settings.Update(func(s *model.Settings) {
		kept := s.CustomFeeds[:0]
		for _, f := range s.CustomFeeds {
			if f.ID != id {
				kept = append(kept, f)
			}
		}
		s.CustomFeeds = kept
	})
}

// Toggle enables or disables a feed by id.
func (cf *CustomFeeds) Toggle(id uuid.UUID, enabled bool) error {
	return cf.settings.Update(func(s *model.Settings) {
		for i := range s.CustomFeeds {
			if s.CustomFeeds[i].ID == id {
				s.CustomFeeds[i].IsEnabled = enabled
			}
		}
	})
}

// Enabled returns the feeds that currently participate in a refresh.
func (cf *CustomFeeds) Enabled() []model.CustomFeed {
	var enabled []model.CustomFeed
	for _, f := range cf.settings.Current().CustomFeeds {
		if f.IsEnabled {
			enabled = append(enabled, f)
		}
	}
	return enabled
}

// RecordFetch updates per-feed stats after a refresh touched it.
func (cf *CustomFeeds) RecordFetch(id uuid.UUID, articleCount int) {
	now := time.Now()
	_ = cf.settings.Update(func(s *model.Settings) {
		for i := range s.CustomFeeds {
			if s.CustomFeeds[i].ID == id {
				s.CustomFeeds[i].ArticleCount = articleCount
				s.CustomFeeds[i].LastFetchDate = &now
			}
		}
	})
}

// Validate fetches and parses the feed once and reports whether it yields
// at least one article. Used for the optional deep check before Add.
func (cf *CustomFeeds) Validate(ctx context.Context, rawURL string) error {
	body, err := cf.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return fmt.Errorf("feed unreachable: %w", err)
	}
	probe := model.Source{Name: "probe", FeedURL: rawURL, Category: model.CategoryTopStories, Bias: model.BiasUnknown}
	if len(cf.parser.Parse(body, probe)) == 0 {
		return fmt.Errorf("feed %s yields no articles", rawURL)
	}
	return nil
}
