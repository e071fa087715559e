// Package widget publishes a compact snapshot of the latest refresh for
// out-of-process consumers (home-screen widgets, status bars).
package widget

import (
	"time"

	"github.com/kochj23/NewsMobile/internal/model"
	"github.com/kochj23/NewsMobile/internal/storage"
)

const maxHeadlines = 10

// Headline is one snapshot entry, stripped to what a glanceable surface
// renders.
type Headline struct {
	Title     string               `json:"title"`
	Source    string               `json:"source"`
	Category  model.Category       `json:"category"`
	Sentiment model.SentimentLabel `json:"sentiment,omitempty"`
}

// Snapshot is the persisted widget payload. Weather comes from an outside
// lookup and survives article republishes.
type Snapshot struct {
	Headlines []Headline `json:"headlines"`
	Trending  string     `json:"trending,omitempty"`
	Weather   string     `json:"weather,omitempty"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Publisher writes snapshots through the shared store.
type Publisher struct {
	store storage.Store
}

func NewPublisher(store storage.Store) *Publisher {
	return &Publisher{store: store}
}

// Publish stores a snapshot built from the top articles and the leading
// trending topic. At most 10 headlines are kept.
func (p *Publisher) Publish(articles []model.Article, topics []model.TrendingTopic) error {
	snap := Snapshot{UpdatedAt: time.Now(), Weather: p.Current().Weather}

	for _, a := range articles {
		if len(snap.Headlines) == maxHeadlines {
			break
		}
		h := Headline{
			Title:    a.Title,
			Source:   a.Source.Name,
			Category: a.Category,
		}
		if a.Sentiment != nil {
			h.Sentiment = a.Sentiment.Label
		}
		snap.Headlines = append(snap.Headlines, h)
	}
	if len(topics) > 0 {
		snap.Trending = topics[0].Name
	}

	return storage.SaveJSON(p.store, storage.KeyWidget, snap)
}

// SetWeather stores the weather summary supplied by the caller's lookup.
func (p *Publisher) SetWeather(summary string) error {
	snap := p.Current()
	snap.Weather = summary
	return storage.SaveJSON(p.store, storage.KeyWidget, snap)
}

// Current returns the last published snapshot, zero when none exists.
func (p *Publisher) Current() Snapshot {
	return storage.LoadJSON(p.store, storage.KeyWidget, Snapshot{})
}

// Clear removes the published snapshot.
func (p *Publisher) Clear() error {
	if err := p.store.Delete(storage.KeyWidget); err != nil && err != storage.ErrNotFound {
		return err
	}
	return nil
}
