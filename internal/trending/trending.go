// Package trending tallies topic mentions across one aggregated batch.
package trending

import (
	"sort"
	"sync"

	"github.com/kochj23/NewsMobile/internal/model"
)

const (
	minMentions = 3
	maxTopics   = 15
)

// TopicExtractor yields per-title topic candidates. The production
// extractor is enrich.TextTagger; tests substitute a deterministic one.
type TopicExtractor interface {
	Topics(text string) []string
}

type Engine struct {
	extractor TopicExtractor

	mu     sync.RWMutex
	topics []model.TrendingTopic
}

func New(extractor TopicExtractor) *Engine {
	return &Engine{extractor: extractor}
}

// Topics returns the last committed analysis.
func (e *Engine) Topics() []model.TrendingTopic {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]model.TrendingTopic(nil), e.topics...)
}

// Analyze counts distinct-article mentions per topic across the batch,
// keeps topics mentioned at least 3 times, and returns the top 15 by
// descending count. Each topic carries the category of the article that
// last contributed to its count.
func (e *Engine) Analyze(articles []model.Article) []model.TrendingTopic {
	counts := map[string]int{}
	categories := map[string]model.Category{}
	var order []string

	for _, a := range articles {
		for _, topic := range e.extractor.Topics(a.Title) {
			if counts[topic] == 0 {
				order = append(order, topic)
			}
			counts[topic]++
			categories[topic] = a.Category
		}
	}

	var trending []model.TrendingTopic
	for _, topic := range order {
		if counts[topic] >= minMentions {
			trending = append(trending, model.TrendingTopic{
				Name:         topic,
				ArticleCount: counts[topic],
				Category:     categories[topic],
			})
		}
	}
	sort.SliceStable(trending, func(i, j int) bool {
		return trending[i].ArticleCount > trending[j].ArticleCount
	})
	if len(trending) > maxTopics {
		trending = trending[:maxTopics]
	}

	e.mu.Lock()
	e.topics = trending
	e.mu.Unlock()
	return trending
}
