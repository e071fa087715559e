// Package cluster groups same-story coverage across independent sources
// and derives a perspective breakdown per cluster.
package cluster

import (
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/kochj23/NewsMobile/internal/model"
)

// KeywordExtractor yields the title keywords clustering compares on. The
// production extractor is POS-driven (enrich.TextTagger).
type KeywordExtractor interface {
	Keywords(text string) []string
}

// Engine recomputes clusters from scratch on every pass; no cluster
// identity survives between passes.
type Engine struct {
	extractor KeywordExtractor

	mu       sync.RWMutex
	clusters []model.StoryCluster
}

func New(extractor KeywordExtractor) *Engine {
	return &Engine{extractor: extractor}
}

// Clusters returns the last committed pass.
func (e *Engine) Clusters() []model.StoryCluster {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]model.StoryCluster(nil), e.clusters...)
}

// Cluster walks the batch in order, seeding a cluster from each unprocessed
// article that has at least two directly related articles from other
// sources. Relation is non-transitive: only articles related to the seed
// join. Members cannot seed or join another cluster in the same pass.
//
// Pairwise comparison makes this O(n^2) in batch size; fine for the
// hundreds of articles a refresh produces, and the first thing to rework
// at larger scale.
func (e *Engine) Cluster(articles []model.Article) []model.StoryCluster {
	keywords := make([]map[string]struct{}, len(articles))
	for i, a := range articles {
		keywords[i] = toSet(e.extractor.Keywords(a.Title))
	}

	processed := map[uuid.UUID]struct{}{}
	var clusters []model.StoryCluster

	for i, seed := range articles {
		if _, done := processed[seed.ID]; done {
			continue
		}

		var related []int
		for j, other := range articles {
			if i == j {
				continue
			}
			if _, done := processed[other.ID]; done {
				continue
			}
			if other.Source.Name == seed.Source.Name {
				continue
			}
			if sharedCount(keywords[i], keywords[j]) >= 2 {
				related = append(related, j)
			}
		}

		if len(related) < 2 {
			continue
		}

		members := make([]model.Article, 0, len(related)+1)
		members = append(members, seed)
		for _, j := range related {
			members = append(members, articles[j])
		}
		sort.SliceStable(members, func(a, b int) bool {
			return members[a].PubDate.After(members[b].PubDate)
		})

		for _, m := range members {
			processed[m.ID] = struct{}{}
		}

		c := model.StoryCluster{
			ID:       uuid.New(),
			Topic:    e.mainTopic(members),
			Articles: members,
		}
		p := e.perspectives(members)
		c.Perspectives = &p
		clusters = append(clusters, c)
	}

	e.mu.Lock()
	e.clusters = clusters
	e.mu.Unlock()
	return clusters
}

// keywordFrequency counts, per keyword, how many member titles contain it,
// remembering first-encounter order for tie-breaking.
func (e *Engine) keywordFrequency(members []model.Article) ([]string, map[string]int) {
	counts := map[string]int{}
	var order []string
	for _, m := range members {
		for _, kw := range e.extractor.Keywords(m.Title) {
			if counts[kw] == 0 {
				order = append(order, kw)
			}
			counts[kw]++
		}
	}
	return order, counts
}

// mainTopic is the 3 most frequent keywords across member titles,
// title-cased and space-joined; ties keep first-encountered order.
func (e *Engine) mainTopic(members []model.Article) string {
	order, counts := e.keywordFrequency(members)

	ranked := append([]string(nil), order...)
	firstSeen := map[string]int{}
	for i, kw := range order {
		firstSeen[kw] = i
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		if counts[ranked[a]] != counts[ranked[b]] {
			return counts[ranked[a]] > counts[ranked[b]]
		}
		return firstSeen[ranked[a]] < firstSeen[ranked[b]]
	})

	if len(ranked) > 3 {
		ranked = ranked[:3]
	}
	for i, kw := range ranked {
		ranked[i] = titleCase(kw)
	}
	return strings.Join(ranked, " ")
}

// perspectives buckets members by source bias and picks each non-empty
// bucket's first member summary as its representative. Shared facts are
// keywords present in at least half the member titles, capped at 5.
// Contentions stay empty; the field is reserved.
func (e *Engine) perspectives(members []model.Article) model.PerspectiveBreakdown {
	var p model.PerspectiveBreakdown

	for _, m := range members {
		switch m.Source.Bias {
		case model.BiasLeft, model.BiasLeanLeft:
			if p.LeftPerspective == "" {
				p.LeftPerspective = m.Description
			}
		case model.BiasCenter:
			if p.CenterPerspective == "" {
				p.CenterPerspective = m.Description
			}
		case model.BiasRight, model.BiasLeanRight:
			if p.RightPerspective == "" {
				p.RightPerspective = m.Description
			}
		}
	}

	order, counts := e.keywordFrequency(members)
	threshold := len(members) / 2
	firstSeen := map[string]int{}
	for i, kw := range order {
		firstSeen[kw] = i
	}

	var shared []string
	for _, kw := range order {
		if counts[kw] >= threshold {
			shared = append(shared, kw)
		}
	}
	sort.SliceStable(shared, func(a, b int) bool {
		if counts[shared[a]] != counts[shared[b]] {
			return counts[shared[a]] > counts[shared[b]]
		}
		return firstSeen[shared[a]] < firstSeen[shared[b]]
	})
	if len(shared) > 5 {
		shared = shared[:5]
	}
	p.SharedFacts = make([]string, 0, len(shared))
	for _, kw := range shared {
		p.SharedFacts = append(p.SharedFacts, titleCase(kw))
	}
	p.Contentions = []string{}

	return p
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func sharedCount(a, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for w := range a {
		if _, ok := b[w]; ok {
			n++
		}
	}
	return n
}

func titleCase(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + word[1:]
}
