// Package personalize maintains the decaying-weight interest profile and
// re-ranks batches against it.
package personalize

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kochj23/NewsMobile/internal/logger"
	"github.com/kochj23/NewsMobile/internal/model"
	"github.com/kochj23/NewsMobile/internal/storage"
)

// Score weighting. Category and source fall back to 0.5 when unseen,
// topics to 0.0.
const (
	categoryShare = 0.4
	sourceShare   = 0.3
	topicShare    = 0.2
	recencyShare  = 0.1
)

// Engine is the single writer of the profile. It loads once at
// construction (decode failure yields a fresh profile) and persists after
// every mutation.
type Engine struct {
	mu      sync.RWMutex
	store   storage.Store
	profile model.UserPreferenceProfile
	enabled func() bool
}

// New loads the persisted profile. enabled gates both RecordView and Rank;
// pass the settings lookup.
func New(store storage.Store, enabled func() bool) *Engine {
	profile := storage.LoadJSON(store, storage.KeyProfile, model.NewProfile())
	ensureMaps(&profile)
	return &Engine{
		store:   store,
		profile: profile,
		enabled: enabled,
	}
}

// ensureMaps allocates any map a partial or hand-written blob left nil, so a
// loaded profile is always mutable.
func ensureMaps(p *model.UserPreferenceProfile) {
	if p.CategoryPreferences == nil {
		p.CategoryPreferences = map[model.Category]float64{}
	}
	if p.SourcePreferences == nil {
		p.SourcePreferences = map[string]float64{}
	}
	if p.TopicInterests == nil {
		p.TopicInterests = map[string]float64{}
	}
	if p.ViewedArticleIDs == nil {
		p.ViewedArticleIDs = map[uuid.UUID]struct{}{}
	}
	if p.ReadDuration == nil {
		p.ReadDuration = map[uuid.UUID]time.Duration{}
	}
}

// RecordView folds one view event into the profile: 0.1 to the category
// and source weights and 0.05 per distinct entity topic, all scaled by
// min(duration/60s, 1). Weight maps are re-normalized so no entry exceeds
// 1.0. No-op when personalization is disabled.
func (e *Engine) RecordView(article model.Article, duration time.Duration) {
	if !e.enabled() {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.profile.ViewedArticleIDs[article.ID] = struct{}{}
	e.profile.ReadDuration[article.ID] = duration

	scale := duration.Seconds() / 60.0
	if scale > 1.0 {
		scale = 1.0
	}

	addWeight(e.profile.CategoryPreferences, article.Category, 0.5, 0.1*scale)
	addWeight(e.profile.SourcePreferences, article.Source.Name, 0.5, 0.1*scale)
	for _, entity := range article.Entities {
		addWeight(e.profile.TopicInterests, entity.Text, 0.0, 0.05*scale)
	}

	normalize(e.profile.CategoryPreferences)
	normalize(e.profile.SourcePreferences)
	normalize(e.profile.TopicInterests)

	if err := storage.SaveJSON(e.store, storage.KeyProfile, e.profile); err != nil {
		logger.Error("failed to persist profile", "err", err)
	}
}

// Rank returns the batch sorted by descending interest score, stable for
// ties. Disabled personalization returns the batch in original order.
func (e *Engine) Rank(batch []model.Article) []model.Article {
	if !e.enabled() {
		return append([]model.Article(nil), batch...)
	}

	type scored struct {
		article model.Article
		score   float64
	}

	e.mu.RLock()
	pairs := make([]scored, len(batch))
	for i, a := range batch {
		pairs[i] = scored{article: a, score: e.score(a)}
	}
	e.mu.RUnlock()

	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].score > pairs[j].score
	})

	ranked := make([]model.Article, len(pairs))
	for i, p := range pairs {
		ranked[i] = p.article
	}
	return ranked
}

func (e *Engine) score(a model.Article) float64 {
	score := weightOr(e.profile.CategoryPreferences, a.Category, 0.5) * categoryShare
	score += weightOr(e.profile.SourcePreferences, a.Source.Name, 0.5) * sourceShare

	var topicSum float64
	for _, entity := range a.Entities {
		topicSum += e.profile.TopicInterests[entity.Text]
	}
	if topicSum > 1.0 {
		topicSum = 1.0
	}
	score += topicSum * topicShare

	hoursOld := time.Since(a.PubDate).Hours()
	recency := 1.0 - hoursOld/24.0
	if recency < 0 {
		recency = 0
	}
	score += recency * recencyShare

	return score
}

// Profile returns a deep copy for inspection.
func (e *Engine) Profile() model.UserPreferenceProfile {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := model.NewProfile()
	for k, v := range e.profile.CategoryPreferences {
		out.CategoryPreferences[k] = v
	}
	for k, v := range e.profile.SourcePreferences {
		out.SourcePreferences[k] = v
	}
	for k, v := range e.profile.TopicInterests {
		out.TopicInterests[k] = v
	}
	for k := range e.profile.ViewedArticleIDs {
		out.ViewedArticleIDs[k] = struct{}{}
	}
	for k, v := range e.profile.ReadDuration {
		out.ReadDuration[k] = v
	}
	return out
}

// Reset discards the profile and persists the empty one.
func (e *Engine) Reset() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.profile = model.NewProfile()
	return storage.SaveJSON(e.store, storage.KeyProfile, e.profile)
}

func weightOr[K comparable](m map[K]float64, key K, def float64) float64 {
	if v, ok := m[key]; ok {
		return v
	}
	return def
}

func addWeight[K comparable](m map[K]float64, key K, def, delta float64) {
	cur, ok := m[key]
	if !ok {
		cur = def
	}
	m[key] = cur + delta
}

// normalize divides every entry by the maximum, but only when the maximum
// exceeds 1.0.
func normalize[K comparable](m map[K]float64) {
	var max float64
	for _, v := range m {
		if v > max {
			max = v
		}
	}
	if max <= 1.0 {
		return
	}
	for k := range m {
		m[k] /= max
	}
}
