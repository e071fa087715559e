// Package aggregator runs the refresh pipeline: concurrent fetch across
// every active source, filtering, enrichment, ordering, breaking-news
// detection and the hand-off to the derived engines.
package aggregator

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/kochj23/NewsMobile/internal/alerts"
	"github.com/kochj23/NewsMobile/internal/cluster"
	"github.com/kochj23/NewsMobile/internal/enrich"
	"github.com/kochj23/NewsMobile/internal/feed"
	"github.com/kochj23/NewsMobile/internal/logger"
	"github.com/kochj23/NewsMobile/internal/metrics"
	"github.com/kochj23/NewsMobile/internal/model"
	"github.com/kochj23/NewsMobile/internal/personalize"
	"github.com/kochj23/NewsMobile/internal/trending"
)

// Titles containing one of these within the first hour of publication mark
// the batch's breaking story.
var urgencyKeywords = []string{"breaking", "just in", "developing", "urgent", "alert"}

// SettingsStore is the read side of the settings manager the pipeline needs.
type SettingsStore interface {
	Current() model.Settings
}

// Options wires the pipeline's collaborators. Sources defaults to the
// built-in catalog; the engines are optional and skipped when nil.
type Options struct {
	Sources     []model.Source
	Fetcher     *feed.Fetcher
	Parser      *feed.Parser
	Filter      *enrich.Filter
	Sentiment   *enrich.SentimentScorer
	Entities    *enrich.EntityExtractor
	Settings    SettingsStore
	CustomFeeds *feed.CustomFeeds
	Clusters    *cluster.Engine
	Personalize *personalize.Engine
	Trending    *trending.Engine
	Alerts      *alerts.Engine
}

// Aggregator owns the committed snapshot of the last successful refresh.
// Readers never observe a half-built batch; a refresh commits atomically or
// leaves the previous snapshot intact.
type Aggregator struct {
	opts  Options
	group singleflight.Group

	mu          sync.RWMutex
	articles    []model.Article
	byCategory  map[model.Category][]model.Article
	breaking    *model.Article
	lastRefresh time.Time

	subMu sync.Mutex
	subs  []chan []model.Article
}

func New(opts Options) *Aggregator {
	if len(opts.Sources) == 0 {
		opts.Sources = feed.DefaultSources()
	}
	if opts.Parser == nil {
		opts.Parser = feed.NewParser()
	}
	if opts.Filter == nil {
		opts.Filter = enrich.NewFilter()
	}
	return &Aggregator{
		opts:       opts,
		byCategory: emptyPartition(),
	}
}

// Refresh runs one full pipeline pass and returns the committed batch.
// Concurrent callers coalesce onto a single in-flight refresh and all
// receive its result. Every caller gets an independent copy; mutating it
// cannot reach the committed snapshot.
func (a *Aggregator) Refresh(ctx context.Context) ([]model.Article, error) {
	v, err, _ := a.group.Do("refresh", func() (interface{}, error) {
		return a.refresh(ctx)
	})
	if err != nil {
		return nil, err
	}
	return append([]model.Article(nil), v.([]model.Article)...), nil
}

func (a *Aggregator) refresh(ctx context.Context) ([]model.Article, error) {
	start := time.Now()
	sources := a.activeSources()
	logger.Info("refresh started", "sources", len(sources))

	// One task per source; fan-out is bounded only by the catalog size and
	// each task by the fetcher's request timeout.
	results := make([][]model.Article, len(sources))
	g, gctx := errgroup.WithContext(ctx)

	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			results[i] = a.fetchSource(gctx, src)
			return nil
		})
	}
	// Workers never return errors; a failed source yields zero articles.
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		metrics.Global.SetError(err.Error())
		return nil, err
	}

	var batch []model.Article
	for _, r := range results {
		batch = append(batch, r...)
	}
	metrics.Global.AddArticlesFetched(len(batch))

	settings := a.currentSettings()
	batch = a.opts.Filter.Apply(batch, enrich.FilterOptions{
		FilterAds:       settings.FilterAds,
		FilterClickbait: settings.FilterClickbait,
		ExcludedSources: settings.ExcludedSources,
	})
	batch = dedupe(batch)
	a.enrich(batch)

	sort.SliceStable(batch, func(i, j int) bool {
		return batch[i].PubDate.After(batch[j].PubDate)
	})
	breaking := detectBreaking(batch)

	a.mu.Lock()
	a.articles = batch
	a.byCategory = partition(batch)
	a.breaking = breaking
	a.lastRefresh = time.Now()
	a.mu.Unlock()

	a.recordCustomFetches(batch)
	a.dispatch(ctx, batch)
	a.notifySubscribers(batch)

	metrics.Global.RecordRefresh(time.Since(start))
	logger.Info("refresh complete", "articles", len(batch), "duration", time.Since(start))
	return batch, nil
}

// activeSources combines the catalog with the enabled custom feeds.
func (a *Aggregator) activeSources() []model.Source {
	sources := append([]model.Source(nil), a.opts.Sources...)
	if a.opts.CustomFeeds != nil {
		for _, cf := range a.opts.CustomFeeds.Enabled() {
			sources = append(sources, feed.SourceForCustomFeed(cf))
		}
	}
	return sources
}

// fetchSource is fully isolated: any failure logs, counts, and contributes
// zero articles to the batch.
func (a *Aggregator) fetchSource(ctx context.Context, src model.Source) []model.Article {
	body, err := a.opts.Fetcher.Fetch(ctx, src.FeedURL)
	if err != nil {
		logger.Warn("source fetch failed", "source", src.Name, "err", err)
		metrics.Global.IncrementSourcesFailed()
		return nil
	}
	return a.opts.Parser.Parse(body, src)
}

// enrich attaches sentiment and entity annotations in place. Either
// annotation may independently be absent.
func (a *Aggregator) enrich(batch []model.Article) {
	for i := range batch {
		if a.opts.Sentiment != nil {
			batch[i].Sentiment = a.opts.Sentiment.Analyze(batch[i].Title + ". " + batch[i].Description)
		}
		if a.opts.Entities != nil {
			batch[i].Entities = a.opts.Entities.Extract(batch[i].Title)
		}
	}
}

// dedupe keeps the first article per link and per lowercased title.
func dedupe(batch []model.Article) []model.Article {
	seenLink := map[string]struct{}{}
	seenTitle := map[string]struct{}{}
	kept := make([]model.Article, 0, len(batch))
	for _, art := range batch {
		title := strings.ToLower(art.Title)
		if _, dup := seenLink[art.Link]; dup {
			metrics.Global.IncrementItemsDropped()
			continue
		}
		if _, dup := seenTitle[title]; dup {
			metrics.Global.IncrementItemsDropped()
			continue
		}
		seenLink[art.Link] = struct{}{}
		seenTitle[title] = struct{}{}
		kept = append(kept, art)
	}
	return kept
}

// detectBreaking marks and returns the newest article when it is under an
// hour old and its title carries an urgency keyword. At most one article
// per batch is breaking.
func detectBreaking(batch []model.Article) *model.Article {
	if len(batch) == 0 {
		return nil
	}
	newest := &batch[0]
	if time.Since(newest.PubDate) >= time.Hour {
		return nil
	}
	title := strings.ToLower(newest.Title)
	for _, kw := range urgencyKeywords {
		if strings.Contains(title, kw) {
			newest.IsBreaking = true
			return newest
		}
	}
	return nil
}

// partition buckets the batch by category, preserving order. Every declared
// category gets a key even when empty.
func partition(batch []model.Article) map[model.Category][]model.Article {
	out := emptyPartition()
	for _, art := range batch {
		out[art.Category] = append(out[art.Category], art)
	}
	return out
}

func emptyPartition() map[model.Category][]model.Article {
	out := make(map[model.Category][]model.Article, len(model.AllCategories()))
	for _, c := range model.AllCategories() {
		out[c] = nil
	}
	return out
}

// dispatch hands the committed batch to the derived engines.
func (a *Aggregator) dispatch(ctx context.Context, batch []model.Article) {
	if a.opts.Clusters != nil {
		a.opts.Clusters.Cluster(batch)
	}
	if a.opts.Trending != nil {
		a.opts.Trending.Analyze(batch)
	}
	if a.opts.Alerts != nil {
		a.opts.Alerts.Check(ctx, batch)
	}
}

func (a *Aggregator) recordCustomFetches(batch []model.Article) {
	if a.opts.CustomFeeds == nil {
		return
	}
	counts := map[string]int{}
	for _, art := range batch {
		counts[art.Source.Name]++
	}
	for _, cf := range a.opts.CustomFeeds.Enabled() {
		a.opts.CustomFeeds.RecordFetch(cf.ID, counts[cf.Name])
	}
}

func (a *Aggregator) currentSettings() model.Settings {
	if a.opts.Settings == nil {
		return model.DefaultSettings()
	}
	return a.opts.Settings.Current()
}

// Articles returns the committed batch, newest first.
func (a *Aggregator) Articles() []model.Article {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]model.Article(nil), a.articles...)
}

// ByCategory returns the committed batch for one category.
func (a *Aggregator) ByCategory(c model.Category) []model.Article {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]model.Article(nil), a.byCategory[c]...)
}

// Breaking returns the batch's breaking article, nil when none qualified.
func (a *Aggregator) Breaking() *model.Article {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.breaking == nil {
		return nil
	}
	cp := *a.breaking
	return &cp
}

// LastRefresh reports when the current snapshot was committed.
func (a *Aggregator) LastRefresh() time.Time {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastRefresh
}

// Ranked returns the committed batch reordered by the personalization
// engine; without one it is the plain batch.
func (a *Aggregator) Ranked() []model.Article {
	batch := a.Articles()
	if a.opts.Personalize == nil {
		return batch
	}
	return a.opts.Personalize.Rank(batch)
}

// SearchLocal fetches local coverage for a city or ZIP query on demand.
// Results go through the same filtering and enrichment as a refresh but do
// not enter the committed snapshot.
func (a *Aggregator) SearchLocal(ctx context.Context, location string) ([]model.Article, error) {
	src := feed.SearchSource(location)
	body, err := a.opts.Fetcher.Fetch(ctx, src.FeedURL)
	if err != nil {
		metrics.Global.IncrementSourcesFailed()
		return nil, err
	}
	batch := a.opts.Parser.Parse(body, src)

	settings := a.currentSettings()
	batch = a.opts.Filter.Apply(batch, enrich.FilterOptions{
		FilterAds:       settings.FilterAds,
		FilterClickbait: settings.FilterClickbait,
		ExcludedSources: settings.ExcludedSources,
	})
	batch = dedupe(batch)
	a.enrich(batch)
	sort.SliceStable(batch, func(i, j int) bool {
		return batch[i].PubDate.After(batch[j].PubDate)
	})
	return batch, nil
}

// Subscribe registers a channel that receives each committed batch. Slow
// subscribers miss batches rather than block a refresh.
func (a *Aggregator) Subscribe() <-chan []model.Article {
	ch := make(chan []model.Article, 1)
	a.subMu.Lock()
	a.subs = append(a.subs, ch)
	a.subMu.Unlock()
	return ch
}

func (a *Aggregator) notifySubscribers(batch []model.Article) {
	a.subMu.Lock()
	defer a.subMu.Unlock()
	for _, ch := range a.subs {
		select {
		case ch <- batch:
		default:
		}
	}
}
