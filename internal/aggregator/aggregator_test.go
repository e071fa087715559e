package aggregator

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochj23/NewsMobile/internal/enrich"
	"github.com/kochj23/NewsMobile/internal/feed"
	"github.com/kochj23/NewsMobile/internal/model"
)

type rssItem struct {
	title   string
	link    string
	pubDate time.Time
}

func rssBody(items ...rssItem) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel><title>feed</title>`)
	for _, it := range items {
		fmt.Fprintf(&b, "<item><title>%s</title><link>%s</link><pubDate>%s</pubDate></item>",
			it.title, it.link, it.pubDate.Format(time.RFC1123Z))
	}
	b.WriteString("</channel></rss>")
	return b.String()
}

func feedServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func source(name, url string, category model.Category) model.Source {
	return model.Source{Name: name, FeedURL: url, Category: category, Bias: model.BiasCenter, Reliability: 0.9}
}

func newAggregator(sources ...model.Source) *Aggregator {
	return New(Options{
		Sources: sources,
		Fetcher: feed.NewFetcher(feed.FetcherOptions{Timeout: 5 * time.Second}),
	})
}

func TestRefreshMergesAndOrdersSources(t *testing.T) {
	now := time.Now()
	techSrv := feedServer(t, rssBody(
		rssItem{"old tech story", "https://example.com/t1", now.Add(-3 * time.Hour)},
		rssItem{"new tech story", "https://example.com/t2", now.Add(-1 * time.Hour)},
	))
	sportSrv := feedServer(t, rssBody(
		rssItem{"mid sports story", "https://example.com/s1", now.Add(-2 * time.Hour)},
	))

	agg := newAggregator(
		source("Tech Wire", techSrv.URL, model.CategoryTechnology),
		source("Sports Wire", sportSrv.URL, model.CategorySports),
	)

	batch, err := agg.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, batch, 3)

	assert.Equal(t, "new tech story", batch[0].Title)
	assert.Equal(t, "mid sports story", batch[1].Title)
	assert.Equal(t, "old tech story", batch[2].Title)

	assert.Equal(t, batch, agg.Articles())
	assert.False(t, agg.LastRefresh().IsZero())
}

func TestRefreshResultIsDetachedFromSnapshot(t *testing.T) {
	now := time.Now()
	srv := feedServer(t, rssBody(rssItem{"original title", "https://example.com/1", now.Add(-time.Hour)}))

	agg := newAggregator(source("Wire", srv.URL, model.CategoryUS))
	batch, err := agg.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, batch, 1)

	batch[0].Title = "mutated by caller"
	assert.Equal(t, "original title", agg.Articles()[0].Title)
}

func TestRefreshIsolatesFailingSources(t *testing.T) {
	now := time.Now()
	okSrv := feedServer(t, rssBody(rssItem{"survivor", "https://example.com/ok", now.Add(-time.Hour)}))
	badSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(badSrv.Close)

	agg := newAggregator(
		source("Good Wire", okSrv.URL, model.CategoryUS),
		source("Bad Wire", badSrv.URL, model.CategoryUS),
		source("Gone Wire", "http://127.0.0.1:1/feed", model.CategoryUS),
	)

	batch, err := agg.Refresh(context.Background())
	require.NoError(t, err, "failing sources degrade, never abort the batch")
	require.Len(t, batch, 1)
	assert.Equal(t, "survivor", batch[0].Title)
}

func TestRefreshDeduplicates(t *testing.T) {
	now := time.Now()
	a := feedServer(t, rssBody(rssItem{"shared headline", "https://example.com/x", now.Add(-2 * time.Hour)}))
	b := feedServer(t, rssBody(rssItem{"Shared Headline", "https://example.com/y", now.Add(-time.Hour)}))

	agg := newAggregator(
		source("Wire A", a.URL, model.CategoryUS),
		source("Wire B", b.URL, model.CategoryUS),
	)

	batch, err := agg.Refresh(context.Background())
	require.NoError(t, err)
	assert.Len(t, batch, 1, "case-insensitive title duplicate is dropped")
}

func TestPartitionCoversEveryCategory(t *testing.T) {
	now := time.Now()
	srv := feedServer(t, rssBody(rssItem{"tech story", "https://example.com/t", now.Add(-time.Hour)}))

	agg := newAggregator(source("Tech Wire", srv.URL, model.CategoryTechnology))
	_, err := agg.Refresh(context.Background())
	require.NoError(t, err)

	assert.Len(t, agg.ByCategory(model.CategoryTechnology), 1)
	for _, c := range model.AllCategories() {
		if c == model.CategoryTechnology {
			continue
		}
		assert.Empty(t, agg.ByCategory(c), "category %s", c)
	}
}

func TestBreakingNewsDetection(t *testing.T) {
	now := time.Now()
	srv := feedServer(t, rssBody(
		rssItem{"Breaking: dam failure upstream", "https://example.com/b", now.Add(-10 * time.Minute)},
		rssItem{"calm weekly recap", "https://example.com/c", now.Add(-2 * time.Hour)},
	))

	agg := newAggregator(source("Wire", srv.URL, model.CategoryUS))
	batch, err := agg.Refresh(context.Background())
	require.NoError(t, err)

	breaking := agg.Breaking()
	require.NotNil(t, breaking)
	assert.Equal(t, "Breaking: dam failure upstream", breaking.Title)
	assert.True(t, breaking.IsBreaking)
	assert.True(t, batch[0].IsBreaking)
	assert.False(t, batch[1].IsBreaking)
}

func TestNoBreakingForStaleOrCalmBatches(t *testing.T) {
	now := time.Now()

	stale := feedServer(t, rssBody(rssItem{"Breaking: but old", "https://example.com/o", now.Add(-2 * time.Hour)}))
	agg := newAggregator(source("Wire", stale.URL, model.CategoryUS))
	_, err := agg.Refresh(context.Background())
	require.NoError(t, err)
	assert.Nil(t, agg.Breaking(), "urgent title older than an hour does not qualify")

	calm := feedServer(t, rssBody(rssItem{"routine update", "https://example.com/r", now.Add(-5 * time.Minute)}))
	agg = newAggregator(source("Wire", calm.URL, model.CategoryUS))
	_, err = agg.Refresh(context.Background())
	require.NoError(t, err)
	assert.Nil(t, agg.Breaking(), "fresh but non-urgent title does not qualify")
}

func TestRefreshAppliesSettingsFilters(t *testing.T) {
	now := time.Now()
	srv := feedServer(t, rssBody(
		rssItem{"Sponsored: miracle pillow", "https://example.com/ad", now.Add(-time.Hour)},
		rssItem{"actual report", "https://example.com/real", now.Add(-time.Hour)},
	))

	agg := New(Options{
		Sources:  []model.Source{source("Wire", srv.URL, model.CategoryUS)},
		Fetcher:  feed.NewFetcher(feed.FetcherOptions{Timeout: 5 * time.Second}),
		Settings: staticSettings{},
	})

	batch, err := agg.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, "actual report", batch[0].Title)
}

type staticSettings struct{}

func (staticSettings) Current() model.Settings {
	s := model.DefaultSettings()
	s.FilterAds = true
	s.FilterClickbait = true
	return s
}

func TestRankedWithoutPersonalizerIsBatchOrder(t *testing.T) {
	now := time.Now()
	srv := feedServer(t, rssBody(
		rssItem{"first", "https://example.com/1", now.Add(-time.Hour)},
		rssItem{"second", "https://example.com/2", now.Add(-2 * time.Hour)},
	))

	agg := newAggregator(source("Wire", srv.URL, model.CategoryUS))
	_, err := agg.Refresh(context.Background())
	require.NoError(t, err)

	ranked := agg.Ranked()
	require.Len(t, ranked, 2)
	assert.Equal(t, "first", ranked[0].Title)
}

func TestSubscribersReceiveCommittedBatch(t *testing.T) {
	now := time.Now()
	srv := feedServer(t, rssBody(rssItem{"story", "https://example.com/1", now.Add(-time.Hour)}))

	agg := newAggregator(source("Wire", srv.URL, model.CategoryUS))
	ch := agg.Subscribe()

	_, err := agg.Refresh(context.Background())
	require.NoError(t, err)

	select {
	case batch := <-ch:
		require.Len(t, batch, 1)
		assert.Equal(t, "story", batch[0].Title)
	case <-time.After(time.Second):
		t.Fatal("no batch delivered")
	}
}

func TestConcurrentRefreshesCoalesce(t *testing.T) {
	now := time.Now()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte(rssBody(rssItem{"slow story", "https://example.com/slow", now.Add(-time.Hour)})))
	}))
	t.Cleanup(srv.Close)

	agg := newAggregator(source("Slow Wire", srv.URL, model.CategoryUS))

	var wg sync.WaitGroup
	start := func() {
		defer wg.Done()
		batch, err := agg.Refresh(context.Background())
		assert.NoError(t, err)
		assert.Len(t, batch, 1)
	}

	wg.Add(2)
	go start()
	time.Sleep(50 * time.Millisecond)
	go start()
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load(), "overlapping refreshes share one pipeline pass")
}

func TestRefreshHonorsCancelledContext(t *testing.T) {
	srv := feedServer(t, rssBody())
	agg := newAggregator(source("Wire", srv.URL, model.CategoryUS))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := agg.Refresh(ctx)
	assert.Error(t, err)
}

func TestEnrichmentAnnotatesBatch(t *testing.T) {
	now := time.Now()
	srv := feedServer(t, rssBody(rssItem{"a wonderful and amazing breakthrough", "https://example.com/1", now.Add(-time.Hour)}))

	agg := New(Options{
		Sources:   []model.Source{source("Wire", srv.URL, model.CategoryScience)},
		Fetcher:   feed.NewFetcher(feed.FetcherOptions{Timeout: 5 * time.Second}),
		Sentiment: enrich.NewSentimentScorer(),
	})

	batch, err := agg.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, batch, 1)
	require.NotNil(t, batch[0].Sentiment)
	assert.Equal(t, model.SentimentPositive, batch[0].Sentiment.Label)
}
