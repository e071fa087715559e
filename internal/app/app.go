// Package app wires the services together and runs the refresh loop.
package app

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/kochj23/NewsMobile/internal/aggregator"
	"github.com/kochj23/NewsMobile/internal/alerts"
	"github.com/kochj23/NewsMobile/internal/cluster"
	"github.com/kochj23/NewsMobile/internal/config"
	"github.com/kochj23/NewsMobile/internal/enrich"
	"github.com/kochj23/NewsMobile/internal/feed"
	"github.com/kochj23/NewsMobile/internal/logger"
	"github.com/kochj23/NewsMobile/internal/notify"
	"github.com/kochj23/NewsMobile/internal/personalize"
	"github.com/kochj23/NewsMobile/internal/settings"
	"github.com/kochj23/NewsMobile/internal/storage"
	"github.com/kochj23/NewsMobile/internal/trending"
	"github.com/kochj23/NewsMobile/internal/watchlater"
	"github.com/kochj23/NewsMobile/internal/widget"
)

// Run builds the full service graph and drives refreshes until the process
// is signalled. Returns a non-nil error only for unrecoverable setup
// failures.
func Run() error {
	// Missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Init(cfg.Debug)

	if cfg.EnableMonitoring {
		go startMonitoring(cfg)
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}

	sources := feed.DefaultSources()
	if cfg.SourcesConfigPath != "" {
		loaded, err := feed.LoadSources(cfg.SourcesConfigPath)
		if err != nil {
			return err
		}
		sources = loaded
	}

	settingsMgr := settings.NewManager(store)
	fetcher := feed.NewFetcher(feed.FetcherOptions{
		Timeout:       cfg.RequestTimeout,
		RetryAttempts: cfg.RetryAttempts,
		RetryDelay:    cfg.RetryDelay,
		CacheTTL:      cfg.FeedCacheTTL,
	})
	parser := feed.NewParser()

	var notifier notify.Notifier = notify.LogNotifier{}
	if cfg.TelegramToken != "" {
		notifier = notify.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID)
	}

	tagger := enrich.NewTextTagger()
	personalizer := personalize.New(store, func() bool {
		return settingsMgr.Current().EnablePersonalization
	})
	alertEngine := alerts.New(settingsMgr, notifier)
	trendEngine := trending.New(tagger)

	agg := aggregator.New(aggregator.Options{
		Sources:     sources,
		Fetcher:     fetcher,
		Parser:      parser,
		Filter:      enrich.NewFilter(),
		Sentiment:   enrich.NewSentimentScorer(),
		Entities:    enrich.NewEntityExtractor(),
		Settings:    settingsMgr,
		CustomFeeds: feed.NewCustomFeeds(settingsMgr, fetcher, parser),
		Clusters:    cluster.New(tagger),
		Personalize: personalizer,
		Trending:    trendEngine,
		Alerts:      alertEngine,
	})

	publisher := widget.NewPublisher(store)
	watchLater := watchlater.NewManager(store)
	logger.Info("watch-later queue loaded", "items", len(watchLater.Items()), "unread", watchLater.UnreadCount())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	refresh := func() {
		batch, err := agg.Refresh(ctx)
		if err != nil {
			logger.Error("refresh failed", "err", err)
			return
		}
		if err := publisher.Publish(agg.Ranked(), trendEngine.Topics()); err != nil {
			logger.Warn("widget publish failed", "err", err)
		}
		logger.Info("cycle done", "articles", len(batch))
	}

	refresh()
	if cfg.RunOnce {
		return nil
	}

	interval := time.Duration(settingsMgr.Current().RefreshInterval) * time.Minute
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return nil
		case <-ticker.C:
			refresh()
		}
	}
}

func openStore(cfg *config.Config) (storage.Store, error) {
	if cfg.PostgresDSN != "" {
		ps, err := storage.NewPostgresStore(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return ps, nil
	}
	fs, err := storage.NewFileStore(cfg.StoreDir)
	if err != nil {
		return nil, err
	}
	return fs, nil
}
