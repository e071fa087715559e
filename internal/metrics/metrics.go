package metrics

import (
	"sync"
	"time"
)

// Metrics collects refresh-cycle counters. All methods are safe for
// concurrent use; the aggregator and engines share the Global instance.
type Metrics struct {
	mu sync.RWMutex

	// Counters
	ArticlesFetched   int64
	SourcesFailed     int64
	ItemsDropped      int64
	AdsFiltered       int64
	ClickbaitFiltered int64
	AlertsMatched     int64
	NotificationsSent int64

	// Timings
	LastRefreshDuration    time.Duration
	AverageRefreshDuration time.Duration
	TotalRefreshDuration   time.Duration
	RefreshCount           int64

	// Status
	LastRefreshTime time.Time
	LastErrorTime   time.Time
	LastError       string
	IsHealthy       bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) AddArticlesFetched(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesFetched += int64(n)
}

func (m *Metrics) IncrementSourcesFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SourcesFailed++
}

func (m *Metrics) IncrementItemsDropped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ItemsDropped++
}

func (m *Metrics) IncrementAdsFiltered() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AdsFiltered++
}

func (m *Metrics) IncrementClickbaitFiltered() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClickbaitFiltered++
}

func (m *Metrics) AddAlertsMatched(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AlertsMatched += int64(n)
}

func (m *Metrics) IncrementNotificationsSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NotificationsSent++
}

func (m *Metrics) RecordRefresh(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastRefreshDuration = duration
	m.TotalRefreshDuration += duration
	m.RefreshCount++
	m.AverageRefreshDuration = m.TotalRefreshDuration / time.Duration(m.RefreshCount)
	m.LastRefreshTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"articles_fetched":            m.ArticlesFetched,
		"sources_failed":              m.SourcesFailed,
		"items_dropped":               m.ItemsDropped,
		"ads_filtered":                m.AdsFiltered,
		"clickbait_filtered":          m.ClickbaitFiltered,
		"alerts_matched":              m.AlertsMatched,
		"notifications_sent":          m.NotificationsSent,
		"last_refresh_duration_ms":    m.LastRefreshDuration.Milliseconds(),
		"average_refresh_duration_ms": m.AverageRefreshDuration.Milliseconds(),
		"refresh_count":               m.RefreshCount,
		"last_refresh_time":           m.LastRefreshTime.Format(time.RFC3339),
		"last_error_time":             m.LastErrorTime.Format(time.RFC3339),
		"last_error":                  m.LastError,
		"is_healthy":                  m.IsHealthy,
	}
}
