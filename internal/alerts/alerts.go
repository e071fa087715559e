// Package alerts implements the persistent keyword watch with
// notify-once-per-article semantics.
package alerts

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kochj23/NewsMobile/internal/logger"
	"github.com/kochj23/NewsMobile/internal/metrics"
	"github.com/kochj23/NewsMobile/internal/model"
	"github.com/kochj23/NewsMobile/internal/notify"
)

// Seen-set bounds: when the set grows past seenCap, only the most recently
// checked seenKeep identifiers are retained.
const (
	seenCap  = 1000
	seenKeep = 500
)

// SettingsStore is the slice of the settings manager the engine needs:
// alerts live inside the persisted settings record.
type SettingsStore interface {
	Current() model.Settings
	Update(mutate func(*model.Settings)) error
}

// Engine is the single writer of the seen-set and of the alert records
// inside settings.
type Engine struct {
	settings SettingsStore
	notifier notify.Notifier

	mu        sync.Mutex
	seen      map[uuid.UUID]struct{}
	seenOrder []uuid.UUID
	matches   map[string][]model.Article
}

func New(settings SettingsStore, notifier notify.Notifier) *Engine {
	return &Engine{
		settings: settings,
		notifier: notifier,
		seen:     map[uuid.UUID]struct{}{},
		matches:  map[string][]model.Article{},
	}
}

// Add registers a new watch keyword. Duplicate keywords (case-insensitive)
// are rejected.
func (e *Engine) Add(keyword string) (model.KeywordAlert, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return model.KeywordAlert{}, fmt.Errorf("alert keyword must not be empty")
	}

	alert := model.NewKeywordAlert(keyword)
	var dup bool
	err := e.settings.Update(func(s *model.Settings) {
		for _, existing := range s.KeywordAlerts {
			if strings.EqualFold(existing.Keyword, keyword) {
				dup = true
				return
			}
		}
		s.KeywordAlerts = append(s.KeywordAlerts, alert)
	})
	if err != nil {
		return model.KeywordAlert{}, err
	}
	if dup {
		return model.KeywordAlert{}, fmt.Errorf("alert for %q already exists", keyword)
	}
	return alert, nil
}

// Remove deletes an alert by id.
func (e *Engine) Remove(id uuid.UUID) error {
	return e.settings.Update(func(s *model.Settings) {
		kept := s.KeywordAlerts[:0]
		for _, a := range s.KeywordAlerts {
			if a.ID != id {
				kept = append(kept, a)
			}
		}
		s.KeywordAlerts = kept
	})
}

// Toggle enables or disables an alert by id.
func (e *Engine) Toggle(id uuid.UUID, enabled bool) error {
	return e.settings.Update(func(s *model.Settings) {
		for i := range s.KeywordAlerts {
			if s.KeywordAlerts[i].ID == id {
				s.KeywordAlerts[i].IsEnabled = enabled
			}
		}
	})
}

// Matches returns the accumulated matches for one keyword.
func (e *Engine) Matches(keyword string) []model.Article {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]model.Article(nil), e.matches[keyword]...)
}

// ClearMatches drops the accumulated matches for one keyword.
func (e *Engine) ClearMatches(keyword string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.matches, keyword)
}

// Check matches every enabled alert against the articles not seen before,
// case-insensitively over title and summary. Matched alerts get their
// persisted count and last-match stamp updated, and one notification per
// keyword is emitted when the alert and global notification flags allow.
// An article identifier already in the seen-set never matches again.
func (e *Engine) Check(ctx context.Context, articles []model.Article) {
	settings := e.settings.Current()

	var enabled []model.KeywordAlert
	for _, a := range settings.KeywordAlerts {
		if a.IsEnabled {
			enabled = append(enabled, a)
		}
	}
	if len(enabled) == 0 {
		return
	}

	e.mu.Lock()
	var fresh []model.Article
	for _, a := range articles {
		if _, ok := e.seen[a.ID]; !ok {
			fresh = append(fresh, a)
		}
	}
	if len(fresh) == 0 {
		e.markSeen(articles)
		e.mu.Unlock()
		return
	}

	now := time.Now()
	matched := map[uuid.UUID][]model.Article{} // alert id -> matches
	for _, alert := range enabled {
		keyword := strings.ToLower(alert.Keyword)
		var hits []model.Article
		for _, a := range fresh {
			if strings.Contains(strings.ToLower(a.Title), keyword) ||
				strings.Contains(strings.ToLower(a.Description), keyword) {
				hits = append(hits, a)
			}
		}
		if len(hits) == 0 {
			continue
		}
		matched[alert.ID] = hits
		e.matches[alert.Keyword] = append(e.matches[alert.Keyword], hits...)
		metrics.Global.AddAlertsMatched(len(hits))
	}
	e.markSeen(articles)
	e.mu.Unlock()

	if len(matched) == 0 {
		return
	}

	if err := e.settings.Update(func(s *model.Settings) {
		for i := range s.KeywordAlerts {
			if hits, ok := matched[s.KeywordAlerts[i].ID]; ok {
				s.KeywordAlerts[i].MatchCount += len(hits)
				t := now
				s.KeywordAlerts[i].LastMatchDate = &t
			}
		}
	}); err != nil {
		logger.Error("failed to persist alert matches", "err", err)
	}

	if !settings.EnableNotifications {
		return
	}
	for _, alert := range enabled {
		hits, ok := matched[alert.ID]
		if !ok || !alert.NotifyOnMatch {
			continue
		}
		body := fmt.Sprintf("%d new articles found", len(hits))
		if len(hits) == 1 {
			body = hits[0].Title
		}
		if err := e.notifier.Notify(ctx, "Keyword Alert: "+alert.Keyword, body); err != nil {
			logger.Warn("alert notification failed", "keyword", alert.Keyword, "err", err)
		}
	}
}

// markSeen records identifiers in check order and enforces the bound.
// Callers hold e.mu.
func (e *Engine) markSeen(articles []model.Article) {
	for _, a := range articles {
		if _, ok := e.seen[a.ID]; ok {
			continue
		}
		e.seen[a.ID] = struct{}{}
		e.seenOrder = append(e.seenOrder, a.ID)
	}

	if len(e.seenOrder) > seenCap {
		evict := e.seenOrder[:len(e.seenOrder)-seenKeep]
		for _, id := range evict {
			delete(e.seen, id)
		}
		e.seenOrder = append([]uuid.UUID(nil), e.seenOrder[len(e.seenOrder)-seenKeep:]...)
	}
}

// SeenCount reports the current seen-set size.
func (e *Engine) SeenCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.seen)
}
