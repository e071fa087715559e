// Package watchlater keeps the persisted read-later queue, newest first.
package watchlater

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kochj23/NewsMobile/internal/model"
	"github.com/kochj23/NewsMobile/internal/storage"
)

// Manager is the single writer of the queue. Adding an article already in
// the queue is a no-op.
type Manager struct {
	mu    sync.RWMutex
	store storage.Store
	items []model.WatchLaterItem
}

func NewManager(store storage.Store) *Manager {
	return &Manager{
		store: store,
		items: storage.LoadJSON(store, storage.KeyWatchLater, []model.WatchLaterItem(nil)),
	}
}

// Items returns the queue newest first.
func (m *Manager) Items() []model.WatchLaterItem {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]model.WatchLaterItem(nil), m.items...)
}

// Contains reports whether the article is queued.
func (m *Manager) Contains(articleID uuid.UUID) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.indexOf(articleID) >= 0
}

// Add prepends the article to the queue and persists. Duplicates by
// article identity are ignored.
func (m *Manager) Add(article model.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.indexOf(article.ID) >= 0 {
		return nil
	}
	item := model.WatchLaterItem{
		ID:        uuid.New(),
		Article:   article,
		AddedDate: time.Now(),
	}
	m.items = append([]model.WatchLaterItem{item}, m.items...)
	return m.persist()
}

// Remove drops the entry for the article, if queued.
func (m *Manager) Remove(articleID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(articleID)
	if i < 0 {
		return nil
	}
	m.items = append(m.items[:i], m.items[i+1:]...)
	return m.persist()
}

// Toggle adds the article when absent and removes it when present.
// Returns true when the article ends up queued.
func (m *Manager) Toggle(article model.Article) (bool, error) {
	if m.Contains(article.ID) {
		return false, m.Remove(article.ID)
	}
	return true, m.Add(article)
}

// MarkRead flags the entry for the article as read.
func (m *Manager) MarkRead(articleID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(articleID)
	if i < 0 {
		return nil
	}
	m.items[i].IsRead = true
	return m.persist()
}

// UnreadCount reports how many queued entries are still unread.
func (m *Manager) UnreadCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, it := range m.items {
		if !it.IsRead {
			n++
		}
	}
	return n
}

func (m *Manager) indexOf(articleID uuid.UUID) int {
	for i, it := range m.items {
		if it.Article.ID == articleID {
			return i
		}
	}
	return -1
}

func (m *Manager) persist() error {
	return storage.SaveJSON(m.store, storage.KeyWatchLater, m.items)
}
