// Package settings owns the persisted user settings record. A decode
// failure on load silently yields the defaults.
package settings

import (
	"sync"

	"github.com/kochj23/NewsMobile/internal/model"
	"github.com/kochj23/NewsMobile/internal/storage"
)

// Manager is the single writer of the settings record. Readers get value
// snapshots and never observe in-flight mutation.
type Manager struct {
	mu      sync.RWMutex
	store   storage.Store
	current model.Settings
}

func NewManager(store storage.Store) *Manager {
	return &Manager{
		store:   store,
		current: storage.LoadJSON(store, storage.KeySettings, model.DefaultSettings()),
	}
}

// Current returns a snapshot of the settings.
func (m *Manager) Current() model.Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copySettings(m.current)
}

// Update applies mutate under the write lock and persists the result.
func (m *Manager) Update(mutate func(*model.Settings)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := copySettings(m.current)
	mutate(&next)
	if err := storage.SaveJSON(m.store, storage.KeySettings, next); err != nil {
		return err
	}
	m.current = next
	return nil
}

// Reset restores the defaults and persists them.
func (m *Manager) Reset() error {
	return m.Update(func(s *model.Settings) {
		*s = model.DefaultSettings()
	})
}

func copySettings(s model.Settings) model.Settings {
	out := s
	out.ExcludedSources = append([]string(nil), s.ExcludedSources...)
	out.KeywordAlerts = append([]model.KeywordAlert(nil), s.KeywordAlerts...)
	out.CustomFeeds = append([]model.CustomFeed(nil), s.CustomFeeds...)
	return out
}
