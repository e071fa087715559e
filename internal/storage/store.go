// Package storage is the persistence boundary: opaque byte blobs keyed by
// fixed string keys. Callers encode/decode; decode failures must degrade to
// defaults on their side, never propagate.
package storage

import (
	"encoding/json"
	"errors"
)

// ErrNotFound is returned by Load when no value exists for the key.
var ErrNotFound = errors.New("storage: key not found")

// Store is implemented by the file and Postgres backends.
type Store interface {
	Load(key string) ([]byte, error)
	Save(key string, data []byte) error
	Delete(key string) error
}

// Well-known keys. Keeping them in one place avoids drift between the
// engines that share a store.
const (
	KeySettings   = "NewsMobileSettings"
	KeyProfile    = "UserPreferenceProfile"
	KeyAlerts     = "KeywordAlerts"
	KeyWatchLater = "WatchLaterItems"
	KeyWidget     = "WidgetSnapshot"
)

// LoadJSON decodes the value under key into a fresh T. A missing key or a
// decode failure yields def — persistence problems never escape this
// boundary as errors.
func LoadJSON[T any](s Store, key string, def T) T {
	data, err := s.Load(key)
	if err != nil || len(data) == 0 {
		return def
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return def
	}
	return out
}

// SaveJSON encodes v and writes it under key.
func SaveJSON(s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Save(key, data)
}
