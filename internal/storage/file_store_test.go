package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = fs.Load(KeySettings)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, fs.Save(KeySettings, []byte(`{"refresh_interval":30}`)))
	data, err := fs.Load(KeySettings)
	require.NoError(t, err)
	assert.JSONEq(t, `{"refresh_interval":30}`, string(data))

	require.NoError(t, fs.Delete(KeySettings))
	_, err = fs.Load(KeySettings)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStoreDeleteMissingKey(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, fs.Delete("never-written"))
}

func TestFileStoreSanitizesKeys(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, fs.Save("../escape/attempt", []byte("x")))
	data, err := fs.Load("../escape/attempt")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), data)
}

func TestLoadJSONFallsBackToDefault(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	type record struct {
		N int `json:"n"`
	}

	// Missing key.
	got := LoadJSON(fs, "missing", record{N: 7})
	assert.Equal(t, 7, got.N)

	// Corrupt payload.
	require.NoError(t, fs.Save("corrupt", []byte("{not json")))
	got = LoadJSON(fs, "corrupt", record{N: 7})
	assert.Equal(t, 7, got.N)

	// Valid payload wins over the default.
	require.NoError(t, SaveJSON(fs, "valid", record{N: 42}))
	got = LoadJSON(fs, "valid", record{N: 7})
	assert.Equal(t, 42, got.N)
}
