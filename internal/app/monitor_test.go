package app

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochj23/NewsMobile/internal/metrics"
)

func TestHealthEndpoint(t *testing.T) {
	metrics.Global.RecordRefresh(100 * time.Millisecond)

	srv := httptest.NewServer(monitoringMux())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestHealthEndpointReportsError(t *testing.T) {
	metrics.Global.SetError("feed exploded")
	t.Cleanup(func() { metrics.Global.RecordRefresh(time.Millisecond) })

	srv := httptest.NewServer(monitoringMux())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 503, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "feed exploded", body["last_error"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv := httptest.NewServer(monitoringMux())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)

	var stats map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	assert.Contains(t, stats, "articles_fetched")
	assert.Contains(t, stats, "refresh_count")
	assert.Contains(t, stats, "is_healthy")
}
