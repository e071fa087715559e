package app

import (
	"encoding/json"
	"net/http"

	"github.com/kochj23/NewsMobile/internal/config"
	"github.com/kochj23/NewsMobile/internal/logger"
	"github.com/kochj23/NewsMobile/internal/metrics"
)

// monitoringMux serves the JSON health and metrics endpoints.
func monitoringMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", handleHealth)
	mux.HandleFunc("/metrics", handleMetrics)
	return mux
}

func startMonitoring(cfg *config.Config) {
	addr := ":" + cfg.MonitoringPort
	logger.Info("monitoring server listening", "addr", addr)
	if err := http.ListenAndServe(addr, monitoringMux()); err != nil {
		logger.Error("monitoring server stopped", "err", err)
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	stats := metrics.Global.GetStats()

	w.Header().Set("Content-Type", "application/json")
	status := "ok"
	if healthy, _ := stats["is_healthy"].(bool); !healthy {
		status = "error"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":       status,
		"last_refresh": stats["last_refresh_time"],
		"last_error":   stats["last_error"],
	})
}

func handleMetrics(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(metrics.Global.GetStats())
}
