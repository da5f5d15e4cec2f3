package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRecorder is the factory spec §6 describes as "metrics (when
// enabled, on a separate port)": when disabled it returns a
// NoopRecorder and a no-op shutdown func; when enabled it registers a
// PrometheusRecorder and serves /metrics on its own HTTP listener.
// Grounded on mcp_condenser/metrics.py's create_recorder.
func NewRecorder(enabled bool, port int) (Recorder, func(context.Context) error, error) {
	if !enabled {
		return NoopRecorder{}, func(context.Context) error { return nil }, nil
	}

	registry := prometheus.NewRegistry()
	recorder := NewPrometheusRecorder(registry)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server stopped", "error", err)
		}
	}()

	return recorder, srv.Shutdown, nil
}
