package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder records every metric spec §6 names via
// github.com/prometheus/client_golang, mirroring
// mcp_condenser/metrics.py's PrometheusRecorder field-for-field.
type PrometheusRecorder struct {
	requestsTotal      *prometheus.CounterVec
	inputTokensTotal   *prometheus.CounterVec
	outputTokensTotal  *prometheus.CounterVec
	savedTokensTotal   *prometheus.CounterVec
	compressionRatio   *prometheus.HistogramVec
	processingSeconds  *prometheus.HistogramVec
	truncationsTotal   *prometheus.CounterVec
}

var _ Recorder = (*PrometheusRecorder)(nil)

// NewPrometheusRecorder registers the condenser's metric families on
// registry. Pass prometheus.DefaultRegisterer to use the global
// registry, as the teacher's create_recorder does when no registry is
// given.
func NewPrometheusRecorder(registry prometheus.Registerer) *PrometheusRecorder {
	r := &PrometheusRecorder{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "condenser_requests_total",
			Help: "Items processed",
		}, []string{"tool", "server", "mode"}),
		inputTokensTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "condenser_input_tokens_total",
			Help: "Input tokens before condensing",
		}, []string{"tool", "server"}),
		outputTokensTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "condenser_output_tokens_total",
			Help: "Output tokens after condensing",
		}, []string{"tool", "server"}),
		savedTokensTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "condenser_saved_tokens_total",
			Help: "Tokens saved (input - output, positive only)",
		}, []string{"tool", "server"}),
		compressionRatio: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "condenser_compression_ratio",
			Help: "output/input ratio per item (lower = better)",
		}, []string{"tool", "server"}),
		processingSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "condenser_processing_seconds",
			Help: "Wall clock time per condense call",
		}, []string{"tool", "server"}),
		truncationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "condenser_truncations_total",
			Help: "Token-limit truncation events",
		}, []string{"tool", "server"}),
	}

	registry.MustRegister(
		r.requestsTotal,
		r.inputTokensTotal,
		r.outputTokensTotal,
		r.savedTokensTotal,
		r.compressionRatio,
		r.processingSeconds,
		r.truncationsTotal,
	)
	return r
}

func (r *PrometheusRecorder) RecordRequest(tool, server, mode string) {
	r.requestsTotal.WithLabelValues(tool, server, mode).Inc()
}

func (r *PrometheusRecorder) RecordTokens(tool, server string, inputTokens, outputTokens int) {
	r.inputTokensTotal.WithLabelValues(tool, server).Add(float64(inputTokens))
	r.outputTokensTotal.WithLabelValues(tool, server).Add(float64(outputTokens))
	if saved := inputTokens - outputTokens; saved > 0 {
		r.savedTokensTotal.WithLabelValues(tool, server).Add(float64(saved))
	}
}

func (r *PrometheusRecorder) RecordCompressionRatio(tool, server string, ratio float64) {
	r.compressionRatio.WithLabelValues(tool, server).Observe(ratio)
}

func (r *PrometheusRecorder) RecordProcessingSeconds(tool, server string, duration time.Duration) {
	r.processingSeconds.WithLabelValues(tool, server).Observe(duration.Seconds())
}

func (r *PrometheusRecorder) RecordTruncation(tool, server string) {
	r.truncationsTotal.WithLabelValues(tool, server).Inc()
}
