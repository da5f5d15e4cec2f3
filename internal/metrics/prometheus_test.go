package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func newTestRecorder(t *testing.T) *PrometheusRecorder {
	t.Helper()
	registry := prometheus.NewRegistry()
	return NewPrometheusRecorder(registry)
}

func TestPrometheusRecorder_RecordRequestIncrementsByLabel(t *testing.T) {
	t.Parallel()
	r := newTestRecorder(t)
	r.RecordRequest("list_buckets", "aws", "condense")
	r.RecordRequest("list_buckets", "aws", "condense")

	got := testutil.ToFloat64(r.requestsTotal.WithLabelValues("list_buckets", "aws", "condense"))
	assert.Equal(t, float64(2), got)
}

func TestPrometheusRecorder_RecordTokensOnlyCountsPositiveSavings(t *testing.T) {
	t.Parallel()
	r := newTestRecorder(t)
	r.RecordTokens("t", "s", 100, 40)
	r.RecordTokens("t", "s", 100, 120) // output larger than input: no savings recorded

	assert.Equal(t, float64(200), testutil.ToFloat64(r.inputTokensTotal.WithLabelValues("t", "s")))
	assert.Equal(t, float64(160), testutil.ToFloat64(r.outputTokensTotal.WithLabelValues("t", "s")))
	assert.Equal(t, float64(60), testutil.ToFloat64(r.savedTokensTotal.WithLabelValues("t", "s")))
}

func TestPrometheusRecorder_RecordTruncation(t *testing.T) {
	t.Parallel()
	r := newTestRecorder(t)
	r.RecordTruncation("t", "s")
	assert.Equal(t, float64(1), testutil.ToFloat64(r.truncationsTotal.WithLabelValues("t", "s")))
}

func TestTimer_StopIsIdempotent(t *testing.T) {
	t.Parallel()
	tm := NewTimer()
	time.Sleep(time.Millisecond)
	first := tm.Stop()
	second := tm.Stop()
	assert.Equal(t, first, second)
}

func TestNoopRecorder_SatisfiesRecorder(t *testing.T) {
	t.Parallel()
	var r Recorder = NoopRecorder{}
	r.RecordRequest("t", "s", "passthrough")
	r.RecordTokens("t", "s", 10, 5)
	r.RecordCompressionRatio("t", "s", 0.5)
	r.RecordProcessingSeconds("t", "s", time.Millisecond)
	r.RecordTruncation("t", "s")
}
