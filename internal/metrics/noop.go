package metrics

import "time"

// NoopRecorder discards every recorded value. It is the default when
// metrics_enabled is false (spec §6).
type NoopRecorder struct{}

var _ Recorder = NoopRecorder{}

func (NoopRecorder) RecordRequest(tool, server, mode string)                             {}
func (NoopRecorder) RecordTokens(tool, server string, inputTokens, outputTokens int)      {}
func (NoopRecorder) RecordCompressionRatio(tool, server string, ratio float64)            {}
func (NoopRecorder) RecordProcessingSeconds(tool, server string, duration time.Duration)  {}
func (NoopRecorder) RecordTruncation(tool, server string)                                 {}
