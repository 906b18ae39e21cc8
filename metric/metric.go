//
// Tencent is pleased to support the open source community by making trpc-agent-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package metric records per-tool invocation statistics for a single
// conversation.
package metric

import (
	"encoding/json"
	"time"
)

// ToolMetrics accumulates the invocation statistics of one tool.
type ToolMetrics struct {
	// Count is the number of invocations, including failed ones.
	Count int
	// Durations holds the elapsed time of each invocation in call
	// order.
	Durations []time.Duration
}

// Seconds returns the recorded durations as floating-point seconds.
func (m *ToolMetrics) Seconds() []float64 {
	seconds := make([]float64, 0, len(m.Durations))
	for _, d := range m.Durations {
		seconds = append(seconds, d.Seconds())
	}
	return seconds
}

// MarshalJSON serializes the metrics with durations rendered as
// seconds, the unit report consumers expect.
func (m *ToolMetrics) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Count     int       `json:"count"`
		Durations []float64 `json:"durations"`
	}{
		Count:     m.Count,
		Durations: m.Seconds(),
	})
}

// Recorder accumulates per-tool metrics for the lifetime of one
// conversation. Metrics are append-only; there is no removal
// operation. The recorder is not safe for concurrent use, which is
// fine because the conversation loop that owns it is strictly
// sequential.
type Recorder struct {
	metrics map[string]*ToolMetrics
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{metrics: make(map[string]*ToolMetrics)}
}

// Record appends one invocation of the named tool. The first
// occurrence of a name creates its entry with a zero count and an
// empty duration sequence before recording.
func (r *Recorder) Record(name string, elapsed time.Duration) {
	m, ok := r.metrics[name]
	if !ok {
		m = &ToolMetrics{Count: 0, Durations: []time.Duration{}}
		r.metrics[name] = m
	}
	m.Count++
	m.Durations = append(m.Durations, elapsed)
}

// Snapshot returns the accumulated metrics. It is safe to call at
// loop termination or after a partial failure.
func (r *Recorder) Snapshot() map[string]*ToolMetrics {
	snapshot := make(map[string]*ToolMetrics, len(r.metrics))
	for name, m := range r.metrics {
		snapshot[name] = m
	}
	return snapshot
}
