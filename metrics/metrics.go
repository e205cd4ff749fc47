// Package metrics keeps in-process counters for webhook processing. Counters
// are authoritative; the success rate and latency average are smoothed hints
// for the admin dashboard.
package metrics

import (
	"sync"
	"time"
)

// latencyAlpha is the smoothing factor of the latency moving average.
const latencyAlpha = 0.05

// successNudge is how far one outcome moves the success-rate gauge.
const successNudge = 0.1

// WebhookMetrics accumulates webhook outcomes. Safe for concurrent use.
type WebhookMetrics struct {
	mu sync.Mutex

	received          int64
	ordersCreated     int64
	duplicates        int64
	permanentFailures int64
	transientFailures int64

	successRate float64
	latencyMS   float64
	hasLatency  bool
}

// Snapshot is a point-in-time copy of the metrics.
type Snapshot struct {
	Received          int64   `json:"received"`
	OrdersCreated     int64   `json:"orders_created"`
	Duplicates        int64   `json:"duplicates"`
	PermanentFailures int64   `json:"permanent_failures"`
	TransientFailures int64   `json:"transient_failures"`
	SuccessRate       float64 `json:"success_rate"`
	AvgLatencyMS      float64 `json:"avg_latency_ms"`
}

// NewWebhookMetrics creates metrics with the success rate at 1, so a cold
// process does not report an outage before the first event arrives.
func NewWebhookMetrics() *WebhookMetrics {
	return &WebhookMetrics{successRate: 1}
}

// RecordReceived counts an incoming event before any processing.
func (m *WebhookMetrics) RecordReceived() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.received++
}

// RecordCreated counts a materialized order and observes its latency.
func (m *WebhookMetrics) RecordCreated(latency time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ordersCreated++
	m.nudgeLocked(successNudge)
	m.observeLatencyLocked(latency)
}

// RecordDuplicate counts a redelivery that found its order already written.
// Duplicates are successes: the order exists.
func (m *WebhookMetrics) RecordDuplicate(latency time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.duplicates++
	m.nudgeLocked(successNudge)
	m.observeLatencyLocked(latency)
}

// RecordPermanentFailure counts an event rejected with a 4xx.
func (m *WebhookMetrics) RecordPermanentFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.permanentFailures++
	m.nudgeLocked(-successNudge)
}

// RecordTransientFailure counts an event failed with a 5xx, to be redelivered.
func (m *WebhookMetrics) RecordTransientFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transientFailures++
	m.nudgeLocked(-successNudge)
}

// Snapshot returns a copy of the current values.
func (m *WebhookMetrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		Received:          m.received,
		OrdersCreated:     m.ordersCreated,
		Duplicates:        m.duplicates,
		PermanentFailures: m.permanentFailures,
		TransientFailures: m.transientFailures,
		SuccessRate:       m.successRate,
		AvgLatencyMS:      m.latencyMS,
	}
}

// nudgeLocked moves the success rate by delta, clamped to [0, 1].
func (m *WebhookMetrics) nudgeLocked(delta float64) {
	m.successRate += delta
	if m.successRate > 1 {
		m.successRate = 1
	}
	if m.successRate < 0 {
		m.successRate = 0
	}
}

// observeLatencyLocked folds one observation into the moving average. The
// first observation seeds the average directly.
func (m *WebhookMetrics) observeLatencyLocked(latency time.Duration) {
	ms := float64(latency.Milliseconds())
	if !m.hasLatency {
		m.latencyMS = ms
		m.hasLatency = true
		return
	}
	m.latencyMS = latencyAlpha*ms + (1-latencyAlpha)*m.latencyMS
}
