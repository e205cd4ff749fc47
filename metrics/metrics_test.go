package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewWebhookMetricsStartsHealthy(t *testing.T) {
	m := NewWebhookMetrics()
	snap := m.Snapshot()

	assert.Equal(t, int64(0), snap.Received)
	assert.Equal(t, 1.0, snap.SuccessRate)
	assert.Equal(t, 0.0, snap.AvgLatencyMS)
}

func TestCountersAreAuthoritative(t *testing.T) {
	m := NewWebhookMetrics()

	m.RecordReceived()
	m.RecordReceived()
	m.RecordReceived()
	m.RecordCreated(10 * time.Millisecond)
	m.RecordDuplicate(5 * time.Millisecond)
	m.RecordPermanentFailure()
	m.RecordTransientFailure()

	snap := m.Snapshot()
	assert.Equal(t, int64(3), snap.Received)
	assert.Equal(t, int64(1), snap.OrdersCreated)
	assert.Equal(t, int64(1), snap.Duplicates)
	assert.Equal(t, int64(1), snap.PermanentFailures)
	assert.Equal(t, int64(1), snap.TransientFailures)
}

func TestSuccessRateClampsAtOne(t *testing.T) {
	m := NewWebhookMetrics()

	for i := 0; i < 5; i++ {
		m.RecordCreated(time.Millisecond)
	}

	assert.Equal(t, 1.0, m.Snapshot().SuccessRate)
}

func TestSuccessRateClampsAtZero(t *testing.T) {
	m := NewWebhookMetrics()

	for i := 0; i < 15; i++ {
		m.RecordPermanentFailure()
	}

	assert.Equal(t, 0.0, m.Snapshot().SuccessRate)
}

func TestSuccessRateMovesByOneNudgePerOutcome(t *testing.T) {
	m := NewWebhookMetrics()

	m.RecordTransientFailure()
	assert.InDelta(t, 0.9, m.Snapshot().SuccessRate, 1e-9)

	m.RecordPermanentFailure()
	assert.InDelta(t, 0.8, m.Snapshot().SuccessRate, 1e-9)

	m.RecordCreated(time.Millisecond)
	assert.InDelta(t, 0.9, m.Snapshot().SuccessRate, 1e-9)

	m.RecordDuplicate(time.Millisecond)
	assert.InDelta(t, 1.0, m.Snapshot().SuccessRate, 1e-9)
}

func TestLatencySeedsThenSmooths(t *testing.T) {
	m := NewWebhookMetrics()

	m.RecordCreated(100 * time.Millisecond)
	assert.InDelta(t, 100.0, m.Snapshot().AvgLatencyMS, 1e-9)

	m.RecordCreated(200 * time.Millisecond)
	// 0.05*200 + 0.95*100
	assert.InDelta(t, 105.0, m.Snapshot().AvgLatencyMS, 1e-9)

	m.RecordDuplicate(200 * time.Millisecond)
	// 0.05*200 + 0.95*105
	assert.InDelta(t, 109.75, m.Snapshot().AvgLatencyMS, 1e-9)
}

func TestFailuresDoNotTouchLatency(t *testing.T) {
	m := NewWebhookMetrics()

	m.RecordCreated(100 * time.Millisecond)
	m.RecordPermanentFailure()
	m.RecordTransientFailure()

	assert.InDelta(t, 100.0, m.Snapshot().AvgLatencyMS, 1e-9)
}
