package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()
	m.IncRequest("/api/hit")
	m.IncRequest("/api/hit")
	m.IncRequest("/api/stand")
	m.IncError()

	snap := m.Snapshot(3, 7)
	assert.Equal(t, int64(3), snap.RequestCount)
	assert.Equal(t, int64(1), snap.ErrorCount)
	assert.Equal(t, int64(2), snap.Endpoints["/api/hit"])
	assert.Equal(t, int64(1), snap.Endpoints["/api/stand"])
	assert.Equal(t, int64(3), snap.ActiveRounds)
	assert.Equal(t, int64(7), snap.TotalPlayers)
}

func TestMetricsAvgResponseTime(t *testing.T) {
	m := NewMetrics()
	snap := m.Snapshot(0, 0)
	assert.Equal(t, 0.0, snap.AvgResponseTimeMS)

	m.RecordDuration(10 * time.Millisecond)
	m.RecordDuration(30 * time.Millisecond)
	snap = m.Snapshot(0, 0)
	assert.Equal(t, 20.0, snap.AvgResponseTimeMS)
}

func TestMetricsDurationRingIsBounded(t *testing.T) {
	m := NewMetrics()
	for i := 0; i < maxResponseSamples+100; i++ {
		m.RecordDuration(time.Millisecond)
	}
	assert.Len(t, m.responseTimes, maxResponseSamples)
}

func TestPrometheusFormat(t *testing.T) {
	m := NewMetrics()
	m.IncRequest("/api/start-game")
	m.IncError()

	out := m.Prometheus(2, 5)
	assert.Contains(t, out, "# TYPE blackjack_requests_total counter")
	assert.Contains(t, out, "blackjack_requests_total 1")
	assert.Contains(t, out, "blackjack_errors_total 1")
	assert.Contains(t, out, "# TYPE blackjack_active_rounds gauge")
	assert.Contains(t, out, "blackjack_active_rounds 2")
	assert.Contains(t, out, "blackjack_total_players 5")
	assert.Contains(t, out, "blackjack_endpoint_api_start_game_total 1")
	assert.False(t, strings.HasSuffix(out, "\n"))
}

func TestSanitizeMetricName(t *testing.T) {
	assert.Equal(t, "api_start_game", sanitizeMetricName("/api/start-game"))
	assert.Equal(t, "health", sanitizeMetricName("/health"))
}
