package main

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

const maxResponseSamples = 1000

// Metrics holds in-process request counters for the monitoring endpoints.
// Durations keep a bounded ring of recent samples.
type Metrics struct {
	mu             sync.Mutex
	requestCount   int64
	errorCount     int64
	responseTimes  []float64
	responseCursor int
	endpointCounts map[string]int64
	start          time.Time
}

func NewMetrics() *Metrics {
	return &Metrics{
		endpointCounts: make(map[string]int64),
		start:          time.Now(),
	}
}

func (m *Metrics) IncRequest(endpoint string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount++
	if endpoint != "" {
		m.endpointCounts[endpoint]++
	}
}

func (m *Metrics) IncError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount++
}

func (m *Metrics) RecordDuration(d time.Duration) {
	ms := float64(d) / float64(time.Millisecond)
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.responseTimes) < maxResponseSamples {
		m.responseTimes = append(m.responseTimes, ms)
		return
	}
	m.responseTimes[m.responseCursor] = ms
	m.responseCursor = (m.responseCursor + 1) % maxResponseSamples
}

func (m *Metrics) avgResponseMSLocked() float64 {
	if len(m.responseTimes) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range m.responseTimes {
		sum += v
	}
	return sum / float64(len(m.responseTimes))
}

func (m *Metrics) Uptime() time.Duration {
	return time.Since(m.start)
}

// Snapshot is the JSON shape of /metrics.
type Snapshot struct {
	RequestCount      int64            `json:"request_count"`
	ErrorCount        int64            `json:"error_count"`
	AvgResponseTimeMS float64          `json:"avg_response_time_ms"`
	UptimeSeconds     float64          `json:"uptime_seconds"`
	Endpoints         map[string]int64 `json:"endpoints"`
	ActiveRounds      int64            `json:"active_rounds"`
	TotalPlayers      int64            `json:"total_players"`
}

func (m *Metrics) Snapshot(activeRounds, totalPlayers int64) Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	endpoints := make(map[string]int64, len(m.endpointCounts))
	for k, v := range m.endpointCounts {
		endpoints[k] = v
	}
	return Snapshot{
		RequestCount:      m.requestCount,
		ErrorCount:        m.errorCount,
		AvgResponseTimeMS: round2(m.avgResponseMSLocked()),
		UptimeSeconds:     round2(m.Uptime().Seconds()),
		Endpoints:         endpoints,
		ActiveRounds:      activeRounds,
		TotalPlayers:      totalPlayers,
	}
}

// Prometheus renders the counters in the text exposition format.
func (m *Metrics) Prometheus(activeRounds, totalPlayers int64) string {
	snap := m.Snapshot(activeRounds, totalPlayers)
	var b strings.Builder
	writeMetric(&b, "blackjack_requests_total", "counter", "Total number of requests", fmt.Sprintf("%d", snap.RequestCount))
	writeMetric(&b, "blackjack_errors_total", "counter", "Total number of errors", fmt.Sprintf("%d", snap.ErrorCount))
	writeMetric(&b, "blackjack_response_time_ms", "gauge", "Average response time in milliseconds", fmt.Sprintf("%.2f", snap.AvgResponseTimeMS))
	writeMetric(&b, "blackjack_uptime_seconds", "counter", "Application uptime in seconds", fmt.Sprintf("%.2f", snap.UptimeSeconds))
	writeMetric(&b, "blackjack_active_rounds", "gauge", "Number of rounds in progress", fmt.Sprintf("%d", snap.ActiveRounds))
	writeMetric(&b, "blackjack_total_players", "counter", "Total registered players", fmt.Sprintf("%d", snap.TotalPlayers))

	endpoints := make([]string, 0, len(snap.Endpoints))
	for ep := range snap.Endpoints {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)
	for _, ep := range endpoints {
		name := "blackjack_endpoint_" + sanitizeMetricName(ep) + "_total"
		writeMetric(&b, name, "counter", "Requests to "+ep, fmt.Sprintf("%d", snap.Endpoints[ep]))
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeMetric(b *strings.Builder, name, typ, help, value string) {
	fmt.Fprintf(b, "# HELP %s %s\n", name, help)
	fmt.Fprintf(b, "# TYPE %s %s\n", name, typ)
	fmt.Fprintf(b, "%s %s\n\n", name, value)
}

func sanitizeMetricName(endpoint string) string {
	s := strings.NewReplacer("/", "_", "-", "_").Replace(endpoint)
	return strings.Trim(s, "_")
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
