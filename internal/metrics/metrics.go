// Package metrics holds the Prometheus instruments for suggestions, name
// resolution and the Steam client.
//
// The CLI is short-lived, so instead of serving /metrics it can dump the registry
// to a node-exporter textfile after each command (see WriteTextfile).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the registry every instrument below is registered with.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	// Suggestions counts suggest requests by outcome: "games", "empty" or "invalid_target".
	Suggestions = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wswp_suggestions_total",
			Help: "Total number of suggestion requests by outcome",
		},
		[]string{"outcome"},
	)

	// Resolutions counts resolved names by the stage that matched and the outcome.
	Resolutions = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wswp_resolutions_total",
			Help: "Total number of game name resolutions",
		},
		[]string{"stage", "outcome"},
	)

	// DisambiguationSessions counts sessions by terminal state.
	DisambiguationSessions = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wswp_disambiguation_sessions_total",
			Help: "Total number of disambiguation sessions by terminal state",
		},
		[]string{"state"},
	)

	SteamRequests = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wswp_steam_requests_total",
			Help: "Total number of Steam Web API requests",
		},
		[]string{"endpoint", "status"},
	)

	SteamRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wswp_steam_request_duration_seconds",
			Help:    "Duration of Steam Web API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// CircuitBreakerState is 0 closed, 1 half-open, 2 open.
	CircuitBreakerState = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "wswp_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)

// WriteTextfile writes the registry in text exposition format. An empty path is a no-op.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, Registry)
}
