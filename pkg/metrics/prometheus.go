// Package metrics provides Prometheus metrics for the heated game client.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager manages all Prometheus metrics for the client.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Backend traffic - every CRUD call against the persistence service
	backendRequests        *prometheus.CounterVec
	backendRequestDuration *prometheus.HistogramVec
	backendErrors          *prometheus.CounterVec

	// Word generation
	wordgenRequests  prometheus.Counter
	wordgenFallbacks prometheus.Counter

	// Game flow
	roomsCreated       prometheus.Counter
	roomsJoined        prometheus.Counter
	roundsStarted      prometheus.Counter
	takesSubmitted     prometheus.Counter
	takesForced        prometheus.Counter
	votesCast          *prometheus.CounterVec
	leaderboardUpdates prometheus.Counter
	leaderboardErrors  prometheus.Counter
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "heated",
		subsystem:        "client",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	factory := promauto.With(m.registry)

	m.backendRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "backend_requests_total",
		Help:      "Total CRUD requests issued against the persistence backend.",
	}, []string{"table", "operation"})

	m.backendRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "backend_request_duration_seconds",
		Help:      "Latency of persistence backend requests.",
		Buckets:   m.histogramBuckets,
	}, []string{"table", "operation"})

	m.backendErrors = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "backend_errors_total",
		Help:      "Failed persistence backend requests.",
	}, []string{"table", "operation"})

	m.wordgenRequests = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "wordgen_requests_total",
		Help:      "Word generation requests sent to the text-generation endpoint.",
	})

	m.wordgenFallbacks = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "wordgen_fallbacks_total",
		Help:      "Word generations that fell back to the static word table.",
	})

	m.roomsCreated = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rooms_created_total",
		Help:      "Rooms created by this client.",
	})

	m.roomsJoined = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rooms_joined_total",
		Help:      "Rooms joined by this client.",
	})

	m.roundsStarted = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rounds_started_total",
		Help:      "Game rounds started by this client.",
	})

	m.takesSubmitted = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "takes_submitted_total",
		Help:      "Takes submitted, including forced empty submissions.",
	})

	m.takesForced = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "takes_forced_total",
		Help:      "Takes force-submitted empty when the writing timer expired.",
	})

	m.votesCast = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "votes_cast_total",
		Help:      "Votes cast, labeled by vote category.",
	}, []string{"category"})

	m.leaderboardUpdates = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "leaderboard_updates_total",
		Help:      "Successful additive leaderboard score updates.",
	})

	m.leaderboardErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "leaderboard_update_errors_total",
		Help:      "Leaderboard score updates that failed and were skipped.",
	})
}

// Handler returns an HTTP handler serving the custom registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(customRegistry, promhttp.HandlerOpts{})
}

// Package-level helpers operating on the global manager.

func RecordBackendRequest(table, operation string, seconds float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.backendRequests.WithLabelValues(table, operation).Inc()
	globalManager.backendRequestDuration.WithLabelValues(table, operation).Observe(seconds)
}

func RecordBackendError(table, operation string) {
	if !globalManager.enabled {
		return
	}
	globalManager.backendErrors.WithLabelValues(table, operation).Inc()
}

func RecordWordgenRequest() {
	if globalManager.enabled {
		globalManager.wordgenRequests.Inc()
	}
}

func RecordWordgenFallback() {
	if globalManager.enabled {
		globalManager.wordgenFallbacks.Inc()
	}
}

func RecordRoomCreated() {
	if globalManager.enabled {
		globalManager.roomsCreated.Inc()
	}
}

func RecordRoomJoined() {
	if globalManager.enabled {
		globalManager.roomsJoined.Inc()
	}
}

func RecordRoundStarted() {
	if globalManager.enabled {
		globalManager.roundsStarted.Inc()
	}
}

func RecordTakeSubmitted(forced bool) {
	if !globalManager.enabled {
		return
	}
	globalManager.takesSubmitted.Inc()
	if forced {
		globalManager.takesForced.Inc()
	}
}

func RecordVoteCast(category string) {
	if globalManager.enabled {
		globalManager.votesCast.WithLabelValues(category).Inc()
	}
}

func RecordLeaderboardUpdate() {
	if globalManager.enabled {
		globalManager.leaderboardUpdates.Inc()
	}
}

func RecordLeaderboardError() {
	if globalManager.enabled {
		globalManager.leaderboardErrors.Inc()
	}
}
