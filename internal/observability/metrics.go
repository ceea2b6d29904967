package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	requestsTotal         *prometheus.CounterVec
	latencySeconds        *prometheus.HistogramVec
	avatarUploadsTotal    *prometheus.CounterVec
	avatarRejectedTotal   *prometheus.CounterVec
	avatarLatencySeconds  prometheus.Histogram
	applicationDecisions  *prometheus.CounterVec
	participationChanges  *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors.
func RegisterMetrics() {
	registerOnce.Do(func() {
		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "campus_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		latencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "campus_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		avatarUploadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "campus_avatar_uploads_total",
			Help: "Total number of accepted avatar uploads.",
		}, []string{"mime"})

		avatarRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "campus_avatar_rejected_total",
			Help: "Total number of rejected avatar uploads.",
		}, []string{"reason"})

		avatarLatencySeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "campus_avatar_latency_seconds",
			Help:    "Latency distribution for avatar uploads.",
			Buckets: prometheus.DefBuckets,
		})

		applicationDecisions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "campus_application_decisions_total",
			Help: "Class application decisions by outcome.",
		}, []string{"status"})

		participationChanges = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "campus_participation_transitions_total",
			Help: "Activity participation transitions by target state.",
		}, []string{"status"})

		prometheus.MustRegister(
			requestsTotal,
			latencySeconds,
			avatarUploadsTotal,
			avatarRejectedTotal,
			avatarLatencySeconds,
			applicationDecisions,
			participationChanges,
		)
	})
}

// Requests exposes the request counter.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return requestsTotal
}

// Latency exposes the request latency histogram.
func Latency() *prometheus.HistogramVec {
	RegisterMetrics()
	return latencySeconds
}

// AvatarUploads exposes the accepted avatar counter.
func AvatarUploads() *prometheus.CounterVec {
	RegisterMetrics()
	return avatarUploadsTotal
}

// AvatarRejected exposes the rejected avatar counter.
func AvatarRejected() *prometheus.CounterVec {
	RegisterMetrics()
	return avatarRejectedTotal
}

// AvatarLatency exposes the avatar upload latency histogram.
func AvatarLatency() prometheus.Histogram {
	RegisterMetrics()
	return avatarLatencySeconds
}

// ApplicationDecisions exposes the per-outcome decision counter.
func ApplicationDecisions() *prometheus.CounterVec {
	RegisterMetrics()
	return applicationDecisions
}

// ParticipationTransitions exposes the per-state transition counter.
func ParticipationTransitions() *prometheus.CounterVec {
	RegisterMetrics()
	return participationChanges
}
