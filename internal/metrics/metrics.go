package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestCounter counts HTTP requests by status code, method, and route
	RequestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tubemark_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"status", "method", "route"},
	)

	// RequestDuration measures HTTP request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tubemark_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status", "method", "route"},
	)

	// RequestInProgress counts HTTP requests currently being processed
	RequestInProgress = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tubemark_http_requests_in_progress",
			Help: "Number of HTTP requests currently being processed",
		},
		[]string{"method", "route"},
	)

	// AuthEvents counts registrations, logins and logouts by outcome
	AuthEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tubemark_auth_events_total",
			Help: "Total number of authentication events",
		},
		[]string{"event", "outcome"},
	)

	// PasswordResetEvents counts reset requests, verifications and completions
	PasswordResetEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tubemark_password_reset_events_total",
			Help: "Total number of password reset events",
		},
		[]string{"stage", "outcome"},
	)

	// PasswordResetsPurged counts expired reset rows removed by the scheduler
	PasswordResetsPurged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tubemark_password_resets_purged_total",
			Help: "Total number of expired password resets purged",
		},
	)

	// FavoriteEvents counts mark and unmark operations
	FavoriteEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tubemark_favorite_events_total",
			Help: "Total number of favorite video changes",
		},
		[]string{"action"},
	)

	// SearchDuration measures calls to the video search provider
	SearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tubemark_search_duration_seconds",
			Help:    "Video search provider latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Outcome maps an error to the outcome label
func Outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}

// RecordSearch records the duration of a search provider call
func RecordSearch(err error, startTime time.Time) {
	SearchDuration.WithLabelValues(Outcome(err)).Observe(time.Since(startTime).Seconds())
}
