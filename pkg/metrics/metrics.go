package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// 分页查询
	FeedPageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "newtube_feed_page_duration_seconds",
			Help:    "Duration of feed page queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"feed"},
	)

	FeedPageItems = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "newtube_feed_page_items",
			Help:    "Number of items returned per feed page",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
		},
		[]string{"feed"},
	)

	ReactionToggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newtube_reaction_toggles_total",
			Help: "Total number of reaction toggles",
		},
		[]string{"subject", "type", "outcome"}, // outcome: set, removed
	)

	// Mux webhook
	WebhookEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newtube_webhook_events_total",
			Help: "Total number of pipeline webhook events by type and outcome",
		},
		[]string{"type", "outcome"}, // outcome: applied, ignored, rejected, failed
	)

	// Circuit breaker
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "newtube_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newtube_circuit_breaker_requests_total",
			Help: "Total number of requests through a circuit breaker",
		},
		[]string{"name", "result"}, // result: success, failure, rejected
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newtube_circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	RateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newtube_rate_limited_total",
			Help: "Total number of requests rejected by rate limiting or flow control",
		},
		[]string{"limiter"},
	)
)

// ObserveFeed 记录一次分页查询
func ObserveFeed(feed string, start time.Time, items int) {
	FeedPageDuration.WithLabelValues(feed).Observe(time.Since(start).Seconds())
	FeedPageItems.WithLabelValues(feed).Observe(float64(items))
}
