// Package metrics defines the Prometheus collectors exported on /metrics.
// Collectors are registered with the default registry at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "travel"

// HTTPRequestsTotal counts served requests by chi route pattern, method and
// status code.
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests served.",
	},
	[]string{"route", "method", "status"},
)

var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"route", "method"},
)

// TripsCreatedTotal counts persisted trips.
// Labels:
//   - budget: canonical budget tag
//   - fallback: "true" when the placeholder itinerary was stored
var TripsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "trips_created_total",
		Help:      "Total number of trips created, by budget and fallback.",
	},
	[]string{"budget", "fallback"},
)

// GeneratorRequestsTotal counts itinerary generation attempts.
// Label:
//   - outcome: "ok", "error" or "timeout"
var GeneratorRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "generator_requests_total",
		Help:      "Total number of itinerary generation attempts, by outcome.",
	},
	[]string{"outcome"},
)

var GeneratorDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "generator_duration_seconds",
		Help:      "Duration of itinerary generation calls.",
		Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 20, 30},
	},
)

// PaymentsTotal counts payment attempts.
// Label:
//   - result: "paid", "already_paid", "declined", "not_found" or "error"
var PaymentsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_total",
		Help:      "Total number of payment attempts, by result.",
	},
	[]string{"result"},
)

// RateLimitedTotal counts rejected requests by limiter.
// Label:
//   - limiter: "auth" or "general"
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by a rate limiter.",
	},
	[]string{"limiter"},
)

var ChatMessagesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "chat_messages_total",
		Help:      "Total number of chat messages stored, by sender and intent.",
	},
	[]string{"sender", "intent"},
)
