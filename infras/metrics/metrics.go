package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hotelops"

// Cache events.
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
	CacheSet  = "set"
	CacheDel  = "del"
)

// Intake outcomes.
const (
	IntakeAccepted = "accepted"
	IntakeRejected = "rejected"
	IntakeFallback = "fallback"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	ExternalRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "external_requests_total", Help: "Outbound requests."},
		[]string{"service", "endpoint", "status"},
	)
	ExternalLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace, Name: "external_request_duration_seconds",
			Help:    "Outbound request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "endpoint"},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"cache", "event"},
	)
	BookingTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "booking_transitions_total", Help: "Booking lifecycle transitions."},
		[]string{"from", "to"},
	)
	BookingConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "booking_conflicts_total", Help: "Bookings rejected for overlapping an existing stay."},
	)
	IntakeMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "intake_messages_total", Help: "Inbound messaging webhooks by outcome."},
		[]string{"channel", "outcome"},
	)
)

var (
	registry     *prometheus.Registry
	registryOnce sync.Once
)

// Registry returns the process wide registry holding every collector of this package.
func Registry() *prometheus.Registry {
	registryOnce.Do(func() {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			HTTPRequests, HTTPLatency,
			ExternalRequests, ExternalLatency,
			CacheEvents,
			BookingTransitions, BookingConflicts,
			IntakeMessages,
		)
	})

	return registry
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry(), promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveExternal(service, endpoint string, status int, dur time.Duration) {
	ExternalRequests.WithLabelValues(service, endpoint, strconv.Itoa(status)).Inc()
	ExternalLatency.WithLabelValues(service, endpoint).Observe(dur.Seconds())
}

func ObserveCache(cache, event string) {
	CacheEvents.WithLabelValues(cache, event).Inc()
}

func ObserveTransition(from, to string) {
	BookingTransitions.WithLabelValues(from, to).Inc()
}

func ObserveConflict() {
	BookingConflicts.Inc()
}

func ObserveIntake(channel, outcome string) {
	IntakeMessages.WithLabelValues(channel, outcome).Inc()
}
