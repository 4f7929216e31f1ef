package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mpi_cache_lookups_total",
		Help: "Content cache lookups by listing and result",
	}, []string{"listing", "result"})

	cacheLookupDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mpi_cache_lookup_duration_seconds",
		Help:    "Content cache lookup latency by result",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
	}, []string{"result"})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mpi_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mpi_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	authEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mpi_auth_events_total",
		Help: "Authentication and credential reset outcomes",
	}, []string{"event", "outcome"})
)

const (
	ListingNews    = "news"
	ListingGallery = "gallery"
)

func IncListHit(listing string) {
	cacheLookups.WithLabelValues(listing, "hit").Inc()
}

func IncListMiss(listing string) {
	cacheLookups.WithLabelValues(listing, "miss").Inc()
}

func AddHitDuration(seconds float64) {
	cacheLookupDuration.WithLabelValues("hit").Observe(seconds)
}

func AddMissDuration(seconds float64) {
	cacheLookupDuration.WithLabelValues("miss").Observe(seconds)
}

// ObserveRequest records one served request. route is the matched gin route
// template, never the raw path.
func ObserveRequest(method, route, status string, seconds float64) {
	httpRequests.WithLabelValues(method, route, status).Inc()
	httpDuration.WithLabelValues(method, route).Observe(seconds)
}

// IncAuthEvent counts an auth outcome such as ("login", "failure").
func IncAuthEvent(event, outcome string) {
	authEvents.WithLabelValues(event, outcome).Inc()
}
