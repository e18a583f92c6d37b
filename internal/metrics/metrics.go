// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cache decisions made by the add-to-list flow.
const (
	DecisionFresh = "fresh"
	DecisionStale = "stale"
	DecisionMiss  = "miss"
)

// Provider call outcomes.
const (
	OutcomeOK          = "ok"
	OutcomeNotFound    = "not_found"
	OutcomeUnavailable = "unavailable"
	OutcomeRejected    = "rejected"
)

var (
	// MetadataDecisions counts how the media registry served an add-to-list request.
	MetadataDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "catalogus",
		Name:      "metadata_cache_decisions_total",
		Help:      "Media registry lookups by freshness decision.",
	}, []string{"decision"})

	// ProviderRequests counts logical provider calls (after retries) by outcome.
	ProviderRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "catalogus",
		Name:      "provider_requests_total",
		Help:      "Metadata provider calls by provider, operation and outcome.",
	}, []string{"provider", "operation", "outcome"})

	// ProviderRetries counts individual retried attempts.
	ProviderRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "catalogus",
		Name:      "provider_retries_total",
		Help:      "Retried metadata provider attempts.",
	}, []string{"provider"})

	// ProviderLatency observes wall time of logical provider calls including retries.
	ProviderLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "catalogus",
		Name:      "provider_request_duration_seconds",
		Help:      "Metadata provider call latency including retries.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"provider", "operation"})

	// SearchCache counts search cache hits and misses.
	SearchCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "catalogus",
		Name:      "search_cache_total",
		Help:      "Search cache lookups by result.",
	}, []string{"result"})

	// SearchCacheEntries reports the search cache size after the last store,
	// expired entries not yet purged included.
	SearchCacheEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "catalogus",
		Name:      "search_cache_entries",
		Help:      "Keys held by the search cache.",
	})

	// HTTPRequests counts served HTTP requests by route pattern and status code.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "catalogus",
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})
)
