// Package metrics provides Prometheus metric collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "floatchat"
)

var (
	// HTTP request metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// Chat pipeline metrics
	ChatQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chat",
			Name:      "queries_total",
			Help:      "Total number of chat queries processed",
		},
		[]string{"query_type", "confidence"},
	)

	ChatQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "chat",
			Name:      "query_duration_seconds",
			Help:      "End-to-end chat query duration in seconds",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"query_type"},
	)

	// Retrieval backend metrics
	RetrievalDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "retrieval",
			Name:      "route_duration_seconds",
			Help:      "Retrieval route duration in seconds",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"route"},
	)

	RetrievalFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "retrieval",
			Name:      "fallbacks_total",
			Help:      "Total number of retrieval degradations",
		},
		[]string{"reason"},
	)

	StructuredRowsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "retrieval",
			Name:      "structured_rows_returned",
			Help:      "Row counts returned by the structured store",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 500, 1000},
		},
	)

	MilvusSearchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "milvus",
			Name:      "search_total",
			Help:      "Total number of vector searches",
		},
		[]string{"collection", "status"},
	)

	MilvusSearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "milvus",
			Name:      "search_duration_seconds",
			Help:      "Vector search duration in seconds",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1},
		},
		[]string{"collection"},
	)

	// Dashboard cache metrics
	DashboardCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dashboard",
			Name:      "cache_total",
			Help:      "Dashboard cache lookups",
		},
		[]string{"result"},
	)
)
