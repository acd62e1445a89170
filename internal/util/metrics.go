package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CatalogLoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_loads_total",
		Help: "Total number of catalog load attempts",
	}, []string{"result"})

	CatalogProducts = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_products",
		Help: "Number of active products in the current catalog snapshot",
	})

	CatalogCategories = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_categories",
		Help: "Number of categories in the current catalog snapshot",
	})

	CatalogLoadLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_load_latency_seconds",
		Help:    "Latency of catalog fetch and normalization",
		Buckets: prometheus.DefBuckets,
	})

	CartOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Total number of cart mutations",
	}, []string{"op"})

	CartLookupMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_lookup_misses_total",
		Help: "Cart adds referencing ids absent from the current catalog",
	})

	CartRestoreFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_restore_failures_total",
		Help: "Persisted carts that failed to parse and were reset to empty",
	})

	CheckoutsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkouts_total",
		Help: "Total number of checkouts",
	})

	CheckoutArchiveFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkout_archive_failures_total",
		Help: "Checkout order archive writes that failed",
	})

	RenderItemFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "render_item_failures_total",
		Help: "Per-item render failures replaced by a placeholder slot",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
