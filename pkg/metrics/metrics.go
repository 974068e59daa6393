// Package metrics registers the service's Prometheus collectors and exposes
// the scrape handler mounted on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "salescope_requests_total",
		Help: "Total HTTP requests by route",
	}, []string{"route"})
	RequestDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "salescope_request_duration_ms",
		Help:    "HTTP request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 5000},
	}, []string{"route"})
	ClusterDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "salescope_cluster_duration_ms",
		Help:    "Proximity clustering pass duration in milliseconds",
		Buckets: []float64{1, 5, 10, 50, 100, 500, 1000, 5000, 30000},
	})
	ClusterInputSales = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "salescope_cluster_input_sales",
		Help:    "Coordinate-valid sales entering one clustering pass",
		Buckets: []float64{10, 100, 500, 1000, 5000, 10000, 50000},
	})
	ClusterTruncatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "salescope_cluster_truncated_total",
		Help: "Clustering passes truncated by the input ceiling",
	})
	GeocodeRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "salescope_geocode_requests_total",
		Help: "Total reverse-geocode lookups sent upstream",
	})
	GeocodeFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "salescope_geocode_failures_total",
		Help: "Reverse-geocode lookups that failed or timed out",
	})
	GeocodeCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "salescope_geocode_cache_hits_total",
		Help: "Reverse-geocode results served from the process cache",
	})
	GeocodeCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "salescope_geocode_cache_misses_total",
		Help: "Reverse-geocode cache misses",
	})
	IngestedSalesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "salescope_ingested_sales_total",
		Help: "Sale records accepted by the ingest endpoint, by tenant",
	}, []string{"tenant"})
	StoreFetchErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "salescope_store_fetch_errors_total",
		Help: "Per-store fetch failures skipped by the multi-store fan-in",
	})
)

func init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDurationMs)
	prometheus.MustRegister(ClusterDurationMs)
	prometheus.MustRegister(ClusterInputSales)
	prometheus.MustRegister(ClusterTruncatedTotal)
	prometheus.MustRegister(GeocodeRequestsTotal)
	prometheus.MustRegister(GeocodeFailuresTotal)
	prometheus.MustRegister(GeocodeCacheHitsTotal)
	prometheus.MustRegister(GeocodeCacheMissesTotal)
	prometheus.MustRegister(IngestedSalesTotal)
	prometheus.MustRegister(StoreFetchErrorsTotal)
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler { return promhttp.Handler() }
