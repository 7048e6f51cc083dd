package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// extraction pipeline.
type Metrics struct {
	LocationsProcessed prometheus.Counter
	LocationsFailed    prometheus.Counter
	LocationsSkipped   prometheus.Counter
	PipelineRunning    prometheus.Gauge
	RecordDuration     prometheus.Histogram

	// Geocoding metrics.
	GeocodeRequests *prometheus.CounterVec // labels: outcome={success,empty,error}
	GeocodeDuration prometheus.Histogram

	// Catalog and acquisition metrics.
	CatalogLookups  *prometheus.CounterVec // labels: result={hit,refresh}
	OrdersSubmitted prometheus.Counter
	ExtractsFetched prometheus.Counter
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		LocationsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "meteo_extract",
			Name:      "locations_processed_total",
			Help:      "Total location records fully processed (extract persisted).",
		}),
		LocationsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "meteo_extract",
			Name:      "locations_failed_total",
			Help:      "Total location records that ended in a hard failure.",
		}),
		LocationsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "meteo_extract",
			Name:      "locations_skipped_total",
			Help:      "Total location records with no coordinates or no eligible station.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "meteo_extract",
			Name:      "pipeline_running",
			Help:      "1 while the batch is being processed, 0 otherwise.",
		}),
		RecordDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "meteo_extract",
			Name:      "record_duration_seconds",
			Help:      "Wall time spent on one location record end to end.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "meteo_extract",
			Name:      "geocode_requests_total",
			Help:      "Outbound geocoding requests by outcome.",
		}, []string{"outcome"}),
		GeocodeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "meteo_extract",
			Name:      "geocode_request_duration_seconds",
			Help:      "Nominatim request duration in seconds, excluding the rate gate.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		CatalogLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "meteo_extract",
			Name:      "catalog_lookups_total",
			Help:      "Station catalog lookups by result.",
		}, []string{"result"}),
		OrdersSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "meteo_extract",
			Name:      "orders_submitted_total",
			Help:      "Total DPClim orders submitted.",
		}),
		ExtractsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "meteo_extract",
			Name:      "extracts_fetched_total",
			Help:      "Total extract files fetched and persisted.",
		}),
	}

	prometheus.MustRegister(
		m.LocationsProcessed,
		m.LocationsFailed,
		m.LocationsSkipped,
		m.PipelineRunning,
		m.RecordDuration,
		m.GeocodeRequests,
		m.GeocodeDuration,
		m.CatalogLookups,
		m.OrdersSubmitted,
		m.ExtractsFetched,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		LocationsProcessed: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "meteo_extract", Name: "locations_processed_total"}),
		LocationsFailed:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "meteo_extract", Name: "locations_failed_total"}),
		LocationsSkipped:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "meteo_extract", Name: "locations_skipped_total"}),
		PipelineRunning:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "meteo_extract", Name: "pipeline_running"}),
		RecordDuration:     prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "meteo_extract", Name: "record_duration_seconds"}),
		GeocodeRequests:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "meteo_extract", Name: "geocode_requests_total"}, []string{"outcome"}),
		GeocodeDuration:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "meteo_extract", Name: "geocode_request_duration_seconds"}),
		CatalogLookups:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "meteo_extract", Name: "catalog_lookups_total"}, []string{"result"}),
		OrdersSubmitted:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "meteo_extract", Name: "orders_submitted_total"}),
		ExtractsFetched:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "meteo_extract", Name: "extracts_fetched_total"}),
	}
}
