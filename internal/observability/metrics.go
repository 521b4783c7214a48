package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "firecad_etl"

// Metrics holds the Prometheus counters, histograms, and gauges for the ETL pipeline.
type Metrics struct {
	FetchCycles        *prometheus.CounterVec // labels: outcome={success,error,empty}
	FetchCycleDuration prometheus.Histogram
	IncidentsExtracted *prometheus.CounterVec // labels: strategy={standard,alternative}
	BlocksRejected     prometheus.Counter
	UnlabeledGroups    prometheus.Counter
	LastIncidentCount  prometheus.Gauge
	PipelineRunning    prometheus.Gauge

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec // labels: outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec // labels: result={hit,miss}
	GeocodeAPIDuration prometheus.Histogram
	GeocodeEnabled     prometheus.Gauge

	IncidentsPublished prometheus.Counter
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		FetchCycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_cycles_total",
			Help:      "Fetch-and-parse cycles by outcome.",
		}, []string{"outcome"}),
		FetchCycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_cycle_duration_seconds",
			Help:      "Duration of a complete fetch, parse, and enrich cycle.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		IncidentsExtracted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "incidents_extracted_total",
			Help:      "Incident records recovered from the CAD page by strategy.",
		}, []string{"strategy"}),
		BlocksRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_rejected_total",
			Help:      "Text blocks discarded for lacking a time or an address.",
		}),
		UnlabeledGroups: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unlabeled_groups_total",
			Help:      "Row groups or containers attributed to the Unknown section.",
		}),
		LastIncidentCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_incident_count",
			Help:      "Number of incidents in the most recent snapshot.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Geocoding API requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "geocode_api_duration_seconds",
			Help:      "Mapbox API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "geocode_enabled",
			Help:      "1 when geocoding enrichment is enabled, 0 otherwise.",
		}),
		IncidentsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "incidents_published_total",
			Help:      "Incidents written to the sink topic.",
		}),
	}

	prometheus.MustRegister(
		m.FetchCycles,
		m.FetchCycleDuration,
		m.IncidentsExtracted,
		m.BlocksRejected,
		m.UnlabeledGroups,
		m.LastIncidentCount,
		m.PipelineRunning,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.GeocodeEnabled,
		m.IncidentsPublished,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		FetchCycles:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "fetch_cycles_total"}, []string{"outcome"}),
		FetchCycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "fetch_cycle_duration_seconds"}),
		IncidentsExtracted: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "incidents_extracted_total"}, []string{"strategy"}),
		BlocksRejected:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "blocks_rejected_total"}),
		UnlabeledGroups:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "unlabeled_groups_total"}),
		LastIncidentCount:  prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "last_incident_count"}),
		PipelineRunning:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "pipeline_running"}),
		GeocodeRequests:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "geocode_requests_total"}, []string{"outcome"}),
		GeocodeCache:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "geocode_cache_total"}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "geocode_api_duration_seconds"}),
		GeocodeEnabled:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "geocode_enabled"}),
		IncidentsPublished: prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "incidents_published_total"}),
	}
}
