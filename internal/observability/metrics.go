package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "aqi_dashboard"

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard.
type Metrics struct {
	SelectionChanges   *prometheus.CounterVec   // labels: field={state,county,pollutant,year}
	RuleEvaluations    *prometheus.CounterVec   // labels: rule, outcome={success,error}
	RuleDuration       *prometheus.HistogramVec // labels: rule
	UnclassifiedValues prometheus.Counter

	DatasetRows    *prometheus.GaugeVec // labels: table={summary,events,classifications}
	SessionsActive prometheus.Gauge

	// Boundary subset cache.
	BoundaryCache *prometheus.CounterVec // labels: result={hit,miss}

	InteractionPublishErrors prometheus.Counter
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		SelectionChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selection_changes_total",
			Help:      "Selection changes applied, by field.",
		}, []string{"field"}),
		RuleEvaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rule_evaluations_total",
			Help:      "Update rule evaluations by rule and outcome.",
		}, []string{"rule", "outcome"}),
		RuleDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rule_duration_seconds",
			Help:      "Duration of a single update rule evaluation.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"rule"}),
		UnclassifiedValues: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unclassified_values_total",
			Help:      "Map regions whose AQI fell outside every classification range.",
		}),
		DatasetRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_rows",
			Help:      "Rows loaded per source table.",
		}, []string{"table"}),
		SessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Dashboard sessions currently held in memory.",
		}),
		BoundaryCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "boundary_cache_total",
			Help:      "Per-state boundary subset cache lookups by result.",
		}, []string{"result"}),
		InteractionPublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interaction_publish_errors_total",
			Help:      "Selection events that could not be published.",
		}),
	}

	prometheus.MustRegister(
		m.SelectionChanges,
		m.RuleEvaluations,
		m.RuleDuration,
		m.UnclassifiedValues,
		m.DatasetRows,
		m.SessionsActive,
		m.BoundaryCache,
		m.InteractionPublishErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics with fresh collectors to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		SelectionChanges:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "selection_changes_total"}, []string{"field"}),
		RuleEvaluations:          prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "rule_evaluations_total"}, []string{"rule", "outcome"}),
		RuleDuration:             prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: namespace, Name: "rule_duration_seconds"}, []string{"rule"}),
		UnclassifiedValues:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "unclassified_values_total"}),
		DatasetRows:              prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: namespace, Name: "dataset_rows"}, []string{"table"}),
		SessionsActive:           prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "sessions_active"}),
		BoundaryCache:            prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "boundary_cache_total"}, []string{"result"}),
		InteractionPublishErrors: prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "interaction_publish_errors_total"}),
	}
}
