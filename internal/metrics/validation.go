package metrics

import "github.com/prometheus/client_golang/prometheus"

// Mapping label values. Document types come from request bodies and are never used as labels.
const (
	MappingRegistered = "registered"
	MappingRequest    = "request"
)

// Validation Prometheus metrics.
var (
	ValidationRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "schemaguard",
			Name:      "validation_runs_total",
			Help:      "Total number of mapping validation passes",
		},
		[]string{"mapping", "outcome"}, // mapping: "registered" / "request"; outcome: "valid" / "invalid" / "error"
	)

	ValidationErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "schemaguard",
			Name:      "validation_errors_total",
			Help:      "Total mapping errors reported by validation rules",
		},
		[]string{"rule"},
	)

	ValidationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "schemaguard",
			Name:      "validation_duration_seconds",
			Help:      "Mapping validation pass duration in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
		[]string{"mapping"},
	)

	SchemaSnapshotsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "schemaguard",
			Name:      "schema_snapshots_total",
			Help:      "Schema snapshots stored, by source",
		},
		[]string{"source"}, // "xml" / "index"
	)
)

var validationMetricsRegistered bool

// RegisterValidationMetrics registers Prometheus validation metrics. Must be called once from main.
func RegisterValidationMetrics() {
	if validationMetricsRegistered {
		return
	}
	prometheus.MustRegister(ValidationRunsTotal)
	prometheus.MustRegister(ValidationErrorsTotal)
	prometheus.MustRegister(ValidationDuration)
	prometheus.MustRegister(SchemaSnapshotsTotal)
	validationMetricsRegistered = true
}
