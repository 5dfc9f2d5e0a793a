package metrics

import (
	"net/http"
	"time"

	"github.com/liamcoop/heartrisk/internal/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "heartrisk"

// Metrics holds the service collectors on a private registry
type Metrics struct {
	registry    *prometheus.Registry
	assessments *prometheus.CounterVec
	failures    *prometheus.CounterVec
	duration    prometheus.Histogram
	modelLoaded prometheus.Gauge
	logErrors   prometheus.CounterFunc
	logWarnings prometheus.CounterFunc
}

// New registers the service collectors plus the Go and process collectors
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		assessments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assessments_total",
			Help:      "Completed assessments by risk level and page variant.",
		}, []string{"level", "variant"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assessment_errors_total",
			Help:      "Failed assessments by error kind.",
		}, []string{"kind"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "assessment_duration_seconds",
			Help:      "Time spent validating, predicting and mapping one submission.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
		}),
		modelLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "model_loaded",
			Help:      "1 when the classifier artifact loaded at startup, 0 otherwise.",
		}),
		// logger counts before sampling, so these include suppressed lines
		logErrors: prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "log_errors_total",
			Help:      "Error log calls, including sampled-out ones.",
		}, func() float64 { return float64(logger.TotalErrors.Load()) }),
		logWarnings: prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "log_warnings_total",
			Help:      "Warning log calls, including sampled-out ones.",
		}, func() float64 { return float64(logger.TotalWarnings.Load()) }),
	}

	reg.MustRegister(
		m.assessments,
		m.failures,
		m.duration,
		m.modelLoaded,
		m.logErrors,
		m.logWarnings,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveAssessment records a completed assessment
func (m *Metrics) ObserveAssessment(level, variant string, elapsed time.Duration) {
	m.assessments.WithLabelValues(level, variant).Inc()
	m.duration.Observe(elapsed.Seconds())
}

// ObserveFailure records a failed assessment
func (m *Metrics) ObserveFailure(kind string) {
	m.failures.WithLabelValues(kind).Inc()
}

// SetModelLoaded sets the model_loaded gauge
func (m *Metrics) SetModelLoaded(loaded bool) {
	if loaded {
		m.modelLoaded.Set(1)
		return
	}
	m.modelLoaded.Set(0)
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
