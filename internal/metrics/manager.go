package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager groups the application collectors. A nil *Manager is valid and
// records nothing, so packages used from the CLIs need no registry.
type Manager struct {
	// counters
	CounterRequests     *prometheus.CounterVec
	CounterImports      *prometheus.CounterVec
	CounterSetsImported *prometheus.CounterVec

	// gauges
	GaugeStoredSets *prometheus.GaugeVec

	// histograms
	HistRequestDuration  *prometheus.HistogramVec
	HistAnalysisDuration *prometheus.HistogramVec
}

// NewTestManagerAndRegistry returns a manager on a fresh registry.
func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("overload", "test", reg), reg
}

// NewManager creates and registers all collectors on reg.
func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	return &Manager{
		CounterRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "requests_total",
			Help:      "The total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		CounterImports: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "imports_total",
			Help:      "The total number of export files imported",
		}, []string{"source", "status"}),
		CounterSetsImported: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "sets_imported_total",
			Help:      "The total number of sets stored by imports",
		}, []string{"source"}),
		GaugeStoredSets: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "stored_sets",
			Help:      "Sets currently stored per source after the last import",
		}, []string{"source"}),
		HistRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"route"}),
		HistAnalysisDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "analysis_duration_seconds",
			Help:      "Duration of analytics runs in seconds",
			Buckets:   []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"kind"}),
	}
}

// ObserveImport records the outcome of one import. Only a successful import
// replaces the stored sets of source, so only it moves the stored-sets gauge.
func (m *Manager) ObserveImport(source, status string, inserted int64) {
	if m == nil {
		return
	}
	m.CounterImports.WithLabelValues(source, status).Inc()
	if status == "success" {
		m.CounterSetsImported.WithLabelValues(source).Add(float64(inserted))
		m.GaugeStoredSets.WithLabelValues(source).Set(float64(inserted))
	}
}

// ObserveAnalysis records how long an analytics run of the given kind took.
func (m *Manager) ObserveAnalysis(kind string, since time.Time) {
	if m == nil {
		return
	}
	m.HistAnalysisDuration.WithLabelValues(kind).Observe(time.Since(since).Seconds())
}

// ObserveRequest records one served HTTP request.
func (m *Manager) ObserveRequest(method, route string, status int, since time.Time) {
	if m == nil {
		return
	}
	m.HistRequestDuration.WithLabelValues(route).Observe(time.Since(since).Seconds())
	m.CounterRequests.WithLabelValues(method, route, statusLabel(status)).Inc()
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	}
	return "2xx"
}
