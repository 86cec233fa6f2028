package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Export outcomes.
const (
	ExportStatusSuccess  = "success"
	ExportStatusFailure  = "failure"
	ExportStatusRejected = "rejected"
)

// EditorMetrics counts draft persistence, edits and exports. Collectors are
// exposed on /metrics. A nil *EditorMetrics records nothing.
type EditorMetrics struct {
	draftSaves        *prometheus.CounterVec
	draftSaveFailures *prometheus.CounterVec
	draftLoads        *prometheus.CounterVec
	mutations         *prometheus.CounterVec
	exports           *prometheus.CounterVec
	exportDuration    *prometheus.HistogramVec
}

func NewEditorMetrics(registerer prometheus.Registerer, cfg Config) (*EditorMetrics, error) {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "invoicemaker"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	m := &EditorMetrics{
		draftSaves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "invoicemaker_draft_saves_total",
			Help:        "Draft writes attempted, by storage backend.",
			ConstLabels: constLabels,
		}, []string{"backend"}),
		draftSaveFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "invoicemaker_draft_save_failures_total",
			Help:        "Draft writes that failed and were dropped, by storage backend.",
			ConstLabels: constLabels,
		}, []string{"backend"}),
		draftLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "invoicemaker_draft_loads_total",
			Help:        "Draft loads by outcome (restored, absent, unreadable).",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "invoicemaker_mutations_total",
			Help:        "Accepted draft edits by operation.",
			ConstLabels: constLabels,
		}, []string{"operation"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "invoicemaker_exports_total",
			Help:        "PDF exports by generator and status.",
			ConstLabels: constLabels,
		}, []string{"generator", "status"}),
		exportDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "invoicemaker_export_duration_seconds",
			Help:        "PDF export latency including the settle delay.",
			Buckets:     []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			ConstLabels: constLabels,
		}, []string{"generator"}),
	}

	for _, c := range []prometheus.Collector{
		m.draftSaves, m.draftSaveFailures, m.draftLoads, m.mutations, m.exports, m.exportDuration,
	} {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *EditorMetrics) IncDraftSave(backend string, err error) {
	if m == nil {
		return
	}
	m.draftSaves.WithLabelValues(backend).Inc()
	if err != nil {
		m.draftSaveFailures.WithLabelValues(backend).Inc()
	}
}

func (m *EditorMetrics) IncDraftLoad(outcome string) {
	if m == nil {
		return
	}
	m.draftLoads.WithLabelValues(outcome).Inc()
}

func (m *EditorMetrics) IncMutation(operation string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(operation).Inc()
}

func (m *EditorMetrics) ObserveExport(generator, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(generator, status).Inc()
	if status != ExportStatusRejected {
		m.exportDuration.WithLabelValues(generator).Observe(duration.Seconds())
	}
}
