package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the prometheus collectors recorded by the drawing service.
// A nil *Metrics records nothing.
type Metrics struct {
	uploads  *prometheus.CounterVec
	analyses *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		uploads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dwg_dashboard_uploads_total",
				Help: "Total number of drawing uploads",
			},
			[]string{"file_type", "outcome"},
		),
		analyses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dwg_dashboard_analyses_total",
				Help: "Total number of drawing analyses served",
			},
			[]string{"kind", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dwg_dashboard_analysis_duration_seconds",
				Help:    "Duration of drawing analyses, including parsing",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
	}
	reg.MustRegister(m.uploads, m.analyses, m.duration)
	return m
}

func (m *Metrics) upload(fileType, outcome string) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(fileType, outcome).Inc()
}

func (m *Metrics) analysis(kind, outcome string, started time.Time) {
	if m == nil {
		return
	}
	m.analyses.WithLabelValues(kind, outcome).Inc()
	if outcome != outcomeCacheHit {
		m.duration.WithLabelValues(kind).Observe(time.Since(started).Seconds())
	}
}

const (
	outcomeOK       = "ok"
	outcomeError    = "error"
	outcomeCacheHit = "cache_hit"
)
