// Package metrics はリスク分析パイプラインのPrometheusメトリクスを提供します。
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"investiq_backend/internal/feature/riskanalysis/usecase"
)

// Recorder implements usecase.Recorder using Prometheus.
type Recorder struct {
	analyses      *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	riskClasses   *prometheus.CounterVec
}

var _ usecase.Recorder = (*Recorder)(nil)

// New registers the collectors on reg. Pass prometheus.DefaultRegisterer in production.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		analyses: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "investiq_analyses_total",
				Help: "Risk analysis requests by outcome",
			},
			[]string{"outcome"},
		),
		fetchDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "investiq_fetch_duration_seconds",
				Help:    "Duration of price history fetches",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
		riskClasses: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "investiq_risk_class_total",
				Help: "Predicted risk classes",
			},
			[]string{"class"},
		),
	}
}

// ObserveFetch records the duration of one provider call.
func (r *Recorder) ObserveFetch(provider string, d time.Duration) {
	r.fetchDuration.WithLabelValues(provider).Observe(d.Seconds())
}

// RecordOutcome counts one analysis by outcome.
func (r *Recorder) RecordOutcome(outcome string) {
	r.analyses.WithLabelValues(outcome).Inc()
}

// RecordRiskClass counts one predicted class.
func (r *Recorder) RecordRiskClass(class string) {
	r.riskClasses.WithLabelValues(class).Inc()
}

// Handler exposes the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
