// Package metrics exposes Prometheus collectors for audits and fetches.
package metrics

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// OutcomeOK labels successful operations.
const OutcomeOK = "ok"

var (
	AuditsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geolens_audits_total",
			Help: "Total number of audits by outcome",
		},
		[]string{"outcome"},
	)

	AuditDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "geolens_audit_duration_seconds",
			Help:    "Duration of audits in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"outcome"},
	)

	GeoScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "geolens_geo_score",
			Help:    "Distribution of composite GEO scores",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		},
	)

	EngineWins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geolens_fetch_engine_wins_total",
			Help: "Total number of fetch races won per engine",
		},
		[]string{"engine"},
	)

	PerformanceAudits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geolens_performance_audits_total",
			Help: "Total number of Lighthouse runs by outcome",
		},
		[]string{"outcome"},
	)
)

// Outcome turns an error code into a label value; an empty code is OutcomeOK.
func Outcome(code string) string {
	if code == "" {
		return OutcomeOK
	}
	return strings.ToLower(code)
}

// ObserveAudit records one finished audit.
func ObserveAudit(code string, elapsed time.Duration) {
	outcome := Outcome(code)
	AuditsTotal.WithLabelValues(outcome).Inc()
	AuditDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// Handler serves the default registry in the text exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}
