package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Refreshes counts refresh cycles by strategy and outcome kind ("ok", "source_unavailable", ...).
	Refreshes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_refreshes_total",
			Help: "Forecast refresh cycles by strategy and outcome.",
		},
		[]string{"strategy", "outcome"},
	)

	// StrategyFallbacks counts model-assisted refreshes that fell back to the source forecast.
	StrategyFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_strategy_fallbacks_total",
			Help: "Model-assisted forecasts that fell back to direct-from-source, by reason.",
		},
		[]string{"reason"},
	)

	InferenceDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dashboard_inference_duration_seconds",
			Help:    "Latency of model predict calls.",
			Buckets: prometheus.DefBuckets,
		},
	)

	// DefaultedFields counts upstream fields that were missing and replaced by their default.
	DefaultedFields = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_defaulted_fields_total",
			Help: "Upstream fields missing from the weather payload and defaulted.",
		},
		[]string{"location"},
	)
)

func init() {
	prometheus.MustRegister(Refreshes, StrategyFallbacks, InferenceDuration, DefaultedFields)
}

// Handler returns the Prometheus exposition handler.
func Handler() http.Handler { return promhttp.Handler() }
