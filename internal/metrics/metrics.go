// Package metrics provides Prometheus metrics for monitoring.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"TurnipSentinel/internal/model"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Prediction metrics
	PredictionsTotal   *prometheus.CounterVec
	PredictionDuration *prometheus.HistogramVec
	FeasibleHypotheses *prometheus.GaugeVec
	UnexplainedWeeks   prometheus.Counter
	ObservationsTotal  *prometheus.CounterVec
	ObservedSlots      prometheus.Gauge

	// Interface metrics
	CommandsTotal  *prometheus.CounterVec
	HTTPRequests   *prometheus.CounterVec
	NotifyFailures prometheus.Counter
	RateLimited    prometheus.Counter

	// Health metrics
	LastSuccessfulReport prometheus.Gauge
}

// NewMetrics creates a new Metrics instance registered with reg.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "turnip_sentinel"
	}
	f := promauto.With(reg)

	return &Metrics{
		PredictionsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "prediction",
			Name:      "runs_total",
			Help:      "Total number of prediction runs by trigger",
		}, []string{"trigger"}),
		PredictionDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "prediction",
			Name:      "duration_seconds",
			Help:      "Prediction run duration in seconds",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		}, []string{"trigger"}),
		FeasibleHypotheses: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "prediction",
			Name:      "feasible_hypotheses",
			Help:      "Feasible hypotheses in the latest prediction by pattern",
		}, []string{"pattern"}),
		UnexplainedWeeks: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "prediction",
			Name:      "unexplained_total",
			Help:      "Total number of predictions no pattern could explain",
		}),
		ObservationsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "week",
			Name:      "observations_total",
			Help:      "Total number of observation changes by source and action",
		}, []string{"source", "action"}),
		ObservedSlots: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "week",
			Name:      "observed_slots",
			Help:      "Number of slots observed in the current week",
		}),

		CommandsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bot",
			Name:      "commands_total",
			Help:      "Total number of chat commands by name",
		}, []string{"command"}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of API requests by route and status",
		}, []string{"route", "status"}),
		NotifyFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bot",
			Name:      "notify_failures_total",
			Help:      "Total number of Telegram messages that could not be delivered",
		}),
		RateLimited: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "rate_limited_total",
			Help:      "Total number of API requests rejected by the rate limiter",
		}),

		LastSuccessfulReport: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_report_timestamp",
			Help:      "Unix timestamp of last delivered scheduled report",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("", prometheus.DefaultRegisterer)

// RecordPrediction records one prediction run and the size of its result.
func (m *Metrics) RecordPrediction(trigger string, seconds float64, result *model.Result) {
	m.PredictionsTotal.WithLabelValues(trigger).Inc()
	m.PredictionDuration.WithLabelValues(trigger).Observe(seconds)

	falling := 0
	if result.Falling != nil {
		falling = 1
	}
	m.FeasibleHypotheses.WithLabelValues("wave").Set(float64(len(result.Wave)))
	m.FeasibleHypotheses.WithLabelValues("falling").Set(float64(falling))
	m.FeasibleHypotheses.WithLabelValues("third_period").Set(float64(result.ThirdPeriod.Len()))
	m.FeasibleHypotheses.WithLabelValues("fourth_period").Set(float64(result.FourthPeriod.Len()))
	if result.Empty() {
		m.UnexplainedWeeks.Inc()
	}
}

// RecordObservation records a change to the observation book.
func (m *Metrics) RecordObservation(source, action string, observed int) {
	m.ObservationsTotal.WithLabelValues(source, action).Inc()
	m.ObservedSlots.Set(float64(observed))
}

// RecordCommand increments the chat command counter.
func (m *Metrics) RecordCommand(command string) {
	m.CommandsTotal.WithLabelValues(command).Inc()
}

// RecordHTTPRequest increments the API request counter.
func (m *Metrics) RecordHTTPRequest(route, status string) {
	m.HTTPRequests.WithLabelValues(route, status).Inc()
}
