package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the service's collectors. A nil *Metrics records nothing.
type Metrics struct {
	RequestsTotal        *prometheus.CounterVec
	RequestDuration      *prometheus.HistogramVec
	IntakeOutcomes       *prometheus.CounterVec
	PredictionOutcomes   *prometheus.CounterVec
	NotificationFailures prometheus.Counter

	gatherer prometheus.Gatherer
}

// NewMetrics registers every collector on reg. Tests pass a fresh prometheus.NewRegistry().
func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"method", "route"},
		),
		IntakeOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "medguide_intake_total",
				Help: "Booking submissions by terminal state",
			},
			[]string{"state"},
		),
		PredictionOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "medguide_predictions_total",
				Help: "Prediction requests by outcome",
			},
			[]string{"outcome"},
		),
		NotificationFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "medguide_notification_failures_total",
				Help: "Booking notifications that could not be delivered",
			},
		),
		gatherer: reg,
	}

	reg.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.IntakeOutcomes,
		m.PredictionOutcomes,
		m.NotificationFailures,
	)

	return m
}

func (m *Metrics) ObserveIntake(state string) {
	if m == nil {
		return
	}
	m.IntakeOutcomes.WithLabelValues(state).Inc()
}

func (m *Metrics) ObservePrediction(outcome string) {
	if m == nil {
		return
	}
	m.PredictionOutcomes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveNotificationFailure() {
	if m == nil {
		return
	}
	m.NotificationFailures.Inc()
}

func (m *Metrics) ObserveRequest(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, route, status).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(seconds)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
