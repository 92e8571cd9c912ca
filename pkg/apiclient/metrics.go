package apiclient

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Request outcomes used as the "outcome" label.
const (
	OutcomeSuccess         = "success"
	OutcomeInsecure        = "insecure_transport"
	OutcomeRateLimited     = "rate_limited"
	OutcomeStageError      = "stage_error"
	OutcomeNetworkError    = "network_error"
	OutcomeUnauthorized    = "unauthorized"
	OutcomeForbidden       = "forbidden"
	OutcomeThrottled       = "throttled"
	OutcomeHTTPError       = "http_error"
	OutcomeInvalidResponse = "invalid_response"
)

var requestDurationBuckets = []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// Metrics tracks the client pipeline. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Requests    *prometheus.CounterVec
	RateLimited prometheus.Counter
	Incidents   *prometheus.CounterVec
	Suspicious  prometheus.Counter
	Duration    *prometheus.HistogramVec
}

// NewMetrics registers the client collectors with reg under namespace.
// A nil reg uses prometheus.DefaultRegisterer.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		Requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "apiclient",
				Name:      "requests_total",
				Help:      "Requests handled by the client, by method and outcome",
			},
			[]string{"method", "outcome"},
		),
		RateLimited: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "apiclient",
				Name:      "rate_limited_total",
				Help:      "Requests refused locally by the rate limiter",
			},
		),
		Incidents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "apiclient",
				Name:      "incidents_total",
				Help:      "Security incidents raised, by type",
			},
			[]string{"type"},
		),
		Suspicious: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "apiclient",
				Name:      "suspicious_responses_total",
				Help:      "Responses whose body matched a suspicious pattern",
			},
		),
		Duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "apiclient",
				Name:      "request_duration_seconds",
				Help:      "Latency of requests that reached the network",
				Buckets:   requestDurationBuckets,
			},
			[]string{"method"},
		),
	}
}

func (m *Metrics) observeRequest(method, outcome string) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(method, outcome).Inc()
}

func (m *Metrics) observeDuration(method string, d time.Duration) {
	if m == nil {
		return
	}
	m.Duration.WithLabelValues(method).Observe(d.Seconds())
}

func (m *Metrics) incRateLimited() {
	if m == nil {
		return
	}
	m.RateLimited.Inc()
}

func (m *Metrics) incIncident(kind IncidentType) {
	if m == nil {
		return
	}
	m.Incidents.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) incSuspicious() {
	if m == nil {
		return
	}
	m.Suspicious.Inc()
}
