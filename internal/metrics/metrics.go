package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Generation outcomes recorded per request.
const (
	OutcomeSuccess  = "success"
	OutcomeFallback = "fallback"
	OutcomeFailure  = "failure"
	OutcomeInvalid  = "invalid"
)

// Metrics holds the relay collectors.
type Metrics struct {
	Generations       *prometheus.CounterVec
	ProviderDuration  *prometheus.HistogramVec
	ProviderErrors    *prometheus.CounterVec
	RateLimitAllowed  *prometheus.CounterVec
	RateLimitRejected *prometheus.CounterVec
}

// New creates the collectors without registering them.
func New() *Metrics {
	return &Metrics{
		Generations: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: "rhai", Name: "generations_total", Help: "Document generation requests by document type and outcome."},
			[]string{"document_type", "outcome"},
		),
		ProviderDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "rhai",
				Name:      "provider_request_duration_seconds",
				Help:      "Latency of upstream generation calls.",
				Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 45, 60},
			},
			[]string{"provider"},
		),
		ProviderErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: "rhai", Name: "provider_errors_total", Help: "Failed upstream generation calls by provider and HTTP status (0 for transport failures)."},
			[]string{"provider", "status"},
		),
		RateLimitAllowed: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: "rhai", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
			[]string{"limiter"},
		),
		RateLimitRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: "rhai", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
			[]string{"limiter"},
		),
	}
}

// Register adds every collector to reg.
func (m *Metrics) Register(reg prometheus.Registerer) {
	reg.MustRegister(m.Generations)
	reg.MustRegister(m.ProviderDuration)
	reg.MustRegister(m.ProviderErrors)
	reg.MustRegister(m.RateLimitAllowed)
	reg.MustRegister(m.RateLimitRejected)
}

// ObserveGeneration counts one relay outcome. Safe on a nil receiver.
func (m *Metrics) ObserveGeneration(docType, outcome string) {
	if m == nil {
		return
	}
	m.Generations.WithLabelValues(docType, outcome).Inc()
}

// ObserveProviderCall records the latency of one upstream call. Safe on a nil receiver.
func (m *Metrics) ObserveProviderCall(provider string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ProviderDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// ObserveProviderError counts one failed upstream call. Safe on a nil receiver.
func (m *Metrics) ObserveProviderError(provider, status string) {
	if m == nil {
		return
	}
	m.ProviderErrors.WithLabelValues(provider, status).Inc()
}

// ObserveRateLimit counts one limiter decision. Safe on a nil receiver.
func (m *Metrics) ObserveRateLimit(limiter string, allowed bool) {
	if m == nil {
		return
	}
	if allowed {
		m.RateLimitAllowed.WithLabelValues(limiter).Inc()
		return
	}
	m.RateLimitRejected.WithLabelValues(limiter).Inc()
}
