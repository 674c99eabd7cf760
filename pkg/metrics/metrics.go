package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	rateLimitDecisions *prometheus.CounterVec
	streakCredits      *prometheus.CounterVec
	rankComputations   prometheus.Counter
	generatorRequests  *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
}

// New creates and registers all collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		rateLimitDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "heroxi_rate_limit_decisions_total",
				Help: "Rate limiter decisions by outcome",
			},
			[]string{"decision"},
		),
		streakCredits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "heroxi_streak_credits_total",
				Help: "Daily completion reports by whether they were credited",
			},
			[]string{"credited"},
		),
		rankComputations: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "heroxi_rank_computations_total",
				Help: "Rank calculations served",
			},
		),
		generatorRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "heroxi_generator_requests_total",
				Help: "Generative-text requests by prompt kind and status",
			},
			[]string{"prompt", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "heroxi_http_request_duration_seconds",
				Help:    "HTTP request latency by route and status",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "status"},
		),
	}

	m.registry.MustRegister(
		m.rateLimitDecisions,
		m.streakCredits,
		m.rankComputations,
		m.generatorRequests,
		m.requestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RateLimitDecision counts one limiter outcome: allowed, denied or error
func (m *Metrics) RateLimitDecision(decision string) {
	if m == nil {
		return
	}
	m.rateLimitDecisions.WithLabelValues(decision).Inc()
}

// StreakCredit counts one completion report
func (m *Metrics) StreakCredit(credited bool) {
	if m == nil {
		return
	}
	m.streakCredits.WithLabelValues(strconv.FormatBool(credited)).Inc()
}

// RankComputed counts one rank calculation
func (m *Metrics) RankComputed() {
	if m == nil {
		return
	}
	m.rankComputations.Inc()
}

// GeneratorRequest counts one provider call
func (m *Metrics) GeneratorRequest(prompt, status string) {
	if m == nil {
		return
	}
	m.generatorRequests.WithLabelValues(prompt, status).Inc()
}

// ObserveRequest records the latency of one HTTP request
func (m *Metrics) ObserveRequest(route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
