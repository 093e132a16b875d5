// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	MutationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dealflow_mutations_total",
		Help: "Successful store mutations by entity and operation",
	}, []string{"entity", "op"})

	VotesRateLimited = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dealflow_votes_rate_limited_total",
		Help: "Votes rejected by the per-client rate limiter",
	}, []string{"entity"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dealflow_http_requests_total",
		Help: "HTTP requests by method, route pattern and status",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dealflow_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route pattern",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	EmailRenders = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dealflow_email_renders_total",
		Help: "Rendered email documents",
	})
)

// MustRegister registers every collector with registerer.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		MutationsTotal,
		VotesRateLimited,
		HTTPRequestsTotal,
		HTTPRequestDuration,
		EmailRenders,
	)
}

// Recorder adapts the mutation counter to the deal service.
type Recorder struct{}

func (Recorder) RecordMutation(entity, op string) {
	MutationsTotal.WithLabelValues(entity, op).Inc()
}

// ObserveHTTPRequest records one served request. An empty route is reported
// as "unmatched".
func ObserveHTTPRequest(method, route string, status int, start time.Time) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
}
