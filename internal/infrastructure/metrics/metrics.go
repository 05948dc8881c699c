// Package metrics exposes the prometheus counters of the auth and session flows.
// A nil *Recorder is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Authentication outcomes recorded by the auth middleware.
const (
	OutcomeAuthenticated   = "authenticated"
	OutcomePublic          = "public"
	OutcomeMissingToken    = "missing_token"
	OutcomeMissingDevice   = "missing_device"
	OutcomeInvalidToken    = "invalid_token"
	OutcomeUnknownSession  = "unknown_session"
	OutcomeUnknownUser     = "unknown_user"
	OutcomeUserUnavailable = "user_unavailable"
	OutcomeError           = "error"
)

// Reasons a session row is removed.
const (
	RevokeSignOut = "sign_out"
	RevokeSingle  = "revoke"
	RevokeAll     = "revoke_all"
	RevokeExpired = "expired"
)

type Recorder struct {
	gatherer        prometheus.Gatherer
	authRequests    *prometheus.CounterVec
	sessionsCreated *prometheus.CounterVec
	sessionsRevoked *prometheus.CounterVec
	rateLimited     *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// NewRecorder registers the collectors on a fresh registry so tests and multiple
// servers in one process never collide on the global one.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Recorder{
		gatherer: reg,
		authRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "deskhub_auth_requests_total",
			Help: "Requests seen by the authentication middleware by outcome.",
		}, []string{"outcome"}),
		sessionsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "deskhub_sessions_created_total",
			Help: "Sessions created by sign-in method.",
		}, []string{"method"}),
		sessionsRevoked: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "deskhub_sessions_revoked_total",
			Help: "Sessions removed by reason.",
		}, []string{"reason"}),
		rateLimited: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "deskhub_rate_limited_total",
			Help: "Requests rejected by the rate limiter.",
		}, []string{"route"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "deskhub_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

func (r *Recorder) AuthOutcome(outcome string) {
	if r == nil {
		return
	}
	r.authRequests.WithLabelValues(outcome).Inc()
}

func (r *Recorder) SessionCreated(method string) {
	if r == nil {
		return
	}
	r.sessionsCreated.WithLabelValues(method).Inc()
}

func (r *Recorder) SessionsRevoked(reason string, n int64) {
	if r == nil || n <= 0 {
		return
	}
	r.sessionsRevoked.WithLabelValues(reason).Add(float64(n))
}

func (r *Recorder) RateLimited(route string) {
	if r == nil {
		return
	}
	r.rateLimited.WithLabelValues(route).Inc()
}

func (r *Recorder) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Handler serves the registry in the prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}
