package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for auth operations.
type Metrics struct {
	UsersCreated          prometheus.Counter
	TokenRequests         *prometheus.CounterVec
	AuthFailures          *prometheus.CounterVec
	SessionsRevoked       prometheus.Counter
	RevokeAllSessions     prometheus.Histogram
	TokenRequestDurations *prometheus.HistogramVec
}

// New registers and returns auth metrics collectors.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		UsersCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "coldchain_users_created_total",
			Help: "Total number of users created",
		}),
		TokenRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "coldchain_token_requests_total",
			Help: "Token requests by grant type",
		}, []string{"grant"}),
		AuthFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "coldchain_auth_failures_total",
			Help: "Authentication failures by reason",
		}, []string{"reason"}),
		SessionsRevoked: f.NewCounter(prometheus.CounterOpts{
			Name: "coldchain_sessions_revoked_total",
			Help: "Refresh sessions revoked by sign-out or member suspension",
		}),
		RevokeAllSessions: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "coldchain_revoke_all_sessions",
			Help:    "Number of sessions revoked per revoke-all operation",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
		}),
		TokenRequestDurations: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "coldchain_token_request_duration_seconds",
			Help:    "Duration of token requests by grant type",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"grant"}),
	}
}

func (m *Metrics) IncrementUsersCreated() {
	if m == nil {
		return
	}
	m.UsersCreated.Inc()
}

func (m *Metrics) ObserveTokenRequest(grant string, start time.Time) {
	if m == nil {
		return
	}
	m.TokenRequests.WithLabelValues(grant).Inc()
	m.TokenRequestDurations.WithLabelValues(grant).Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementAuthFailures(reason string) {
	if m == nil {
		return
	}
	m.AuthFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) ObserveRevocations(n int, all bool) {
	if m == nil {
		return
	}
	m.SessionsRevoked.Add(float64(n))
	if all {
		m.RevokeAllSessions.Observe(float64(n))
	}
}
