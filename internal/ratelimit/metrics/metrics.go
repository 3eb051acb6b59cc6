package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Decisions       *prometheus.CounterVec
	SignInFailures  prometheus.Counter
	SignInLockouts  prometheus.Counter
	CleanupRuns     *prometheus.CounterVec
	CleanupRemoved  prometheus.Counter
	CleanupDuration prometheus.Histogram
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Decisions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "coldchain_ratelimit_decisions_total",
			Help: "Rate limit checks by key type, endpoint class and outcome",
		}, []string{"limit_type", "class", "outcome"}),
		SignInFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "coldchain_ratelimit_sign_in_failures_total",
			Help: "Failed sign-ins counted towards lockout",
		}),
		SignInLockouts: f.NewCounter(prometheus.CounterOpts{
			Name: "coldchain_ratelimit_sign_in_lockouts_total",
			Help: "Email and IP pairs hard locked after repeated failures",
		}),
		CleanupRuns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "coldchain_ratelimit_cleanup_runs_total",
			Help: "Rate limit cleanup runs by status",
		}, []string{"status"}),
		CleanupRemoved: f.NewCounter(prometheus.CounterOpts{
			Name: "coldchain_ratelimit_cleanup_removed_total",
			Help: "Idle windows and stale lockout records removed by cleanup",
		}),
		CleanupDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name: "coldchain_ratelimit_cleanup_duration_seconds",
			Help: "Duration of rate limit cleanup runs",
		}),
	}
}

func (m *Metrics) RecordDecision(limitType, class string, allowed bool) {
	if m == nil {
		return
	}
	outcome := "allowed"
	if !allowed {
		outcome = "denied"
	}
	m.Decisions.WithLabelValues(limitType, class, outcome).Inc()
}

func (m *Metrics) IncrementSignInFailures() {
	if m == nil {
		return
	}
	m.SignInFailures.Inc()
}

func (m *Metrics) IncrementSignInLockouts() {
	if m == nil {
		return
	}
	m.SignInLockouts.Inc()
}

func (m *Metrics) ObserveCleanup(status string, removed int, seconds float64) {
	if m == nil {
		return
	}
	m.CleanupRuns.WithLabelValues(status).Inc()
	m.CleanupRemoved.Add(float64(removed))
	m.CleanupDuration.Observe(seconds)
}
