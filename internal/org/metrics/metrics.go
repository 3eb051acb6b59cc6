package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	OrganizationsCreated   prometheus.Counter
	InvitationsCreated     prometheus.Counter
	InvitationsAccepted    prometheus.Counter
	MembersSuspended       prometheus.Counter
	OrganizationSwitches   prometheus.Counter
	ResolveSessionDuration *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		OrganizationsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "coldchain_organizations_created_total",
			Help: "Total number of organizations created",
		}),
		InvitationsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "coldchain_invitations_created_total",
			Help: "Total number of membership invitations sent",
		}),
		InvitationsAccepted: f.NewCounter(prometheus.CounterOpts{
			Name: "coldchain_invitations_accepted_total",
			Help: "Total number of invitations linked to a new user",
		}),
		MembersSuspended: f.NewCounter(prometheus.CounterOpts{
			Name: "coldchain_members_suspended_total",
			Help: "Total number of memberships suspended",
		}),
		OrganizationSwitches: f.NewCounter(prometheus.CounterOpts{
			Name: "coldchain_organization_switches_total",
			Help: "Total number of active organization switches",
		}),
		ResolveSessionDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "coldchain_resolve_session_duration_seconds",
			Help:    "Duration of session resolution by outcome",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"outcome"}),
	}
}

func (m *Metrics) IncrementOrganizationsCreated() {
	if m == nil {
		return
	}
	m.OrganizationsCreated.Inc()
}

func (m *Metrics) IncrementInvitationsCreated() {
	if m == nil {
		return
	}
	m.InvitationsCreated.Inc()
}

func (m *Metrics) AddInvitationsAccepted(n int) {
	if m == nil {
		return
	}
	m.InvitationsAccepted.Add(float64(n))
}

func (m *Metrics) IncrementMembersSuspended() {
	if m == nil {
		return
	}
	m.MembersSuspended.Inc()
}

func (m *Metrics) IncrementOrganizationSwitches() {
	if m == nil {
		return
	}
	m.OrganizationSwitches.Inc()
}

// ObserveResolveSession records how long session resolution took. Outcome is
// one of preferred, fallback, operator or denied.
func (m *Metrics) ObserveResolveSession(outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.ResolveSessionDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
}
