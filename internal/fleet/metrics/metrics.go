package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Validations       *prometheus.CounterVec
	ValidateDuration  prometheus.Histogram
	DropAndHooks      prometheus.Counter
	FleetSetsCreated  prometheus.Counter
	ResourcesReleased *prometheus.CounterVec
	FleetSetsEnded    prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Validations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "coldchain_fleet_validations_total",
			Help: "Fleet set validations by outcome",
		}, []string{"outcome"}),
		ValidateDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "coldchain_fleet_validate_duration_seconds",
			Help:    "Duration of fleet set validations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		}),
		DropAndHooks: f.NewCounter(prometheus.CounterOpts{
			Name: "coldchain_fleet_drop_and_hook_total",
			Help: "Validations that detected a trailer hooked to another tractor",
		}),
		FleetSetsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "coldchain_fleet_sets_created_total",
			Help: "Fleet sets created",
		}),
		ResourcesReleased: f.NewCounterVec(prometheus.CounterOpts{
			Name: "coldchain_fleet_resources_released_total",
			Help: "Resources released from previous fleet sets during reassignment",
		}, []string{"resource"}),
		FleetSetsEnded: f.NewCounter(prometheus.CounterOpts{
			Name: "coldchain_fleet_sets_ended_total",
			Help: "Fleet sets ended explicitly or by vehicle reassignment",
		}),
	}
}

func (m *Metrics) ObserveValidation(start time.Time, conflict, dropAndHook bool) {
	if m == nil {
		return
	}
	outcome := "clear"
	if conflict {
		outcome = "conflict"
	}
	m.Validations.WithLabelValues(outcome).Inc()
	m.ValidateDuration.Observe(time.Since(start).Seconds())
	if dropAndHook {
		m.DropAndHooks.Inc()
	}
}

func (m *Metrics) IncrementCreated() {
	if m != nil {
		m.FleetSetsCreated.Inc()
	}
}

func (m *Metrics) AddReleased(resource string, n int) {
	if m != nil && n > 0 {
		m.ResourcesReleased.WithLabelValues(resource).Add(float64(n))
	}
}

func (m *Metrics) AddEnded(n int) {
	if m != nil && n > 0 {
		m.FleetSetsEnded.Add(float64(n))
	}
}
