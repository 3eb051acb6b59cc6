package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	VendorRequests      *prometheus.CounterVec
	VendorDuration      *prometheus.HistogramVec
	BreakerTransitions  *prometheus.CounterVec
	ProtocolCacheLookup *prometheus.CounterVec
	DevicesProvisioned  prometheus.Counter
	CatalogSyncDuration prometheus.Histogram
	CatalogDeviceTypes  prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		VendorRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "coldchain_flespi_requests_total",
			Help: "Flespi API requests by endpoint and outcome",
		}, []string{"endpoint", "outcome"}),
		VendorDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "coldchain_flespi_request_duration_seconds",
			Help:    "Duration of Flespi API requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		BreakerTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "coldchain_flespi_breaker_transitions_total",
			Help: "Flespi circuit breaker state transitions",
		}, []string{"state"}),
		ProtocolCacheLookup: f.NewCounterVec(prometheus.CounterOpts{
			Name: "coldchain_flespi_protocol_cache_total",
			Help: "Protocol catalog cache lookups by result",
		}, []string{"result"}),
		DevicesProvisioned: f.NewCounter(prometheus.CounterOpts{
			Name: "coldchain_telematics_devices_provisioned_total",
			Help: "Telemetry devices provisioned and bound to reefer units",
		}),
		CatalogSyncDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "coldchain_telematics_catalog_sync_duration_seconds",
			Help:    "Duration of hardware catalog syncs",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		CatalogDeviceTypes: f.NewGauge(prometheus.GaugeOpts{
			Name: "coldchain_telematics_catalog_device_types",
			Help: "Device types in the last synced hardware catalog",
		}),
	}
}

func (m *Metrics) ObserveVendorRequest(endpoint, outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.VendorRequests.WithLabelValues(endpoint, outcome).Inc()
	m.VendorDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementBreakerTransition(state string) {
	if m == nil {
		return
	}
	m.BreakerTransitions.WithLabelValues(state).Inc()
}

func (m *Metrics) ObserveProtocolCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.ProtocolCacheLookup.WithLabelValues(result).Inc()
}

func (m *Metrics) IncrementDevicesProvisioned() {
	if m == nil {
		return
	}
	m.DevicesProvisioned.Inc()
}

func (m *Metrics) ObserveCatalogSync(deviceTypes int, d time.Duration) {
	if m == nil {
		return
	}
	m.CatalogSyncDuration.Observe(d.Seconds())
	m.CatalogDeviceTypes.Set(float64(deviceTypes))
}
