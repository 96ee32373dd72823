package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the booking engine.
type Metrics struct {
	BookingsTotal        *prometheus.CounterVec
	BookingDuration      *prometheus.HistogramVec
	CancellationsTotal   *prometheus.CounterVec
	SyncFailuresTotal    prometheus.Counter
	ShopifyOrdersFetched prometheus.Counter
}

// NewMetrics creates and registers Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		BookingsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "parceldesk_bookings_total",
				Help: "Total booking attempts by courier and outcome",
			},
			[]string{"courier", "outcome"},
		),
		BookingDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "parceldesk_booking_duration_seconds",
				Help:    "Courier booking call duration in seconds by courier",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"courier"},
		),
		CancellationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "parceldesk_cancellations_total",
				Help: "Total cancellation attempts by courier and outcome",
			},
			[]string{"courier", "outcome"},
		),
		SyncFailuresTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "parceldesk_fulfillment_sync_failures_total",
				Help: "Total best-effort fulfillment sync failures",
			},
		),
		ShopifyOrdersFetched: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "parceldesk_shopify_orders_fetched_total",
				Help: "Total Shopify orders fetched by the importer",
			},
		),
	}
}

// RecordBooking records one booking attempt.
func (m *Metrics) RecordBooking(courier, outcome string, duration float64) {
	m.BookingsTotal.WithLabelValues(courier, outcome).Inc()
	m.BookingDuration.WithLabelValues(courier).Observe(duration)
}

// RecordCancellation records one cancellation attempt.
func (m *Metrics) RecordCancellation(courier, outcome string) {
	m.CancellationsTotal.WithLabelValues(courier, outcome).Inc()
}

// RecordSyncFailure records a fulfillment sync failure.
func (m *Metrics) RecordSyncFailure() {
	m.SyncFailuresTotal.Inc()
}
