package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeBooked   = "booked"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

// BookingMetrics — счётчики и гистограммы записи на приём.
type BookingMetrics struct {
	reservations  *prometheus.CounterVec
	conflicts     *prometheus.CounterVec
	cancellations prometheus.Counter
	slotListing   prometheus.Histogram
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		reservations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "telemed",
			Subsystem: "booking",
			Name:      "reservations_total",
			Help:      "Reservation attempts by outcome",
		}, []string{"outcome"}),
		conflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "telemed",
			Subsystem: "booking",
			Name:      "conflicts_total",
			Help:      "Rejected reservations by conflict reason",
		}, []string{"reason"}),
		cancellations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "telemed",
			Subsystem: "booking",
			Name:      "cancellations_total",
			Help:      "Cancelled appointments",
		}),
		slotListing: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "telemed",
			Subsystem: "booking",
			Name:      "slot_listing_seconds",
			Help:      "Latency of available slot listing",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.reservations, m.conflicts, m.cancellations, m.slotListing)
	return m
}

func (m *BookingMetrics) ObserveReservation(outcome string) {
	if m == nil {
		return
	}
	m.reservations.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) ObserveConflict(reason string) {
	if m == nil {
		return
	}
	m.reservations.WithLabelValues(OutcomeConflict).Inc()
	m.conflicts.WithLabelValues(reason).Inc()
}

func (m *BookingMetrics) ObserveCancellation() {
	if m == nil {
		return
	}
	m.cancellations.Inc()
}

func (m *BookingMetrics) ObserveSlotListing(d time.Duration) {
	if m == nil {
		return
	}
	m.slotListing.Observe(d.Seconds())
}

// Reservations — счётчик попыток бронирования с данным исходом.
func (m *BookingMetrics) Reservations(outcome string) prometheus.Counter {
	return m.reservations.WithLabelValues(outcome)
}

func (m *BookingMetrics) Conflicts(reason string) prometheus.Counter {
	return m.conflicts.WithLabelValues(reason)
}
