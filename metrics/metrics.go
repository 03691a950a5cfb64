package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	roomsAllocated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hotel",
			Name:      "bookings_allocated_total",
			Help:      "Count of bookings that were assigned a room, by room type.",
		},
		[]string{"room_type"},
	)

	allocationFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hotel",
			Name:      "allocation_failed_total",
			Help:      "Count of allocation attempts that did not produce a booking.",
		},
		[]string{"reason"},
	)

	allocationRetries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "hotel",
			Name:      "allocation_retries_total",
			Help:      "Count of allocation transactions retried after losing a room to a concurrent request.",
		},
	)

	bookingsCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "hotel",
			Name:      "bookings_cancelled_total",
			Help:      "Count of bookings cancelled.",
		},
	)

	auditMismatches = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "hotel",
			Name:      "inventory_audit_mismatches",
			Help:      "Rooms whose occupancy flag disagreed with bookings at the last audit.",
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(roomsAllocated, allocationFailed, allocationRetries, bookingsCancelled, auditMismatches)
	})
}

func IncRoomAllocated(roomType string) {
	roomsAllocated.WithLabelValues(roomType).Inc()
}

func IncAllocationFailed(reason string) {
	allocationFailed.WithLabelValues(reason).Inc()
}

func IncAllocationRetry() {
	allocationRetries.Inc()
}

func IncBookingCancelled() {
	bookingsCancelled.Inc()
}

func SetAuditMismatches(n int) {
	auditMismatches.Set(float64(n))
}
