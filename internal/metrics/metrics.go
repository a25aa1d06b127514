// Package metrics defines the Prometheus metrics exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "capture"

// BookingsCreatedTotal counts bookings by their initial status.
var BookingsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_created_total",
		Help:      "Total number of bookings created, by initial status.",
	},
	[]string{"status"},
)

// BookingTransitionsTotal counts accept/reject attempts.
// Labels:
//   - action: "accept" or "reject"
//   - result: "ok", "forbidden", "invalid_transition", "not_found", "error"
var BookingTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "booking_transitions_total",
		Help:      "Total number of booking status transition attempts.",
	},
	[]string{"action", "result"},
)

// SignupsTotal counts signup attempts by role and result.
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of signup attempts.",
	},
	[]string{"role", "result"},
)

// BackendFallback is 1 when the document store was requested but the
// relational backend is serving instead.
var BackendFallback = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "backend_fallback",
		Help:      "Set to 1 when the configured document store was unreachable at startup.",
	},
)

// ActiveBackend reports the persistence backend chosen at startup.
var ActiveBackend = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_backend",
		Help:      "Persistence backend serving requests (1 for the active one).",
	},
	[]string{"backend"},
)
