// Package metrics exposes Prometheus counters for registration outcomes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registrations counts public registration attempts by outcome code.
// Successful registrations use code "ok".
var Registrations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "public_registrations_total",
		Help: "Public registration attempts by outcome code.",
	},
	[]string{"code"},
)

// TicketCompensations counts compensating deletes fired by the ticket
// pipeline after a participant insert.
var TicketCompensations = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "ticket_pipeline_compensations_total",
		Help: "Participant rows removed after a failed ticket pipeline step.",
	},
)
