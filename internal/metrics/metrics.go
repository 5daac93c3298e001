// Package metrics holds the process-wide Prometheus collectors for the
// transport and deliberation layers.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Rejection reasons recorded by FramesRejected.
const (
	ReasonNonLoopback = "non_loopback"
	ReasonMalformed   = "malformed_frame"
	ReasonSender      = "invalid_sender"
	ReasonKind        = "invalid_kind"
)

var (
	// Transport metrics
	FramesReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agentsociety_frames_received_total",
			Help: "Frames decoded, validated and dispatched to an agent",
		},
		[]string{"agent", "kind"},
	)

	FramesRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agentsociety_frames_rejected_total",
			Help: "Inbound connections dropped before dispatch",
		},
		[]string{"agent", "reason"},
	)

	FramesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agentsociety_frames_sent_total",
			Help: "Frames written to a peer",
		},
		[]string{"agent", "kind"},
	)

	DeliveryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agentsociety_delivery_failures_total",
			Help: "Outbound connect or write failures",
		},
		[]string{"agent"},
	)

	ConnectionsInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "agentsociety_connections_in_flight",
			Help: "Inbound connections currently being handled",
		},
		[]string{"agent"},
	)

	// Deliberation metrics
	Deliberations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agentsociety_deliberations_total",
			Help: "Deliberation rounds by workflow and outcome",
		},
		[]string{"workflow", "outcome"}, // outcome: accepted, rejected, schema_violation, error
	)

	DeliberationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "agentsociety_deliberation_duration_seconds",
			Help:    "Render, think and parse latency",
			Buckets: []float64{.01, .05, .1, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"workflow"},
	)
)
