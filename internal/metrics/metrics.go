package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hospitalchat_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hospitalchat_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Hub metrics
	ConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hospitalchat_connections_active",
			Help: "Live chat connections",
		},
	)

	RoomsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hospitalchat_rooms_active",
			Help: "Rooms with at least one member",
		},
	)

	EventsReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hospitalchat_events_received_total",
			Help: "Inbound client events",
		},
		[]string{"event"},
	)

	MessagesRouted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hospitalchat_messages_routed_total",
			Help: "Directed messages by outcome",
		},
		[]string{"direction", "outcome"}, // outcome: delivered, not_connected, invalid
	)

	EventsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hospitalchat_events_dropped_total",
			Help: "Outbound events dropped because a client queue was full",
		},
	)

	JobsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hospitalchat_jobs_dropped_total",
			Help: "Background jobs dropped because the queue was full",
		},
		[]string{"job"},
	)

	// Infrastructure metrics
	StoreLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hospitalchat_store_latency_seconds",
			Help:    "Background store operation latency",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5},
		},
		[]string{"job"},
	)
)
