package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Hub metrics
var (
	// HubActiveRooms tracks the number of rooms with at least one connection
	HubActiveRooms = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hub_active_rooms",
			Help: "Number of rooms with at least one connected client",
		},
	)

	// HubConnectedClients tracks total connected WebSocket clients across all rooms
	HubConnectedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hub_connected_clients_total",
			Help: "Total number of connected WebSocket clients across all rooms",
		},
	)

	// HubBroadcastsTotal tracks broadcasts by outbound message type
	HubBroadcastsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hub_broadcasts_total",
			Help: "Total room broadcasts by message type",
		},
		[]string{"type"},
	)

	// HubSendFailuresTotal tracks per-recipient delivery failures that led to pruning
	HubSendFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hub_send_failures_total",
			Help: "Total send failures that caused a client to be pruned",
		},
	)

	// HubMessageSendDuration tracks WebSocket write latency in seconds
	HubMessageSendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hub_message_send_duration_seconds",
			Help:    "WebSocket message write duration in seconds",
			Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
	)

	// HubRateLimitedTotal tracks inbound client messages dropped by the rate limiter
	HubRateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hub_rate_limited_messages_total",
			Help: "Total inbound client messages dropped by the per-connection rate limiter",
		},
	)
)

// Event bridge metrics
var (
	// BridgeEventsTotal tracks bus events by outcome
	BridgeEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_events_total",
			Help: "Bus events processed by the event bridge, by outcome (delivered/malformed/incomplete)",
		},
		[]string{"outcome"},
	)
)

// Redis metrics
var (
	// RedisOpsTotal tracks Redis operations by operation type and status
	RedisOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_operations_total",
			Help: "Total Redis operations by operation and status",
		},
		[]string{"operation", "status"},
	)
)
