package hub

import (
	"encoding/json"
	"log/slog"

	"github.com/ArrudaAsaph/jogue-a-velha/internal/metrics"
)

// Broadcaster fans a message out to every live client of a room.
// Delivery is best-effort, at-most-once: a failing recipient is pruned from
// the registry and never retried, and its failure does not abort delivery
// to the remaining members.
type Broadcaster struct {
	registry *Registry
}

func NewBroadcaster(registry *Registry) *Broadcaster {
	return &Broadcaster{registry: registry}
}

// Broadcast delivers message to every current member of roomID.
// A room with no members is a silent no-op.
func (b *Broadcaster) Broadcast(roomID string, message OutboundMessage) {
	data, err := json.Marshal(message)
	if err != nil {
		slog.Error("Failed to marshal broadcast message", "room_id", roomID, "error", err)
		return
	}

	members := b.registry.Members(roomID)
	if len(members) == 0 {
		return
	}
	metrics.HubBroadcastsTotal.WithLabelValues(message.outboundType()).Inc()

	for _, c := range members {
		if err := c.Send(data); err != nil {
			b.prune(roomID, c)
		}
	}
}

// prune drops a client whose delivery failed. Stale members are never retried.
func (b *Broadcaster) prune(roomID string, c *Client) {
	slog.Warn("Pruning unresponsive client", "room_id", roomID, "client_id", c.ID().String())
	metrics.HubSendFailuresTotal.Inc()
	b.registry.Leave(roomID, c)
	c.Close()
}

// Shutdown closes every connected client with a normal-closure frame.
func (b *Broadcaster) Shutdown(reason string) {
	clients := b.registry.Drain()
	for _, c := range clients {
		c.CloseGraceful(reason)
	}
	slog.Info("Broadcaster shutdown complete", "disconnected_clients", len(clients))
}
