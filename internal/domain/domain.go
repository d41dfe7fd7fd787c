package domain

import (
	"context"
	"encoding/json"
)

// Event is the envelope published on the shared game event channel by the
// REST collaborator. Field names follow the wire format (Portuguese keys).
type Event struct {
	Evento    string         `json:"evento"`
	SalaID    string         `json:"sala_id"`
	Dados     map[string]any `json:"dados,omitempty"`
	Timestamp float64        `json:"timestamp,omitempty"`
}

// StateStore provides access to the externally owned room snapshot.
// The snapshot schema belongs to the REST collaborator; the hub treats it
// as an opaque JSON document and never caches it across requests.
type StateStore interface {
	// GetRoomState returns the current snapshot for a room.
	// The second return value is false when no snapshot exists.
	GetRoomState(ctx context.Context, roomID string) (json.RawMessage, bool, error)

	// SaveRoomState persists a snapshot for a room.
	SaveRoomState(ctx context.Context, roomID string, state json.RawMessage) error
}

// Subscription is an active subscription on the shared event channel.
type Subscription interface {
	// Events yields raw message payloads. The channel is closed when the
	// subscription ends.
	Events() <-chan []byte

	// Close releases the subscription.
	Close() error
}

// EventBus carries room-scoped game events between services.
type EventBus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(ctx context.Context) (Subscription, error)
}
