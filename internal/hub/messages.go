package hub

import (
	"encoding/json"
	"fmt"
	"time"
)

// --- Outbound messages ---

// OutboundMessage is the closed set of server-to-client frames. The Type
// field discriminates on the wire.
type OutboundMessage interface{ outboundType() string }

type ConnectionEstablished struct {
	Type      string `json:"type"`
	RoomID    string `json:"room_id"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func (ConnectionEstablished) outboundType() string { return "connection_established" }

type InitialState struct {
	Type      string          `json:"type"`
	Room      json.RawMessage `json:"room"`
	Timestamp string          `json:"timestamp"`
}

func (InitialState) outboundType() string { return "initial_state" }

type Pong struct {
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
}

func (Pong) outboundType() string { return "pong" }

type StateUpdate struct {
	Type      string          `json:"type"`
	Room      json.RawMessage `json:"room"`
	Timestamp string          `json:"timestamp"`
}

func (StateUpdate) outboundType() string { return "state_update" }

type ChatMessage struct {
	Type      string `json:"type"`
	Sender    string `json:"sender"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func (ChatMessage) outboundType() string { return "chat_message" }

type PlayerUpdate struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp string          `json:"timestamp"`
}

func (PlayerUpdate) outboundType() string { return "player_update" }

type GameEvent struct {
	Type      string         `json:"type"`
	Evento    string         `json:"evento"`
	Dados     map[string]any `json:"dados"`
	Timestamp string         `json:"timestamp"`
}

func (GameEvent) outboundType() string { return "game_event" }

func NewConnectionEstablished(roomID string, now time.Time) ConnectionEstablished {
	return ConnectionEstablished{
		Type:      "connection_established",
		RoomID:    roomID,
		Message:   fmt.Sprintf("Conectado à sala %s", roomID),
		Timestamp: now.Format(time.RFC3339),
	}
}

func NewInitialState(room json.RawMessage, now time.Time) InitialState {
	return InitialState{Type: "initial_state", Room: room, Timestamp: now.Format(time.RFC3339)}
}

func NewPong(now time.Time) Pong {
	return Pong{Type: "pong", Timestamp: now.Format(time.RFC3339)}
}

func NewStateUpdate(room json.RawMessage, now time.Time) StateUpdate {
	return StateUpdate{Type: "state_update", Room: room, Timestamp: now.Format(time.RFC3339)}
}

func NewChatMessage(sender, message string, now time.Time) ChatMessage {
	return ChatMessage{Type: "chat_message", Sender: sender, Message: message, Timestamp: now.Format(time.RFC3339)}
}

func NewPlayerUpdate(data json.RawMessage, now time.Time) PlayerUpdate {
	return PlayerUpdate{Type: "player_update", Data: data, Timestamp: now.Format(time.RFC3339)}
}

func NewGameEvent(evento string, dados map[string]any, now time.Time) GameEvent {
	if dados == nil {
		dados = map[string]any{}
	}
	return GameEvent{Type: "game_event", Evento: evento, Dados: dados, Timestamp: now.Format(time.RFC3339)}
}

func marshalOutbound(msg OutboundMessage) ([]byte, error) {
	return json.Marshal(msg)
}

// --- Inbound messages ---

// InboundMessage is the closed set of client requests, discriminated by the
// "action" field. Unknown actions decode to UnknownRequest rather than an
// error so the connection stays open.
type InboundMessage interface{ inboundAction() string }

type PingRequest struct{}

func (PingRequest) inboundAction() string { return "ping" }

type GetStateRequest struct{}

func (GetStateRequest) inboundAction() string { return "get_state" }

type ChatRequest struct {
	Sender  string
	Message string
}

func (ChatRequest) inboundAction() string { return "chat" }

type PlayerUpdateRequest struct {
	Data json.RawMessage
}

func (PlayerUpdateRequest) inboundAction() string { return "player_update" }

type UnknownRequest struct {
	Action string
}

func (UnknownRequest) inboundAction() string { return "unknown" }

// DecodeInbound parses a raw client frame into its tagged variant.
func DecodeInbound(raw []byte) (InboundMessage, error) {
	var envelope struct {
		Action  string          `json:"action"`
		Sender  string          `json:"sender"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("invalid client frame: %w", err)
	}

	switch envelope.Action {
	case "ping":
		return PingRequest{}, nil
	case "get_state":
		return GetStateRequest{}, nil
	case "chat":
		return ChatRequest{Sender: envelope.Sender, Message: envelope.Message}, nil
	case "player_update":
		data := envelope.Data
		if len(data) == 0 {
			data = json.RawMessage(`{}`)
		}
		return PlayerUpdateRequest{Data: data}, nil
	default:
		return UnknownRequest{Action: envelope.Action}, nil
	}
}
