package hub

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"

	"github.com/ArrudaAsaph/jogue-a-velha/internal/domain"
	"github.com/ArrudaAsaph/jogue-a-velha/internal/logging"
	"github.com/ArrudaAsaph/jogue-a-velha/internal/metrics"
)

const (
	storeTimeout = 2 * time.Second

	// Inbound flood protection. Messages over the limit are dropped, the
	// connection stays open.
	inboundRate  = rate.Limit(10)
	inboundBurst = 20
)

// Session drives the per-connection protocol: it registers the client in its
// room, pushes the initial snapshot, and serves the client's synchronous
// requests until disconnect.
type Session struct {
	client      *Client
	registry    *Registry
	broadcaster *Broadcaster
	store       domain.StateStore
	limiter     *rate.Limiter
	clock       clockwork.Clock
	log         *slog.Logger
}

func NewSession(client *Client, registry *Registry, broadcaster *Broadcaster, store domain.StateStore, clock clockwork.Clock) *Session {
	return &Session{
		client:      client,
		registry:    registry,
		broadcaster: broadcaster,
		store:       store,
		limiter:     rate.NewLimiter(inboundRate, inboundBurst),
		clock:       clock,
		log:         logging.WithRoom(client.Room()).With("client_id", client.ID().String()),
	}
}

// Start registers the client and sends the connection acknowledgment plus a
// best-effort initial snapshot. A snapshot fetch failure is logged, not
// fatal: the client can request the state explicitly later.
func (s *Session) Start(ctx context.Context) {
	s.registry.Join(s.client.Room(), s.client)
	s.log.Info("Client joined room", "room_clients", len(s.registry.Members(s.client.Room())))

	s.reply(NewConnectionEstablished(s.client.Room(), s.clock.Now()))

	state, ok, err := s.fetchState(ctx)
	if err != nil {
		s.log.Error("Failed to fetch initial state", "error", err)
		return
	}
	if ok {
		s.reply(NewInitialState(state, s.clock.Now()))
	}
}

// HandleMessage serves one inbound client frame. Malformed or unrecognized
// frames are logged and ignored; the connection stays open.
func (s *Session) HandleMessage(ctx context.Context, raw []byte) {
	if !s.limiter.Allow() {
		metrics.HubRateLimitedTotal.Inc()
		s.log.Debug("Dropping rate-limited message")
		return
	}

	msg, err := DecodeInbound(raw)
	if err != nil {
		s.log.Warn("Ignoring malformed client frame", "error", err)
		return
	}

	switch m := msg.(type) {
	case PingRequest:
		s.reply(NewPong(s.clock.Now()))
	case GetStateRequest:
		state, ok, err := s.fetchState(ctx)
		if err != nil {
			s.log.Error("Failed to fetch room state", "error", err)
			return
		}
		if ok {
			s.reply(NewStateUpdate(state, s.clock.Now()))
		}
	case ChatRequest:
		s.broadcaster.Broadcast(s.client.Room(), NewChatMessage(m.Sender, m.Message, s.clock.Now()))
		s.log.Info("Chat message", "sender", m.Sender)
	case PlayerUpdateRequest:
		s.broadcaster.Broadcast(s.client.Room(), NewPlayerUpdate(m.Data, s.clock.Now()))
	case UnknownRequest:
		s.log.Warn("Ignoring unknown action", "action", m.Action)
	}
}

// Close unregisters the client. Deferred by the transport handler so it runs
// on every exit path, including abnormal ones.
func (s *Session) Close() {
	last := s.registry.Leave(s.client.Room(), s.client)
	s.client.Close()
	if last {
		s.log.Info("Last client left room")
	} else {
		s.log.Info("Client disconnected")
	}
}

func (s *Session) fetchState(ctx context.Context) (state []byte, ok bool, err error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	return s.store.GetRoomState(ctx, s.client.Room())
}

// reply sends a frame to this session's own client. A delivery failure means
// the connection is gone; the read pump will observe it and close.
func (s *Session) reply(msg OutboundMessage) {
	data, err := marshalOutbound(msg)
	if err != nil {
		s.log.Error("Failed to marshal reply", "error", err)
		return
	}
	if err := s.client.Send(data); err != nil {
		s.log.Debug("Failed to queue reply", "error", err)
	}
}
