package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArrudaAsaph/jogue-a-velha/internal/domain"
	"github.com/ArrudaAsaph/jogue-a-velha/internal/hub"
)

// fakeBus is an in-memory EventBus; it doubles as its own subscription.
type fakeBus struct {
	ch     chan []byte
	subErr error
	closed atomic.Bool
}

func newFakeBus() *fakeBus {
	return &fakeBus{ch: make(chan []byte, 16)}
}

func (f *fakeBus) Publish(_ context.Context, event domain.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	f.ch <- data
	return nil
}

func (f *fakeBus) Subscribe(context.Context) (domain.Subscription, error) {
	if f.subErr != nil {
		return nil, f.subErr
	}
	return f, nil
}

func (f *fakeBus) Events() <-chan []byte { return f.ch }

func (f *fakeBus) Close() error {
	f.closed.Store(true)
	return nil
}

// joinRoom connects a WebSocket client and registers it in the given room.
func joinRoom(t *testing.T, registry *hub.Registry, roomID string) *ws.Conn {
	t.Helper()

	upgrader := ws.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	connCh := make(chan *ws.Conn, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		connCh <- conn
	}))
	t.Cleanup(server.Close)

	clientConn, _, err := ws.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { clientConn.Close() })

	client := hub.NewClient(<-connCh, roomID, clockwork.NewRealClock())
	t.Cleanup(client.Close)
	registry.Join(roomID, client)

	return clientConn
}

func readEvent(t *testing.T, conn *ws.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg map[string]any
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func assertSilent(t *testing.T, conn *ws.Conn) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}

func startBridge(t *testing.T, bus domain.EventBus, broadcaster *hub.Broadcaster) *Bridge {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	b := New(bus, broadcaster, clockwork.NewRealClock())
	require.NoError(t, b.Start(ctx))
	t.Cleanup(func() {
		cancel()
		b.Wait()
	})
	return b
}

func TestBridge_RoutesEventToRoom(t *testing.T) {
	registry := hub.NewRegistry()
	broadcaster := hub.NewBroadcaster(registry)
	bus := newFakeBus()

	connA := joinRoom(t, registry, "R1")
	connB := joinRoom(t, registry, "R1")
	connC := joinRoom(t, registry, "R2")

	startBridge(t, bus, broadcaster)

	err := bus.Publish(context.Background(), domain.Event{
		Evento: "jogada_realizada",
		SalaID: "R1",
		Dados:  map[string]any{"posicao": 4},
	})
	require.NoError(t, err)

	for _, conn := range []*ws.Conn{connA, connB} {
		msg := readEvent(t, conn)
		assert.Equal(t, "game_event", msg["type"])
		assert.Equal(t, "jogada_realizada", msg["evento"])
		assert.Equal(t, map[string]any{"posicao": 4.0}, msg["dados"])
		assert.NotEmpty(t, msg["timestamp"])
	}

	assertSilent(t, connC)
}

func TestBridge_MalformedEventIsDroppedAndLoopContinues(t *testing.T) {
	registry := hub.NewRegistry()
	broadcaster := hub.NewBroadcaster(registry)
	bus := newFakeBus()

	conn := joinRoom(t, registry, "R1")
	startBridge(t, bus, broadcaster)

	// Not JSON at all
	bus.ch <- []byte(`{not json`)
	// Valid JSON but missing sala_id/evento
	bus.ch <- []byte(`{"foo":"bar"}`)
	// Missing evento only
	bus.ch <- []byte(`{"sala_id":"R1","dados":{}}`)

	// A well-formed event afterwards still arrives
	require.NoError(t, bus.Publish(context.Background(), domain.Event{
		Evento: "vitoria",
		SalaID: "R1",
	}))

	msg := readEvent(t, conn)
	assert.Equal(t, "game_event", msg["type"])
	assert.Equal(t, "vitoria", msg["evento"])
}

func TestBridge_EventForEmptyRoomIsDropped(t *testing.T) {
	registry := hub.NewRegistry()
	broadcaster := hub.NewBroadcaster(registry)
	bus := newFakeBus()

	conn := joinRoom(t, registry, "R1")
	startBridge(t, bus, broadcaster)

	require.NoError(t, bus.Publish(context.Background(), domain.Event{Evento: "jogada_realizada", SalaID: "ghost"}))
	require.NoError(t, bus.Publish(context.Background(), domain.Event{Evento: "jogada_realizada", SalaID: "R1"}))

	// Only the R1 event is observable anywhere
	msg := readEvent(t, conn)
	assert.Equal(t, "jogada_realizada", msg["evento"])
}

func TestBridge_SubscribeFailureAbortsStart(t *testing.T) {
	registry := hub.NewRegistry()
	broadcaster := hub.NewBroadcaster(registry)
	bus := newFakeBus()
	bus.subErr = errors.New("redis unreachable")

	b := New(bus, broadcaster, clockwork.NewRealClock())
	err := b.Start(context.Background())
	assert.Error(t, err)
}

func TestBridge_CancellationReleasesSubscription(t *testing.T) {
	registry := hub.NewRegistry()
	broadcaster := hub.NewBroadcaster(registry)
	bus := newFakeBus()

	ctx, cancel := context.WithCancel(context.Background())
	b := New(bus, broadcaster, clockwork.NewRealClock())
	require.NoError(t, b.Start(ctx))

	cancel()
	b.Wait()

	assert.True(t, bus.closed.Load())
}
