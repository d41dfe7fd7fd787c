package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/ArrudaAsaph/jogue-a-velha/internal/domain"
	"github.com/ArrudaAsaph/jogue-a-velha/internal/hub"
	"github.com/ArrudaAsaph/jogue-a-velha/internal/metrics"
)

// Bridge drains the shared game event channel and fans each event out to the
// room it names. It performs no business logic, only envelope translation.
// Malformed events are dropped; they never terminate the loop.
type Bridge struct {
	bus         domain.EventBus
	broadcaster *hub.Broadcaster
	clock       clockwork.Clock
	done        chan struct{}
}

func New(bus domain.EventBus, broadcaster *hub.Broadcaster, clock clockwork.Clock) *Bridge {
	return &Bridge{
		bus:         bus,
		broadcaster: broadcaster,
		clock:       clock,
		done:        make(chan struct{}),
	}
}

// Start subscribes to the event bus and launches the drain loop. The loop
// exits when ctx is cancelled, releasing the subscription. A subscribe
// failure is returned to the caller: the hub is useless without the bus, so
// startup aborts.
func (b *Bridge) Start(ctx context.Context) error {
	sub, err := b.bus.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("subscribe to event bus: %w", err)
	}
	go b.drain(ctx, sub)
	return nil
}

// Wait blocks until the drain loop has exited.
func (b *Bridge) Wait() {
	<-b.done
}

func (b *Bridge) drain(ctx context.Context, sub domain.Subscription) {
	defer close(b.done)
	defer func() { _ = sub.Close() }()

	slog.Info("Event bridge started")
	for {
		select {
		case payload, ok := <-sub.Events():
			if !ok {
				slog.Warn("Event bus subscription closed")
				return
			}
			b.dispatch(payload)
		case <-ctx.Done():
			slog.Info("Event bridge stopping")
			return
		}
	}
}

func (b *Bridge) dispatch(payload []byte) {
	var event domain.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		metrics.BridgeEventsTotal.WithLabelValues("malformed").Inc()
		slog.Warn("Dropping malformed bus event", "error", err)
		return
	}
	if event.Evento == "" || event.SalaID == "" {
		metrics.BridgeEventsTotal.WithLabelValues("incomplete").Inc()
		slog.Warn("Dropping bus event without evento/sala_id")
		return
	}

	slog.Debug("Bus event received", "evento", event.Evento, "room_id", event.SalaID)
	b.broadcaster.Broadcast(event.SalaID, hub.NewGameEvent(event.Evento, event.Dados, b.clock.Now()))
	metrics.BridgeEventsTotal.WithLabelValues("delivered").Inc()
}
