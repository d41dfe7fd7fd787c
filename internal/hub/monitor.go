package hub

import (
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
)

// Monitor periodically samples aggregate registry counts for observability.
// It runs independently of connection traffic and is never fatal to the hub.
type Monitor struct {
	registry *Registry
	clock    clockwork.Clock
	interval time.Duration
	stopCh   chan struct{}
	done     chan struct{}
}

func NewMonitor(registry *Registry, clock clockwork.Clock, interval time.Duration) *Monitor {
	return &Monitor{
		registry: registry,
		clock:    clock,
		interval: interval,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (m *Monitor) Start() {
	go m.run()
}

func (m *Monitor) run() {
	ticker := m.clock.NewTicker(m.interval)
	defer ticker.Stop()
	defer close(m.done)

	for {
		select {
		case <-ticker.Chan():
			m.sample()
		case <-m.stopCh:
			return
		}
	}
}

func (m *Monitor) sample() {
	slog.Info("Hub status",
		"connections", m.registry.ClientCount(),
		"rooms", m.registry.RoomCount(),
	)
}

// Stop terminates the sampling loop and waits for it to exit.
func (m *Monitor) Stop() {
	close(m.stopCh)
	<-m.done
}
