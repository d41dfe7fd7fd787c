package hub

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/ArrudaAsaph/jogue-a-velha/internal/metrics"
)

const (
	writeDeadline     = 5 * time.Second
	pingInterval      = 20 * time.Second
	pongDeadline      = 30 * time.Second
	messageBufferSize = 16
)

// ErrClientUnavailable indicates the client's writer is gone or its send
// buffer is full. Callers treat it as a delivery failure and prune.
var ErrClientUnavailable = errors.New("client unavailable")

// Client wraps a WebSocket connection with a buffered writer goroutine.
// All writes go through the send channel so the broadcast path never blocks
// on a slow socket.
type Client struct {
	id     uuid.UUID
	roomID string

	connection  *websocket.Conn
	clock       clockwork.Clock
	sendChannel chan []byte
	doneChannel chan struct{}
	stopOnce    sync.Once
	wg          sync.WaitGroup
	failed      atomic.Bool
}

func NewClient(connection *websocket.Conn, roomID string, clock clockwork.Clock) *Client {
	c := &Client{
		id:          uuid.New(),
		roomID:      roomID,
		connection:  connection,
		clock:       clock,
		sendChannel: make(chan []byte, messageBufferSize),
		doneChannel: make(chan struct{}),
	}
	c.configurePongHandler()
	c.wg.Add(1)
	go c.run()
	return c
}

func (c *Client) ID() uuid.UUID { return c.id }

func (c *Client) Room() string { return c.roomID }

// Send queues a message for delivery. It never blocks: a full buffer or a
// dead writer returns ErrClientUnavailable.
func (c *Client) Send(data []byte) error {
	if c.failed.Load() {
		return ErrClientUnavailable
	}
	select {
	case c.sendChannel <- data:
		return nil
	case <-c.doneChannel:
		return ErrClientUnavailable
	default:
		return ErrClientUnavailable
	}
}

func (c *Client) run() {
	ticker := c.clock.NewTicker(pingInterval)
	defer ticker.Stop()
	defer c.wg.Done()

	for {
		select {
		case msg := <-c.sendChannel:
			start := c.clock.Now()
			c.updateWriteDeadline()
			if err := c.connection.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.failed.Store(true)
				return
			}
			metrics.HubMessageSendDuration.Observe(c.clock.Since(start).Seconds())
		case <-ticker.Chan():
			c.updateWriteDeadline()
			if err := c.connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.failed.Store(true)
				return
			}
		case <-c.doneChannel:
			return
		}
	}
}

// Close tears the connection down immediately.
func (c *Client) Close() {
	c.stopOnce.Do(func() {
		close(c.doneChannel)
		_ = c.connection.Close()
	})
	c.wg.Wait()
}

// CloseGraceful sends a normal-closure frame with reason before closing.
func (c *Client) CloseGraceful(reason string) {
	c.stopOnce.Do(func() {
		close(c.doneChannel)

		// Wait for the writer to exit so the close frame is the only
		// concurrent write on the connection.
		c.wg.Wait()

		closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason)
		c.updateWriteDeadline()
		_ = c.connection.WriteMessage(websocket.CloseMessage, closeMsg)
		_ = c.connection.Close()
	})
	c.wg.Wait()
}

func (c *Client) configurePongHandler() {
	c.updateReadDeadline()
	c.connection.SetPongHandler(func(string) error {
		c.updateReadDeadline()
		return nil
	})
}

func (c *Client) updateWriteDeadline() {
	_ = c.connection.SetWriteDeadline(c.clock.Now().Add(writeDeadline))
}

func (c *Client) updateReadDeadline() {
	_ = c.connection.SetReadDeadline(c.clock.Now().Add(pongDeadline))
}
