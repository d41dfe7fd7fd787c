package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/ArrudaAsaph/jogue-a-velha/internal/hub"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Frontend is served from a different origin
	},
}

func (s *Server) handleWebSocket(c echo.Context) error {
	roomID := strings.TrimSpace(c.Param("room_id"))

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade WebSocket: %w", err)
	}

	if roomID == "" {
		// Close at the WebSocket layer so clients see the policy code
		// rather than an HTTP error.
		msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "room id não especificado")
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		_ = conn.Close()
		return nil
	}

	client := hub.NewClient(conn, roomID, s.clock)
	session := hub.NewSession(client, s.registry, s.broadcaster, s.store, s.clock)
	defer session.Close()

	ctx := c.Request().Context()
	session.Start(ctx)

	// Read pump — blocks until the connection closes
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			break
		}
		session.HandleMessage(ctx, raw)
	}

	return nil //nolint:nilerr // ReadMessage err is block-scoped; outer err is nil
}
