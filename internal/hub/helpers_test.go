package hub

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	ws "github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

// wsPair establishes a WebSocket connection through a test server and
// returns both ends of it.
func wsPair(t *testing.T) (serverConn, clientConn *ws.Conn) {
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

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	clientConn, _, err := ws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { clientConn.Close() })

	serverConn = <-connCh
	t.Cleanup(func() { serverConn.Close() })
	return serverConn, clientConn
}

// newTestClient wraps the server side of a fresh connection in a Client.
func newTestClient(t *testing.T, roomID string) (*Client, *ws.Conn) {
	t.Helper()
	serverConn, clientConn := wsPair(t)
	c := NewClient(serverConn, roomID, clockwork.NewRealClock())
	t.Cleanup(c.Close)
	return c, clientConn
}
