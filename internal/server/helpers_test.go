package server_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Tyrowin/chatrelay/internal/responder"
	"github.com/Tyrowin/chatrelay/internal/server"
	"github.com/gorilla/websocket"
	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

// relay is a running hub behind an httptest server.
type relay struct {
	hub    *server.Hub
	server *httptest.Server
	wsURL  string
}

func startRelay(t *testing.T, mutate func(*server.Config)) *relay {
	t.Helper()
	cfg := server.DefaultConfig()
	cfg.ReplyDelay = 100 * time.Millisecond
	if mutate != nil {
		mutate(&cfg)
	}

	hub := server.NewHub(cfg, logs.GetLoggerFromLevel(slog.LevelDebug), responder.Default())
	server.StartHub(hub)
	ts := httptest.NewServer(server.SetupRoutes(hub))
	t.Cleanup(func() {
		ts.Close()
		_ = hub.Shutdown(2 * time.Second)
	})

	return &relay{hub: hub, server: ts, wsURL: "ws" + strings.TrimPrefix(ts.URL, "http") + "/"}
}

// connect dials the relay and waits until the hub has registered the connection.
func (r *relay) connect(t *testing.T) *websocket.Conn {
	t.Helper()
	before := r.hub.Stats().Connections

	dialer := websocket.Dialer{HandshakeTimeout: 5 * time.Second}
	headers := http.Header{}
	headers.Set("Origin", "http://localhost:8000")
	conn, resp, err := dialer.Dial(r.wsURL, headers)
	if resp != nil {
		_ = resp.Body.Close()
	}
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.Eventually(t, func() bool {
		return r.hub.Stats().Connections > before
	}, 2*time.Second, 5*time.Millisecond)
	return conn
}

func (r *relay) waitForConnections(t *testing.T, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return r.hub.Stats().Connections == n
	}, 2*time.Second, 5*time.Millisecond)
}

func sendJoin(t *testing.T, conn *websocket.Conn, name string) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(server.JoinRequest{Type: server.TypeJoin, Username: lo.ToPtr(name)}))
}

func sendChat(t *testing.T, conn *websocket.Conn, name, content string) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(server.ChatRequest{
		Type:     server.TypeChat,
		Username: lo.ToPtr(name),
		Content:  lo.ToPtr(content),
	}))
}

// readMessage reads exactly one frame, failing the test after a timeout.
func readMessage(t *testing.T, conn *websocket.Conn) server.ServerMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	var msg server.ServerMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

// expectNoMessage asserts that nothing arrives within timeout. The connection
// must not be read again afterwards when a deadline expired.
func expectNoMessage(t *testing.T, conn *websocket.Conn, timeout time.Duration) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(timeout)))
	_, data, err := conn.ReadMessage()
	if err == nil {
		t.Fatalf("Expected no message, received %s", data)
	}
}

// expectJoinAnnouncement reads the user list and the presence line a join produces.
func expectJoinAnnouncement(t *testing.T, conn *websocket.Conn, name string, users ...string) {
	t.Helper()
	list := readMessage(t, conn)
	require.Equal(t, server.TypeUserList, list.Type)
	require.ElementsMatch(t, users, list.Users)

	system := readMessage(t, conn)
	require.Equal(t, server.TypeSystem, system.Type)
	require.Contains(t, system.Content, name)
	require.Contains(t, system.Content, "进入")
}
