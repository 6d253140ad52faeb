package ws

import (
	"encoding/json"
	"io"
	"log"
	"net"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_UpgradesOverFiberAndStreamsEvents(t *testing.T) {
	h, cancel := newTestHub(t)
	defer cancel()

	app := fiber.New()
	NewHandler(h, log.New(io.Discard, "", 0)).RegisterRoutes(app)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln, fiber.ListenConfig{DisableStartupMessage: true}) }()
	defer func() { _ = app.ShutdownWithTimeout(2 * time.Second) }()

	conn, resp, err := websocket.DefaultDialer.Dial("ws://"+ln.Addr().String()+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, fiber.StatusSwitchingProtocols, resp.StatusCode)

	waitFor(t, func() bool { return h.ClientCount() == 1 })
	h.Publish("jobs_updated", map[string]any{"job_id": "j1", "action": "created"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var ev struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(raw, &ev))
	assert.Equal(t, "jobs_updated", ev.Type)
	assert.Equal(t, "j1", ev.Payload["job_id"])
}

func TestHandler_PlainRequestIsRejected(t *testing.T) {
	h, cancel := newTestHub(t)
	defer cancel()

	app := fiber.New()
	NewHandler(h, log.New(io.Discard, "", 0)).RegisterRoutes(app)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln, fiber.ListenConfig{DisableStartupMessage: true}) }()
	defer func() { _ = app.ShutdownWithTimeout(2 * time.Second) }()

	conn, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	defer conn.Close()
	_, err = conn.Write([]byte("GET /ws HTTP/1.1\r\nHost: localhost\r\nConnection: close\r\n\r\n"))
	require.NoError(t, err)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, 64)
	n, _ := conn.Read(buf)
	assert.Contains(t, string(buf[:n]), "400")
	assert.Zero(t, h.ClientCount())
}
