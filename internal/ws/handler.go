// Package ws serves the live statistics stream over websockets. Each
// connection gets a hub subscription; the envelope format matches the
// gallery client: {"type":"stats","data":{...}}.
package ws

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/serroba/emoji-hub-go/internal/hub"
	"github.com/serroba/emoji-hub-go/internal/stats"
	"go.uber.org/zap"
)

const writeTimeout = 10 * time.Second

// Envelope is one websocket message.
type Envelope struct {
	Type string      `json:"type"`
	Data stats.Stats `json:"data"`
}

// Handler upgrades connections and bridges them to the broadcast hub.
type Handler struct {
	hub      *hub.Hub
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewHandler creates a websocket stats handler.
func NewHandler(statsHub *hub.Hub, logger *zap.Logger) *Handler {
	return &Handler{
		hub: statsHub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The stream is public and read-only; any origin may subscribe.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}

// ServeHTTP upgrades the request and streams stats until either side
// closes the connection.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))

		return
	}

	sub := h.hub.Subscribe()

	go h.writeLoop(conn, sub)
	go h.readLoop(conn, sub)
}

// writeLoop drains the subscription. It ends when the hub closes the
// channel (unsubscribe or slow-observer drop).
func (h *Handler) writeLoop(conn *websocket.Conn, sub *hub.Subscriber) {
	defer func() { _ = conn.Close() }()

	for s := range sub.C() {
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))

		if err := conn.WriteJSON(Envelope{Type: "stats", Data: s}); err != nil {
			h.hub.Unsubscribe(sub)

			return
		}
	}
}

// readLoop discards inbound frames and detects the peer going away.
func (h *Handler) readLoop(conn *websocket.Conn, sub *hub.Subscriber) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.hub.Unsubscribe(sub)
			_ = conn.Close()

			return
		}
	}
}
