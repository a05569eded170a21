// Package ws exposes the same message catalogue over WebSocket for browser
// clients: one JSON object per text frame instead of per line.
package ws

import (
	"encoding/json"
	"errors"
	nethttp "net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"stalked/server/internal/hub"
	"stalked/server/internal/net/proto"
)

const writeWait = 10 * time.Second

type Handler struct {
	hub      *hub.Hub
	log      *logrus.Logger
	upgrader websocket.Upgrader
}

func NewHandler(h *hub.Hub, log *logrus.Logger) *Handler {
	if log == nil {
		log = logrus.New()
	}
	return &Handler{
		hub: h,
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *nethttp.Request) bool {
				return true
			},
		},
	}
}

// ServeGame upgrades the request and runs the session until the peer goes
// away. The hub applies the same capacity and lifecycle rules as for TCP.
func (h *Handler) ServeGame(w nethttp.ResponseWriter, r *nethttp.Request) {
	socket, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithField("error", err).Warn("websocket upgrade failed")
		return
	}

	conn := &wsConn{socket: socket}

	id, err := h.hub.Accept(conn)
	if errors.Is(err, hub.ErrServerFull) {
		rejection, _ := json.Marshal(proto.ConnectionRejected{
			Type:   "connection_rejected",
			Reason: "Server is full",
		})
		conn.WriteMessage(rejection)
		socket.Close()
		return
	}
	if err != nil {
		socket.Close()
		return
	}

	defer h.hub.Disconnect(id)
	for {
		_, payload, err := socket.ReadMessage()
		if err != nil {
			return
		}
		h.hub.HandleMessage(id, payload)
	}
}

// ServeInfo answers server-browser pings without creating a session.
func (h *Handler) ServeInfo(w nethttp.ResponseWriter, r *nethttp.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.hub.ServerInfo()); err != nil {
		h.log.WithField("error", err).Warn("failed to write server info")
	}
}

// wsConn adapts a websocket connection to the hub's transport interface.
// gorilla allows only one concurrent writer, hence the mutex.
type wsConn struct {
	socket *websocket.Conn
	mu     sync.Mutex
}

func (c *wsConn) WriteMessage(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.socket.SetWriteDeadline(time.Now().Add(writeWait))
	return c.socket.WriteMessage(websocket.TextMessage, data)
}

func (c *wsConn) Close() error {
	return c.socket.Close()
}

func (c *wsConn) RemoteAddr() string {
	return c.socket.RemoteAddr().String()
}
