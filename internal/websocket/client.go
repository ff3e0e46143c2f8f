package websocket

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 512
)

// NewUpgrader accepts connections from the allowed origins, from local
// development hosts and from clients that send no Origin header.
func NewUpgrader(allowed []string) *websocket.Upgrader {
	origins := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		origins[o] = true
	}
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || origins["*"] || origins[origin] {
				return true
			}
			return origin == "http://localhost:3000" || origin == "http://127.0.0.1:3000"
		},
	}
}

// Client is one browser watching one poll. Clients only receive.
type Client struct {
	id     string
	pollID uint
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
}

// ServeWS upgrades the request and streams the poll's results. initial,
// when non-empty, is written before any live update.
func ServeWS(hub *Hub, upgrader *websocket.Upgrader, w http.ResponseWriter, r *http.Request, pollID uint, initial []byte) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.Logger.Warn("websocket upgrade failed", zap.Uint("poll_id", pollID), zap.Error(err))
		return
	}

	c := &Client{
		id:     uuid.NewString(),
		pollID: pollID,
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, 16),
	}
	if len(initial) > 0 {
		c.send <- initial
	}

	select {
	case hub.register <- c:
	case <-hub.done:
		conn.Close()
		return
	case <-r.Context().Done():
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// readPump discards inbound frames and detects disconnects.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.Logger.Debug("websocket closed", zap.String("client_id", c.id), zap.Error(err))
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
