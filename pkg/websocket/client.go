package websocket

import (
	"sync"
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

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Outbound buffer per client; deliveries are dropped when it overflows
	sendBufferSize = 256
)

// Client is one live connection and its session state. ID identifies the
// connection; UserID is the identity resolved at connect time and is fixed
// for the connection's lifetime.
type Client struct {
	ID     string
	UserID string
	Conn   *websocket.Conn
	Send   chan *Message

	mu     sync.Mutex
	closed bool

	hub    *Hub
	logger *zap.Logger
}

// NewClient creates a client session for an upgraded connection.
func NewClient(conn *websocket.Conn, hub *Hub, userID string, logger *zap.Logger) *Client {
	return &Client{
		ID:     uuid.New().String(),
		UserID: userID,
		Conn:   conn,
		Send:   make(chan *Message, sendBufferSize),
		hub:    hub,
		logger: logger,
	}
}

// SendMessage queues a message for delivery. It reports false when the
// client's buffer is full or the client has been unregistered; a slow or
// departed client never blocks or panics the caller. Senders working from a
// stale member snapshot may race the hub closing the channel, so the send is
// serialized with closeSend.
func (c *Client) SendMessage(msg *Message) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}

	select {
	case c.Send <- msg:
		return true
	default:
		c.logger.Warn("dropping message, client send buffer full",
			zap.String("client_id", c.ID),
			zap.String("user_id", c.UserID),
			zap.String("type", msg.Type),
		)
		return false
	}
}

// closeSend closes the send channel exactly once. Sends that lost the race
// observe the closed flag and report false instead of panicking.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
}

// ReadPump reads messages from the connection and dispatches them through the
// hub. It unregisters the client when the connection drops.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		if err := c.Conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("websocket read error",
					zap.String("user_id", c.UserID),
					zap.Error(err),
				)
			}
			break
		}
		c.hub.HandleMessage(c, &msg)
	}
}

// WritePump writes queued messages to the connection and keeps it alive with
// pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
