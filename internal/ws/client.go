package ws

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/quizparty/quizparty/internal/model"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Outbound buffer per client
	sendBufferSize = 64
)

// Client wraps one websocket connection. The read pump feeds inbound
// events to the router; the write pump drains the send channel. All
// session-state decisions happen in the router, never here.
type Client struct {
	id     model.ConnectionID
	conn   *websocket.Conn
	router *Router
	logger *slog.Logger

	// mu guards send against a close racing a queue attempt: the read
	// pump replies to malformed frames from its own goroutine while the
	// router closes the channel from the dispatch goroutine.
	mu     sync.Mutex
	send   chan []byte
	closed bool
}

// NewClient creates a client for an accepted websocket connection
func NewClient(id model.ConnectionID, conn *websocket.Conn, router *Router, logger *slog.Logger) *Client {
	return &Client{
		id:     id,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		router: router,
		logger: logger.With(slog.String("conn", string(id))),
	}
}

// Ensure Client implements Sender
var _ Sender = (*Client)(nil)

// ID returns the connection's identity
func (c *Client) ID() model.ConnectionID {
	return c.id
}

// Send queues a message without blocking; it reports false if the
// client's buffer is full or already closed and the message was
// dropped.
func (c *Client) Send(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}

	select {
	case c.send <- payload:
		return true
	default:
		c.logger.Warn("message dropped - client buffer full")
		return false
	}
}

// CloseSend stops the write pump once the queue drains. Safe to call
// more than once; later Sends report false.
func (c *Client) CloseSend() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// ReadPump reads inbound frames and hands them to the router. It runs
// on the connection's handler goroutine and returns when the
// connection dies; the deferred disconnect notification drives the
// session cleanup.
func (c *Client) ReadPump() {
	defer func() {
		c.router.Disconnected(c.id)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("unexpected close", slog.String("error", err.Error()))
			}
			return
		}

		env, err := Decode(raw)
		if err != nil {
			if msg, encErr := Encode(model.EventError, model.ErrorPayload{Message: "malformed message"}); encErr == nil {
				c.Send(msg)
			}
			continue
		}

		c.router.Inbound(c.id, env)
	}
}

// WritePump drains the send channel to the connection and keeps the
// connection alive with pings. It exits when CloseSend is called or
// the write fails.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
