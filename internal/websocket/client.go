package websocket

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10

	// The feed is server to client; inbound frames only carry pongs and closes.
	maxInboundSize = 512

	// queueSize bounds undelivered messages per client. A client that falls
	// this far behind is dropped and must reconnect and refetch.
	queueSize = 64
)

var summaryInvalidatedType = string(EntityTypeSummary) + "." + string(EventTypeInvalidated)

// Message is a serialized event waiting to be written to a client
type Message struct {
	Type string
	Data []byte
}

// Client streams one workspace's change feed over a single connection.
//
// At most one summary.invalidated message is queued at a time. A queued
// invalidation is delivered after every write committed before it leaves the
// queue, so a second one would only trigger the same refetch.
type Client struct {
	id          string
	workspaceID int32
	conn        *websocket.Conn
	hub         *Hub
	queue       chan Message
	log         zerolog.Logger

	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once

	invalidationQueued atomic.Bool
}

// NewClient creates a client for conn. Serve must be called to start it.
func NewClient(conn *websocket.Conn, workspaceID int32, hub *Hub) *Client {
	id := uuid.New().String()
	return &Client{
		id:          id,
		workspaceID: workspaceID,
		conn:        conn,
		hub:         hub,
		queue:       make(chan Message, queueSize),
		log:         log.With().Str("client_id", id).Int32("workspace_id", workspaceID).Logger(),
	}
}

func (c *Client) ID() string {
	return c.id
}

func (c *Client) WorkspaceID() int32 {
	return c.workspaceID
}

// Send queues msg without blocking. It fails when the client is closed or its
// queue is full.
func (c *Client) Send(msg Message) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return ErrClientClosed
	}

	invalidation := msg.Type == summaryInvalidatedType
	if invalidation && !c.invalidationQueued.CompareAndSwap(false, true) {
		return nil
	}

	select {
	case c.queue <- msg:
		return nil
	default:
		if invalidation {
			c.invalidationQueued.Store(false)
		}
		return ErrClientClosed
	}
}

// Close stops accepting messages. Already queued messages are still written,
// followed by a going-away close frame. Safe to call more than once.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		close(c.queue)
		c.mu.Unlock()
	})
	return nil
}

// Serve runs the connection until the peer leaves or the client is closed.
// It blocks; writes happen on a separate goroutine.
func (c *Client) Serve() {
	go c.writeLoop()
	c.readLoop()
}

func (c *Client) readLoop() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.Close()
	}()

	c.conn.SetReadLimit(maxInboundSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.log.Warn().Err(err).Msg("WebSocket closed unexpectedly")
			}
			return
		}
	}
}

func (c *Client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.queue:
			if !ok {
				_ = c.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if msg.Type == summaryInvalidatedType {
				c.invalidationQueued.Store(false)
			}
			if err := c.write(websocket.TextMessage, msg.Data); err != nil {
				c.log.Warn().Err(err).Str("event_type", msg.Type).Msg("WebSocket write failed")
				return
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) write(messageType int, data []byte) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(messageType, data)
}
