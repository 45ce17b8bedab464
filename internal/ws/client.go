package ws

import (
	"encoding/json"
	"sync"
	"time"

	pkglogger "github.com/chatline/messenger-backend/pkg/logger"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
	sendBufferSize = 64
)

// Frame an inbound client frame, e.g. {"type":"chat","payload":{...}}
type Frame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// FrameHandler processes one inbound frame of a connection
type FrameHandler func(c *Client, frame *Frame)

// Client represents a single WebSocket connection
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	memberID string
	name     string
	onFrame  FrameHandler

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

// NewClient creates a new WebSocket client. onFrame may be nil (push only).
func NewClient(hub *Hub, conn *websocket.Conn, memberID, name string, onFrame FrameHandler) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		memberID: memberID,
		name:     name,
		onFrame:  onFrame,
		send:     make(chan []byte, sendBufferSize),
	}
}

// MemberID principal id the connection is registered under
func (c *Client) MemberID() string { return c.memberID }

// Name display name of the principal
func (c *Client) Name() string { return c.name }

// Send queues an event for this connection only
func (c *Client) Send(event *Event) bool {
	data, err := json.Marshal(event)
	if err != nil {
		return false
	}
	return c.enqueue(data)
}

// SendError reports a failure back to the client as an error event
func (c *Client) SendError(message string) {
	c.Send(&Event{Type: EventError, Payload: map[string]string{"message": message}})
}

func (c *Client) enqueue(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// ReadPump reads inbound frames and hands them to the frame handler
func (c *Client) ReadPump() {
	defer func() {
		c.hub.remove(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				pkglogger.GetLogger().Debug().Err(err).Str("member_id", c.memberID).Msg("ws read closed")
			}
			break
		}
		if c.onFrame == nil {
			continue
		}

		var frame Frame
		if err := json.Unmarshal(data, &frame); err != nil || frame.Type == "" {
			c.SendError("malformed frame")
			continue
		}
		c.onFrame(c, &frame)
	}
}

// WritePump sends queued events and keeps the connection alive with pings
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message) //nolint:errcheck
			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
