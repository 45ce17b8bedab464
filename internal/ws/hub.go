package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/chatline/messenger-backend/internal/domain"
	pkglogger "github.com/chatline/messenger-backend/pkg/logger"
)

// Event types pushed to clients
const (
	EventChatNotification = "chat_notification"
	EventMessageSaved     = "message_saved"
	EventError            = "error"
)

// 허브 이벤트 큐 크기 (가득 차면 드롭)
const queueSize = 256

// Event represents a real-time event sent via WebSocket
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Hub manages WebSocket clients and fans events out to members
type Hub struct {
	// Registered clients grouped by member ID
	clients map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client

	// Events for a specific member
	broadcast chan *targetedEvent

	mu     sync.RWMutex
	ctx    context.Context
	cancel context.CancelFunc
}

type targetedEvent struct {
	MemberID string
	Event    *Event
}

// NewHub creates a new Hub
func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *targetedEvent, queueSize),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.ctx.Done():
		client.close()
	}
}

func (h *Hub) remove(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.ctx.Done():
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.memberID] == nil {
				h.clients[client.memberID] = make(map[*Client]bool)
			}
			h.clients[client.memberID][client] = true
			h.mu.Unlock()
			connectionsActive.Inc()

		case client := <-h.unregister:
			h.mu.Lock()
			h.drop(client)
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.deliver(msg)

		case <-h.ctx.Done():
			h.mu.Lock()
			for _, clients := range h.clients {
				for client := range clients {
					h.drop(client)
				}
			}
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) deliver(msg *targetedEvent) {
	data, err := json.Marshal(msg.Event)
	if err != nil {
		pkglogger.GetLogger().Error().Err(err).Str("type", msg.Event.Type).Msg("ws event encode failed")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[msg.MemberID]
	if !ok || len(clients) == 0 {
		observe(msg.Event, resultOffline)
		return
	}
	for client := range clients {
		if !client.enqueue(data) {
			// 느린 클라이언트 연결 해제
			pkglogger.GetLogger().Debug().Str("member_id", msg.MemberID).Msg("ws client too slow, disconnecting")
			h.drop(client)
		}
	}
	observe(msg.Event, resultDelivered)
}

// drop removes client from the registry and closes its send queue. Caller holds mu.
func (h *Hub) drop(client *Client) {
	clients, ok := h.clients[client.memberID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	client.close()
	connectionsActive.Dec()
	if len(clients) == 0 {
		delete(h.clients, client.memberID)
	}
}

// SendToMember queues an event for every connection of a member.
// It never blocks; when the queue is full the event is dropped.
func (h *Hub) SendToMember(memberID string, event *Event) bool {
	select {
	case h.broadcast <- &targetedEvent{MemberID: memberID, Event: event}:
		observe(event, resultQueued)
		return true
	default:
		observe(event, resultDropped)
		pkglogger.GetLogger().Debug().
			Str("member_id", memberID).
			Str("type", event.Type).
			Msg("ws queue full, event dropped")
		return false
	}
}

// Push notifies a recipient about a newly saved message
func (h *Hub) Push(recipientID string, n *domain.ChatNotification) {
	h.SendToMember(recipientID, &Event{Type: EventChatNotification, Payload: n})
}

// IsOnline reports whether the member has at least one live connection
func (h *Hub) IsOnline(memberID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[memberID]) > 0
}

// Stop gracefully shuts down the hub
func (h *Hub) Stop() {
	h.cancel()
}
