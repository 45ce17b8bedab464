package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/chatline/messenger-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)
	return hub
}

func registered(t *testing.T, hub *Hub, memberID string) *Client {
	t.Helper()
	client := NewClient(hub, nil, memberID, memberID, nil)
	hub.Register(client)
	require.Eventually(t, func() bool { return hub.IsOnline(memberID) }, time.Second, 5*time.Millisecond)
	return client
}

func receive(t *testing.T, client *Client) *Event {
	t.Helper()
	select {
	case data, ok := <-client.send:
		require.True(t, ok, "send queue closed")
		var raw struct {
			Type    string                  `json:"type"`
			Payload domain.ChatNotification `json:"payload"`
		}
		require.NoError(t, json.Unmarshal(data, &raw))
		return &Event{Type: raw.Type, Payload: raw.Payload}
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return nil
	}
}

func TestHub_PushReachesEveryConnection(t *testing.T) {
	hub := startHub(t)
	phone := registered(t, hub, "bob")
	laptop := registered(t, hub, "bob")
	other := registered(t, hub, "carol")

	hub.Push("bob", &domain.ChatNotification{ID: "m1", SenderID: "alice", SenderName: "Alice"})

	for _, c := range []*Client{phone, laptop} {
		ev := receive(t, c)
		assert.Equal(t, EventChatNotification, ev.Type)
		assert.Equal(t, domain.ChatNotification{ID: "m1", SenderID: "alice", SenderName: "Alice"}, ev.Payload)
	}
	select {
	case <-other.send:
		t.Fatal("carol must not receive bob's notification")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_OfflineIsNoop(t *testing.T) {
	hub := startHub(t)
	assert.False(t, hub.IsOnline("bob"))
	assert.True(t, hub.SendToMember("bob", &Event{Type: EventChatNotification}))
}

func TestHub_PushNeverBlocks(t *testing.T) {
	// hub loop not running: nothing drains the queue
	hub := NewHub()
	defer hub.Stop()

	done := make(chan struct{})
	go func() {
		for i := 0; i < queueSize+10; i++ {
			hub.Push("bob", &domain.ChatNotification{ID: "m"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Push blocked on a full queue")
	}
	assert.False(t, hub.SendToMember("bob", &Event{Type: EventChatNotification}))
}

func TestHub_SlowClientDisconnected(t *testing.T) {
	hub := startHub(t)
	slow := registered(t, hub, "bob")

	for i := 0; i < sendBufferSize; i++ {
		require.True(t, slow.enqueue([]byte("{}")))
	}
	hub.Push("bob", &domain.ChatNotification{ID: "overflow"})

	assert.Eventually(t, func() bool { return !hub.IsOnline("bob") }, time.Second, 5*time.Millisecond)
	assert.False(t, slow.Send(&Event{Type: EventMessageSaved}))
}

func TestHub_UnregisterAndStop(t *testing.T) {
	hub := startHub(t)
	client := registered(t, hub, "bob")

	hub.remove(client)
	assert.Eventually(t, func() bool { return !hub.IsOnline("bob") }, time.Second, 5*time.Millisecond)

	// removing twice is harmless
	hub.remove(client)

	again := registered(t, hub, "bob")
	hub.Stop()
	assert.Eventually(t, func() bool { return !hub.IsOnline("bob") }, time.Second, 5*time.Millisecond)
	_, ok := <-again.send
	assert.False(t, ok)
}
