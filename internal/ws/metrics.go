package ws

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultQueued    = "queued"
	resultDropped   = "dropped"
	resultDelivered = "delivered"
	resultOffline   = "offline"
)

var (
	notificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_notifications_total",
			Help: "Chat notifications handed to the WebSocket hub, by outcome",
		},
		[]string{"result"},
	)

	connectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ws_connections_active",
			Help: "Number of registered WebSocket connections",
		},
	)
)

// only chat notifications are counted; echoes and errors go straight to the client
func observe(event *Event, result string) {
	if event.Type != EventChatNotification {
		return
	}
	notificationsTotal.WithLabelValues(result).Inc()
}
