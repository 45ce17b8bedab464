package domain

import "time"

// MessageStatus delivery state of a chat message
type MessageStatus string

// RECEIVED → DELIVERED, one direction only
const (
	StatusReceived  MessageStatus = "RECEIVED"
	StatusDelivered MessageStatus = "DELIVERED"
)

// Valid reports whether s is a known status
func (s MessageStatus) Valid() bool {
	return s == StatusReceived || s == StatusDelivered
}

// Message a point-to-point chat message
type Message struct {
	ID            string        `gorm:"column:id;primaryKey;type:varchar(36)" bson:"_id" json:"id"`
	RoomID        string        `gorm:"column:room_id;type:varchar(80);index:idx_messages_room,priority:1" bson:"room_id" json:"room_id"`
	SenderID      string        `gorm:"column:sender_id;type:varchar(36);index:idx_messages_pair,priority:1" bson:"sender_id" json:"sender_id"`
	RecipientID   string        `gorm:"column:recipient_id;type:varchar(36);index:idx_messages_pair,priority:2" bson:"recipient_id" json:"recipient_id"`
	SenderName    string        `gorm:"column:sender_name;type:varchar(100)" bson:"sender_name" json:"sender_name"`
	RecipientName string        `gorm:"column:recipient_name;type:varchar(100)" bson:"recipient_name" json:"recipient_name"`
	Content       string        `gorm:"column:content;type:text" bson:"content" json:"content"`
	Timestamp     time.Time     `gorm:"column:timestamp;index:idx_messages_room,priority:2" bson:"timestamp" json:"timestamp"`
	Status        MessageStatus `gorm:"column:status;type:varchar(16);not null" bson:"status" json:"status"`
}

func (Message) TableName() string {
	return "chat_messages"
}

// SendMessageRequest inbound send operation (REST body and WebSocket chat frame)
type SendMessageRequest struct {
	SenderID      string    `json:"sender_id"`
	RecipientID   string    `json:"recipient_id" binding:"required"`
	SenderName    string    `json:"sender_name"`
	RecipientName string    `json:"recipient_name"`
	Content       string    `json:"content" binding:"required,notblank"`
	Timestamp     time.Time `json:"timestamp"`
}

// EditMessageRequest replaces the content of a message
type EditMessageRequest struct {
	Content string `json:"content" binding:"required,notblank"`
}

// UpdateStatusRequest bulk status transition for a directed pair
type UpdateStatusRequest struct {
	Status MessageStatus `json:"status" binding:"required,message_status"`
}

// ChatNotification payload pushed to the recipient's live connection
type ChatNotification struct {
	ID         string `json:"id"`
	SenderID   string `json:"sender_id"`
	SenderName string `json:"sender_name"`
}

// PendingCount unread badge for a directed pair
type PendingCount struct {
	SenderID    string `json:"sender_id"`
	RecipientID string `json:"recipient_id"`
	Count       int64  `json:"count"`
}
