package repository

import (
	"context"

	"github.com/chatline/messenger-backend/internal/common"
	"github.com/chatline/messenger-backend/internal/domain"
	"gorm.io/gorm"
)

// MessageRepository chat message data access
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	FindByID(ctx context.Context, id string) (*domain.Message, error)
	FindByRoomID(ctx context.Context, roomID string) ([]*domain.Message, error)
	UpdateContent(ctx context.Context, id, content string) error
	UpdateStatus(ctx context.Context, id string, status domain.MessageStatus) error
	// UpdateStatuses sets status on every message of the directed pair in one statement
	UpdateStatuses(ctx context.Context, senderID, recipientID string, status domain.MessageStatus) (int64, error)
	CountBySenderAndRecipientAndStatus(ctx context.Context, senderID, recipientID string, status domain.MessageStatus) (int64, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteByRoomID(ctx context.Context, roomID string) (int64, error)
	DeleteBySenderAndRecipient(ctx context.Context, senderID, recipientID string) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, msg *domain.Message) error {
	return translate(r.db.WithContext(ctx).Create(msg).Error, common.ErrMessageNotFound, "create message")
}

func (r *messageRepository) FindByID(ctx context.Context, id string) (*domain.Message, error) {
	var msg domain.Message
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&msg).Error; err != nil {
		return nil, translate(err, common.ErrMessageNotFound, "find message")
	}
	return &msg, nil
}

func (r *messageRepository) FindByRoomID(ctx context.Context, roomID string) ([]*domain.Message, error) {
	var messages []*domain.Message
	err := r.db.WithContext(ctx).Where("room_id = ?", roomID).
		Order("timestamp ASC, id ASC").Find(&messages).Error
	return messages, translate(err, common.ErrMessageNotFound, "find messages by room")
}

func (r *messageRepository) UpdateContent(ctx context.Context, id, content string) error {
	err := r.db.WithContext(ctx).Model(&domain.Message{}).Where("id = ?", id).
		Update("content", content).Error
	return translate(err, common.ErrMessageNotFound, "update message content")
}

func (r *messageRepository) UpdateStatus(ctx context.Context, id string, status domain.MessageStatus) error {
	err := r.db.WithContext(ctx).Model(&domain.Message{}).Where("id = ?", id).
		Update("status", status).Error
	return translate(err, common.ErrMessageNotFound, "update message status")
}

func (r *messageRepository) UpdateStatuses(ctx context.Context, senderID, recipientID string, status domain.MessageStatus) (int64, error) {
	result := r.db.WithContext(ctx).Model(&domain.Message{}).
		Where("sender_id = ? AND recipient_id = ? AND status <> ?", senderID, recipientID, status).
		Update("status", status)
	return result.RowsAffected, translate(result.Error, common.ErrMessageNotFound, "update message statuses")
}

func (r *messageRepository) CountBySenderAndRecipientAndStatus(ctx context.Context, senderID, recipientID string, status domain.MessageStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Message{}).
		Where("sender_id = ? AND recipient_id = ? AND status = ?", senderID, recipientID, status).
		Count(&count).Error
	return count, translate(err, common.ErrMessageNotFound, "count messages")
}

func (r *messageRepository) DeleteByID(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Message{}).Error
	return translate(err, common.ErrMessageNotFound, "delete message")
}

func (r *messageRepository) DeleteByRoomID(ctx context.Context, roomID string) (int64, error) {
	result := r.db.WithContext(ctx).Where("room_id = ?", roomID).Delete(&domain.Message{})
	return result.RowsAffected, translate(result.Error, common.ErrMessageNotFound, "delete messages by room")
}

func (r *messageRepository) DeleteBySenderAndRecipient(ctx context.Context, senderID, recipientID string) (int64, error) {
	result := r.db.WithContext(ctx).Where("sender_id = ? AND recipient_id = ?", senderID, recipientID).Delete(&domain.Message{})
	return result.RowsAffected, translate(result.Error, common.ErrMessageNotFound, "delete messages by pair")
}
