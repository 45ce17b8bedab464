package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chatline/messenger-backend/internal/common"
	"github.com/chatline/messenger-backend/internal/domain"
	"github.com/chatline/messenger-backend/internal/repository"
	pkglogger "github.com/chatline/messenger-backend/pkg/logger"
	"github.com/google/uuid"
)

// Notifier hands a new-message notification to the recipient's live connections.
// Implementations must not block the caller.
type Notifier interface {
	Push(recipientID string, n *domain.ChatNotification)
}

// MessageService chat message pipeline
type MessageService interface {
	Send(ctx context.Context, req *domain.SendMessageRequest) (*domain.Message, error)
	FindConversation(ctx context.Context, senderID, recipientID string) ([]*domain.Message, error)
	FindByID(ctx context.Context, id string) (*domain.Message, error)
	Edit(ctx context.Context, id, content string) (*domain.Message, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteByRoom(ctx context.Context, roomID string) (int64, error)
	DeleteByParticipants(ctx context.Context, senderID, recipientID string) (int64, error)
}

type messageService struct {
	repo     repository.MessageRepository
	rooms    RoomService
	notifier Notifier
	now      func() time.Time
}

// NewMessageService creates a new MessageService. notifier may be nil.
func NewMessageService(repo repository.MessageRepository, rooms RoomService, notifier Notifier) MessageService {
	return &messageService{
		repo:     repo,
		rooms:    rooms,
		notifier: notifier,
		now:      time.Now,
	}
}

// Send persists a message and then notifies the recipient
func (s *messageService) Send(ctx context.Context, req *domain.SendMessageRequest) (*domain.Message, error) {
	if err := validateSend(req); err != nil {
		return nil, err
	}

	roomID, _, err := s.rooms.Resolve(ctx, req.SenderID, req.RecipientID, true)
	if err != nil {
		return nil, fmt.Errorf("resolve room: %w", err)
	}

	ts := req.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}

	msg := &domain.Message{
		ID:            uuid.NewString(),
		RoomID:        roomID,
		SenderID:      req.SenderID,
		RecipientID:   req.RecipientID,
		SenderName:    req.SenderName,
		RecipientName: req.RecipientName,
		Content:       req.Content,
		Timestamp:     ts.UTC(),
		Status:        domain.StatusReceived,
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("save message: %w", err)
	}

	// 저장 이후에만 알림 (실패해도 발신자에게 영향 없음)
	if s.notifier != nil {
		s.notifier.Push(msg.RecipientID, &domain.ChatNotification{
			ID:         msg.ID,
			SenderID:   msg.SenderID,
			SenderName: msg.SenderName,
		})
	}

	pkglogger.Ctx(ctx).Debug().
		Str("message_id", msg.ID).
		Str("room_id", roomID).
		Msg("message saved")

	return msg, nil
}

// FindConversation returns the room history of the pair and marks
// senderID → recipientID messages as delivered
func (s *messageService) FindConversation(ctx context.Context, senderID, recipientID string) ([]*domain.Message, error) {
	roomID, found, err := s.rooms.Resolve(ctx, senderID, recipientID, false)
	if err != nil {
		return nil, fmt.Errorf("resolve room: %w", err)
	}
	if !found {
		return []*domain.Message{}, nil
	}

	messages, err := s.repo.FindByRoomID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	if len(messages) == 0 {
		return messages, nil
	}

	if _, err := s.repo.UpdateStatuses(ctx, senderID, recipientID, domain.StatusDelivered); err != nil {
		return nil, fmt.Errorf("mark delivered: %w", err)
	}
	for _, m := range messages {
		if m.SenderID == senderID && m.RecipientID == recipientID {
			m.Status = domain.StatusDelivered
		}
	}
	return messages, nil
}

// FindByID returns a single message, marking it delivered
func (s *messageService) FindByID(ctx context.Context, id string) (*domain.Message, error) {
	msg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if msg.Status != domain.StatusDelivered {
		if err := s.repo.UpdateStatus(ctx, id, domain.StatusDelivered); err != nil {
			return nil, fmt.Errorf("mark delivered: %w", err)
		}
		msg.Status = domain.StatusDelivered
	}
	return msg, nil
}

// Edit replaces the content of a message. Nothing else changes.
func (s *messageService) Edit(ctx context.Context, id, content string) (*domain.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content is required", common.ErrInvalidInput)
	}
	msg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateContent(ctx, id, content); err != nil {
		return nil, fmt.Errorf("update content: %w", err)
	}
	msg.Content = content
	return msg, nil
}

func (s *messageService) DeleteByID(ctx context.Context, id string) error {
	return s.repo.DeleteByID(ctx, id)
}

// DeleteByRoom removes every message of the room; the room itself stays
func (s *messageService) DeleteByRoom(ctx context.Context, roomID string) (int64, error) {
	return s.repo.DeleteByRoomID(ctx, roomID)
}

func (s *messageService) DeleteByParticipants(ctx context.Context, senderID, recipientID string) (int64, error) {
	return s.repo.DeleteBySenderAndRecipient(ctx, senderID, recipientID)
}

func validateSend(req *domain.SendMessageRequest) error {
	if req == nil {
		return fmt.Errorf("%w: empty request", common.ErrInvalidInput)
	}
	switch {
	case req.SenderID == "":
		return fmt.Errorf("%w: sender_id is required", common.ErrInvalidInput)
	case req.RecipientID == "":
		return fmt.Errorf("%w: recipient_id is required", common.ErrInvalidInput)
	case strings.TrimSpace(req.Content) == "":
		return fmt.Errorf("%w: content is required", common.ErrInvalidInput)
	case req.SenderID == req.RecipientID:
		return fmt.Errorf("%w: cannot send a message to yourself", common.ErrInvalidInput)
	}
	return nil
}
