package service

import (
	"context"
	"fmt"

	"github.com/chatline/messenger-backend/internal/common"
	"github.com/chatline/messenger-backend/internal/domain"
	"github.com/chatline/messenger-backend/internal/repository"
)

// StatusService delivery status of a directed sender → recipient pair
type StatusService interface {
	CountPending(ctx context.Context, senderID, recipientID string) (int64, error)
	Transition(ctx context.Context, senderID, recipientID string, status domain.MessageStatus) (int64, error)
}

type statusService struct {
	repo repository.MessageRepository
}

// NewStatusService creates a new StatusService
func NewStatusService(repo repository.MessageRepository) StatusService {
	return &statusService{repo: repo}
}

// CountPending counts messages not yet delivered
func (s *statusService) CountPending(ctx context.Context, senderID, recipientID string) (int64, error) {
	return s.repo.CountBySenderAndRecipientAndStatus(ctx, senderID, recipientID, domain.StatusReceived)
}

// Transition sets status on every message of the directed pair in one update
func (s *statusService) Transition(ctx context.Context, senderID, recipientID string, status domain.MessageStatus) (int64, error) {
	if !status.Valid() {
		return 0, fmt.Errorf("%w: %q", common.ErrInvalidStatus, status)
	}
	return s.repo.UpdateStatuses(ctx, senderID, recipientID, status)
}
