package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/chatline/messenger-backend/internal/common"
	"github.com/chatline/messenger-backend/internal/domain"
	"github.com/chatline/messenger-backend/internal/repository"
)

// roomDelimiter joins the two sorted participant ids into a room id
const roomDelimiter = "_"

// RoomService resolves the conversation identity of an unordered pair
type RoomService interface {
	Resolve(ctx context.Context, a, b string, createIfAbsent bool) (string, bool, error)
}

type roomService struct {
	repo repository.RoomRepository
}

// NewRoomService creates a new RoomService
func NewRoomService(repo repository.RoomRepository) RoomService {
	return &roomService{repo: repo}
}

// Resolve returns the room id for {a, b}. The order of a and b does not matter.
// With createIfAbsent the room is created on first use; otherwise an absent
// room reports found == false.
func (s *roomService) Resolve(ctx context.Context, a, b string, createIfAbsent bool) (string, bool, error) {
	lo, hi := canonicalPair(a, b)

	room, err := s.repo.FindByParticipants(ctx, lo, hi)
	if err == nil {
		return room.ID, true, nil
	}
	if !errors.Is(err, common.ErrRoomNotFound) {
		return "", false, err
	}
	if !createIfAbsent {
		return "", false, nil
	}

	room = &domain.Room{
		ID:           RoomID(lo, hi),
		ParticipantA: lo,
		ParticipantB: hi,
	}
	err = s.repo.Create(ctx, room)
	if err == nil {
		return room.ID, true, nil
	}
	if !errors.Is(err, common.ErrDuplicate) {
		return "", false, err
	}

	// 동시 요청이 먼저 생성함 → 저장된 레코드 재조회
	existing, err := s.repo.FindByParticipants(ctx, lo, hi)
	if err != nil {
		return "", false, fmt.Errorf("re-read room after duplicate insert: %w", err)
	}
	return existing.ID, true, nil
}

// RoomID builds the canonical room id for a pair of participant ids
func RoomID(a, b string) string {
	lo, hi := canonicalPair(a, b)
	return lo + roomDelimiter + hi
}

func canonicalPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}
