package repository

import (
	"context"

	"github.com/chatline/messenger-backend/internal/common"
	"github.com/chatline/messenger-backend/internal/domain"
	"gorm.io/gorm"
)

// RoomRepository chat room data access.
// Participants are expected in canonical order (a < b).
type RoomRepository interface {
	FindByParticipants(ctx context.Context, a, b string) (*domain.Room, error)
	// Create returns common.ErrDuplicate when the pair already has a room
	Create(ctx context.Context, room *domain.Room) error
}

type roomRepository struct {
	db *gorm.DB
}

// NewRoomRepository creates a new RoomRepository
func NewRoomRepository(db *gorm.DB) RoomRepository {
	return &roomRepository{db: db}
}

func (r *roomRepository) FindByParticipants(ctx context.Context, a, b string) (*domain.Room, error) {
	var room domain.Room
	err := r.db.WithContext(ctx).
		Where("participant_a = ? AND participant_b = ?", a, b).
		First(&room).Error
	if err != nil {
		return nil, translate(err, common.ErrRoomNotFound, "find room")
	}
	return &room, nil
}

func (r *roomRepository) Create(ctx context.Context, room *domain.Room) error {
	return translate(r.db.WithContext(ctx).Create(room).Error, common.ErrRoomNotFound, "create room")
}
