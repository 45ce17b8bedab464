package mongo

import (
	"context"

	"github.com/chatline/messenger-backend/internal/common"
	"github.com/chatline/messenger-backend/internal/domain"
	"github.com/chatline/messenger-backend/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type roomRepository struct {
	coll *mongo.Collection
}

// NewRoomRepository creates a MongoDB backed repository.RoomRepository
func NewRoomRepository(db *mongo.Database) repository.RoomRepository {
	return &roomRepository{coll: db.Collection(RoomsCollection)}
}

func (r *roomRepository) FindByParticipants(ctx context.Context, a, b string) (*domain.Room, error) {
	var room domain.Room
	err := r.coll.FindOne(ctx, bson.M{"participant_a": a, "participant_b": b}).Decode(&room)
	if err != nil {
		return nil, translate(err, common.ErrRoomNotFound, "find room")
	}
	return &room, nil
}

func (r *roomRepository) Create(ctx context.Context, room *domain.Room) error {
	_, err := r.coll.InsertOne(ctx, room)
	return translate(err, common.ErrRoomNotFound, "create room")
}
