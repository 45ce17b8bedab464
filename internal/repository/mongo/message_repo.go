package mongo

import (
	"context"

	"github.com/chatline/messenger-backend/internal/common"
	"github.com/chatline/messenger-backend/internal/domain"
	"github.com/chatline/messenger-backend/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type messageRepository struct {
	coll *mongo.Collection
}

// NewMessageRepository creates a MongoDB backed repository.MessageRepository
func NewMessageRepository(db *mongo.Database) repository.MessageRepository {
	return &messageRepository{coll: db.Collection(MessagesCollection)}
}

func pairFilter(senderID, recipientID string) bson.M {
	return bson.M{"sender_id": senderID, "recipient_id": recipientID}
}

func (r *messageRepository) Create(ctx context.Context, msg *domain.Message) error {
	_, err := r.coll.InsertOne(ctx, msg)
	return translate(err, common.ErrMessageNotFound, "create message")
}

func (r *messageRepository) FindByID(ctx context.Context, id string) (*domain.Message, error) {
	var msg domain.Message
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&msg); err != nil {
		return nil, translate(err, common.ErrMessageNotFound, "find message")
	}
	return &msg, nil
}

func (r *messageRepository) FindByRoomID(ctx context.Context, roomID string) ([]*domain.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"room_id": roomID}, opts)
	if err != nil {
		return nil, translate(err, common.ErrMessageNotFound, "find messages by room")
	}
	var messages []*domain.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, translate(err, common.ErrMessageNotFound, "decode messages")
	}
	return messages, nil
}

func (r *messageRepository) UpdateContent(ctx context.Context, id, content string) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"content": content}})
	return translate(err, common.ErrMessageNotFound, "update message content")
}

func (r *messageRepository) UpdateStatus(ctx context.Context, id string, status domain.MessageStatus) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	return translate(err, common.ErrMessageNotFound, "update message status")
}

func (r *messageRepository) UpdateStatuses(ctx context.Context, senderID, recipientID string, status domain.MessageStatus) (int64, error) {
	filter := pairFilter(senderID, recipientID)
	filter["status"] = bson.M{"$ne": status}
	result, err := r.coll.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return 0, translate(err, common.ErrMessageNotFound, "update message statuses")
	}
	return result.ModifiedCount, nil
}

func (r *messageRepository) CountBySenderAndRecipientAndStatus(ctx context.Context, senderID, recipientID string, status domain.MessageStatus) (int64, error) {
	filter := pairFilter(senderID, recipientID)
	filter["status"] = status
	count, err := r.coll.CountDocuments(ctx, filter)
	return count, translate(err, common.ErrMessageNotFound, "count messages")
}

func (r *messageRepository) DeleteByID(ctx context.Context, id string) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	return translate(err, common.ErrMessageNotFound, "delete message")
}

func (r *messageRepository) DeleteByRoomID(ctx context.Context, roomID string) (int64, error) {
	result, err := r.coll.DeleteMany(ctx, bson.M{"room_id": roomID})
	if err != nil {
		return 0, translate(err, common.ErrMessageNotFound, "delete messages by room")
	}
	return result.DeletedCount, nil
}

func (r *messageRepository) DeleteBySenderAndRecipient(ctx context.Context, senderID, recipientID string) (int64, error) {
	result, err := r.coll.DeleteMany(ctx, pairFilter(senderID, recipientID))
	if err != nil {
		return 0, translate(err, common.ErrMessageNotFound, "delete messages by pair")
	}
	return result.DeletedCount, nil
}
