package domain

import "time"

// Room identity of a two-party conversation.
// One record per unordered pair: ParticipantA < ParticipantB.
type Room struct {
	ID           string    `gorm:"column:id;primaryKey;type:varchar(80)" bson:"_id" json:"id"`
	ParticipantA string    `gorm:"column:participant_a;type:varchar(36);not null;uniqueIndex:idx_rooms_pair,priority:1" bson:"participant_a" json:"participant_a"`
	ParticipantB string    `gorm:"column:participant_b;type:varchar(36);not null;uniqueIndex:idx_rooms_pair,priority:2" bson:"participant_b" json:"participant_b"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" bson:"created_at" json:"created_at"`
}

func (Room) TableName() string {
	return "chat_rooms"
}
