package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/chatline/messenger-backend/internal/common"
	"github.com/chatline/messenger-backend/internal/domain"
	"github.com/chatline/messenger-backend/internal/migration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, migration.Run(db, true))
	return db
}

func newMessage(id, sender, recipient string, at time.Time) *domain.Message {
	return &domain.Message{
		ID:          id,
		RoomID:      sender + "_" + recipient,
		SenderID:    sender,
		RecipientID: recipient,
		Content:     "content " + id,
		Timestamp:   at,
		Status:      domain.StatusReceived,
	}
}

func TestRoomRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewRoomRepository(newTestDB(t))

	_, err := repo.FindByParticipants(ctx, "alice", "bob")
	assert.ErrorIs(t, err, common.ErrRoomNotFound)

	require.NoError(t, repo.Create(ctx, &domain.Room{ID: "alice_bob", ParticipantA: "alice", ParticipantB: "bob"}))

	room, err := repo.FindByParticipants(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, "alice_bob", room.ID)
}

func TestRoomRepository_DuplicatePair(t *testing.T) {
	ctx := context.Background()
	repo := NewRoomRepository(newTestDB(t))

	require.NoError(t, repo.Create(ctx, &domain.Room{ID: "alice_bob", ParticipantA: "alice", ParticipantB: "bob"}))
	err := repo.Create(ctx, &domain.Room{ID: "other", ParticipantA: "alice", ParticipantB: "bob"})
	assert.ErrorIs(t, err, common.ErrDuplicate)
}

func TestMessageRepository_StatusLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewMessageRepository(newTestDB(t))
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, newMessage("m2", "alice", "bob", base.Add(time.Minute))))
	require.NoError(t, repo.Create(ctx, newMessage("m1", "alice", "bob", base)))
	bobToAlice := newMessage("m3", "bob", "alice", base.Add(2*time.Minute))
	bobToAlice.RoomID = "alice_bob"
	require.NoError(t, repo.Create(ctx, bobToAlice))

	messages, err := repo.FindByRoomID(ctx, "alice_bob")
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "m1", messages[0].ID)
	assert.Equal(t, "m2", messages[1].ID)

	count, err := repo.CountBySenderAndRecipientAndStatus(ctx, "alice", "bob", domain.StatusReceived)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	n, err := repo.UpdateStatuses(ctx, "alice", "bob", domain.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// directed: bob → alice is untouched
	count, err = repo.CountBySenderAndRecipientAndStatus(ctx, "bob", "alice", domain.StatusReceived)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// second transition is a no-op
	n, err = repo.UpdateStatuses(ctx, "alice", "bob", domain.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestMessageRepository_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewMessageRepository(newTestDB(t))
	now := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, repo.Create(ctx, newMessage("m1", "alice", "bob", now)))
	require.NoError(t, repo.UpdateContent(ctx, "m1", "edited"))

	msg, err := repo.FindByID(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "edited", msg.Content)
	assert.Equal(t, domain.StatusReceived, msg.Status)

	require.NoError(t, repo.DeleteByID(ctx, "m1"))
	_, err = repo.FindByID(ctx, "m1")
	assert.ErrorIs(t, err, common.ErrMessageNotFound)

	// deleting again is not an error
	assert.NoError(t, repo.DeleteByID(ctx, "m1"))

	require.NoError(t, repo.Create(ctx, newMessage("m2", "alice", "bob", now)))
	require.NoError(t, repo.Create(ctx, newMessage("m3", "alice", "bob", now)))
	n, err := repo.DeleteBySenderAndRecipient(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = repo.DeleteByRoomID(ctx, "alice_bob")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestUserRepository_UniqueIndexes(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	alice := &domain.User{ID: "u1", Username: "alice", Email: "alice@example.com", Password: "x", Role: domain.RoleUser, Active: true}
	require.NoError(t, repo.Create(ctx, alice))

	exists, err := repo.ExistsByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	dupName := &domain.User{ID: "u2", Username: "alice", Email: "other@example.com", Password: "x", Role: domain.RoleUser}
	assert.ErrorIs(t, repo.Create(ctx, dupName), common.ErrDuplicate)

	dupEmail := &domain.User{ID: "u3", Username: "alice2", Email: "alice@example.com", Password: "x", Role: domain.RoleUser}
	assert.ErrorIs(t, repo.Create(ctx, dupEmail), common.ErrDuplicate)
}

func TestUserRepository_ProfileAndAddresses(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	require.NoError(t, repo.Create(ctx, &domain.User{
		ID: "u1", Username: "alice", Email: "alice@example.com", Password: "x",
		Role: domain.RoleUser, Active: true, DisplayName: "Alice",
	}))
	require.NoError(t, repo.AddAddress(ctx, "u1", &domain.Address{Country: "KR", City: "Seoul"}))

	user, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, user.Addresses, 1)
	assert.Equal(t, "Seoul", user.Addresses[0].City)

	user.DisplayName = "Alice Kim"
	require.NoError(t, repo.Update(ctx, user))

	found, err := repo.FindByDisplayName(ctx, "Alice Kim")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "u1", found[0].ID)

	require.NoError(t, repo.DeleteByID(ctx, "u1"))
	_, err = repo.FindByID(ctx, "u1")
	assert.ErrorIs(t, err, common.ErrUserNotFound)
}
