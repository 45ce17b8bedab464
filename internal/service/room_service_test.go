package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/chatline/messenger-backend/internal/common"
	"github.com/chatline/messenger-backend/internal/domain"
	"github.com/chatline/messenger-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRoomID_OrderIndependent(t *testing.T) {
	assert.Equal(t, "alice_bob", RoomID("alice", "bob"))
	assert.Equal(t, "alice_bob", RoomID("bob", "alice"))
}

func TestRoomService_Resolve(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewRoomService(repository.NewRoomRepository(db))

	id, found, err := svc.Resolve(ctx, "alice", "bob", false)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, id)

	id, found, err = svc.Resolve(ctx, "bob", "alice", true)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "alice_bob", id)

	for _, pair := range [][2]string{{"alice", "bob"}, {"bob", "alice"}} {
		got, found, err := svc.Resolve(ctx, pair[0], pair[1], false)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, id, got)
	}

	var rooms int64
	require.NoError(t, db.Model(&domain.Room{}).Count(&rooms).Error)
	assert.Equal(t, int64(1), rooms)
}

func TestRoomService_ConcurrentCreateYieldsOneRoom(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewRoomService(repository.NewRoomRepository(db))

	const workers = 16
	ids := make([]string, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a, b := "alice", "bob"
			if i%2 == 1 {
				a, b = b, a
			}
			ids[i], _, errs[i] = svc.Resolve(ctx, a, b, true)
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "alice_bob", ids[i])
	}

	var rooms int64
	require.NoError(t, db.Model(&domain.Room{}).Count(&rooms).Error)
	assert.Equal(t, int64(1), rooms)
}

func TestRoomService_DuplicateInsertRereads(t *testing.T) {
	ctx := context.Background()
	repo := new(mockRoomRepo)
	stored := &domain.Room{ID: "alice_bob", ParticipantA: "alice", ParticipantB: "bob"}

	repo.On("FindByParticipants", ctx, "alice", "bob").Return(nil, common.ErrRoomNotFound).Once()
	repo.On("Create", ctx, mock.AnythingOfType("*domain.Room")).Return(common.ErrDuplicate).Once()
	repo.On("FindByParticipants", ctx, "alice", "bob").Return(stored, nil).Once()

	id, found, err := NewRoomService(repo).Resolve(ctx, "bob", "alice", true)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "alice_bob", id)
	repo.AssertExpectations(t)
}

func TestRoomService_StoreFailure(t *testing.T) {
	ctx := context.Background()
	repo := new(mockRoomRepo)
	boom := errors.New("connection refused")
	repo.On("FindByParticipants", ctx, "alice", "bob").Return(nil, boom)

	_, found, err := NewRoomService(repo).Resolve(ctx, "alice", "bob", true)
	assert.ErrorIs(t, err, boom)
	assert.False(t, found)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
