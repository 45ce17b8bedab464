package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/chatline/messenger-backend/internal/common"
	"github.com/chatline/messenger-backend/internal/domain"
	"github.com/chatline/messenger-backend/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testUser(id, username string) *domain.User {
	return &domain.User{
		ID:          id,
		Username:    username,
		Email:       username + "@example.com",
		Role:        domain.RoleUser,
		Active:      true,
		DisplayName: strings.ToUpper(username[:1]) + username[1:],
	}
}

func TestUserService_SummariesExcludeSelf(t *testing.T) {
	ctx := context.Background()
	repo := new(mockUserRepo)
	repo.On("FindAll", ctx).Return([]*domain.User{testUser("u1", "alice"), testUser("u2", "bob"), testUser("u3", "carol")}, nil)

	summaries, err := NewUserService(repo, nil).Summaries(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "bob", summaries[0].Username)
	assert.Equal(t, "carol", summaries[1].Username)
}

func TestUserService_FindByDisplayName(t *testing.T) {
	ctx := context.Background()
	repo := new(mockUserRepo)
	repo.On("FindByDisplayName", ctx, "Bob").Return([]*domain.User{testUser("u2", "bob")}, nil)

	summaries, err := NewUserService(repo, nil).FindByDisplayName(ctx, "Bob")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "Bob", summaries[0].Name)
}

func TestUserService_UpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("updates fields", func(t *testing.T) {
		repo := new(mockUserRepo)
		repo.On("FindByID", ctx, "u1").Return(testUser("u1", "alice"), nil)
		repo.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return u.DisplayName == "Alice Kim" && u.Username == "alice"
		})).Return(nil)

		profile, err := NewUserService(repo, nil).UpdateProfile(ctx, "u1", &domain.UserProfile{
			Username: "alice", Email: "alice@example.com", DisplayName: "Alice Kim",
		})
		require.NoError(t, err)
		assert.Equal(t, "Alice Kim", profile.DisplayName)
		repo.AssertNotCalled(t, "ExistsByUsername", mock.Anything, mock.Anything)
	})

	t.Run("username taken", func(t *testing.T) {
		repo := new(mockUserRepo)
		repo.On("FindByID", ctx, "u1").Return(testUser("u1", "alice"), nil)
		repo.On("ExistsByUsername", ctx, "bob").Return(true, nil)

		_, err := NewUserService(repo, nil).UpdateProfile(ctx, "u1", &domain.UserProfile{
			Username: "bob", Email: "alice@example.com",
		})
		assert.ErrorIs(t, err, common.ErrUsernameTaken)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("index violation maps to email taken", func(t *testing.T) {
		repo := new(mockUserRepo)
		repo.On("FindByID", ctx, "u1").Return(testUser("u1", "alice"), nil)
		repo.On("ExistsByEmail", ctx, "bob@example.com").Return(false, nil).Once()
		repo.On("Update", ctx, mock.Anything).Return(common.ErrDuplicate)
		repo.On("ExistsByEmail", ctx, "bob@example.com").Return(true, nil).Once()

		_, err := NewUserService(repo, nil).UpdateProfile(ctx, "u1", &domain.UserProfile{
			Username: "alice", Email: "bob@example.com",
		})
		assert.ErrorIs(t, err, common.ErrEmailTaken)
	})

	t.Run("unknown user", func(t *testing.T) {
		repo := new(mockUserRepo)
		repo.On("FindByID", ctx, "nope").Return(nil, common.ErrUserNotFound)

		_, err := NewUserService(repo, nil).UpdateProfile(ctx, "nope", &domain.UserProfile{Username: "x"})
		assert.ErrorIs(t, err, common.ErrUserNotFound)
	})
}

func TestUserService_Delete(t *testing.T) {
	ctx := context.Background()
	repo := new(mockUserRepo)
	repo.On("FindByID", ctx, "u1").Return(testUser("u1", "alice"), nil)
	repo.On("DeleteByID", ctx, "u1").Return(nil)
	repo.On("FindByID", ctx, "u9").Return(nil, common.ErrUserNotFound)

	svc := NewUserService(repo, nil)
	assert.NoError(t, svc.Delete(ctx, "u1"))
	assert.ErrorIs(t, svc.Delete(ctx, "u9"), common.ErrUserNotFound)
	repo.AssertNumberOfCalls(t, "DeleteByID", 1)
}

func TestUserService_AddAddress(t *testing.T) {
	ctx := context.Background()
	withAddress := testUser("u1", "alice")
	withAddress.Addresses = []domain.Address{{ID: 1, City: "Busan"}}

	repo := new(mockUserRepo)
	repo.On("FindByID", ctx, "u1").Return(testUser("u1", "alice"), nil).Once()
	repo.On("AddAddress", ctx, "u1", mock.AnythingOfType("*domain.Address")).Return(nil)
	repo.On("FindByID", ctx, "u1").Return(withAddress, nil).Once()

	profile, err := NewUserService(repo, nil).AddAddress(ctx, "u1", &domain.Address{ID: 42, City: "Busan"})
	require.NoError(t, err)
	require.Len(t, profile.Addresses, 1)
	assert.Equal(t, "Busan", profile.Addresses[0].City)
}

func TestUserService_UploadAvatar(t *testing.T) {
	ctx := context.Background()
	upload := func() *AvatarUpload {
		return &AvatarUpload{Filename: "me.PNG", ContentType: "image/png", Size: 3, Body: strings.NewReader("png")}
	}

	t.Run("storage disabled", func(t *testing.T) {
		_, err := NewUserService(new(mockUserRepo), nil).UploadAvatar(ctx, "u1", upload())
		assert.ErrorIs(t, err, common.ErrStorageDisabled)
	})

	t.Run("rejects non-image", func(t *testing.T) {
		u := upload()
		u.ContentType = "application/pdf"
		_, err := NewUserService(new(mockUserRepo), new(mockAvatarStore)).UploadAvatar(ctx, "u1", u)
		assert.ErrorIs(t, err, common.ErrInvalidInput)
	})

	t.Run("stores object url", func(t *testing.T) {
		repo := new(mockUserRepo)
		store := new(mockAvatarStore)
		repo.On("FindByID", ctx, "u1").Return(testUser("u1", "alice"), nil)
		store.On("Put", ctx, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "avatars/u1/") && strings.HasSuffix(key, ".png")
		}), mock.Anything, "image/png", int64(3)).
			Return(&storage.Object{Key: "avatars/u1/x.png", URL: "https://cdn/avatars/u1/x.png"}, nil)
		repo.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return u.ProfilePictureURL == "https://cdn/avatars/u1/x.png"
		})).Return(nil)

		profile, err := NewUserService(repo, store).UploadAvatar(ctx, "u1", upload())
		require.NoError(t, err)
		assert.Equal(t, "https://cdn/avatars/u1/x.png", profile.ProfilePictureURL)
		store.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything)
	})

	t.Run("removes object when update fails", func(t *testing.T) {
		repo := new(mockUserRepo)
		store := new(mockAvatarStore)
		repo.On("FindByID", ctx, "u1").Return(testUser("u1", "alice"), nil)
		store.On("Put", ctx, mock.Anything, mock.Anything, "image/png", int64(3)).
			Return(&storage.Object{Key: "avatars/u1/x.png", URL: "https://bucket/avatars/u1/x.png"}, nil)
		repo.On("Update", ctx, mock.Anything).Return(errors.New("db down"))
		store.On("Remove", ctx, "avatars/u1/x.png").Return(nil)

		_, err := NewUserService(repo, store).UploadAvatar(ctx, "u1", upload())
		assert.Error(t, err)
		store.AssertExpectations(t)
	})
}
