package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chatline/messenger-backend/internal/common"
	"github.com/chatline/messenger-backend/internal/domain"
	"github.com/chatline/messenger-backend/internal/repository"
	pkglogger "github.com/chatline/messenger-backend/pkg/logger"
	"github.com/chatline/messenger-backend/pkg/storage"
)

// AvatarStore object storage used for profile pictures (storage.Bucket)
type AvatarStore interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string, size int64) (*storage.Object, error)
	Remove(ctx context.Context, key string) error
}

// AvatarUpload an uploaded profile picture
type AvatarUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UserService user directory operations
type UserService interface {
	Me(ctx context.Context, userID string) (*domain.UserSummary, error)
	FindAll(ctx context.Context) ([]*domain.User, error)
	Summaries(ctx context.Context, excludeUserID string) ([]*domain.UserSummary, error)
	FindByDisplayName(ctx context.Context, name string) ([]*domain.UserSummary, error)
	Summary(ctx context.Context, username string) (*domain.UserSummary, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	GetProfile(ctx context.Context, id string) (*domain.UserProfile, error)
	UpdateProfile(ctx context.Context, id string, req *domain.UserProfile) (*domain.UserProfile, error)
	Delete(ctx context.Context, id string) error
	AddAddress(ctx context.Context, id string, address *domain.Address) (*domain.UserProfile, error)
	UploadAvatar(ctx context.Context, id string, upload *AvatarUpload) (*domain.UserProfile, error)
}

type userService struct {
	users   repository.UserRepository
	avatars AvatarStore
}

// NewUserService creates a new UserService. avatars may be nil when storage is disabled.
func NewUserService(users repository.UserRepository, avatars AvatarStore) UserService {
	return &userService{users: users, avatars: avatars}
}

func (s *userService) Me(ctx context.Context, userID string) (*domain.UserSummary, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.ToSummary(), nil
}

func (s *userService) FindAll(ctx context.Context) ([]*domain.User, error) {
	return s.users.FindAll(ctx)
}

// Summaries lists every user except excludeUserID
func (s *userService) Summaries(ctx context.Context, excludeUserID string) ([]*domain.UserSummary, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]*domain.UserSummary, 0, len(users))
	for _, u := range users {
		if u.ID == excludeUserID {
			continue
		}
		summaries = append(summaries, u.ToSummary())
	}
	return summaries, nil
}

func (s *userService) FindByDisplayName(ctx context.Context, name string) ([]*domain.UserSummary, error) {
	users, err := s.users.FindByDisplayName(ctx, name)
	if err != nil {
		return nil, err
	}
	summaries := make([]*domain.UserSummary, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, u.ToSummary())
	}
	return summaries, nil
}

func (s *userService) Summary(ctx context.Context, username string) (*domain.UserSummary, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return user.ToSummary(), nil
}

func (s *userService) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.users.FindByUsername(ctx, username)
}

func (s *userService) GetProfile(ctx context.Context, id string) (*domain.UserProfile, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.ToProfile(), nil
}

// UpdateProfile replaces username, email, display name and picture URL
func (s *userService) UpdateProfile(ctx context.Context, id string, req *domain.UserProfile) (*domain.UserProfile, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Username != user.Username {
		if err := s.ensureFree(ctx, s.users.ExistsByUsername, req.Username, common.ErrUsernameTaken); err != nil {
			return nil, err
		}
	}
	if !strings.EqualFold(req.Email, user.Email) {
		if err := s.ensureFree(ctx, s.users.ExistsByEmail, req.Email, common.ErrEmailTaken); err != nil {
			return nil, err
		}
	}

	previous := *user
	user.Username = req.Username
	user.Email = req.Email
	user.DisplayName = req.DisplayName
	user.ProfilePictureURL = req.ProfilePictureURL

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, common.ErrDuplicate) {
			return nil, s.conflictCause(ctx, &previous, req)
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user.ToProfile(), nil
}

func (s *userService) Delete(ctx context.Context, id string) error {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return err
	}
	return s.users.DeleteByID(ctx, id)
}

func (s *userService) AddAddress(ctx context.Context, id string, address *domain.Address) (*domain.UserProfile, error) {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return nil, err
	}
	address.ID = 0
	if err := s.users.AddAddress(ctx, id, address); err != nil {
		return nil, fmt.Errorf("add address: %w", err)
	}
	return s.GetProfile(ctx, id)
}

// UploadAvatar stores the picture and points the profile at it
func (s *userService) UploadAvatar(ctx context.Context, id string, upload *AvatarUpload) (*domain.UserProfile, error) {
	if s.avatars == nil {
		return nil, common.ErrStorageDisabled
	}
	if !strings.HasPrefix(upload.ContentType, "image/") {
		return nil, fmt.Errorf("%w: profile picture must be an image", common.ErrInvalidInput)
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := storage.ObjectKey("avatars/"+id, upload.Filename)
	object, err := s.avatars.Put(ctx, key, upload.Body, upload.ContentType, upload.Size)
	if err != nil {
		return nil, err
	}

	user.ProfilePictureURL = object.URL
	if err := s.users.Update(ctx, user); err != nil {
		// 업로드된 객체 정리 (DB 반영 실패)
		if derr := s.avatars.Remove(ctx, object.Key); derr != nil {
			pkglogger.Ctx(ctx).Warn().Err(derr).Str("key", object.Key).Msg("failed to remove orphaned avatar")
		}
		return nil, fmt.Errorf("update profile picture: %w", err)
	}
	return user.ToProfile(), nil
}

func (s *userService) ensureFree(ctx context.Context, exists func(context.Context, string) (bool, error), value string, taken error) error {
	ok, err := exists(ctx, value)
	if err != nil {
		return err
	}
	if ok {
		return taken
	}
	return nil
}

// conflictCause picks the descriptive error after a unique index violation
func (s *userService) conflictCause(ctx context.Context, previous *domain.User, req *domain.UserProfile) error {
	if req.Username != previous.Username {
		if taken, err := s.users.ExistsByUsername(ctx, req.Username); err == nil && taken {
			return common.ErrUsernameTaken
		}
	}
	if !strings.EqualFold(req.Email, previous.Email) {
		if taken, err := s.users.ExistsByEmail(ctx, req.Email); err == nil && taken {
			return common.ErrEmailTaken
		}
	}
	return common.ErrDuplicate
}
