package repository

import (
	"context"
	"errors"

	"github.com/chatline/messenger-backend/internal/domain"
	"github.com/chatline/messenger-backend/pkg/cache"
	pkglogger "github.com/chatline/messenger-backend/pkg/logger"
)

// cachedUser is the cached form of domain.User.
// domain.User hides the password hash from JSON, so it is carried explicitly.
type cachedUser struct {
	User         domain.User `json:"user"`
	PasswordHash string      `json:"password_hash"`
}

// CachedUserRepository 캐시가 적용된 사용자 저장소.
// FindByUsername is on the auth gate hot path, so lookups go through Redis first.
type CachedUserRepository struct {
	UserRepository
	cache cache.Service
}

// NewCachedUserRepository 캐시 적용 사용자 저장소 생성
func NewCachedUserRepository(repo UserRepository, cacheService cache.Service) UserRepository {
	if cacheService == nil || !cacheService.IsAvailable() {
		return repo
	}
	return &CachedUserRepository{
		UserRepository: repo,
		cache:          cacheService,
	}
}

// FindByUsername 캐시 조회 후 DB fallback
func (r *CachedUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	if user, ok := r.get(ctx, cache.UserByNameKey(username)); ok {
		return user, nil
	}
	user, err := r.UserRepository.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	r.put(ctx, user)
	return user, nil
}

// FindByID 캐시 조회 후 DB fallback
func (r *CachedUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if user, ok := r.get(ctx, cache.UserByIDKey(id)); ok {
		return user, nil
	}
	user, err := r.UserRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.put(ctx, user)
	return user, nil
}

// Update 사용자 수정 (캐시 무효화)
func (r *CachedUserRepository) Update(ctx context.Context, user *domain.User) error {
	// username may change, so drop the entry under the old name too
	old, _ := r.UserRepository.FindByID(ctx, user.ID) //nolint:errcheck
	if err := r.UserRepository.Update(ctx, user); err != nil {
		return err
	}
	r.invalidate(ctx, user)
	if old != nil {
		r.invalidate(ctx, old)
	}
	return nil
}

// AddAddress 주소 추가 (캐시 무효화)
func (r *CachedUserRepository) AddAddress(ctx context.Context, userID string, address *domain.Address) error {
	if err := r.UserRepository.AddAddress(ctx, userID, address); err != nil {
		return err
	}
	if user, err := r.UserRepository.FindByID(ctx, userID); err == nil {
		r.invalidate(ctx, user)
	}
	return nil
}

// DeleteByID 사용자 삭제 (캐시 무효화)
func (r *CachedUserRepository) DeleteByID(ctx context.Context, id string) error {
	user, _ := r.UserRepository.FindByID(ctx, id) //nolint:errcheck
	if err := r.UserRepository.DeleteByID(ctx, id); err != nil {
		return err
	}
	if user != nil {
		r.invalidate(ctx, user)
	} else {
		r.cache.Delete(ctx, cache.UserByIDKey(id)) //nolint:errcheck
	}
	return nil
}

func (r *CachedUserRepository) get(ctx context.Context, key string) (*domain.User, bool) {
	var cu cachedUser
	if err := r.cache.Get(ctx, key, &cu); err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			pkglogger.GetLogger().Warn().Err(err).Str("key", key).Msg("user cache read failed")
		}
		return nil, false
	}
	user := cu.User
	user.Password = cu.PasswordHash
	return &user, true
}

func (r *CachedUserRepository) put(ctx context.Context, user *domain.User) {
	cu := cachedUser{User: *user, PasswordHash: user.Password}
	for _, key := range []string{cache.UserByNameKey(user.Username), cache.UserByIDKey(user.ID)} {
		if err := r.cache.Set(ctx, key, cu, cache.TTLUser); err != nil {
			pkglogger.GetLogger().Warn().Err(err).Str("key", key).Msg("user cache write failed")
		}
	}
}

func (r *CachedUserRepository) invalidate(ctx context.Context, user *domain.User) {
	if err := r.cache.Delete(ctx, cache.UserByNameKey(user.Username), cache.UserByIDKey(user.ID)); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Str("user_id", user.ID).Msg("user cache invalidation failed")
	}
}
