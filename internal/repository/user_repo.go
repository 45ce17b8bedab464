package repository

import (
	"context"

	"github.com/chatline/messenger-backend/internal/common"
	"github.com/chatline/messenger-backend/internal/domain"
	"gorm.io/gorm"
)

// UserRepository user directory data access.
// Username and email uniqueness is enforced by unique indexes;
// Create returns common.ErrDuplicate when one of them is violated.
type UserRepository interface {
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindAll(ctx context.Context) ([]*domain.User, error)
	FindByDisplayName(ctx context.Context, displayName string) ([]*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	AddAddress(ctx context.Context, userID string, address *domain.Address) error
	DeleteByID(ctx context.Context, id string) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, translate(err, common.ErrUserNotFound, "exists by username")
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, translate(err, common.ErrUserNotFound, "exists by email")
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Preload("Addresses").Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, translate(err, common.ErrUserNotFound, "find user by username")
	}
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Preload("Addresses").Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, translate(err, common.ErrUserNotFound, "find user by id")
	}
	return &user, nil
}

func (r *userRepository) FindAll(ctx context.Context) ([]*domain.User, error) {
	var users []*domain.User
	err := r.db.WithContext(ctx).Order("username ASC").Find(&users).Error
	return users, translate(err, common.ErrUserNotFound, "find users")
}

func (r *userRepository) FindByDisplayName(ctx context.Context, displayName string) ([]*domain.User, error) {
	var users []*domain.User
	err := r.db.WithContext(ctx).Where("display_name = ?", displayName).Order("username ASC").Find(&users).Error
	return users, translate(err, common.ErrUserNotFound, "find users by display name")
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error, common.ErrUserNotFound, "create user")
}

// Update saves profile columns only; addresses go through AddAddress
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	err := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"username":            user.Username,
			"email":               user.Email,
			"display_name":        user.DisplayName,
			"profile_picture_url": user.ProfilePictureURL,
		}).Error
	return translate(err, common.ErrUserNotFound, "update user")
}

func (r *userRepository) AddAddress(ctx context.Context, userID string, address *domain.Address) error {
	address.ID = 0
	address.UserID = userID
	return translate(r.db.WithContext(ctx).Create(address).Error, common.ErrUserNotFound, "add address")
}

func (r *userRepository) DeleteByID(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&domain.Address{}).Error; err != nil {
			return translate(err, common.ErrUserNotFound, "delete addresses")
		}
		return translate(tx.Where("id = ?", id).Delete(&domain.User{}).Error, common.ErrUserNotFound, "delete user")
	})
}
