package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/chatline/messenger-backend/internal/common"
	"github.com/chatline/messenger-backend/internal/domain"
	"github.com/chatline/messenger-backend/internal/repository"
	"github.com/chatline/messenger-backend/pkg/jwt"
	pkglogger "github.com/chatline/messenger-backend/pkg/logger"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthService registration and login
type AuthService interface {
	SignUp(ctx context.Context, req *domain.SignUpRequest) (*domain.TokenResponse, error)
	SignIn(ctx context.Context, req *domain.SignInRequest) (*domain.TokenResponse, error)
}

type authService struct {
	users      repository.UserRepository
	jwtManager *jwt.Manager
	cost       int
}

// NewAuthService creates a new AuthService
func NewAuthService(users repository.UserRepository, jwtManager *jwt.Manager) AuthService {
	return &authService{
		users:      users,
		jwtManager: jwtManager,
		cost:       bcrypt.DefaultCost,
	}
}

// SignUp creates a ROLE_USER account and returns a token for it
func (s *authService) SignUp(ctx context.Context, req *domain.SignUpRequest) (*domain.TokenResponse, error) {
	// 빠른 경로: 사전 중복 체크 (최종 판단은 unique index)
	if err := s.checkAvailable(ctx, req.Username, req.Email); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:                uuid.NewString(),
		Username:          req.Username,
		Email:             req.Email,
		Password:          string(hashed),
		Role:              domain.RoleUser,
		Active:            true,
		DisplayName:       req.Name,
		ProfilePictureURL: req.ProfilePicture,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrDuplicate) {
			// 동시 가입 경합: 어떤 필드가 충돌했는지 다시 확인
			if cerr := s.checkAvailable(ctx, req.Username, req.Email); cerr != nil {
				return nil, cerr
			}
			return nil, common.ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	pkglogger.Ctx(ctx).Info().
		Str("user_id", user.ID).
		Str("username", user.Username).
		Msg("user registered")

	return s.issue(user.Username)
}

// SignIn verifies credentials and returns a token
func (s *authService) SignIn(ctx context.Context, req *domain.SignInRequest) (*domain.TokenResponse, error) {
	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, common.ErrUserNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.Active {
		return nil, common.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, common.ErrInvalidCredentials
	}
	return s.issue(user.Username)
}

func (s *authService) checkAvailable(ctx context.Context, username, email string) error {
	exists, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return err
	}
	if exists {
		return common.ErrUsernameTaken
	}

	exists, err = s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return common.ErrEmailTaken
	}
	return nil
}

func (s *authService) issue(username string) (*domain.TokenResponse, error) {
	token, err := s.jwtManager.GenerateToken(username)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &domain.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.jwtManager.ExpiresIn().Seconds()),
	}, nil
}
