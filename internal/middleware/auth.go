package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/chatline/messenger-backend/internal/common"
	"github.com/chatline/messenger-backend/internal/domain"
	"github.com/chatline/messenger-backend/pkg/jwt"
	pkglogger "github.com/chatline/messenger-backend/pkg/logger"
	"github.com/gin-gonic/gin"
)

// gin context keys set by AuthGate
const (
	KeyUserID   = "userID"
	KeyUsername = "username"
	KeyRole     = "role"
	keyName     = "displayName"
)

// TokenVerifier validates bearer tokens (jwt.Manager)
type TokenVerifier interface {
	VerifyToken(token string) (*jwt.Claims, error)
}

// PrincipalLookup resolves a token subject to a user
type PrincipalLookup interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}

// Principal the authenticated user of a request
type Principal struct {
	ID          string
	Username    string
	Name        string
	Role        domain.Role
	Authorities []string
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal stored by AuthGate, or nil
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey{}).(*Principal)
	return p
}

// AuthGate populates the request principal from a bearer token.
// It never aborts: a missing, malformed, expired or unknown token leaves the
// request unauthenticated and RequireAuth decides what happens next.
func AuthGate(tokens TokenVerifier, users PrincipalLookup, header, prefix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(header)
		if raw == "" || !strings.HasPrefix(raw, prefix) {
			c.Next()
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(raw, prefix))
		claims, err := tokens.VerifyToken(token)
		if err != nil {
			if !errors.Is(err, jwt.ErrExpiredToken) {
				pkglogger.GetLogger().Debug().Err(err).Str("path", c.Request.URL.Path).Msg("rejected bearer token")
			}
			c.Next()
			return
		}

		user, err := users.FindByUsername(c.Request.Context(), claims.Username())
		if err != nil {
			if !errors.Is(err, common.ErrUserNotFound) {
				pkglogger.GetLogger().Warn().Err(err).Str("username", claims.Username()).Msg("principal lookup failed")
			}
			c.Next()
			return
		}
		if !user.Active {
			c.Next()
			return
		}

		p := &Principal{
			ID:          user.ID,
			Username:    user.Username,
			Name:        user.DisplayName,
			Role:        user.Role,
			Authorities: user.Authorities(),
		}
		c.Set(KeyUserID, p.ID)
		c.Set(KeyUsername, p.Username)
		c.Set(KeyRole, string(p.Role))
		c.Set(keyName, p.Name)
		c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), p))

		c.Next()
	}
}

// RequireAuth rejects requests without a principal
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserID(c) == "" {
			common.ErrorResponse(c, http.StatusUnauthorized, "Full authentication is required to access this resource", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetPrincipal returns the principal of the request, or nil
func GetPrincipal(c *gin.Context) *Principal {
	return PrincipalFromContext(c.Request.Context())
}

// GetUserID extracts user ID from context
func GetUserID(c *gin.Context) string {
	return c.GetString(KeyUserID)
}

// GetUsername extracts username from context
func GetUsername(c *gin.Context) string {
	return c.GetString(KeyUsername)
}

// GetDisplayName extracts the principal's display name from context
func GetDisplayName(c *gin.Context) string {
	return c.GetString(keyName)
}
