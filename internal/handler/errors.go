package handler

import (
	"errors"
	"net/http"

	"github.com/chatline/messenger-backend/internal/common"
	pkglogger "github.com/chatline/messenger-backend/pkg/logger"
	"github.com/gin-gonic/gin"
)

// respondError maps service errors to HTTP responses
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrMessageNotFound),
		errors.Is(err, common.ErrUserNotFound),
		errors.Is(err, common.ErrRoomNotFound),
		errors.Is(err, common.ErrNotFound):
		common.ErrorResponse(c, http.StatusNotFound, err.Error(), nil)

	case errors.Is(err, common.ErrUsernameTaken):
		common.ErrorResponse(c, http.StatusBadRequest, "Username is already taken!", err)
	case errors.Is(err, common.ErrEmailTaken):
		common.ErrorResponse(c, http.StatusBadRequest, "Email Address already in use!", err)
	case errors.Is(err, common.ErrDuplicate):
		common.ErrorResponse(c, http.StatusBadRequest, "Conflicting value already exists", err)

	case errors.Is(err, common.ErrInvalidInput), errors.Is(err, common.ErrInvalidStatus):
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request", err)

	case errors.Is(err, common.ErrInvalidCredentials):
		common.ErrorResponse(c, http.StatusUnauthorized, "Invalid username or password", nil)
	case errors.Is(err, common.ErrUnauthorized):
		common.ErrorResponse(c, http.StatusUnauthorized, "Full authentication is required to access this resource", nil)

	case errors.Is(err, common.ErrStorageDisabled):
		common.ErrorResponse(c, http.StatusServiceUnavailable, err.Error(), nil)

	default:
		pkglogger.Ctx(c.Request.Context()).Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
		common.ErrorResponse(c, http.StatusInternalServerError, "Internal server error", err)
	}
}

// bindError reports a request body that failed binding or validation
func bindError(c *gin.Context, err error) {
	common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
}
