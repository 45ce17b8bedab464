package handler

import (
	"github.com/chatline/messenger-backend/internal/common"
	"github.com/chatline/messenger-backend/internal/domain"
	"github.com/chatline/messenger-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	service service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// SignUp handles POST /api/auth/signup
// @Summary 회원가입
// @Tags auth
// @Accept json
// @Produce json
// @Param request body domain.SignUpRequest true "가입 정보"
// @Success 201 {object} common.APIResponse{data=domain.TokenResponse}
// @Failure 400 {object} common.APIResponse
// @Router /auth/signup [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req domain.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	token, err := h.service.SignUp(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	common.Created(c, token)
}

// SignIn handles POST /api/auth/signin
// @Summary 로그인
// @Tags auth
// @Accept json
// @Produce json
// @Param request body domain.SignInRequest true "로그인 정보"
// @Success 200 {object} common.APIResponse{data=domain.TokenResponse}
// @Failure 401 {object} common.APIResponse
// @Router /auth/signin [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req domain.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	token, err := h.service.SignIn(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	common.Success(c, token)
}
