package handler

import (
	"net/http"

	"github.com/chatline/messenger-backend/internal/common"
	"github.com/chatline/messenger-backend/internal/domain"
	"github.com/chatline/messenger-backend/internal/middleware"
	"github.com/chatline/messenger-backend/internal/service"
	"github.com/gin-gonic/gin"
)

const maxAvatarSize = 5 << 20 // 5MB

// UserHandler handles user directory requests
type UserHandler struct {
	service service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Me handles GET /api/users/me
// @Summary 현재 사용자
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} common.APIResponse{data=domain.UserSummary}
// @Router /users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	summary, err := h.service.Me(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	common.Success(c, summary)
}

// FindAll handles GET /api/users
// @Summary 전체 사용자
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} common.APIResponse{data=[]domain.User}
// @Router /users [get]
func (h *UserHandler) FindAll(c *gin.Context) {
	users, err := h.service.FindAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if users == nil {
		users = []*domain.User{}
	}
	common.Success(c, users)
}

// Summaries handles GET /api/users/summaries
// @Summary 대화 상대 목록 (본인 제외)
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} common.APIResponse{data=[]domain.UserSummary}
// @Router /users/summaries [get]
func (h *UserHandler) Summaries(c *gin.Context) {
	summaries, err := h.service.Summaries(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	common.Success(c, summaries)
}

// FindByName handles GET /api/users/summaries/names?name=
// @Summary 이름으로 검색
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param name query string true "표시 이름"
// @Success 200 {object} common.APIResponse{data=[]domain.UserSummary}
// @Router /users/summaries/names [get]
func (h *UserHandler) FindByName(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		common.ErrorResponse(c, http.StatusBadRequest, "name is required", nil)
		return
	}
	summaries, err := h.service.FindByDisplayName(c.Request.Context(), name)
	if err != nil {
		respondError(c, err)
		return
	}
	common.Success(c, summaries)
}

// Summary handles GET /api/users/summary/:username
// @Summary 사용자 요약
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param username path string true "username"
// @Success 200 {object} common.APIResponse{data=domain.UserSummary}
// @Router /users/summary/{username} [get]
func (h *UserHandler) Summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	common.Success(c, summary)
}

// FindByUsername handles GET /api/users/:username
// @Summary 사용자 조회
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param username path string true "username"
// @Success 200 {object} common.APIResponse{data=domain.User}
// @Router /users/{username} [get]
func (h *UserHandler) FindByUsername(c *gin.Context) {
	user, err := h.service.FindByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	common.Success(c, user)
}

// GetProfile handles GET /api/users/profile/:id
// @Summary 프로필 조회
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "사용자 ID"
// @Success 200 {object} common.APIResponse{data=domain.UserProfile}
// @Router /users/profile/{id} [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	profile, err := h.service.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	common.Success(c, profile)
}

// UpdateProfile handles PUT /api/users/profile/:id
// @Summary 프로필 수정
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "사용자 ID"
// @Param request body domain.UserProfile true "프로필"
// @Success 200 {object} common.APIResponse{data=domain.UserProfile}
// @Router /users/profile/{id} [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req domain.UserProfile
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	common.Success(c, profile)
}

// Delete handles DELETE /api/users/profile/:id
// @Summary 회원 삭제
// @Tags users
// @Security BearerAuth
// @Param id path string true "사용자 ID"
// @Success 200 {object} common.APIResponse
// @Router /users/profile/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	common.Success(c, gin.H{"deleted": true})
}

// AddAddress handles POST /api/users/profile/:id/addresses
// @Summary 주소 추가
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "사용자 ID"
// @Param request body domain.Address true "주소"
// @Success 201 {object} common.APIResponse{data=domain.UserProfile}
// @Router /users/profile/{id}/addresses [post]
func (h *UserHandler) AddAddress(c *gin.Context) {
	var req domain.Address
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	profile, err := h.service.AddAddress(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	common.Created(c, profile)
}

// UploadAvatar handles POST /api/users/profile/:id/avatar
// @Summary 프로필 사진 업로드
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "사용자 ID"
// @Param file formData file true "이미지"
// @Success 200 {object} common.APIResponse{data=domain.UserProfile}
// @Failure 503 {object} common.APIResponse
// @Router /users/profile/{id}/avatar [post]
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "file is required", err)
		return
	}
	if file.Size > maxAvatarSize {
		common.ErrorResponse(c, http.StatusBadRequest, "file too large (max 5MB)", nil)
		return
	}

	body, err := file.Open()
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "cannot read file", err)
		return
	}
	defer body.Close()

	profile, err := h.service.UploadAvatar(c.Request.Context(), c.Param("id"), &service.AvatarUpload{
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Size:        file.Size,
		Body:        body,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	common.Success(c, profile)
}
