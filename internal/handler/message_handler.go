package handler

import (
	"github.com/chatline/messenger-backend/internal/common"
	"github.com/chatline/messenger-backend/internal/domain"
	"github.com/chatline/messenger-backend/internal/middleware"
	"github.com/chatline/messenger-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// MessageHandler handles chat message HTTP requests
type MessageHandler struct {
	messages service.MessageService
	status   service.StatusService
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(messages service.MessageService, status service.StatusService) *MessageHandler {
	return &MessageHandler{messages: messages, status: status}
}

// Send handles POST /api/messages
// @Summary 메시지 전송
// @Description sender_id/sender_name이 비어 있으면 로그인 사용자로 채운다
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body domain.SendMessageRequest true "메시지"
// @Success 201 {object} common.APIResponse{data=domain.Message}
// @Router /messages [post]
func (h *MessageHandler) Send(c *gin.Context) {
	var req domain.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	fillSender(&req, middleware.GetUserID(c), middleware.GetDisplayName(c))

	msg, err := h.messages.Send(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	common.Created(c, msg)
}

// FindConversation handles GET /api/messages/:senderId/:recipientId
// @Summary 대화 조회 (수신 메시지 DELIVERED 처리)
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param senderId path string true "발신자 ID"
// @Param recipientId path string true "수신자 ID"
// @Success 200 {object} common.APIResponse{data=[]domain.Message}
// @Router /messages/{senderId}/{recipientId} [get]
func (h *MessageHandler) FindConversation(c *gin.Context) {
	messages, err := h.messages.FindConversation(c.Request.Context(), c.Param("senderId"), c.Param("recipientId"))
	if err != nil {
		respondError(c, err)
		return
	}
	if messages == nil {
		messages = []*domain.Message{}
	}
	common.Success(c, messages)
}

// CountPending handles GET /api/messages/:senderId/:recipientId/count
// @Summary 미수신 메시지 수
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param senderId path string true "발신자 ID"
// @Param recipientId path string true "수신자 ID"
// @Success 200 {object} common.APIResponse{data=domain.PendingCount}
// @Router /messages/{senderId}/{recipientId}/count [get]
func (h *MessageHandler) CountPending(c *gin.Context) {
	senderID, recipientID := c.Param("senderId"), c.Param("recipientId")
	count, err := h.status.CountPending(c.Request.Context(), senderID, recipientID)
	if err != nil {
		respondError(c, err)
		return
	}
	common.Success(c, &domain.PendingCount{SenderID: senderID, RecipientID: recipientID, Count: count})
}

// UpdateStatus handles PUT /api/messages/:senderId/:recipientId/status
// @Summary 상태 일괄 변경
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param senderId path string true "발신자 ID"
// @Param recipientId path string true "수신자 ID"
// @Param request body domain.UpdateStatusRequest true "상태"
// @Success 200 {object} common.APIResponse
// @Router /messages/{senderId}/{recipientId}/status [put]
func (h *MessageHandler) UpdateStatus(c *gin.Context) {
	var req domain.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	updated, err := h.status.Transition(c.Request.Context(), c.Param("senderId"), c.Param("recipientId"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	common.Success(c, gin.H{"updated": updated})
}

// DeleteByParticipants handles DELETE /api/messages/:senderId/:recipientId
// @Summary 발신자→수신자 메시지 삭제
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param senderId path string true "발신자 ID"
// @Param recipientId path string true "수신자 ID"
// @Success 200 {object} common.APIResponse
// @Router /messages/{senderId}/{recipientId} [delete]
func (h *MessageHandler) DeleteByParticipants(c *gin.Context) {
	deleted, err := h.messages.DeleteByParticipants(c.Request.Context(), c.Param("senderId"), c.Param("recipientId"))
	if err != nil {
		respondError(c, err)
		return
	}
	common.Success(c, gin.H{"deleted": deleted})
}

// FindByID handles GET /api/messages/id/:id
// @Summary 메시지 단건 조회
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path string true "메시지 ID"
// @Success 200 {object} common.APIResponse{data=domain.Message}
// @Failure 404 {object} common.APIResponse
// @Router /messages/id/{id} [get]
func (h *MessageHandler) FindByID(c *gin.Context) {
	msg, err := h.messages.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	common.Success(c, msg)
}

// Edit handles PUT /api/messages/id/:id
// @Summary 메시지 수정
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "메시지 ID"
// @Param request body domain.EditMessageRequest true "내용"
// @Success 200 {object} common.APIResponse{data=domain.Message}
// @Router /messages/id/{id} [put]
func (h *MessageHandler) Edit(c *gin.Context) {
	var req domain.EditMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	msg, err := h.messages.Edit(c.Request.Context(), c.Param("id"), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	common.Success(c, msg)
}

// DeleteByID handles DELETE /api/messages/id/:id
// @Summary 메시지 삭제
// @Tags messages
// @Security BearerAuth
// @Param id path string true "메시지 ID"
// @Success 200 {object} common.APIResponse
// @Router /messages/id/{id} [delete]
func (h *MessageHandler) DeleteByID(c *gin.Context) {
	if err := h.messages.DeleteByID(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	common.Success(c, gin.H{"deleted": true})
}

// DeleteByRoom handles DELETE /api/rooms/:roomId/messages
// @Summary 대화방 메시지 전체 삭제
// @Tags messages
// @Security BearerAuth
// @Param roomId path string true "대화방 ID"
// @Success 200 {object} common.APIResponse
// @Router /rooms/{roomId}/messages [delete]
func (h *MessageHandler) DeleteByRoom(c *gin.Context) {
	deleted, err := h.messages.DeleteByRoom(c.Request.Context(), c.Param("roomId"))
	if err != nil {
		respondError(c, err)
		return
	}
	common.Success(c, gin.H{"deleted": deleted})
}

func fillSender(req *domain.SendMessageRequest, userID, name string) {
	if req.SenderID == "" {
		req.SenderID = userID
	}
	if req.SenderName == "" {
		req.SenderName = name
	}
}
