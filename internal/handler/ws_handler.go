package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/chatline/messenger-backend/internal/common"
	"github.com/chatline/messenger-backend/internal/domain"
	"github.com/chatline/messenger-backend/internal/middleware"
	"github.com/chatline/messenger-backend/internal/service"
	"github.com/chatline/messenger-backend/internal/ws"
	pkglogger "github.com/chatline/messenger-backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// FrameChat inbound frame type carrying a send operation
const FrameChat = "chat"

// frameTimeout bounds the store work done for a single inbound frame
const frameTimeout = 10 * time.Second

// WSHandler handles WebSocket connections
type WSHandler struct {
	hub            *ws.Hub
	messages       service.MessageService
	allowedOrigins []string
	upgrader       websocket.Upgrader
}

// NewWSHandler creates a new WSHandler
func NewWSHandler(hub *ws.Hub, messages service.MessageService, allowedOrigins string) *WSHandler {
	h := &WSHandler{
		hub:            hub,
		messages:       messages,
		allowedOrigins: parseOrigins(allowedOrigins),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// parseOrigins parses comma-separated origins string
func parseOrigins(origins string) []string {
	if origins == "" || origins == "*" {
		return nil
	}
	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// checkOrigin validates the request origin against allowed origins
func (h *WSHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	// 설정 없으면 전체 허용 (개발 환경)
	if len(h.allowedOrigins) == 0 {
		return true
	}
	for _, allowed := range h.allowedOrigins {
		if origin == allowed {
			return true
		}
	}
	return false
}

// Connect upgrades GET /ws to a WebSocket connection
// @Summary 실시간 채팅 WebSocket
// @Description chat 프레임 전송 → message_saved 응답, 수신자에게 chat_notification 푸시
// @Tags messages
// @Security BearerAuth
// @Router /ws [get]
func (h *WSHandler) Connect(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		common.ErrorResponse(c, http.StatusUnauthorized, "Full authentication is required to access this resource", nil)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		pkglogger.GetLogger().Debug().Err(err).Str("user_id", userID).Msg("ws upgrade failed")
		return
	}

	client := ws.NewClient(h.hub, conn, userID, middleware.GetDisplayName(c), h.handleFrame)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}

// handleFrame runs a chat frame through the message pipeline and echoes the result
func (h *WSHandler) handleFrame(client *ws.Client, frame *ws.Frame) {
	if frame.Type != FrameChat {
		client.SendError("unsupported frame type: " + frame.Type)
		return
	}

	var req domain.SendMessageRequest
	if err := json.Unmarshal(frame.Payload, &req); err != nil {
		client.SendError("malformed chat payload")
		return
	}
	fillSender(&req, client.MemberID(), client.Name())

	ctx, cancel := context.WithTimeout(context.Background(), frameTimeout)
	defer cancel()

	msg, err := h.messages.Send(ctx, &req)
	if err != nil {
		if errors.Is(err, common.ErrInvalidInput) {
			client.SendError(err.Error())
			return
		}
		pkglogger.GetLogger().Error().Err(err).Str("user_id", client.MemberID()).Msg("ws chat frame failed")
		client.SendError("message could not be saved")
		return
	}
	client.Send(&ws.Event{Type: ws.EventMessageSaved, Payload: msg})
}
