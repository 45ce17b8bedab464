package routes

import (
	"github.com/chatline/messenger-backend/internal/handler"
	"github.com/chatline/messenger-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Setup configures all API routes.
// authGate populates the principal on every route; RequireAuth guards the protected ones.
// authLimit throttles the public auth endpoints.
func Setup(
	router *gin.Engine,
	authGate gin.HandlerFunc,
	authLimit gin.HandlerFunc,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	messageHandler *handler.MessageHandler,
	wsHandler *handler.WSHandler,
) {
	handler.RegisterValidators()

	api := router.Group("/api", authGate)

	// 인증 (공개)
	auth := api.Group("/auth", authLimit)
	auth.POST("/signup", authHandler.SignUp)
	auth.POST("/signin", authHandler.SignIn)

	protected := api.Group("", middleware.RequireAuth())

	users := protected.Group("/users")
	{
		users.GET("", userHandler.FindAll)
		users.GET("/me", userHandler.Me)
		users.GET("/summaries", userHandler.Summaries)
		users.GET("/summaries/names", userHandler.FindByName)
		users.GET("/summary/:username", userHandler.Summary)
		users.GET("/profile/:id", userHandler.GetProfile)
		users.PUT("/profile/:id", userHandler.UpdateProfile)
		users.DELETE("/profile/:id", userHandler.Delete)
		users.POST("/profile/:id/addresses", userHandler.AddAddress)
		users.POST("/profile/:id/avatar", userHandler.UploadAvatar)
		users.GET("/:username", userHandler.FindByUsername)
	}

	messages := protected.Group("/messages")
	{
		messages.POST("", messageHandler.Send)

		// 단건 (static "id" 세그먼트가 :senderId 보다 우선)
		messages.GET("/id/:id", messageHandler.FindByID)
		messages.PUT("/id/:id", messageHandler.Edit)
		messages.DELETE("/id/:id", messageHandler.DeleteByID)

		messages.GET("/:senderId/:recipientId", messageHandler.FindConversation)
		messages.DELETE("/:senderId/:recipientId", messageHandler.DeleteByParticipants)
		messages.GET("/:senderId/:recipientId/count", messageHandler.CountPending)
		messages.PUT("/:senderId/:recipientId/status", messageHandler.UpdateStatus)
	}

	protected.DELETE("/rooms/:roomId/messages", messageHandler.DeleteByRoom)

	// WebSocket
	router.GET("/ws", authGate, middleware.RequireAuth(), wsHandler.Connect)
}
