// Package router đăng ký các route thuộc domain Chat: conversation, message.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	chathdl "gym_connect/internal/api/chat/handler"
	"gym_connect/internal/api/middleware"
	apirouter "gym_connect/internal/api/router"
)

// Register đăng ký tất cả route Chat lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	chatHandler, err := chathdl.NewChatHandler()
	if err != nil {
		return fmt.Errorf("create chat handler: %w", err)
	}

	gymContextMiddleware := middleware.GymContextMiddleware()
	apirouter.RegisterRouteWithMiddleware(v1, "/chat/conversation", "GET", "/find-with-pagination", []fiber.Handler{gymContextMiddleware}, chatHandler.HandleListConversations)
	apirouter.RegisterRouteWithMiddleware(v1, "/chat/conversation", "GET", "/find-by-id/:id", []fiber.Handler{gymContextMiddleware}, chatHandler.HandleGetConversation)
	apirouter.RegisterRouteWithMiddleware(v1, "/chat/conversation", "GET", "/messages/:id", []fiber.Handler{gymContextMiddleware}, chatHandler.HandleListMessages)
	apirouter.RegisterRouteWithMiddleware(v1, "/chat/conversation", "PUT", "/close/:id", []fiber.Handler{gymContextMiddleware}, chatHandler.HandleCloseConversation)
	apirouter.RegisterRouteWithMiddleware(v1, "/chat/conversation", "DELETE", "/delete/:id", []fiber.Handler{gymContextMiddleware}, chatHandler.HandleDeleteConversation)

	return nil
}
