// Package router đăng ký các route thuộc domain WhatsApp: account, send, media.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"gym_connect/internal/api/middleware"
	apirouter "gym_connect/internal/api/router"
	whatsapphdl "gym_connect/internal/api/whatsapp/handler"
	wasvc "gym_connect/internal/api/whatsapp/service"
	"gym_connect/internal/notification"
)

// Register đăng ký tất cả route WhatsApp lên v1.
func Register(broadcaster notification.Broadcaster) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		dispatchService, err := wasvc.NewDispatchService(broadcaster)
		if err != nil {
			return fmt.Errorf("create whatsapp dispatch service: %w", err)
		}
		accountHandler, err := whatsapphdl.NewAccountHandler(dispatchService)
		if err != nil {
			return fmt.Errorf("create whatsapp account handler: %w", err)
		}
		messageHandler, err := whatsapphdl.NewMessageHandler(dispatchService)
		if err != nil {
			return fmt.Errorf("create whatsapp message handler: %w", err)
		}

		gymContextMiddleware := middleware.GymContextMiddleware()
		apirouter.RegisterRouteWithMiddleware(v1, "/whatsapp/account", "GET", "/get", []fiber.Handler{gymContextMiddleware}, accountHandler.HandleGetAccount)
		apirouter.RegisterRouteWithMiddleware(v1, "/whatsapp/account", "POST", "/upsert", []fiber.Handler{gymContextMiddleware}, accountHandler.HandleUpsertAccount)
		apirouter.RegisterRouteWithMiddleware(v1, "/whatsapp/account", "POST", "/activate", []fiber.Handler{gymContextMiddleware}, accountHandler.HandleActivate)
		apirouter.RegisterRouteWithMiddleware(v1, "/whatsapp/account", "POST", "/test-connectivity", []fiber.Handler{gymContextMiddleware}, accountHandler.HandleTestConnectivity)

		apirouter.RegisterRouteWithMiddleware(v1, "/whatsapp/message", "POST", "/send-text", []fiber.Handler{gymContextMiddleware}, messageHandler.HandleSendText)
		apirouter.RegisterRouteWithMiddleware(v1, "/whatsapp/message", "POST", "/send-media", []fiber.Handler{gymContextMiddleware}, messageHandler.HandleSendMedia)
		apirouter.RegisterRouteWithMiddleware(v1, "/whatsapp/media", "POST", "/upload", []fiber.Handler{gymContextMiddleware}, messageHandler.HandleUploadMedia)
		apirouter.RegisterRouteWithMiddleware(v1, "/whatsapp/media", "GET", "/download/:mediaId", []fiber.Handler{gymContextMiddleware}, messageHandler.HandleDownloadMedia)

		return nil
	}
}
