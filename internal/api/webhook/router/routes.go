// Package router đăng ký các route thuộc domain Webhook.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	apirouter "gym_connect/internal/api/router"
	webhookhdl "gym_connect/internal/api/webhook/handler"
	"gym_connect/internal/notification"
)

// Register đăng ký route webhook lên v1.
// Webhook KHÔNG đi qua GymContextMiddleware — tenant resolve từ phone_number_id
// trong payload, endpoint là một URL duy nhất cho mọi gym.
func Register(broadcaster notification.Broadcaster) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		webhookHandler, err := webhookhdl.NewWhatsAppWebhookHandler(broadcaster)
		if err != nil {
			return fmt.Errorf("create whatsapp webhook handler: %w", err)
		}

		registerWebhookRoutes(v1, webhookHandler.HandleVerify, webhookHandler.HandleReceive)

		return nil
	}
}

// registerWebhookRoutes đăng ký trực tiếp trên v1, không qua group.
// Group("/x").Get("/") tạo route "/x/" — với StrictRouting, provider gọi
// "/x" (không slash) sẽ 404. Webhook là URL public đã khai với provider
// nên path phải khớp từng ký tự.
func registerWebhookRoutes(v1 fiber.Router, verify, receive fiber.Handler) {
	v1.Get("/whatsapp/webhook", verify)
	v1.Post("/whatsapp/webhook", receive)
}
