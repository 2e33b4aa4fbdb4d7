// Package router đăng ký các route thuộc domain EVO: integration, sync.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	evohdl "gym_connect/internal/api/evo/handler"
	"gym_connect/internal/api/middleware"
	apirouter "gym_connect/internal/api/router"
)

// Register đăng ký tất cả route EVO lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	evoHandler, err := evohdl.NewEvoHandler()
	if err != nil {
		return fmt.Errorf("create evo handler: %w", err)
	}

	gymContextMiddleware := middleware.GymContextMiddleware()
	apirouter.RegisterRouteWithMiddleware(v1, "/evo/integration", "POST", "/upsert", []fiber.Handler{gymContextMiddleware}, evoHandler.HandleUpsertIntegration)
	apirouter.RegisterRouteWithMiddleware(v1, "/evo/integration", "GET", "/find", []fiber.Handler{gymContextMiddleware}, evoHandler.HandleListIntegrations)
	apirouter.RegisterRouteWithMiddleware(v1, "/evo/sync", "POST", "/trigger", []fiber.Handler{gymContextMiddleware}, evoHandler.HandleTriggerSync)
	apirouter.RegisterRouteWithMiddleware(v1, "/evo/sync", "GET", "/runs/:integrationId", []fiber.Handler{gymContextMiddleware}, evoHandler.HandleListRuns)

	return nil
}
