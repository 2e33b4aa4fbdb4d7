// Package router đăng ký các route thuộc domain CRM: lead.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	crmhdl "gym_connect/internal/api/crm/handler"
	"gym_connect/internal/api/middleware"
	apirouter "gym_connect/internal/api/router"
)

// Register đăng ký tất cả route CRM lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	leadHandler, err := crmhdl.NewLeadHandler()
	if err != nil {
		return fmt.Errorf("create lead handler: %w", err)
	}

	gymContextMiddleware := middleware.GymContextMiddleware()
	apirouter.RegisterRouteWithMiddleware(v1, "/crm/lead", "GET", "/find-with-pagination", []fiber.Handler{gymContextMiddleware}, leadHandler.HandleListLeads)
	apirouter.RegisterRouteWithMiddleware(v1, "/crm/lead", "GET", "/find-by-id/:id", []fiber.Handler{gymContextMiddleware}, leadHandler.HandleGetLead)

	return nil
}
