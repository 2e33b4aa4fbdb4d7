// Package crmhdl - handler cho domain CRM (lead).
package crmhdl

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	basehdl "gym_connect/internal/api/base/handler"
	crmsvc "gym_connect/internal/api/crm/service"
	"gym_connect/internal/api/middleware"
)

// LeadHandler xử lý các request liên quan đến lead
type LeadHandler struct {
	basehdl.BaseHandler
	leadService *crmsvc.LeadService
}

// NewLeadHandler tạo mới LeadHandler
func NewLeadHandler() (*LeadHandler, error) {
	leadService, err := crmsvc.NewLeadService()
	if err != nil {
		return nil, fmt.Errorf("failed to create lead service: %v", err)
	}
	return &LeadHandler{
		leadService: leadService,
	}, nil
}

// HandleListLeads trả về danh sách lead của gym, phân trang
func (h *LeadHandler) HandleListLeads(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		gymID, err := middleware.GymIDFromLocals(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		page, limit := h.ParsePagination(c)
		result, err := h.leadService.ListByGym(c.Context(), gymID, page, limit)
		h.HandleResponse(c, result, err)
		return nil
	})
}

// HandleGetLead trả về một lead theo ID
func (h *LeadHandler) HandleGetLead(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		gymID, err := middleware.GymIDFromLocals(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		leadID, err := h.ParseObjectID(c, "id")
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		lead, err := h.leadService.FindOne(c.Context(), map[string]interface{}{"_id": leadID, "gymId": gymID}, nil)
		h.HandleResponse(c, lead, err)
		return nil
	})
}
