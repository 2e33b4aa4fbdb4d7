// Package evohdl - handler cho domain EVO (integration, sync).
package evohdl

import (
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basehdl "gym_connect/internal/api/base/handler"
	evodto "gym_connect/internal/api/evo/dto"
	evomodels "gym_connect/internal/api/evo/models"
	evosvc "gym_connect/internal/api/evo/service"
	"gym_connect/internal/api/middleware"
)

// EvoHandler xử lý cấu hình integration và kích hoạt sync
type EvoHandler struct {
	basehdl.BaseHandler
	integrationService *evosvc.IntegrationService
	syncService        *evosvc.SyncService
}

// NewEvoHandler tạo mới EvoHandler
func NewEvoHandler() (*EvoHandler, error) {
	integrationService, err := evosvc.NewIntegrationService()
	if err != nil {
		return nil, fmt.Errorf("failed to create integration service: %v", err)
	}
	syncService, err := evosvc.NewSyncService()
	if err != nil {
		return nil, fmt.Errorf("failed to create sync service: %v", err)
	}
	return &EvoHandler{
		integrationService: integrationService,
		syncService:        syncService,
	}, nil
}

// HandleUpsertIntegration tạo/cập nhật cấu hình tích hợp EVO cho gym
func (h *EvoHandler) HandleUpsertIntegration(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		gymID, err := middleware.GymIDFromLocals(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var input evodto.UpsertIntegrationInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		integration, err := h.integrationService.UpsertConfig(c.Context(), evomodels.EvoIntegration{
			GymID:           gymID,
			BaseURL:         input.BaseURL,
			APIKey:          input.APIKey,
			BranchID:        input.BranchID,
			FieldMapping:    input.FieldMapping,
			AutoSync:        input.AutoSync,
			SyncIntervalMin: input.SyncIntervalMin,
		})
		h.HandleResponse(c, integration, err)
		return nil
	})
}

// HandleListIntegrations trả về các integration của gym
func (h *EvoHandler) HandleListIntegrations(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		gymID, err := middleware.GymIDFromLocals(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		integrations, err := h.integrationService.Find(c.Context(), bson.M{"gymId": gymID}, nil)
		h.HandleResponse(c, integrations, err)
		return nil
	})
}

// HandleTriggerSync kích hoạt một lần đồng bộ theo hướng chỉ định.
// Kết quả là partial-success summary — record lỗi không làm câm lặng run.
func (h *EvoHandler) HandleTriggerSync(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		gymID, err := middleware.GymIDFromLocals(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var input evodto.TriggerSyncInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		integrationID, err := primitive.ObjectIDFromHex(input.IntegrationID)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var run evomodels.EvoSyncRun
		if input.Direction == evomodels.SyncDirectionFromEvo {
			run, err = h.syncService.SyncFromEvo(c.Context(), gymID, integrationID)
		} else {
			run, err = h.syncService.SyncToEvo(c.Context(), gymID, integrationID)
		}
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		h.HandleResponse(c, evodto.SyncResult{
			RunID:         run.ID.Hex(),
			Success:       run.Success,
			RecordsSynced: run.RecordsSynced,
			RecordsFailed: run.RecordsFailed,
			Error:         run.Error,
		}, nil)
		return nil
	})
}

// HandleListRuns trả về lịch sử sync run của integration
func (h *EvoHandler) HandleListRuns(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		gymID, err := middleware.GymIDFromLocals(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		integrationID, err := h.ParseObjectID(c, "integrationId")
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		page, limit := h.ParsePagination(c)
		result, err := h.syncService.ListRuns(c.Context(), gymID, integrationID, page, limit)
		h.HandleResponse(c, result, err)
		return nil
	})
}
