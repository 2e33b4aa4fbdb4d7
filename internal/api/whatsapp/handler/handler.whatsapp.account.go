// Package whatsapphdl - handler cho domain WhatsApp (account, message, media).
package whatsapphdl

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v3"

	basehdl "gym_connect/internal/api/base/handler"
	"gym_connect/internal/api/middleware"
	wadto "gym_connect/internal/api/whatsapp/dto"
	wasvc "gym_connect/internal/api/whatsapp/service"
	"gym_connect/internal/common"
)

// AccountHandler xử lý cấu hình và kích hoạt tài khoản WhatsApp
type AccountHandler struct {
	basehdl.BaseHandler
	accountService  *wasvc.AccountService
	dispatchService *wasvc.DispatchService
}

// NewAccountHandler tạo mới AccountHandler
func NewAccountHandler(dispatchService *wasvc.DispatchService) (*AccountHandler, error) {
	accountService, err := wasvc.NewAccountService()
	if err != nil {
		return nil, fmt.Errorf("failed to create account service: %v", err)
	}
	return &AccountHandler{
		accountService:  accountService,
		dispatchService: dispatchService,
	}, nil
}

// HandleGetAccount trả về tài khoản WhatsApp của gym
func (h *AccountHandler) HandleGetAccount(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		gymID, err := middleware.GymIDFromLocals(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		account, err := h.accountService.GetByGym(c.Context(), gymID)
		if err != nil && errors.Is(err, common.ErrNotFound) {
			err = common.ErrIntegrationNotConfigured
		}
		h.HandleResponse(c, account, err)
		return nil
	})
}

// HandleUpsertAccount cấu hình tài khoản WhatsApp cho gym (status về PENDING)
func (h *AccountHandler) HandleUpsertAccount(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		gymID, err := middleware.GymIDFromLocals(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var input wadto.UpsertAccountInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		account, err := h.accountService.UpsertAccount(c.Context(), gymID, input.PhoneNumberID, input.PhoneNumber, input.AccessToken)
		h.HandleResponse(c, account, err)
		return nil
	})
}

// HandleActivate probe kết nối và flip tài khoản sang ACTIVE.
// Timeout của probe trả 504 với connected=false; lỗi từ chối trả 502.
func (h *AccountHandler) HandleActivate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		gymID, err := middleware.GymIDFromLocals(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		account, profile, err := h.accountService.Activate(c.Context(), gymID)
		if err != nil {
			var customErr *common.Error
			if errors.As(err, &customErr) {
				basehdl.JSONResponse(c, customErr.StatusCode, fiber.Map{
					"code":   customErr.Code.Code,
					"status": "error",
					"data": wadto.ActivationResult{
						Connected: false,
						Error:     customErr.Message,
					},
				})
				return nil
			}
			h.HandleResponse(c, nil, err)
			return nil
		}

		h.HandleResponse(c, wadto.ActivationResult{
			Connected:       true,
			Status:          account.Status,
			BusinessProfile: profile,
		}, nil)
		return nil
	})
}

// HandleTestConnectivity probe kết nối với credential hiện tại, không đổi trạng thái
func (h *AccountHandler) HandleTestConnectivity(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		gymID, err := middleware.GymIDFromLocals(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		profile, err := h.dispatchService.TestConnectivity(c.Context(), gymID)
		if err != nil {
			var customErr *common.Error
			if errors.As(err, &customErr) {
				basehdl.JSONResponse(c, customErr.StatusCode, fiber.Map{
					"code":   customErr.Code.Code,
					"status": "error",
					"data": wadto.ActivationResult{
						Connected: false,
						Error:     customErr.Message,
					},
				})
				return nil
			}
			h.HandleResponse(c, nil, err)
			return nil
		}

		h.HandleResponse(c, wadto.ActivationResult{
			Connected:       true,
			BusinessProfile: profile,
		}, nil)
		return nil
	})
}
