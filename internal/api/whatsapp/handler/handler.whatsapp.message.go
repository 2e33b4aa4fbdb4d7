// Package whatsapphdl - handler gửi tin nhắn và media.
// File: handler.whatsapp.message.go
package whatsapphdl

import (
	"github.com/gofiber/fiber/v3"

	basehdl "gym_connect/internal/api/base/handler"
	"gym_connect/internal/api/middleware"
	wadto "gym_connect/internal/api/whatsapp/dto"
	wasvc "gym_connect/internal/api/whatsapp/service"
	"gym_connect/internal/common"
)

// MessageHandler xử lý gửi tin nhắn outbound và media proxy
type MessageHandler struct {
	basehdl.BaseHandler
	dispatchService *wasvc.DispatchService
}

// NewMessageHandler tạo mới MessageHandler
func NewMessageHandler(dispatchService *wasvc.DispatchService) (*MessageHandler, error) {
	return &MessageHandler{
		dispatchService: dispatchService,
	}, nil
}

// HandleSendText gửi tin nhắn text
func (h *MessageHandler) HandleSendText(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		gymID, err := middleware.GymIDFromLocals(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var input wadto.SendTextInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		msg, err := h.dispatchService.SendText(c.Context(), gymID, input.To, input.Body)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		h.HandleResponse(c, wadto.SendResult{
			MessageID:      msg.ID.Hex(),
			ExternalID:     msg.ExternalMessageID,
			ConversationID: msg.ConversationID.Hex(),
		}, nil)
		return nil
	})
}

// HandleSendMedia gửi tin nhắn media theo mediaId đã upload
func (h *MessageHandler) HandleSendMedia(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		gymID, err := middleware.GymIDFromLocals(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var input wadto.SendMediaInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		msg, err := h.dispatchService.SendMedia(c.Context(), gymID, input.To, input.Type, input.MediaID, input.Caption, input.Filename)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		h.HandleResponse(c, wadto.SendResult{
			MessageID:      msg.ID.Hex(),
			ExternalID:     msg.ExternalMessageID,
			ConversationID: msg.ConversationID.Hex(),
		}, nil)
		return nil
	})
}

// HandleUploadMedia nhận binary payload (Content-Type là MIME type khai báo)
// và upload lên provider
func (h *MessageHandler) HandleUploadMedia(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		gymID, err := middleware.GymIDFromLocals(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		mimeType := c.Get("Content-Type")
		if mimeType == "" {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationInput,
				"Thiếu header Content-Type khai báo MIME type",
				common.StatusBadRequest,
				nil,
			))
			return nil
		}

		mediaID, err := h.dispatchService.UploadMedia(c.Context(), gymID, c.Body(), mimeType)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		h.HandleResponse(c, wadto.UploadMediaResult{MediaID: mediaID}, nil)
		return nil
	})
}

// HandleDownloadMedia tải media từ provider và trả bytes về cho client
func (h *MessageHandler) HandleDownloadMedia(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		gymID, err := middleware.GymIDFromLocals(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		mediaID := c.Params("mediaId")
		if mediaID == "" {
			h.HandleResponse(c, nil, common.ErrRequiredField)
			return nil
		}

		data, mimeType, err := h.dispatchService.DownloadMedia(c.Context(), gymID, mediaID)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		if mimeType != "" {
			c.Set("Content-Type", mimeType)
		}
		return c.Status(common.StatusOK).Send(data)
	})
}
