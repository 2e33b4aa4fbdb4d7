// Package chathdl - handler cho domain Chat (hội thoại, tin nhắn).
package chathdl

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	basehdl "gym_connect/internal/api/base/handler"
	chatsvc "gym_connect/internal/api/chat/service"
	"gym_connect/internal/api/middleware"
)

// ChatHandler xử lý các request liên quan đến hội thoại và tin nhắn
type ChatHandler struct {
	basehdl.BaseHandler
	conversationService *chatsvc.ConversationService
	messageService      *chatsvc.MessageService
}

// NewChatHandler tạo mới ChatHandler
func NewChatHandler() (*ChatHandler, error) {
	conversationService, err := chatsvc.NewConversationService()
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation service: %v", err)
	}
	messageService, err := chatsvc.NewMessageService()
	if err != nil {
		return nil, fmt.Errorf("failed to create message service: %v", err)
	}
	return &ChatHandler{
		conversationService: conversationService,
		messageService:      messageService,
	}, nil
}

// HandleListConversations trả về danh sách hội thoại của gym, phân trang,
// sắp xếp theo hoạt động gần nhất
func (h *ChatHandler) HandleListConversations(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		gymID, err := middleware.GymIDFromLocals(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		page, limit := h.ParsePagination(c)
		result, err := h.conversationService.ListByGym(c.Context(), gymID, page, limit)
		h.HandleResponse(c, result, err)
		return nil
	})
}

// HandleGetConversation trả về một hội thoại theo ID
func (h *ChatHandler) HandleGetConversation(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		gymID, err := middleware.GymIDFromLocals(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		conversationID, err := h.ParseObjectID(c, "id")
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		conversation, err := h.conversationService.GetByGym(c.Context(), gymID, conversationID)
		h.HandleResponse(c, conversation, err)
		return nil
	})
}

// HandleListMessages trả về tin nhắn của hội thoại theo thứ tự sentAt tăng dần
func (h *ChatHandler) HandleListMessages(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		gymID, err := middleware.GymIDFromLocals(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		conversationID, err := h.ParseObjectID(c, "id")
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		page, limit := h.ParsePagination(c)
		result, err := h.messageService.ListByConversation(c.Context(), gymID, conversationID, page, limit)
		h.HandleResponse(c, result, err)
		return nil
	})
}

// HandleCloseConversation chuyển hội thoại sang CLOSED
func (h *ChatHandler) HandleCloseConversation(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		gymID, err := middleware.GymIDFromLocals(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		conversationID, err := h.ParseObjectID(c, "id")
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		conversation, err := h.conversationService.Close(c.Context(), gymID, conversationID)
		h.HandleResponse(c, conversation, err)
		return nil
	})
}

// HandleDeleteConversation soft-delete hội thoại
func (h *ChatHandler) HandleDeleteConversation(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		gymID, err := middleware.GymIDFromLocals(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		conversationID, err := h.ParseObjectID(c, "id")
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		conversation, err := h.conversationService.SoftDelete(c.Context(), gymID, conversationID)
		h.HandleResponse(c, conversation, err)
		return nil
	})
}
