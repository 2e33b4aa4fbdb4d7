// Package chatsvc - service tin nhắn.
// File: service.chat.message.go
package chatsvc

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	basemodels "gym_connect/internal/api/base/models"
	basesvc "gym_connect/internal/api/base/service"
	chatmodels "gym_connect/internal/api/chat/models"
	"gym_connect/internal/common"
	"gym_connect/internal/global"
)

// MessageService là cấu trúc chứa các phương thức liên quan đến tin nhắn chat
type MessageService struct {
	*basesvc.BaseServiceMongoImpl[chatmodels.ChatMessage]
	conversationService *ConversationService
}

// NewMessageService tạo mới MessageService
func NewMessageService() (*MessageService, error) {
	coll, exist := global.RegistryCollections.Get(global.ColNames.ChatMessages)
	if !exist {
		return nil, fmt.Errorf("failed to get chat_messages collection: %v", common.ErrNotFound)
	}
	conversationService, err := NewConversationService()
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation service: %v", err)
	}
	return &MessageService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[chatmodels.ChatMessage](coll),
		conversationService:  conversationService,
	}, nil
}

// AppendInbound ghi nhận tin nhắn inbound.
// Dedup dựa hoàn toàn vào unique index (gymId, externalMessageId): insert thẳng,
// nếu dính duplicate key thì đây là redelivery — trả về ErrDuplicateEvent (no-op,
// không phải lỗi). Không check-then-insert vì hai delivery đồng thời sẽ lọt.
func (s *MessageService) AppendInbound(ctx context.Context, msg chatmodels.ChatMessage) (chatmodels.ChatMessage, error) {
	var zero chatmodels.ChatMessage

	if msg.ExternalMessageID == "" {
		return zero, common.NewError(
			common.ErrCodeValidationInput,
			"Tin nhắn inbound thiếu externalMessageId",
			common.StatusBadRequest,
			nil,
		)
	}

	msg.Direction = chatmodels.DirectionInbound
	if msg.Status == "" {
		msg.Status = chatmodels.MessageStatusReceived
	}

	created, err := s.InsertOne(ctx, msg)
	if err != nil {
		if common.IsDuplicateKey(err) {
			return zero, common.ErrDuplicateEvent
		}
		return zero, err
	}

	// Cập nhật marker hoạt động của hội thoại ($max — không thụt lùi)
	if err := s.conversationService.Touch(ctx, created.ConversationID, created.SentAt); err != nil {
		return created, err
	}

	return created, nil
}

// AppendOutbound ghi nhận tin nhắn outbound sau khi provider đã nhận gửi thành công
func (s *MessageService) AppendOutbound(ctx context.Context, msg chatmodels.ChatMessage) (chatmodels.ChatMessage, error) {
	var zero chatmodels.ChatMessage

	msg.Direction = chatmodels.DirectionOutbound
	if msg.Status == "" {
		msg.Status = chatmodels.MessageStatusSent
	}

	created, err := s.InsertOne(ctx, msg)
	if err != nil {
		if common.IsDuplicateKey(err) {
			return zero, common.ErrDuplicateEvent
		}
		return zero, err
	}

	if err := s.conversationService.Touch(ctx, created.ConversationID, created.SentAt); err != nil {
		return created, err
	}

	return created, nil
}

// ListByConversation trả về tin nhắn của hội thoại theo thứ tự provider-reported
// timestamp (sentAt tăng dần) — thứ tự đọc không phụ thuộc thứ tự ingest.
func (s *MessageService) ListByConversation(ctx context.Context, gymID, conversationID primitive.ObjectID, page, limit int64) (*basemodels.PaginateResult[chatmodels.ChatMessage], error) {
	filter := bson.M{"conversationId": conversationID, "gymId": gymID}
	opts := options.Find().SetSort(bson.D{{Key: "sentAt", Value: 1}})
	return s.FindWithPagination(ctx, filter, page, limit, opts)
}

// ExistsByExternalID kiểm tra đã ghi nhận externalMessageId này cho gym chưa
func (s *MessageService) ExistsByExternalID(ctx context.Context, gymID primitive.ObjectID, externalMessageID string) (bool, error) {
	filter := bson.M{"gymId": gymID, "externalMessageId": externalMessageID}
	return s.DocumentExists(ctx, filter)
}
