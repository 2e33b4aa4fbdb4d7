// Package chatsvc chứa service cho domain Chat (conversation, message).
package chatsvc

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	basemodels "gym_connect/internal/api/base/models"
	basesvc "gym_connect/internal/api/base/service"
	chatmodels "gym_connect/internal/api/chat/models"
	"gym_connect/internal/common"
	"gym_connect/internal/global"
)

// ConversationService là cấu trúc chứa các phương thức liên quan đến hội thoại
type ConversationService struct {
	*basesvc.BaseServiceMongoImpl[chatmodels.Conversation]
}

// NewConversationService tạo mới ConversationService
func NewConversationService() (*ConversationService, error) {
	coll, exist := global.RegistryCollections.Get(global.ColNames.ChatConversations)
	if !exist {
		return nil, fmt.Errorf("failed to get chat_conversations collection: %v", common.ErrNotFound)
	}
	return &ConversationService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[chatmodels.Conversation](coll),
	}, nil
}

// NormalizeCounterpart chuẩn hóa số điện thoại khách về dạng chỉ chữ số.
// Provider lúc gửi "84912345678", lúc gửi "+84 912 345 678" — phải về cùng
// một key để không tách hội thoại.
func NormalizeCounterpart(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ResolveOrCreate tìm hội thoại ACTIVE cho cặp (gym, counterpart), tạo mới nếu chưa có.
// Hai delivery đầu tiên đến đồng thời có thể cùng đi nhánh insert của upsert;
// partial unique index (gymId, counterpart | ACTIVE, chưa xóa) chặn bản thứ hai
// bằng duplicate key — thua race thì đọc lại document thắng cuộc.
func (s *ConversationService) ResolveOrCreate(ctx context.Context, gymID primitive.ObjectID, counterpart string, channel string) (chatmodels.Conversation, error) {
	var zero chatmodels.Conversation

	normalized := NormalizeCounterpart(counterpart)
	if normalized == "" {
		return zero, common.NewError(
			common.ErrCodeValidationInput,
			"Counterpart không chứa chữ số nào",
			common.StatusBadRequest,
			counterpart,
		)
	}

	filter := bson.M{
		"gymId":       gymID,
		"counterpart": normalized,
		"status":      chatmodels.ConversationStatusActive,
		"isDeleted":   false,
	}
	update := &basesvc.UpdateData{
		SetOnInsert: map[string]interface{}{
			"gymId":         gymID,
			"counterpart":   normalized,
			"channel":       channel,
			"status":        chatmodels.ConversationStatusActive,
			"isDeleted":     false,
			"lastMessageAt": int64(0),
		},
	}

	conversation, err := s.Upsert(ctx, filter, update)
	if err != nil {
		if common.IsDuplicateKey(err) {
			return s.FindOne(ctx, filter, nil)
		}
		return zero, err
	}
	return conversation, nil
}

// BuildTouchUpdate dựng update document cập nhật lastMessageAt theo semantic $max.
// Tách riêng để kiểm chứng được lastMessageAt không bao giờ thụt lùi.
func BuildTouchUpdate(sentAt int64) *basesvc.UpdateData {
	return &basesvc.UpdateData{
		Max: map[string]interface{}{
			"lastMessageAt": sentAt,
		},
	}
}

// Touch cập nhật lastMessageAt cho hội thoại sau khi ghi nhận tin nhắn.
// Dùng $max để delivery đến muộn (timestamp cũ hơn) không ghi đè marker.
func (s *ConversationService) Touch(ctx context.Context, conversationID primitive.ObjectID, sentAt int64) error {
	filter := bson.M{"_id": conversationID}
	_, err := s.UpdateOne(ctx, filter, BuildTouchUpdate(sentAt), nil)
	return err
}

// Close chuyển hội thoại sang trạng thái CLOSED
func (s *ConversationService) Close(ctx context.Context, gymID, conversationID primitive.ObjectID) (chatmodels.Conversation, error) {
	filter := bson.M{"_id": conversationID, "gymId": gymID, "isDeleted": false}
	update := bson.M{"$set": bson.M{"status": chatmodels.ConversationStatusClosed}}
	return s.UpdateOne(ctx, filter, update, nil)
}

// SoftDelete đánh dấu hội thoại đã xóa. Không bao giờ xóa cứng.
func (s *ConversationService) SoftDelete(ctx context.Context, gymID, conversationID primitive.ObjectID) (chatmodels.Conversation, error) {
	filter := bson.M{"_id": conversationID, "gymId": gymID}
	update := bson.M{"$set": bson.M{"isDeleted": true}}
	return s.UpdateOne(ctx, filter, update, nil)
}

// AttachLead gắn tham chiếu lead cho hội thoại
func (s *ConversationService) AttachLead(ctx context.Context, gymID, conversationID, leadID primitive.ObjectID) (chatmodels.Conversation, error) {
	filter := bson.M{"_id": conversationID, "gymId": gymID, "isDeleted": false}
	update := bson.M{"$set": bson.M{"leadId": leadID}}
	return s.UpdateOne(ctx, filter, update, nil)
}

// ListByGym trả về các hội thoại của gym, mới hoạt động nhất trước
func (s *ConversationService) ListByGym(ctx context.Context, gymID primitive.ObjectID, page, limit int64) (*basemodels.PaginateResult[chatmodels.Conversation], error) {
	filter := bson.M{"gymId": gymID, "isDeleted": false}
	opts := options.Find().SetSort(bson.D{{Key: "lastMessageAt", Value: -1}})
	return s.FindWithPagination(ctx, filter, page, limit, opts)
}

// GetByGym lấy một hội thoại theo ID trong phạm vi gym
func (s *ConversationService) GetByGym(ctx context.Context, gymID, conversationID primitive.ObjectID) (chatmodels.Conversation, error) {
	filter := bson.M{"_id": conversationID, "gymId": gymID, "isDeleted": false}
	return s.FindOne(ctx, filter, nil)
}
