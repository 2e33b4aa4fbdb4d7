// Package notification cung cấp cổng phát sự kiện chat ra ngoài ứng dụng
// (tin nhắn mới, hội thoại thay đổi) để hệ thống CRM/realtime phía sau tiêu thụ.
package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gym_connect/internal/logger"
)

// Các loại sự kiện phát ra
const (
	EventMessageInbound  = "message.inbound"  // Tin nhắn mới từ khách
	EventMessageOutbound = "message.outbound" // Tin nhắn gym gửi đi thành công
	EventConversation    = "conversation.updated"
)

// ChatEvent là payload phát cho mỗi sự kiện chat
type ChatEvent struct {
	ID             string      `json:"id"`             // ID duy nhất của sự kiện
	Type           string      `json:"type"`           // Loại sự kiện (xem hằng số phía trên)
	GymID          string      `json:"gymId"`          // Gym sở hữu sự kiện
	ConversationID string      `json:"conversationId"` // Hội thoại liên quan
	EmittedAt      int64       `json:"emittedAt"`      // Unix milli
	Payload        interface{} `json:"payload"`        // Dữ liệu chi tiết (message, conversation)
}

// NewChatEvent tạo sự kiện với ID và timestamp tự sinh
func NewChatEvent(eventType string, gymID primitive.ObjectID, conversationID primitive.ObjectID, payload interface{}) ChatEvent {
	return ChatEvent{
		ID:             uuid.NewString(),
		Type:           eventType,
		GymID:          gymID.Hex(),
		ConversationID: conversationID.Hex(),
		EmittedAt:      time.Now().UnixMilli(),
		Payload:        payload,
	}
}

// Broadcaster phát sự kiện chat ra kênh phân phối.
// Lỗi phát sự kiện không được làm hỏng flow nghiệp vụ chính — caller log và tiếp tục.
type Broadcaster interface {
	Emit(ctx context.Context, event ChatEvent) error
	Close() error
}

// LogBroadcaster ghi sự kiện ra log, dùng khi không cấu hình AMQP (môi trường dev/test)
type LogBroadcaster struct{}

// Emit ghi sự kiện ra app log
func (b *LogBroadcaster) Emit(ctx context.Context, event ChatEvent) error {
	logger.GetAppLogger().WithFields(map[string]interface{}{
		"event_id":        event.ID,
		"event_type":      event.Type,
		"gym_id":          event.GymID,
		"conversation_id": event.ConversationID,
	}).Info("Chat event emitted")
	return nil
}

// Close không làm gì với LogBroadcaster
func (b *LogBroadcaster) Close() error {
	return nil
}
