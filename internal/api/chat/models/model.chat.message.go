package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Chiều tin nhắn
const (
	DirectionInbound  = "INBOUND"
	DirectionOutbound = "OUTBOUND"
)

// Loại tin nhắn được hỗ trợ
const (
	MessageTypeText     = "text"
	MessageTypeImage    = "image"
	MessageTypeDocument = "document"
	MessageTypeAudio    = "audio"
	MessageTypeVideo    = "video"
)

// Trạng thái tin nhắn
const (
	MessageStatusReceived = "RECEIVED" // Tin nhắn inbound đã ghi nhận
	MessageStatusSent     = "SENT"     // Tin nhắn outbound provider đã nhận
)

// ChatMessage đại diện cho một tin nhắn trong hội thoại.
// Unique sparse index (gymId, externalMessageId) là cơ chế dedup duy nhất
// cho inbound message khi provider redeliver cùng một sự kiện.
type ChatMessage struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`                                                         // ID của tin nhắn
	ConversationID primitive.ObjectID `json:"conversationId" bson:"conversationId" index:"single:1"`                                     // Hội thoại chứa tin nhắn
	GymID          primitive.ObjectID `json:"gymId" bson:"gymId" index:"compound:idx_gym_external_msg_unique_sparse"`                    // Gym sở hữu (denormalized cho dedup key)
	ExternalMessageID string          `json:"externalMessageId,omitempty" bson:"externalMessageId,omitempty" index:"compound:idx_gym_external_msg_unique_sparse"` // ID provider gán (wamid)

	Direction string `json:"direction" bson:"direction"` // INBOUND | OUTBOUND
	Type      string `json:"type" bson:"type"`           // text | image | document | audio | video
	Text      string `json:"text,omitempty" bson:"text,omitempty"`           // Nội dung text (type=text hoặc caption)
	MediaID   string `json:"mediaId,omitempty" bson:"mediaId,omitempty"`     // Tham chiếu media phía provider (tải lazy khi cần)
	MimeType  string `json:"mimeType,omitempty" bson:"mimeType,omitempty"`   // MIME type của media
	Filename  string `json:"filename,omitempty" bson:"filename,omitempty"`   // Tên file (type=document)

	From   string `json:"from,omitempty" bson:"from,omitempty"` // Số gửi (inbound: khách, outbound: số của gym)
	To     string `json:"to,omitempty" bson:"to,omitempty"`     // Số nhận
	Status string `json:"status" bson:"status"`                 // RECEIVED | SENT

	SentAt    int64 `json:"sentAt" bson:"sentAt" index:"single:-1"` // Thời điểm provider báo (Unix milli) — dùng để sắp xếp khi đọc
	CreatedAt int64 `json:"createdAt" bson:"createdAt"`             // Thời gian tạo
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`             // Thời gian cập nhật
}
