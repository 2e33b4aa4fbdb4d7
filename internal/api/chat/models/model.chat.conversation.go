package models

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gym_connect/internal/database"
)

// Trạng thái hội thoại
const (
	ConversationStatusActive = "ACTIVE"
	ConversationStatusClosed = "CLOSED"
)

// Kênh nhắn tin
const (
	ChannelWhatsApp = "whatsapp"
)

// Conversation đại diện cho một hội thoại giữa gym và một số điện thoại khách.
// Mỗi cặp (gym, counterpart) có tối đa một hội thoại ACTIVE tại một thời điểm;
// hội thoại không bao giờ bị xóa cứng, chỉ đánh dấu isDeleted.
type Conversation struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`                                     // ID của hội thoại
	GymID       primitive.ObjectID `json:"gymId" bson:"gymId" index:"compound:idx_gym_counterpart"`               // Gym sở hữu hội thoại
	Counterpart string             `json:"counterpart" bson:"counterpart" index:"compound:idx_gym_counterpart"`   // Số điện thoại khách (đã chuẩn hóa)
	LeadID      primitive.ObjectID `json:"leadId,omitempty" bson:"leadId,omitempty" index:"single:1"`             // Tham chiếu mềm tới lead (chỉ lookup, không cascade)
	Channel     string             `json:"channel" bson:"channel"`                                                // Kênh nhắn tin (whatsapp)
	Status      string             `json:"status" bson:"status" index:"single:1"`                                 // ACTIVE | CLOSED
	IsDeleted   bool               `json:"isDeleted" bson:"isDeleted"`                                            // Soft-delete flag

	// lastMessageAt chỉ được cập nhật qua $max để không bị thụt lùi khi
	// delivery đến không theo thứ tự
	LastMessageAt int64 `json:"lastMessageAt" bson:"lastMessageAt" index:"single:-1"` // Thời điểm tin nhắn gần nhất (Unix milli)

	CreatedAt int64 `json:"createdAt" bson:"createdAt"` // Thời gian tạo
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"` // Thời gian cập nhật
}

// ExtraIndexes khai báo partial unique index trên (gymId, counterpart) giới hạn
// cho document ACTIVE chưa xóa. Upsert của resolve-or-create không tự chống
// double-insert khi hai delivery đầu tiên của cùng counterpart đến đồng thời —
// index này là thứ đóng race đó ở tầng storage.
func (Conversation) ExtraIndexes() []database.ExtraIndex {
	return []database.ExtraIndex{
		{
			Keys: bson.D{{Key: "gymId", Value: 1}, {Key: "counterpart", Value: 1}},
			Options: options.Index().
				SetName("idx_gym_counterpart_active_unique").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{
					"status":    ConversationStatusActive,
					"isDeleted": false,
				}),
		},
	}
}
