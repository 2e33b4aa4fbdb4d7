package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Nguồn tạo lead
const (
	LeadSourceManual = "manual" // Nhập tay từ CRM
	LeadSourceChat   = "chat"   // Sinh từ hội thoại WhatsApp
	LeadSourceEvo    = "evo"    // Kéo về từ EVO
)

// CrmLead là bản ghi lead của gym.
// evoMemberId là foreign key join chính xác với EVO — unique sparse theo
// (gymId, evoMemberId) để upsert từ sync không tạo trùng; lead chưa link
// EVO không có field này.
type CrmLead struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`                                                              // ID của lead
	GymID       primitive.ObjectID `json:"gymId" bson:"gymId" index:"compound:idx_gym_evo_member_unique_sparse"`                           // Gym sở hữu lead
	EvoMemberID string             `json:"evoMemberId,omitempty" bson:"evoMemberId,omitempty" index:"compound:idx_gym_evo_member_unique_sparse"` // ID member phía EVO

	Name  string `json:"name" bson:"name"`                       // Tên lead
	Phone string `json:"phone,omitempty" bson:"phone,omitempty" index:"single:1"` // Số điện thoại (đã chuẩn hóa)
	Email string `json:"email,omitempty" bson:"email,omitempty"` // Email

	Source string `json:"source" bson:"source"` // manual | chat | evo

	// EvoUpdatedAt là updatedAt phía EVO của lần pull gần nhất — khóa của
	// conflict policy last-write-wins khi sync
	EvoUpdatedAt int64 `json:"evoUpdatedAt,omitempty" bson:"evoUpdatedAt,omitempty"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`                       // Thời gian tạo
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt" index:"single:-1"`     // Thời gian cập nhật — dùng cho ChangedSince khi push
}
