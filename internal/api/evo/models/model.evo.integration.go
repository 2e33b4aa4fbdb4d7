package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EvoIntegration là cấu hình tích hợp EVO của một gym.
// Mỗi gym có thể có nhiều integration (nhiều chi nhánh EVO).
type EvoIntegration struct {
	ID    primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`         // ID của integration
	GymID primitive.ObjectID `json:"gymId" bson:"gymId" index:"single:1"`       // Gym sở hữu

	BaseURL  string `json:"baseUrl" bson:"baseUrl"`   // Endpoint EVO API
	APIKey   string `json:"-" bson:"apiKey"`          // Credential — không trả về qua JSON
	BranchID string `json:"branchId,omitempty" bson:"branchId,omitempty"` // Chi nhánh phía EVO

	// FieldMapping ánh xạ field EVO → field lead local (vd: "nameFull" → "name").
	// Cấu hình được theo integration; rỗng thì dùng mapping mặc định.
	FieldMapping map[string]string `json:"fieldMapping,omitempty" bson:"fieldMapping,omitempty"`

	// Lịch auto-sync do scheduler bên ngoài đọc — engine không tự hẹn giờ
	AutoSync        bool  `json:"autoSync" bson:"autoSync"`
	SyncIntervalMin int64 `json:"syncIntervalMin,omitempty" bson:"syncIntervalMin,omitempty"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt"` // Thời gian tạo
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"` // Thời gian cập nhật
}
