package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Chiều đồng bộ
const (
	SyncDirectionFromEvo = "FROM_EVO" // Kéo member từ EVO về lead local
	SyncDirectionToEvo   = "TO_EVO"   // Đẩy lead local lên EVO
)

// EvoSyncRun là một lần chạy đồng bộ — lịch sử append-only, tạo khi bắt đầu,
// finalize khi kết thúc, không bao giờ sửa sau khi hoàn tất.
type EvoSyncRun struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`                          // ID của run
	IntegrationID primitive.ObjectID `json:"integrationId" bson:"integrationId" index:"compound:idx_integration_direction"` // Integration được sync
	GymID         primitive.ObjectID `json:"gymId" bson:"gymId" index:"single:1"`                        // Gym sở hữu
	Direction     string             `json:"direction" bson:"direction" index:"compound:idx_integration_direction"` // FROM_EVO | TO_EVO

	StartedAt  int64 `json:"startedAt" bson:"startedAt" index:"single:-1"` // Thời điểm bắt đầu (Unix milli)
	FinishedAt int64 `json:"finishedAt,omitempty" bson:"finishedAt,omitempty"` // Thời điểm kết thúc

	RecordsSynced int64 `json:"recordsSynced" bson:"recordsSynced"` // Số record thành công
	RecordsFailed int64 `json:"recordsFailed" bson:"recordsFailed"` // Số record lỗi (không abort batch)

	// Error là lỗi cấp run (kéo trang thất bại, không đọc được lead store) —
	// tách khỏi recordsFailed để counter giữ đúng nghĩa đếm theo record
	Error string `json:"error,omitempty" bson:"error,omitempty"`

	Success bool `json:"success" bson:"success"` // true khi recordsFailed == 0 và không có lỗi cấp run

	CreatedAt int64 `json:"createdAt" bson:"createdAt"` // Thời gian tạo
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"` // Thời gian cập nhật
}
