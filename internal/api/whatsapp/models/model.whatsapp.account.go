package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trạng thái vòng đời của tài khoản WhatsApp
const (
	AccountStatusPending = "PENDING" // Mới cấu hình hoặc vừa đổi credential, chưa qua kiểm tra kết nối
	AccountStatusActive  = "ACTIVE"  // Đã kiểm tra kết nối thành công
)

// WaAccount gắn một gym với một tài khoản WhatsApp Business.
// Mỗi gym có tối đa một tài khoản (upsert theo gymId); phoneNumberId là unique
// toàn hệ thống vì đây là khóa định tuyến duy nhất cho webhook inbound.
type WaAccount struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`                        // ID của tài khoản
	GymID         primitive.ObjectID `json:"gymId" bson:"gymId" index:"unique"`                        // Gym sở hữu tài khoản
	PhoneNumberID string             `json:"phoneNumberId" bson:"phoneNumberId" index:"unique"`        // ID số điện thoại phía provider — khóa resolve tenant
	PhoneNumber   string             `json:"phoneNumber" bson:"phoneNumber"`                           // Số điện thoại hiển thị
	AccessToken   string             `json:"-" bson:"accessToken"`                                     // Bearer credential — không trả về qua JSON
	Status        string             `json:"status" bson:"status"`                                     // PENDING | ACTIVE

	CreatedAt int64 `json:"createdAt" bson:"createdAt"` // Thời gian tạo
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"` // Thời gian cập nhật
}
