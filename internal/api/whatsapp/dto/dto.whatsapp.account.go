// Package dto chứa các cấu trúc request/response cho domain WhatsApp.
package dto

// UpsertAccountInput là body cấu hình tài khoản WhatsApp cho gym.
// Mọi thay đổi cấu hình đều đưa tài khoản về PENDING — phải activate lại.
type UpsertAccountInput struct {
	PhoneNumberID string `json:"phoneNumberId" validate:"required,no_xss"` // ID số điện thoại phía provider
	PhoneNumber   string `json:"phoneNumber" validate:"required,no_xss"`   // Số điện thoại hiển thị
	AccessToken   string `json:"accessToken" validate:"required"`          // Bearer credential
}

// ActivationResult là response của activate/test-connectivity
type ActivationResult struct {
	Connected       bool        `json:"connected"`                 // Kết quả probe
	Status          string      `json:"status,omitempty"`          // Trạng thái tài khoản sau thao tác
	BusinessProfile interface{} `json:"businessProfile,omitempty"` // Profile provider trả về khi probe thành công
	Error           string      `json:"error,omitempty"`           // Mô tả lỗi khi probe thất bại
}
