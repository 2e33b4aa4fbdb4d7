// Package whatsappsvc - ràng buộc media upload.
// File: service.whatsapp.media.go
package whatsappsvc

import (
	"fmt"

	"gym_connect/internal/common"
)

// MaxMediaUploadBytes là giới hạn kích thước media upload (16 MiB)
const MaxMediaUploadBytes = 16 << 20

// allowedMediaTypes là whitelist MIME type cho media upload từ CRM user
var allowedMediaTypes = map[string]bool{
	// Ảnh
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,

	// Tài liệu
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,

	// Âm thanh
	"audio/mpeg": true,
	"audio/mp4":  true,
	"audio/wav":  true,

	// Video
	"video/mp4":       true,
	"video/x-msvideo": true,
	"video/quicktime": true,
}

// IsAllowedMediaType kiểm tra MIME type có trong whitelist không
func IsAllowedMediaType(mimeType string) bool {
	return allowedMediaTypes[mimeType]
}

// ValidateMediaUpload kiểm tra MIME type và kích thước trước khi upload lên provider
func ValidateMediaUpload(data []byte, mimeType string) error {
	if !IsAllowedMediaType(mimeType) {
		return common.NewError(
			common.ErrCodeValidationInput,
			fmt.Sprintf("MIME type không được hỗ trợ: %s", mimeType),
			common.StatusUnsupportedMedia,
			nil,
		)
	}
	if len(data) == 0 {
		return common.NewError(
			common.ErrCodeValidationInput,
			"Media upload rỗng",
			common.StatusBadRequest,
			nil,
		)
	}
	if len(data) > MaxMediaUploadBytes {
		return common.NewError(
			common.ErrCodeValidationInput,
			fmt.Sprintf("Media vượt giới hạn %d bytes", MaxMediaUploadBytes),
			common.StatusPayloadTooLarge,
			len(data),
		)
	}
	return nil
}
