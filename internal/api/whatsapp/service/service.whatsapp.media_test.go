// Package whatsappsvc - test ràng buộc media upload.
package whatsappsvc

import (
	"errors"
	"testing"

	"gym_connect/internal/common"
)

func TestIsAllowedMediaType(t *testing.T) {
	allowed := []string{"image/jpeg", "image/png", "application/pdf", "audio/mpeg", "video/mp4"}
	for _, mt := range allowed {
		if !IsAllowedMediaType(mt) {
			t.Errorf("MIME type %q phải nằm trong whitelist", mt)
		}
	}

	rejected := []string{"application/x-msdownload", "text/html", "image/svg+xml", ""}
	for _, mt := range rejected {
		if IsAllowedMediaType(mt) {
			t.Errorf("MIME type %q không được nằm trong whitelist", mt)
		}
	}
}

func TestValidateMediaUpload_MimeKhongHoTro(t *testing.T) {
	err := ValidateMediaUpload([]byte("data"), "application/x-msdownload")
	var customErr *common.Error
	if !errors.As(err, &customErr) {
		t.Fatalf("Phải trả về *common.Error, nhận %T", err)
	}
	if customErr.StatusCode != common.StatusUnsupportedMedia {
		t.Errorf("MIME ngoài whitelist phải trả 415, nhận %d", customErr.StatusCode)
	}
}

func TestValidateMediaUpload_PayloadRong(t *testing.T) {
	err := ValidateMediaUpload(nil, "image/jpeg")
	var customErr *common.Error
	if !errors.As(err, &customErr) {
		t.Fatalf("Phải trả về *common.Error, nhận %T", err)
	}
	if customErr.StatusCode != common.StatusBadRequest {
		t.Errorf("Payload rỗng phải trả 400, nhận %d", customErr.StatusCode)
	}
}

func TestValidateMediaUpload_GioiHanKichThuoc(t *testing.T) {
	// Đúng ngưỡng 16MiB vẫn hợp lệ
	atLimit := make([]byte, MaxMediaUploadBytes)
	if err := ValidateMediaUpload(atLimit, "image/jpeg"); err != nil {
		t.Errorf("Payload đúng ngưỡng phải hợp lệ, nhận %v", err)
	}

	// Quá ngưỡng 1 byte là 413
	overLimit := make([]byte, MaxMediaUploadBytes+1)
	err := ValidateMediaUpload(overLimit, "image/jpeg")
	var customErr *common.Error
	if !errors.As(err, &customErr) {
		t.Fatalf("Phải trả về *common.Error, nhận %T", err)
	}
	if customErr.StatusCode != common.StatusPayloadTooLarge {
		t.Errorf("Payload quá ngưỡng phải trả 413, nhận %d", customErr.StatusCode)
	}
}

func TestValidateMediaUpload_HopLe(t *testing.T) {
	if err := ValidateMediaUpload([]byte("%PDF-1.4"), "application/pdf"); err != nil {
		t.Errorf("Upload hợp lệ không được trả lỗi, nhận %v", err)
	}
}
