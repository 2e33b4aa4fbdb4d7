package common

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ClassifyUpstreamError phân loại lỗi khi gọi hệ thống bên ngoài (WhatsApp Cloud
// API, EVO) thành hai nhóm tách biệt:
//
//   - UPS_001 UpstreamTimeout: vượt deadline. Caller có thể retry; riêng flow
//     activate phải chặn lại vì probe chưa có kết luận.
//   - UPS_002 UpstreamRejected: mọi thất bại không phải timeout (provider trả
//     lỗi, kết nối bị từ chối).
//
// Phân biệt này là bắt buộc: timeout khi activate phải chặn activation, còn
// timeout khi gửi thường chỉ cần báo lại cho người dùng.
func ClassifyUpstreamError(err error, detail string) error {
	if err == nil {
		return nil
	}

	if isTimeoutError(err) {
		return NewError(
			ErrCodeUpstreamTimeout,
			fmt.Sprintf("Provider không phản hồi trong thời gian cho phép: %s", detail),
			StatusGatewayTimeout,
			err.Error(),
		)
	}

	return NewError(
		ErrCodeUpstreamRejected,
		fmt.Sprintf("Provider từ chối yêu cầu: %s", detail),
		StatusBadGateway,
		err.Error(),
	)
}

// NewUpstreamRejected tạo lỗi UPS_002 từ một response không thành công của provider
func NewUpstreamRejected(statusCode int, body string) error {
	return NewError(
		ErrCodeUpstreamRejected,
		fmt.Sprintf("Provider trả về status %d", statusCode),
		StatusBadGateway,
		body,
	)
}

// isTimeoutError kiểm tra err có phải deadline/timeout không
func isTimeoutError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}
