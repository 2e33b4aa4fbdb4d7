package common

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type fakeTimeoutError struct{}

func (e *fakeTimeoutError) Error() string   { return "i/o timeout" }
func (e *fakeTimeoutError) Timeout() bool   { return true }
func (e *fakeTimeoutError) Temporary() bool { return true }

func TestClassifyUpstreamError_DeadlineLaTimeout(t *testing.T) {
	err := ClassifyUpstreamError(context.DeadlineExceeded, "gửi tin nhắn")
	customErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("Phải trả về *common.Error, nhận %T", err)
	}
	if customErr.Code.Code != ErrCodeUpstreamTimeout.Code {
		t.Errorf("Deadline exceeded phải phân loại UPS timeout, nhận %s", customErr.Code.Code)
	}
	if customErr.StatusCode != StatusGatewayTimeout {
		t.Errorf("Timeout phải map 504, nhận %d", customErr.StatusCode)
	}
	if !errors.Is(err, ErrUpstreamTimeout) {
		t.Error("errors.Is với sentinel ErrUpstreamTimeout phải đúng")
	}
}

func TestClassifyUpstreamError_WrappedDeadline(t *testing.T) {
	wrapped := fmt.Errorf("Post \"https://graph.facebook.com\": %w", context.DeadlineExceeded)
	err := ClassifyUpstreamError(wrapped, "gửi tin nhắn")
	if !errors.Is(err, ErrUpstreamTimeout) {
		t.Error("Deadline exceeded bọc trong lỗi khác vẫn phải phân loại timeout")
	}
}

func TestClassifyUpstreamError_NetTimeout(t *testing.T) {
	err := ClassifyUpstreamError(&fakeTimeoutError{}, "kéo members")
	if !errors.Is(err, ErrUpstreamTimeout) {
		t.Error("net.Error với Timeout()=true phải phân loại timeout")
	}
}

func TestClassifyUpstreamError_LoiKhacLaRejected(t *testing.T) {
	err := ClassifyUpstreamError(errors.New("connection refused"), "gửi tin nhắn")
	customErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("Phải trả về *common.Error, nhận %T", err)
	}
	if customErr.Code.Code != ErrCodeUpstreamRejected.Code {
		t.Errorf("Lỗi không phải timeout phải phân loại rejected, nhận %s", customErr.Code.Code)
	}
	if customErr.StatusCode != StatusBadGateway {
		t.Errorf("Rejected phải map 502, nhận %d", customErr.StatusCode)
	}
	if errors.Is(err, ErrUpstreamTimeout) {
		t.Error("Connection refused không được nhận nhầm là timeout")
	}
}

func TestClassifyUpstreamError_NilKhongTaoLoi(t *testing.T) {
	if err := ClassifyUpstreamError(nil, "x"); err != nil {
		t.Errorf("Err nil phải trả nil, nhận %v", err)
	}
}

func TestNewUpstreamRejected_GiuBodyTrongDetails(t *testing.T) {
	err := NewUpstreamRejected(400, `{"error":{"message":"Invalid recipient"}}`)
	customErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("Phải trả về *common.Error, nhận %T", err)
	}
	if customErr.StatusCode != StatusBadGateway {
		t.Errorf("Provider reject phải map 502 phía mình, nhận %d", customErr.StatusCode)
	}
	if customErr.Details == nil {
		t.Error("Body của provider phải giữ trong Details để debug")
	}
}
