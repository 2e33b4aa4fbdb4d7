package common

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// HTTP Status Code Constants
const (
	// Success Codes (2xx)
	StatusOK       = 200 // Thành công
	StatusCreated  = 201 // Tạo mới thành công
	StatusAccepted = 202 // Yêu cầu được chấp nhận

	// Client Error Codes (4xx)
	StatusBadRequest         = 400 // Yêu cầu không hợp lệ
	StatusUnauthorized       = 401 // Chưa xác thực
	StatusForbidden          = 403 // Không có quyền truy cập
	StatusNotFound           = 404 // Không tìm thấy tài nguyên
	StatusConflict           = 409 // Xung đột dữ liệu
	StatusPreconditionFailed = 412 // Điều kiện tiên quyết không thỏa mãn
	StatusPayloadTooLarge    = 413 // Payload vượt giới hạn
	StatusUnsupportedMedia   = 415 // Loại media không được hỗ trợ
	StatusTooManyRequests    = 429 // Quá nhiều yêu cầu

	// Server Error Codes (5xx)
	StatusInternalServerError = 500 // Lỗi server
	StatusBadGateway          = 502 // Upstream trả về lỗi
	StatusServiceUnavailable  = 503 // Dịch vụ không khả dụng
	StatusGatewayTimeout      = 504 // Upstream timeout
)

// Response Messages
const (
	MsgSuccess = "Thao tác thành công"

	MsgBadRequest      = "Yêu cầu không hợp lệ"
	MsgUnauthorized    = "Vui lòng đăng nhập"
	MsgForbidden       = "Không có quyền truy cập"
	MsgNotFound        = "Không tìm thấy tài nguyên"
	MsgInternalError   = "Lỗi hệ thống"
	MsgValidationError = "Dữ liệu không hợp lệ"
	MsgDatabaseError   = "Lỗi tương tác với cơ sở dữ liệu"
	MsgInvalidFormat   = "Định dạng dữ liệu không hợp lệ"
)

// ErrorCode định nghĩa mã lỗi chi tiết
type ErrorCode struct {
	Code        string // Mã lỗi (ví dụ: UPS_001)
	Category    string // Phân loại lỗi (ví dụ: Upstream)
	SubCategory string // Phân loại con (ví dụ: Timeout)
	Description string // Mô tả chi tiết
}

// Định nghĩa các mã lỗi theo hệ thống phân cấp
var (
	// System Errors (SYS_xxx)
	ErrCodeInternalServer = ErrorCode{
		Code:        "SYS_001",
		Category:    "System",
		SubCategory: "Internal",
		Description: "Lỗi hệ thống nội bộ",
	}

	// Authentication Errors (AUTH_xxx)
	ErrCodeAuth = ErrorCode{
		Code:        "AUTH",
		Category:    "Authentication",
		SubCategory: "General",
		Description: "Lỗi xác thực chung",
	}

	ErrCodeAuthToken = ErrorCode{
		Code:        "AUTH_001",
		Category:    "Authentication",
		SubCategory: "Token",
		Description: "Lỗi liên quan đến token",
	}

	// Validation Errors (VAL_xxx)
	ErrCodeValidation = ErrorCode{
		Code:        "VAL",
		Category:    "Validation",
		SubCategory: "General",
		Description: "Lỗi xác thực dữ liệu chung",
	}

	ErrCodeValidationInput = ErrorCode{
		Code:        "VAL_001",
		Category:    "Validation",
		SubCategory: "Input",
		Description: "Lỗi dữ liệu đầu vào",
	}

	ErrCodeValidationFormat = ErrorCode{
		Code:        "VAL_002",
		Category:    "Validation",
		SubCategory: "Format",
		Description: "Lỗi định dạng dữ liệu",
	}

	// Database Errors (DB_xxx)
	ErrCodeDatabase = ErrorCode{
		Code:        "DB",
		Category:    "Database",
		SubCategory: "General",
		Description: "Lỗi cơ sở dữ liệu chung",
	}

	ErrCodeDatabaseConnection = ErrorCode{
		Code:        "DB_001",
		Category:    "Database",
		SubCategory: "Connection",
		Description: "Lỗi kết nối cơ sở dữ liệu",
	}

	ErrCodeDatabaseQuery = ErrorCode{
		Code:        "DB_002",
		Category:    "Database",
		SubCategory: "Query",
		Description: "Lỗi truy vấn dữ liệu",
	}

	// Business Logic Errors (BIZ_xxx)
	ErrCodeBusinessState = ErrorCode{
		Code:        "BIZ_001",
		Category:    "Business",
		SubCategory: "State",
		Description: "Lỗi trạng thái nghiệp vụ",
	}

	ErrCodeBusinessOperation = ErrorCode{
		Code:        "BIZ_002",
		Category:    "Business",
		SubCategory: "Operation",
		Description: "Lỗi thao tác nghiệp vụ",
	}

	// Upstream Errors (UPS_xxx) — lỗi khi gọi provider bên ngoài (WhatsApp Cloud API, EVO)
	ErrCodeUpstream = ErrorCode{
		Code:        "UPS",
		Category:    "Upstream",
		SubCategory: "General",
		Description: "Lỗi gọi hệ thống bên ngoài",
	}

	ErrCodeUpstreamTimeout = ErrorCode{
		Code:        "UPS_001",
		Category:    "Upstream",
		SubCategory: "Timeout",
		Description: "Gọi hệ thống bên ngoài vượt quá deadline",
	}

	ErrCodeUpstreamRejected = ErrorCode{
		Code:        "UPS_002",
		Category:    "Upstream",
		SubCategory: "Rejected",
		Description: "Hệ thống bên ngoài từ chối yêu cầu (non-timeout)",
	}

	// Integration Errors (INT_xxx) — trạng thái tích hợp messaging/EVO của gym
	ErrCodeIntegration = ErrorCode{
		Code:        "INT",
		Category:    "Integration",
		SubCategory: "General",
		Description: "Lỗi tích hợp chung",
	}

	ErrCodeIntegrationNotConfigured = ErrorCode{
		Code:        "INT_001",
		Category:    "Integration",
		SubCategory: "NotConfigured",
		Description: "Gym chưa cấu hình tích hợp",
	}

	ErrCodeIntegrationNotReady = ErrorCode{
		Code:        "INT_002",
		Category:    "Integration",
		SubCategory: "NotReady",
		Description: "Tích hợp chưa qua kiểm tra kết nối",
	}

	ErrCodeDuplicateEvent = ErrorCode{
		Code:        "INT_003",
		Category:    "Integration",
		SubCategory: "Duplicate",
		Description: "Sự kiện đã được xử lý trước đó (idempotent no-op)",
	}

	ErrCodeConnectivityCheck = ErrorCode{
		Code:        "INT_004",
		Category:    "Integration",
		SubCategory: "Connectivity",
		Description: "Kiểm tra kết nối với provider thất bại",
	}
)

// Error định nghĩa cấu trúc lỗi chi tiết
type Error struct {
	Code       ErrorCode // Mã lỗi chi tiết
	Message    string    // Thông báo lỗi
	StatusCode int       // HTTP status code
	Details    any       // Thông tin chi tiết thêm về lỗi
}

// Error trả về message của lỗi
func (e *Error) Error() string {
	return e.Message
}

// Is so sánh theo mã lỗi để hỗ trợ errors.Is với các sentinel bên dưới
func (e *Error) Is(target error) bool {
	targetErr, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code.Code == targetErr.Code.Code
}

// NewError tạo một error mới với đầy đủ thông tin
func NewError(code ErrorCode, message string, statusCode int, details any) error {
	return &Error{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    details,
	}
}

// Custom errors
var (
	// Validation Errors
	ErrInvalidInput  = NewError(ErrCodeValidationInput, "Dữ liệu đầu vào không hợp lệ", StatusBadRequest, nil)
	ErrInvalidFormat = NewError(ErrCodeValidationFormat, "Định dạng dữ liệu không hợp lệ", StatusBadRequest, nil)
	ErrRequiredField = NewError(ErrCodeValidationInput, "Thiếu thông tin bắt buộc", StatusBadRequest, nil)

	// Database Errors
	ErrNotFound   = NewError(ErrCodeDatabaseQuery, "Không tìm thấy dữ liệu", StatusNotFound, nil)
	ErrDuplicate  = NewError(ErrCodeDatabaseQuery, "Dữ liệu đã tồn tại", StatusConflict, nil)
	ErrConnection = NewError(ErrCodeDatabaseConnection, "Lỗi kết nối cơ sở dữ liệu", StatusServiceUnavailable, nil)

	// Upstream Errors
	ErrUpstreamTimeout  = NewError(ErrCodeUpstreamTimeout, "Provider không phản hồi trong thời gian cho phép", StatusGatewayTimeout, nil)
	ErrUpstreamRejected = NewError(ErrCodeUpstreamRejected, "Provider từ chối yêu cầu", StatusBadGateway, nil)

	// Integration Errors
	ErrIntegrationNotConfigured = NewError(ErrCodeIntegrationNotConfigured, "Gym chưa cấu hình tài khoản WhatsApp", StatusNotFound, nil)
	ErrIntegrationNotReady      = NewError(ErrCodeIntegrationNotReady, "Tài khoản WhatsApp chưa được kích hoạt", StatusPreconditionFailed, nil)
	ErrDuplicateEvent           = NewError(ErrCodeDuplicateEvent, "Tin nhắn đã được ghi nhận trước đó", StatusOK, nil)
	ErrConnectivityCheck        = NewError(ErrCodeConnectivityCheck, "Kiểm tra kết nối provider thất bại", StatusBadGateway, nil)
)

// ConvertMongoError chuyển đổi lỗi MongoDB sang lỗi hệ thống
func ConvertMongoError(err error) error {
	if err == nil {
		return nil
	}

	// Không convert các lỗi đã thuộc taxonomy của hệ thống
	var customErr *Error
	if errors.As(err, &customErr) {
		return err
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}

	// Duplicate key = vi phạm unique index. Caller quyết định đây là conflict
	// hay idempotent no-op (xem IsDuplicateKey).
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	if mongo.IsNetworkError(err) {
		return ErrConnection
	}
	if mongo.IsTimeout(err) {
		return NewError(ErrCodeDatabaseConnection, "Kết nối MongoDB bị timeout", StatusServiceUnavailable, err)
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return NewError(ErrCodeDatabaseQuery, "Lỗi truy vấn MongoDB", StatusInternalServerError, cmdErr.Message)
	}

	return NewError(ErrCodeDatabase, MsgDatabaseError, StatusInternalServerError, err)
}

// IsDuplicateKey kiểm tra err (gốc hoặc đã convert) có phải lỗi unique index không.
// Đây là cơ chế dedup duy nhất cho inbound message (check-then-insert không atomic).
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDuplicate) {
		return true
	}
	return mongo.IsDuplicateKeyError(err)
}
