package basehdl

// Package basehdl - base handler.
// Package này cung cấp các tiện ích chung để xử lý request/response cho các domain handler.

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gym_connect/internal/common"
	"gym_connect/internal/global"
)

// BaseHandler chứa các tiện ích chung cho mọi domain handler.
// Các domain handler embed struct này để dùng ParseRequestBody / ValidateInput / HandleResponse.
type BaseHandler struct{}

// ParseRequestBody parse request body JSON vào struct đích.
//
// Parameters:
// - c: Fiber context
// - out: Con trỏ tới struct đích
//
// Returns:
// - error: Lỗi nếu body không đúng định dạng
func (h *BaseHandler) ParseRequestBody(c fiber.Ctx, out interface{}) error {
	if err := c.Bind().Body(out); err != nil {
		return common.NewError(
			common.ErrCodeValidationFormat,
			fmt.Sprintf("Dữ liệu gửi lên không đúng định dạng JSON hoặc không khớp với cấu trúc yêu cầu. Chi tiết: %v", err),
			common.StatusBadRequest,
			err,
		)
	}
	return nil
}

// ValidateInput xác thực struct đầu vào với các struct tag validate
func (h *BaseHandler) ValidateInput(input interface{}) error {
	if err := global.Validate.Struct(input); err != nil {
		return common.NewError(
			common.ErrCodeValidationInput,
			fmt.Sprintf("Dữ liệu không hợp lệ: %v", err),
			common.StatusBadRequest,
			err,
		)
	}
	return nil
}

// ParseObjectID lấy và parse một path param thành ObjectID
func (h *BaseHandler) ParseObjectID(c fiber.Ctx, paramName string) (primitive.ObjectID, error) {
	raw := c.Params(paramName)
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, common.NewError(
			common.ErrCodeValidationFormat,
			fmt.Sprintf("Tham số %s không phải ObjectID hợp lệ: %s", paramName, raw),
			common.StatusBadRequest,
			err,
		)
	}
	return id, nil
}

// ParsePagination lấy page và limit từ query string, áp dụng giá trị mặc định
func (h *BaseHandler) ParsePagination(c fiber.Ctx) (page int64, limit int64) {
	page = 1
	limit = 20

	if raw := c.Query("page"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil && v > 0 {
			page = v
		}
	}
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil && v > 0 && v <= 200 {
			limit = v
		}
	}
	return page, limit
}
