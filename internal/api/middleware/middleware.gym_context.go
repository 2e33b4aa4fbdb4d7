package middleware

import (
	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gym_connect/internal/common"
)

// GymContextMiddleware đọc gym ID từ header X-Gym-ID và lưu vào request context.
// Các route nghiệp vụ (gửi tin, cấu hình, đồng bộ EVO) đều hoạt động trong phạm vi
// một gym duy nhất; webhook KHÔNG đi qua middleware này vì tenant được suy ra
// từ phone_number_id trong payload.
func GymContextMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		gymIDStr := c.Get("X-Gym-ID")
		if gymIDStr == "" {
			return JSONResponse(c, common.StatusBadRequest, fiber.Map{
				"code":    common.ErrCodeValidationInput.Code,
				"message": "Thiếu header X-Gym-ID",
				"status":  "error",
			})
		}

		gymID, err := primitive.ObjectIDFromHex(gymIDStr)
		if err != nil {
			return JSONResponse(c, common.StatusBadRequest, fiber.Map{
				"code":    common.ErrCodeValidationFormat.Code,
				"message": "Header X-Gym-ID không phải ObjectID hợp lệ",
				"status":  "error",
			})
		}

		c.Locals("gym_id", gymID.Hex())
		return c.Next()
	}
}

// GymIDFromLocals lấy gym ID đã được GymContextMiddleware set.
// Trả về lỗi nếu route được đăng ký thiếu middleware.
func GymIDFromLocals(c fiber.Ctx) (primitive.ObjectID, error) {
	gymIDStr, ok := c.Locals("gym_id").(string)
	if !ok || gymIDStr == "" {
		return primitive.NilObjectID, common.NewError(
			common.ErrCodeValidationInput,
			"Không xác định được gym trong ngữ cảnh yêu cầu",
			common.StatusBadRequest,
			nil,
		)
	}

	gymID, err := primitive.ObjectIDFromHex(gymIDStr)
	if err != nil {
		return primitive.NilObjectID, common.ErrInvalidFormat
	}
	return gymID, nil
}
