// Package evosvc - field mapping và conflict policy cho sync.
// File: service.evo.mapping.go
package evosvc

import (
	"fmt"
	"time"

	"gym_connect/internal/common"
)

// defaultFieldMapping ánh xạ field EVO → field lead local khi integration
// không cấu hình mapping riêng
var defaultFieldMapping = map[string]string{
	"nameFull": "name",
	"phone":    "phone",
	"email":    "email",
}

// MapMemberFields áp field mapping lên một member EVO, trả về update fields
// cho lead local. Member thiếu ID hoặc không map ra được field nào là lỗi
// mapping — record đó tính vào recordsFailed.
func MapMemberFields(member EvoMember, mapping map[string]string) (map[string]interface{}, error) {
	if member.ID == "" {
		return nil, common.NewError(
			common.ErrCodeValidationInput,
			"Member EVO thiếu idMember",
			common.StatusBadRequest,
			nil,
		)
	}

	if len(mapping) == 0 {
		mapping = defaultFieldMapping
	}

	fields := make(map[string]interface{})
	for evoField, localField := range mapping {
		value, ok := member.Raw[evoField]
		if !ok || value == nil {
			continue
		}
		// Chỉ nhận giá trị scalar — shape lồng nhau không map mù
		switch v := value.(type) {
		case string:
			if v != "" {
				fields[localField] = v
			}
		case float64, bool:
			fields[localField] = v
		}
	}

	if len(fields) == 0 {
		return nil, common.NewError(
			common.ErrCodeValidationInput,
			fmt.Sprintf("Member EVO %s không map được field nào", member.ID),
			common.StatusBadRequest,
			member.ID,
		)
	}

	if ts := ParseEvoUpdatedAt(member.UpdatedAt); ts > 0 {
		fields["evoUpdatedAt"] = ts
	}

	return fields, nil
}

// ParseEvoUpdatedAt đổi updatedAt RFC3339 của EVO sang Unix milli, 0 nếu vắng/hỏng
func ParseEvoUpdatedAt(raw string) int64 {
	if raw == "" {
		return 0
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return 0
	}
	return t.UnixMilli()
}

// ShouldOverwrite là conflict policy của pull: last-write-wins theo updatedAt
// phía EVO. EVO không gửi updatedAt (externalUpdatedAt == 0) thì luôn ghi đè
// bằng giá trị mới kéo về.
func ShouldOverwrite(localEvoUpdatedAt, externalUpdatedAt int64) bool {
	if externalUpdatedAt == 0 {
		return true
	}
	return externalUpdatedAt >= localEvoUpdatedAt
}

// BuildPushPayload dựng payload member từ lead local theo mapping đảo chiều
func BuildPushPayload(leadFields map[string]interface{}, mapping map[string]string) map[string]interface{} {
	if len(mapping) == 0 {
		mapping = defaultFieldMapping
	}

	payload := make(map[string]interface{})
	for evoField, localField := range mapping {
		if value, ok := leadFields[localField]; ok && value != nil {
			payload[evoField] = value
		}
	}
	return payload
}
