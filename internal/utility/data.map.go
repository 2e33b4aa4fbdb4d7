// Package utility chứa các hàm tiện ích dùng chung cho toàn ứng dụng.
package utility

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// ToMap chuyển một struct bất kỳ thành map[string]interface{} thông qua bson.
// Dùng khi cần build update document từ DTO mà không hardcode từng field.
func ToMap(input interface{}) (map[string]interface{}, error) {
	data, err := bson.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal input: %w", err)
	}

	var result map[string]interface{}
	if err := bson.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal to map: %w", err)
	}

	return result, nil
}
