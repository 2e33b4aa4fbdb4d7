// Package basesvc - test chuyển đổi update data.
package basesvc

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestToUpdateData_GiuNguyenUpdateData(t *testing.T) {
	original := &UpdateData{Set: map[string]interface{}{"status": "ACTIVE"}}
	update, err := ToUpdateData(original)
	if err != nil {
		t.Fatalf("ToUpdateData thất bại: %v", err)
	}
	if update != original {
		t.Error("UpdateData truyền vào phải được trả lại nguyên vẹn")
	}
}

func TestToUpdateData_MapThuongWrapTrongSet(t *testing.T) {
	update, err := ToUpdateData(map[string]interface{}{"name": "Gym A"})
	if err != nil {
		t.Fatalf("ToUpdateData thất bại: %v", err)
	}
	if update.Set == nil {
		t.Fatal("Map thường phải được wrap trong $set")
	}
	if update.Set["name"] != "Gym A" {
		t.Errorf("Giá trị trong $set sai: %v", update.Set["name"])
	}
}

func TestToUpdateData_NhanDienOperator(t *testing.T) {
	data := bson.M{
		"$set":   bson.M{"status": "CLOSED"},
		"$unset": bson.M{"leadId": ""},
	}
	update, err := ToUpdateData(data)
	if err != nil {
		t.Fatalf("ToUpdateData thất bại: %v", err)
	}
	if update.Set == nil || update.Set["status"] != "CLOSED" {
		t.Errorf("$set không được nhận diện: %v", update.Set)
	}
	if update.Unset == nil {
		t.Error("$unset không được nhận diện")
	}
	if _, hasOp := update.Set["$set"]; hasOp {
		t.Error("Operator không được lọt vào trong $set (double-wrap)")
	}
}
