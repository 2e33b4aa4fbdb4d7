// Package evosvc - test upsert cấu hình integration và finalize sync run.
package evosvc

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	evomodels "gym_connect/internal/api/evo/models"
)

func TestBuildIntegrationUpsert_PostLaiCungDichKhongTaoMoi(t *testing.T) {
	gymID := primitive.NewObjectID()
	integration := evomodels.EvoIntegration{
		GymID:           gymID,
		BaseURL:         "https://evo.example.com",
		APIKey:          "key-moi",
		BranchID:        "cn-01",
		FieldMapping:    map[string]string{"nameFull": "name"},
		AutoSync:        true,
		SyncIntervalMin: 30,
	}

	filter, update := BuildIntegrationUpsert(integration)

	// Filter là định danh đích EVO — POST lại cùng đích phải match document cũ
	if filter["gymId"] != gymID || filter["baseUrl"] != "https://evo.example.com" || filter["branchId"] != "cn-01" {
		t.Errorf("Filter phải định danh theo (gymId, baseUrl, branchId), nhận %v", filter)
	}

	// Credential và cấu hình sync nằm trong $set để lần upsert sau cập nhật được
	if update.Set["apiKey"] != "key-moi" {
		t.Errorf("apiKey phải nằm trong $set: %v", update.Set)
	}
	if _, ok := update.Set["fieldMapping"]; !ok {
		t.Error("fieldMapping phải nằm trong $set để cập nhật được qua POST lại")
	}

	// Các field định danh chỉ set khi insert — không được ghi đè qua $set
	if update.SetOnInsert["gymId"] != gymID || update.SetOnInsert["baseUrl"] != "https://evo.example.com" {
		t.Errorf("Field định danh phải nằm trong $setOnInsert: %v", update.SetOnInsert)
	}
	if _, ok := update.Set["gymId"]; ok {
		t.Error("gymId không được nằm trong $set")
	}
}

func TestBuildRunFinalize_LoiCapRunKhongDemVaoRecordsFailed(t *testing.T) {
	update := BuildRunFinalize(5, 0, "không kéo được trang 2: timeout")
	set, ok := update["$set"].(bson.M)
	if !ok {
		t.Fatalf("Update phải có $set: %v", update)
	}

	if set["success"] != false {
		t.Error("Run có lỗi cấp run phải fail dù recordsFailed == 0")
	}
	if set["recordsFailed"] != int64(0) {
		t.Errorf("Lỗi kéo trang không được đếm vào recordsFailed: %v", set["recordsFailed"])
	}
	if set["error"] != "không kéo được trang 2: timeout" {
		t.Errorf("Lỗi cấp run phải ghi vào field error: %v", set["error"])
	}
}

func TestBuildRunFinalize_SuccessKhiSachLoi(t *testing.T) {
	update := BuildRunFinalize(10, 0, "")
	set := update["$set"].(bson.M)
	if set["success"] != true {
		t.Error("Run không lỗi phải success")
	}
	if _, ok := set["error"]; ok {
		t.Error("Run không lỗi không được có field error")
	}
}

func TestBuildRunFinalize_RecordLoiVanFailRun(t *testing.T) {
	update := BuildRunFinalize(8, 2, "")
	set := update["$set"].(bson.M)
	if set["success"] != false {
		t.Error("Run có record lỗi phải fail")
	}
	if set["recordsFailed"] != int64(2) {
		t.Errorf("recordsFailed sai: %v", set["recordsFailed"])
	}
}
