// Package crmsvc - test update back-annotate ID từ EVO.
package crmsvc

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestBuildEvoIDAnnotation_KhongChamUpdatedAt(t *testing.T) {
	update := BuildEvoIDAnnotation("evo-123")

	set, ok := update["$set"].(bson.M)
	if !ok {
		t.Fatalf("Annotation phải là update $set: %v", update)
	}
	if set["evoMemberId"] != "evo-123" {
		t.Errorf("evoMemberId sai: %v", set["evoMemberId"])
	}

	// Bump updatedAt ở đây khiến lần TO_EVO kế tiếp push lại lead chỉ vì
	// nó vừa được gắn ID — annotation phải chạm đúng một field
	if _, bumped := set["updatedAt"]; bumped {
		t.Error("Annotation không được chạm updatedAt")
	}
	if len(set) != 1 {
		t.Errorf("Annotation chỉ được chạm evoMemberId, nhận %v", set)
	}
}
