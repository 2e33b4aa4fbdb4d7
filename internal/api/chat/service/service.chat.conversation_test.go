// Package chatsvc - test chuẩn hóa counterpart và update marker hội thoại.
package chatsvc

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	chatmodels "gym_connect/internal/api/chat/models"
)

func TestNormalizeCounterpart(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"84912345678", "84912345678"},
		{"+84 912 345 678", "84912345678"},
		{"+84-912-345-678", "84912345678"},
		{"(84) 912.345.678", "84912345678"},
		{"", ""},
		{"abc", ""},
	}
	for _, tc := range cases {
		if got := NormalizeCounterpart(tc.raw); got != tc.want {
			t.Errorf("NormalizeCounterpart(%q) = %q, muốn %q", tc.raw, got, tc.want)
		}
	}
}

func TestNormalizeCounterpart_CungKeyChoMoiBienThe(t *testing.T) {
	// Hai biến thể provider gửi cho cùng một số phải ra cùng key,
	// nếu không hội thoại bị tách đôi
	a := NormalizeCounterpart("84912345678")
	b := NormalizeCounterpart("+84 912 345 678")
	if a != b {
		t.Errorf("Hai biến thể cùng số phải ra cùng key: %q vs %q", a, b)
	}
}

func TestBuildTouchUpdate_DungSemanticMax(t *testing.T) {
	update := BuildTouchUpdate(1700000000000)
	if update.Max == nil {
		t.Fatal("Touch phải dùng $max, không phải $set — marker không được thụt lùi")
	}
	if update.Set != nil {
		t.Error("Touch không được dùng $set cho lastMessageAt")
	}
	got, ok := update.Max["lastMessageAt"].(int64)
	if !ok || got != 1700000000000 {
		t.Errorf("lastMessageAt trong $max sai: %v", update.Max["lastMessageAt"])
	}
}

func TestConversationExtraIndexes_UniqueChoCapGymCounterpartActive(t *testing.T) {
	// Upsert của resolve-or-create chỉ atomic khi storage có unique index trên
	// filter key — thiếu nó, hai delivery đầu tiên đồng thời tạo hai hội thoại
	// ACTIVE cho cùng một cặp (gym, counterpart)
	indexes := chatmodels.Conversation{}.ExtraIndexes()
	if len(indexes) != 1 {
		t.Fatalf("Conversation phải khai báo đúng 1 extra index, nhận %d", len(indexes))
	}

	idx := indexes[0]
	if len(idx.Keys) != 2 || idx.Keys[0].Key != "gymId" || idx.Keys[1].Key != "counterpart" {
		t.Errorf("Index key phải là (gymId, counterpart), nhận %v", idx.Keys)
	}
	if idx.Options.Unique == nil || !*idx.Options.Unique {
		t.Error("Index phải unique — đây là thứ đóng race double-insert")
	}

	partial, ok := idx.Options.PartialFilterExpression.(bson.M)
	if !ok {
		t.Fatalf("Partial filter phải là bson.M, nhận %T", idx.Options.PartialFilterExpression)
	}
	if partial["status"] != chatmodels.ConversationStatusActive {
		t.Errorf("Partial filter phải giới hạn status ACTIVE, nhận %v", partial["status"])
	}
	if partial["isDeleted"] != false {
		t.Errorf("Partial filter phải giới hạn isDeleted=false, nhận %v", partial["isDeleted"])
	}
}
