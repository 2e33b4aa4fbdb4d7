// Package channels - test routing key sự kiện chat.
package channels

import (
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gym_connect/internal/notification"
)

func TestRoutingKey_TheoGymVaLoaiSuKien(t *testing.T) {
	gymID := primitive.NewObjectID()
	conversationID := primitive.NewObjectID()
	event := notification.NewChatEvent(notification.EventMessageInbound, gymID, conversationID, nil)

	key := RoutingKey(event)
	want := "gym." + gymID.Hex() + "." + notification.EventMessageInbound
	if key != want {
		t.Errorf("RoutingKey = %q, muốn %q", key, want)
	}
}

func TestRoutingKey_ConsumerLocTheoGym(t *testing.T) {
	// Consumer bind "gym.<id>.*" phải nhận mọi loại sự kiện của gym đó
	gymID := primitive.NewObjectID()
	conversationID := primitive.NewObjectID()

	inbound := RoutingKey(notification.NewChatEvent(notification.EventMessageInbound, gymID, conversationID, nil))
	outbound := RoutingKey(notification.NewChatEvent(notification.EventMessageOutbound, gymID, conversationID, nil))

	prefix := "gym." + gymID.Hex() + "."
	if !strings.HasPrefix(inbound, prefix) || !strings.HasPrefix(outbound, prefix) {
		t.Errorf("Mọi routing key của gym phải cùng prefix %q: %q, %q", prefix, inbound, outbound)
	}
	if inbound == outbound {
		t.Error("Loại sự kiện khác nhau phải ra routing key khác nhau")
	}
}

func TestNewChatEvent_DinhDanhDuyNhat(t *testing.T) {
	gymID := primitive.NewObjectID()
	conversationID := primitive.NewObjectID()

	a := notification.NewChatEvent(notification.EventMessageInbound, gymID, conversationID, nil)
	b := notification.NewChatEvent(notification.EventMessageInbound, gymID, conversationID, nil)

	if a.ID == "" || b.ID == "" {
		t.Fatal("Sự kiện phải có ID")
	}
	if a.ID == b.ID {
		t.Error("Hai sự kiện phải có ID khác nhau (dùng làm MessageId dedup phía consumer)")
	}
	if a.EmittedAt == 0 {
		t.Error("EmittedAt phải được gắn khi tạo sự kiện")
	}
}
