// Package webhooksvc - test dựng inbound message từ webhook payload.
package webhooksvc

import (
	"encoding/json"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"

	chatmodels "gym_connect/internal/api/chat/models"
	webhookdto "gym_connect/internal/api/webhook/dto"
	wamodels "gym_connect/internal/api/whatsapp/models"
	"gym_connect/internal/common"
)

func TestBuildInboundMessage_Text(t *testing.T) {
	unit := webhookdto.WebhookMessage{
		ID:        "wamid.abc123",
		From:      "+84 912 345 678",
		Timestamp: "1700000000",
		Type:      chatmodels.MessageTypeText,
		Text:      &webhookdto.TextPayload{Body: "Xin chào"},
	}

	msg, ok := BuildInboundMessage(unit)
	if !ok {
		t.Fatal("Message text hợp lệ phải dựng được")
	}
	if msg.ExternalMessageID != "wamid.abc123" {
		t.Errorf("ExternalMessageID sai: %q", msg.ExternalMessageID)
	}
	if msg.From != "84912345678" {
		t.Errorf("From phải được chuẩn hóa về chỉ chữ số, nhận %q", msg.From)
	}
	if msg.Text != "Xin chào" {
		t.Errorf("Text body sai: %q", msg.Text)
	}
	if msg.Direction != chatmodels.DirectionInbound {
		t.Errorf("Direction phải là inbound, nhận %q", msg.Direction)
	}
	if msg.SentAt != 1700000000000 {
		t.Errorf("SentAt phải đổi giây sang milli, nhận %d", msg.SentAt)
	}
	if msg.Status != chatmodels.MessageStatusReceived {
		t.Errorf("Status phải là received, nhận %q", msg.Status)
	}
}

func TestBuildInboundMessage_MediaChiGhiThamChieu(t *testing.T) {
	unit := webhookdto.WebhookMessage{
		ID:   "wamid.img1",
		From: "84912345678",
		Type: chatmodels.MessageTypeImage,
		Image: &webhookdto.MediaPayload{
			ID:       "media-id-1",
			MimeType: "image/jpeg",
			Caption:  "ảnh hợp đồng",
		},
	}

	msg, ok := BuildInboundMessage(unit)
	if !ok {
		t.Fatal("Message image hợp lệ phải dựng được")
	}
	if msg.MediaID != "media-id-1" {
		t.Errorf("MediaID sai: %q", msg.MediaID)
	}
	if msg.MimeType != "image/jpeg" {
		t.Errorf("MimeType sai: %q", msg.MimeType)
	}
	if msg.Text != "ảnh hợp đồng" {
		t.Errorf("Caption phải vào Text, nhận %q", msg.Text)
	}
}

func TestBuildInboundMessage_DocumentGiuFilename(t *testing.T) {
	unit := webhookdto.WebhookMessage{
		ID:   "wamid.doc1",
		From: "84912345678",
		Type: chatmodels.MessageTypeDocument,
		Document: &webhookdto.MediaPayload{
			ID:       "media-id-2",
			MimeType: "application/pdf",
			Filename: "hop-dong.pdf",
		},
	}

	msg, ok := BuildInboundMessage(unit)
	if !ok {
		t.Fatal("Message document hợp lệ phải dựng được")
	}
	if msg.Filename != "hop-dong.pdf" {
		t.Errorf("Filename sai: %q", msg.Filename)
	}
}

func TestBuildInboundMessage_TypeKhongKhopPayload(t *testing.T) {
	// Type nói text nhưng nhánh text vắng — không đoán, bỏ qua
	unit := webhookdto.WebhookMessage{
		ID:    "wamid.x",
		From:  "84912345678",
		Type:  chatmodels.MessageTypeText,
		Image: &webhookdto.MediaPayload{ID: "media-1"},
	}
	if _, ok := BuildInboundMessage(unit); ok {
		t.Error("Type text thiếu nhánh text phải bị bỏ qua")
	}
}

func TestBuildInboundMessage_TypeChuaHoTro(t *testing.T) {
	unit := webhookdto.WebhookMessage{
		ID:   "wamid.y",
		From: "84912345678",
		Type: "sticker",
	}
	if _, ok := BuildInboundMessage(unit); ok {
		t.Error("Type chưa hỗ trợ phải bị bỏ qua")
	}
}

func TestBuildInboundMessage_ThieuDinhDanh(t *testing.T) {
	unit := webhookdto.WebhookMessage{
		From: "84912345678",
		Type: chatmodels.MessageTypeText,
		Text: &webhookdto.TextPayload{Body: "hi"},
	}
	if _, ok := BuildInboundMessage(unit); ok {
		t.Error("Message thiếu wamid phải bị bỏ qua")
	}

	unit = webhookdto.WebhookMessage{
		ID:   "wamid.z",
		Type: chatmodels.MessageTypeText,
		Text: &webhookdto.TextPayload{Body: "hi"},
	}
	if _, ok := BuildInboundMessage(unit); ok {
		t.Error("Message thiếu from phải bị bỏ qua")
	}
}

func TestParseProviderTimestamp(t *testing.T) {
	cases := []struct {
		raw  string
		want int64
	}{
		{"1700000000", 1700000000000},
		{"0", 0},
		{"", 0},
		{"abc", 0},
		{"-5", 0},
	}
	for _, tc := range cases {
		if got := parseProviderTimestamp(tc.raw); got != tc.want {
			t.Errorf("parseProviderTimestamp(%q) = %d, muốn %d", tc.raw, got, tc.want)
		}
	}
}

func TestEnvelopeDecode_PayloadThucTe(t *testing.T) {
	// Payload rút gọn theo format thật của Cloud API
	raw := `{
		"object": "whatsapp_business_account",
		"entry": [{
			"id": "101",
			"changes": [{
				"field": "messages",
				"value": {
					"messaging_product": "whatsapp",
					"metadata": {"display_phone_number": "84900000000", "phone_number_id": "pnid-1"},
					"messages": [{
						"id": "wamid.real",
						"from": "84912345678",
						"timestamp": "1700000001",
						"type": "text",
						"text": {"body": "Tôi muốn đăng ký tập thử"}
					}]
				}
			}]
		}]
	}`

	var envelope webhookdto.WhatsAppEnvelope
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		t.Fatalf("Decode envelope thất bại: %v", err)
	}
	if envelope.Object != webhookdto.WebhookObjectWhatsApp {
		t.Errorf("Object sai: %q", envelope.Object)
	}
	if len(envelope.Entry) != 1 || len(envelope.Entry[0].Changes) != 1 {
		t.Fatal("Envelope phải có đúng 1 entry / 1 change")
	}
	change := envelope.Entry[0].Changes[0]
	if change.Value.Metadata.PhoneNumberID != "pnid-1" {
		t.Errorf("phone_number_id sai: %q", change.Value.Metadata.PhoneNumberID)
	}
	if len(change.Value.Messages) != 1 {
		t.Fatal("Change phải có đúng 1 message")
	}

	msg, ok := BuildInboundMessage(change.Value.Messages[0])
	if !ok {
		t.Fatal("Message từ payload thật phải dựng được")
	}
	if msg.Text != "Tôi muốn đăng ký tập thử" {
		t.Errorf("Text body sai: %q", msg.Text)
	}
}

func TestHonorGymHint_ChiKhiKhopCauHinh(t *testing.T) {
	account := wamodels.WaAccount{PhoneNumberID: "pnid-1"}

	cases := []struct {
		name          string
		phoneNumberID string
		want          bool
	}{
		{"metadata thiếu phone_number_id — header được dùng", "", true},
		{"phone_number_id khớp cấu hình tài khoản", "pnid-1", true},
		{"phone_number_id mâu thuẫn — header bị bỏ qua", "pnid-khac", false},
	}
	for _, tc := range cases {
		if got := HonorGymHint(account, tc.phoneNumberID); got != tc.want {
			t.Errorf("%s: HonorGymHint = %v, muốn %v", tc.name, got, tc.want)
		}
	}
}

func TestAppendOutcome_RedeliveryLaDuplicate(t *testing.T) {
	// Chuỗi dedup đầy đủ: unique index trả E11000 → nhận diện duplicate key
	// → AppendInbound trả ErrDuplicateEvent → outcome là duplicate, không phải
	// skipped hay lỗi
	writeErr := mongo.WriteException{
		WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key error"}},
	}
	if !common.IsDuplicateKey(writeErr) {
		t.Fatal("WriteException 11000 phải được nhận diện là duplicate key")
	}
	if !common.IsDuplicateKey(common.ConvertMongoError(writeErr)) {
		t.Fatal("Lỗi 11000 sau khi convert vẫn phải được nhận diện là duplicate key")
	}

	if got := appendOutcome(common.ErrDuplicateEvent); got != unitDuplicate {
		t.Errorf("ErrDuplicateEvent phải ra outcome duplicate, nhận %d", got)
	}
	if got := appendOutcome(nil); got != unitProcessed {
		t.Errorf("Không lỗi phải ra outcome processed, nhận %d", got)
	}
	if got := appendOutcome(common.ErrConnection); got != unitSkipped {
		t.Errorf("Lỗi khác phải ra outcome skipped, nhận %d", got)
	}
}
