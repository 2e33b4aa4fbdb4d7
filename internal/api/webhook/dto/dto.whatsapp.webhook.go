// Package webhookdto chứa các cấu trúc payload webhook từ WhatsApp Cloud API.
package webhookdto

// WebhookObjectWhatsApp là giá trị bắt buộc của field object trong envelope.
// Envelope có object khác bị từ chối 400 ngay tại transport.
const WebhookObjectWhatsApp = "whatsapp_business_account"

// Field value được xử lý trong change; các field khác bị bỏ qua có chủ đích
const ChangeFieldMessages = "messages"

// WhatsAppEnvelope là payload top-level của webhook POST.
// Decode strict theo schema đã biết thay vì đào map lồng nhau — cấu trúc
// không khớp thì unit bị bỏ qua, không đoán.
type WhatsAppEnvelope struct {
	Object string         `json:"object"` // Phải là whatsapp_business_account
	Entry  []WebhookEntry `json:"entry"`
}

// WebhookEntry là một entry trong envelope
type WebhookEntry struct {
	ID      string          `json:"id"` // WhatsApp Business Account ID
	Changes []WebhookChange `json:"changes"`
}

// WebhookChange là một change trong entry
type WebhookChange struct {
	Field string       `json:"field"` // Chỉ xử lý "messages"
	Value WebhookValue `json:"value"`
}

// WebhookValue chứa metadata định tuyến tenant và danh sách message
type WebhookValue struct {
	MessagingProduct string           `json:"messaging_product"`
	Metadata         WebhookMetadata  `json:"metadata"`
	Contacts         []WebhookContact `json:"contacts,omitempty"`
	Messages         []WebhookMessage `json:"messages,omitempty"`
	Statuses         []WebhookStatus  `json:"statuses,omitempty"`
}

// WebhookMetadata — phone_number_id là khóa resolve tenant duy nhất
type WebhookMetadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

// WebhookContact thông tin người gửi
type WebhookContact struct {
	WaID    string `json:"wa_id"`
	Profile struct {
		Name string `json:"name"`
	} `json:"profile"`
}

// WebhookMessage là một message unit trong change.
// Type quyết định nhánh payload nào có giá trị; các type ngoài danh sách
// hỗ trợ bị bỏ qua.
type WebhookMessage struct {
	ID        string `json:"id"`        // wamid — khóa dedup cùng với gymId
	From      string `json:"from"`      // Số điện thoại khách
	Timestamp string `json:"timestamp"` // Unix giây, provider gửi dưới dạng chuỗi
	Type      string `json:"type"`      // text | image | document | audio | video | ...

	Text     *TextPayload  `json:"text,omitempty"`
	Image    *MediaPayload `json:"image,omitempty"`
	Document *MediaPayload `json:"document,omitempty"`
	Audio    *MediaPayload `json:"audio,omitempty"`
	Video    *MediaPayload `json:"video,omitempty"`
}

// TextPayload nhánh payload cho type=text
type TextPayload struct {
	Body string `json:"body"`
}

// MediaPayload nhánh payload cho các type media.
// Chỉ ghi nhận tham chiếu media — không tải eager, tải lazy qua download-media.
type MediaPayload struct {
	ID       string `json:"id"`
	MimeType string `json:"mime_type"`
	SHA256   string `json:"sha256,omitempty"`
	Caption  string `json:"caption,omitempty"`
	Filename string `json:"filename,omitempty"`
}

// WebhookStatus là delivery status update của tin nhắn outbound (sent/delivered/read).
// Hiện chỉ log, không cập nhật trạng thái tin nhắn.
type WebhookStatus struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	RecipientID string `json:"recipient_id"`
}
