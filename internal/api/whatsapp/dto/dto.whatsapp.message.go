package dto

// SendTextInput là body gửi tin nhắn text
type SendTextInput struct {
	To   string `json:"to" validate:"required,no_xss"` // Số điện thoại nhận
	Body string `json:"body" validate:"required"`      // Nội dung tin nhắn
}

// SendMediaInput là body gửi tin nhắn media (media đã upload trước qua upload-media)
type SendMediaInput struct {
	To       string `json:"to" validate:"required,no_xss"`                                  // Số điện thoại nhận
	Type     string `json:"type" validate:"required,oneof=image document audio video"`      // Loại media
	MediaID  string `json:"mediaId" validate:"required,no_xss"`                             // ID media phía provider
	Caption  string `json:"caption,omitempty" validate:"omitempty,no_xss"`                  // Caption (image/document/video)
	Filename string `json:"filename,omitempty" validate:"omitempty,no_xss"`                 // Tên file (document)
}

// SendResult là response sau khi provider nhận gửi thành công
type SendResult struct {
	MessageID      string `json:"messageId"`      // ID tin nhắn trong hệ thống
	ExternalID     string `json:"externalId"`     // ID provider gán (wamid)
	ConversationID string `json:"conversationId"` // Hội thoại chứa tin nhắn
}

// UploadMediaResult là response của upload-media
type UploadMediaResult struct {
	MediaID string `json:"mediaId"` // ID media phía provider, dùng cho send-media
}
