// Package webhooksvc - pipeline ingest tin nhắn inbound.
// File: service.webhook.ingest.go
package webhooksvc

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	chatmodels "gym_connect/internal/api/chat/models"
	chatsvc "gym_connect/internal/api/chat/service"
	webhookdto "gym_connect/internal/api/webhook/dto"
	wamodels "gym_connect/internal/api/whatsapp/models"
	wasvc "gym_connect/internal/api/whatsapp/service"
	"gym_connect/internal/common"
	"gym_connect/internal/logger"
	"gym_connect/internal/notification"
)

// IngestResult là tổng kết xử lý một envelope
type IngestResult struct {
	Processed  int // Số message unit ghi nhận thành công
	Duplicates int // Số unit là redelivery (no-op)
	Skipped    int // Số unit bị bỏ qua (không resolve được tenant, type lạ, lỗi đơn lẻ)
}

// IngestService xử lý envelope webhook đã qua kiểm tra transport:
// resolve tenant theo phone_number_id, dedup, thread vào hội thoại,
// phát sự kiện realtime. Broadcaster được inject khi khởi tạo, không
// lookup từ global.
type IngestService struct {
	accountService      *wasvc.AccountService
	conversationService *chatsvc.ConversationService
	messageService      *chatsvc.MessageService
	broadcaster         notification.Broadcaster
	log                 *logrus.Logger
}

// NewIngestService tạo mới IngestService
func NewIngestService(broadcaster notification.Broadcaster) (*IngestService, error) {
	accountService, err := wasvc.NewAccountService()
	if err != nil {
		return nil, fmt.Errorf("failed to create account service: %v", err)
	}
	conversationService, err := chatsvc.NewConversationService()
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation service: %v", err)
	}
	messageService, err := chatsvc.NewMessageService()
	if err != nil {
		return nil, fmt.Errorf("failed to create message service: %v", err)
	}
	if broadcaster == nil {
		broadcaster = &notification.LogBroadcaster{}
	}
	return &IngestService{
		accountService:      accountService,
		conversationService: conversationService,
		messageService:      messageService,
		broadcaster:         broadcaster,
		log:                 logger.GetAppLogger(),
	}, nil
}

// ProcessEnvelope xử lý tất cả message unit trong envelope.
// gymHint là giá trị header x-gym-id (rỗng nếu không gửi) — chỉ được dùng
// khi khớp một tài khoản đã cấu hình và không mâu thuẫn với metadata envelope.
// Lỗi của một unit không làm hỏng các unit còn lại (loop-isolated);
// hàm chỉ trả error khi envelope không thuộc dạng xử lý được — caller
// vẫn ack 200 với provider trong mọi trường hợp.
func (s *IngestService) ProcessEnvelope(ctx context.Context, envelope webhookdto.WhatsAppEnvelope, gymHint string) IngestResult {
	var result IngestResult

	for _, entry := range envelope.Entry {
		for _, change := range entry.Changes {
			// Chỉ xử lý field messages; các field khác (account_update, ...)
			// bỏ qua có chủ đích thay vì đoán cấu trúc
			if change.Field != webhookdto.ChangeFieldMessages {
				s.log.WithField("field", change.Field).Debug("🔔 [WHATSAPP WEBHOOK] Bỏ qua change field chưa hỗ trợ")
				continue
			}

			account, ok := s.resolveChangeTenant(ctx, change.Value.Metadata.PhoneNumberID, gymHint)
			if !ok {
				result.Skipped += len(change.Value.Messages)
				continue
			}

			for _, unit := range change.Value.Messages {
				outcome := s.ingestUnit(ctx, account, unit)
				switch outcome {
				case unitProcessed:
					result.Processed++
				case unitDuplicate:
					result.Duplicates++
				default:
					result.Skipped++
				}
			}

			for _, status := range change.Value.Statuses {
				// Delivery status hiện chỉ log
				s.log.WithFields(logrus.Fields{
					"externalId": status.ID,
					"status":     status.Status,
				}).Debug("🔔 [WHATSAPP WEBHOOK] Status update")
			}
		}
	}

	return result
}

// resolveChangeTenant xác định tài khoản nhận change.
// Định tuyến chuẩn là phone_number_id → WaAccount; header x-gym-id chỉ là
// override phụ: dùng khi metadata thiếu phone_number_id và gym đó có tài khoản
// cấu hình sẵn. Header mâu thuẫn với kết quả resolve chuẩn thì bị bỏ qua —
// tuyệt đối không gán về tenant mặc định hay tenant sai.
func (s *IngestService) resolveChangeTenant(ctx context.Context, phoneNumberID, gymHint string) (wamodels.WaAccount, bool) {
	var zero wamodels.WaAccount

	if phoneNumberID != "" {
		account, err := s.accountService.ResolveByPhoneNumberID(ctx, phoneNumberID)
		if err == nil {
			if gymHint != "" && gymHint != account.GymID.Hex() {
				s.log.WithFields(logrus.Fields{
					"gymHint":       gymHint,
					"phoneNumberId": phoneNumberID,
				}).Warn("🔔 [WHATSAPP WEBHOOK] Header x-gym-id không khớp tài khoản resolve được, bỏ qua header")
			}
			return account, true
		}
		s.log.WithError(err).WithField("phoneNumberId", phoneNumberID).Warn("🔔 [WHATSAPP WEBHOOK] Không resolve được tenant theo phone_number_id")
	}

	if gymHint == "" {
		s.log.Warn("🔔 [WHATSAPP WEBHOOK] Không resolve được tenant, bỏ qua change")
		return zero, false
	}

	gymID, err := primitive.ObjectIDFromHex(gymHint)
	if err != nil {
		s.log.WithField("gymHint", gymHint).Warn("🔔 [WHATSAPP WEBHOOK] Header x-gym-id không phải ObjectID, bỏ qua change")
		return zero, false
	}
	account, err := s.accountService.GetByGym(ctx, gymID)
	if err != nil {
		s.log.WithError(err).WithField("gymHint", gymHint).Warn("🔔 [WHATSAPP WEBHOOK] Gym trong header chưa cấu hình tài khoản, bỏ qua change")
		return zero, false
	}
	if !HonorGymHint(account, phoneNumberID) {
		s.log.WithFields(logrus.Fields{
			"gymHint":       gymHint,
			"phoneNumberId": phoneNumberID,
		}).Warn("🔔 [WHATSAPP WEBHOOK] Header x-gym-id mâu thuẫn với metadata envelope, bỏ qua change")
		return zero, false
	}
	return account, true
}

// HonorGymHint quyết định có chấp nhận tài khoản tìm theo header x-gym-id không:
// chỉ khi envelope không tự khai phone_number_id, hoặc phone_number_id khớp
// đúng cấu hình của tài khoản đó.
func HonorGymHint(hintAccount wamodels.WaAccount, phoneNumberID string) bool {
	return phoneNumberID == "" || hintAccount.PhoneNumberID == phoneNumberID
}

type unitOutcome int

const (
	unitProcessed unitOutcome = iota
	unitDuplicate
	unitSkipped
)

// appendOutcome phân loại kết quả ghi tin nhắn thành outcome của unit.
// Redelivery (ErrDuplicateEvent từ unique index) là no-op idempotent,
// không phải lỗi — đếm riêng để không làm bẩn processed/skipped.
func appendOutcome(err error) unitOutcome {
	if err == nil {
		return unitProcessed
	}
	if errors.Is(err, common.ErrDuplicateEvent) {
		return unitDuplicate
	}
	return unitSkipped
}

// ingestUnit xử lý một message unit. Mọi lỗi được nuốt tại đây để không
// lan sang unit khác.
func (s *IngestService) ingestUnit(ctx context.Context, account wamodels.WaAccount, unit webhookdto.WebhookMessage) unitOutcome {
	msg, ok := BuildInboundMessage(unit)
	if !ok {
		s.log.WithFields(logrus.Fields{
			"type":       unit.Type,
			"externalId": unit.ID,
		}).Warn("🔔 [WHATSAPP WEBHOOK] Message type chưa hỗ trợ hoặc payload thiếu, bỏ qua")
		return unitSkipped
	}

	conversation, err := s.conversationService.ResolveOrCreate(ctx, account.GymID, unit.From, chatmodels.ChannelWhatsApp)
	if err != nil {
		s.log.WithError(err).WithField("from", unit.From).Error("🔔 [WHATSAPP WEBHOOK] Không resolve được hội thoại")
		return unitSkipped
	}

	msg.ConversationID = conversation.ID
	msg.GymID = account.GymID
	msg.To = chatsvc.NormalizeCounterpart(account.PhoneNumber)

	created, err := s.messageService.AppendInbound(ctx, msg)
	if outcome := appendOutcome(err); outcome != unitProcessed {
		if outcome == unitSkipped {
			s.log.WithError(err).WithField("externalId", unit.ID).Error("🔔 [WHATSAPP WEBHOOK] Không ghi nhận được tin nhắn")
		}
		return outcome
	}

	event := notification.NewChatEvent(notification.EventMessageInbound, account.GymID, conversation.ID, created)
	if err := s.broadcaster.Emit(ctx, event); err != nil {
		s.log.WithError(err).WithField("conversationId", conversation.ID.Hex()).Warn("🔔 [WHATSAPP WEBHOOK] Không phát được sự kiện inbound")
	}

	return unitProcessed
}

// BuildInboundMessage dựng ChatMessage từ một message unit.
// Trả về false khi type chưa hỗ trợ hoặc nhánh payload tương ứng thiếu.
// Media chỉ ghi tham chiếu (mediaId), không tải nội dung.
func BuildInboundMessage(unit webhookdto.WebhookMessage) (chatmodels.ChatMessage, bool) {
	var zero chatmodels.ChatMessage

	if unit.ID == "" || unit.From == "" {
		return zero, false
	}

	msg := chatmodels.ChatMessage{
		ExternalMessageID: unit.ID,
		Direction:         chatmodels.DirectionInbound,
		From:              chatsvc.NormalizeCounterpart(unit.From),
		Status:            chatmodels.MessageStatusReceived,
		SentAt:            parseProviderTimestamp(unit.Timestamp),
	}

	switch unit.Type {
	case chatmodels.MessageTypeText:
		if unit.Text == nil {
			return zero, false
		}
		msg.Type = chatmodels.MessageTypeText
		msg.Text = unit.Text.Body
	case chatmodels.MessageTypeImage:
		if unit.Image == nil {
			return zero, false
		}
		msg.Type = chatmodels.MessageTypeImage
		msg.MediaID = unit.Image.ID
		msg.MimeType = unit.Image.MimeType
		msg.Text = unit.Image.Caption
	case chatmodels.MessageTypeDocument:
		if unit.Document == nil {
			return zero, false
		}
		msg.Type = chatmodels.MessageTypeDocument
		msg.MediaID = unit.Document.ID
		msg.MimeType = unit.Document.MimeType
		msg.Text = unit.Document.Caption
		msg.Filename = unit.Document.Filename
	case chatmodels.MessageTypeAudio:
		if unit.Audio == nil {
			return zero, false
		}
		msg.Type = chatmodels.MessageTypeAudio
		msg.MediaID = unit.Audio.ID
		msg.MimeType = unit.Audio.MimeType
	case chatmodels.MessageTypeVideo:
		if unit.Video == nil {
			return zero, false
		}
		msg.Type = chatmodels.MessageTypeVideo
		msg.MediaID = unit.Video.ID
		msg.MimeType = unit.Video.MimeType
		msg.Text = unit.Video.Caption
	default:
		return zero, false
	}

	return msg, true
}

// parseProviderTimestamp đổi timestamp provider (Unix giây, dạng chuỗi) sang milli.
// Chuỗi không parse được trả 0 — message vẫn ghi nhận, sắp xếp về đầu.
func parseProviderTimestamp(raw string) int64 {
	sec, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || sec < 0 {
		return 0
	}
	return sec * 1000
}
