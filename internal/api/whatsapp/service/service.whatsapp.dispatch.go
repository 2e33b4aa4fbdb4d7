// Package whatsappsvc - gửi tin nhắn/media outbound qua provider.
// File: service.whatsapp.dispatch.go
package whatsappsvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	chatmodels "gym_connect/internal/api/chat/models"
	chatsvc "gym_connect/internal/api/chat/service"
	wamodels "gym_connect/internal/api/whatsapp/models"
	"gym_connect/internal/common"
	"gym_connect/internal/global"
	"gym_connect/internal/logger"
	"gym_connect/internal/notification"
)

// DispatchService gửi tin nhắn outbound thay mặt một gym.
// Gửi được phép cho cả tài khoản PENDING lẫn ACTIVE (connectivity test phải
// chạy được trước khi activate); chỉ thiếu tài khoản mới chặn.
type DispatchService struct {
	accountService      *AccountService
	conversationService *chatsvc.ConversationService
	messageService      *chatsvc.MessageService
	cloud               *CloudClient
	broadcaster         notification.Broadcaster
	log                 *logrus.Logger
}

// NewDispatchService tạo mới DispatchService
func NewDispatchService(broadcaster notification.Broadcaster) (*DispatchService, error) {
	accountService, err := NewAccountService()
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
	cloud := NewCloudClient(
		global.ServerConfig.WhatsAppAPIBaseURL,
		time.Duration(global.ServerConfig.WhatsAppSendTimeoutSec)*time.Second,
	)
	return &DispatchService{
		accountService:      accountService,
		conversationService: conversationService,
		messageService:      messageService,
		cloud:               cloud,
		broadcaster:         broadcaster,
		log:                 logger.GetAppLogger(),
	}, nil
}

// resolveAccount lấy tài khoản của gym, trả ErrIntegrationNotConfigured nếu chưa cấu hình
func (s *DispatchService) resolveAccount(ctx context.Context, gymID primitive.ObjectID) (wamodels.WaAccount, error) {
	account, err := s.accountService.GetByGym(ctx, gymID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return account, common.ErrIntegrationNotConfigured
		}
		return account, err
	}
	return account, nil
}

// SendText gửi tin nhắn text và ghi nhận OUTBOUND message vào hội thoại.
// Lỗi provider (timeout hay từ chối) propagate nguyên vẹn cho caller —
// người dùng CRM phải thấy phân biệt được timeout với bị từ chối.
func (s *DispatchService) SendText(ctx context.Context, gymID primitive.ObjectID, to, body string) (chatmodels.ChatMessage, error) {
	var zero chatmodels.ChatMessage

	account, err := s.resolveAccount(ctx, gymID)
	if err != nil {
		return zero, err
	}

	externalID, err := s.cloud.SendText(ctx, account.AccessToken, account.PhoneNumberID, to, body)
	if err != nil {
		return zero, err
	}

	return s.recordOutbound(ctx, gymID, account, chatmodels.ChatMessage{
		ExternalMessageID: externalID,
		Type:              chatmodels.MessageTypeText,
		Text:              body,
		To:                chatsvc.NormalizeCounterpart(to),
	})
}

// SendMedia gửi tin nhắn media theo mediaId đã upload và ghi nhận OUTBOUND message
func (s *DispatchService) SendMedia(ctx context.Context, gymID primitive.ObjectID, to, mediaType, mediaID, caption, filename string) (chatmodels.ChatMessage, error) {
	var zero chatmodels.ChatMessage

	account, err := s.resolveAccount(ctx, gymID)
	if err != nil {
		return zero, err
	}

	externalID, err := s.cloud.SendMedia(ctx, account.AccessToken, account.PhoneNumberID, to, mediaType, mediaID, caption, filename)
	if err != nil {
		return zero, err
	}

	return s.recordOutbound(ctx, gymID, account, chatmodels.ChatMessage{
		ExternalMessageID: externalID,
		Type:              mediaType,
		Text:              caption,
		MediaID:           mediaID,
		Filename:          filename,
		To:                chatsvc.NormalizeCounterpart(to),
	})
}

// recordOutbound gắn tin nhắn outbound vào hội thoại (resolve-or-create theo
// cùng scheme với inbound) và phát sự kiện realtime
func (s *DispatchService) recordOutbound(ctx context.Context, gymID primitive.ObjectID, account wamodels.WaAccount, msg chatmodels.ChatMessage) (chatmodels.ChatMessage, error) {
	var zero chatmodels.ChatMessage

	conversation, err := s.conversationService.ResolveOrCreate(ctx, gymID, msg.To, chatmodels.ChannelWhatsApp)
	if err != nil {
		return zero, err
	}

	msg.ConversationID = conversation.ID
	msg.GymID = gymID
	msg.From = account.PhoneNumber
	msg.SentAt = time.Now().UnixMilli()

	created, err := s.messageService.AppendOutbound(ctx, msg)
	if err != nil {
		return zero, err
	}

	event := notification.NewChatEvent(notification.EventMessageOutbound, gymID, conversation.ID, created)
	if err := s.broadcaster.Emit(ctx, event); err != nil {
		// Lỗi phát sự kiện không làm hỏng flow gửi tin
		s.log.WithError(err).WithField("conversationId", conversation.ID.Hex()).Warn("💬 [WHATSAPP] Không phát được sự kiện outbound")
	}

	return created, nil
}

// UploadMedia validate rồi upload media lên provider
func (s *DispatchService) UploadMedia(ctx context.Context, gymID primitive.ObjectID, data []byte, mimeType string) (string, error) {
	if err := ValidateMediaUpload(data, mimeType); err != nil {
		return "", err
	}

	account, err := s.resolveAccount(ctx, gymID)
	if err != nil {
		return "", err
	}

	return s.cloud.UploadMedia(ctx, account.AccessToken, account.PhoneNumberID, data, mimeType)
}

// DownloadMedia tải media từ provider (media inbound được tải lazy qua đây)
func (s *DispatchService) DownloadMedia(ctx context.Context, gymID primitive.ObjectID, mediaID string) ([]byte, string, error) {
	account, err := s.resolveAccount(ctx, gymID)
	if err != nil {
		return nil, "", err
	}

	return s.cloud.DownloadMedia(ctx, account.AccessToken, mediaID)
}

// GetBusinessProfile lấy business profile của tài khoản gym
func (s *DispatchService) GetBusinessProfile(ctx context.Context, gymID primitive.ObjectID) (*BusinessProfile, error) {
	account, err := s.resolveAccount(ctx, gymID)
	if err != nil {
		return nil, err
	}

	return s.cloud.GetBusinessProfile(ctx, account.AccessToken, account.PhoneNumberID)
}

// TestConnectivity probe kết nối với credential hiện tại của gym.
// Hoạt động với cả tài khoản PENDING — đây là bước bắt buộc trước activate.
func (s *DispatchService) TestConnectivity(ctx context.Context, gymID primitive.ObjectID) (*BusinessProfile, error) {
	return s.GetBusinessProfile(ctx, gymID)
}
