// Package webhookhdl - handler webhook WhatsApp (verify GET, event POST).
package webhookhdl

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"

	basehdl "gym_connect/internal/api/base/handler"
	webhookdto "gym_connect/internal/api/webhook/dto"
	webhookmodels "gym_connect/internal/api/webhook/models"
	webhooksvc "gym_connect/internal/api/webhook/service"
	"gym_connect/internal/common"
	"gym_connect/internal/global"
	"gym_connect/internal/logger"
	"gym_connect/internal/notification"
)

// WhatsAppWebhookHandler xử lý webhook từ WhatsApp Cloud API
type WhatsAppWebhookHandler struct {
	ingestService     *webhooksvc.IngestService
	webhookLogService *webhooksvc.WebhookLogService
}

// NewWhatsAppWebhookHandler tạo mới WhatsAppWebhookHandler
func NewWhatsAppWebhookHandler(broadcaster notification.Broadcaster) (*WhatsAppWebhookHandler, error) {
	ingestService, err := webhooksvc.NewIngestService(broadcaster)
	if err != nil {
		return nil, fmt.Errorf("failed to create ingest service: %v", err)
	}
	webhookLogService, err := webhooksvc.NewWebhookLogService()
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook log service: %v", err)
	}
	return &WhatsAppWebhookHandler{
		ingestService:     ingestService,
		webhookLogService: webhookLogService,
	}, nil
}

// HandleVerify xử lý handshake GET của provider.
// Thành công: echo hub.challenge dưới dạng plain text (KHÔNG bọc JSON).
// Thất bại: 403, không echo gì.
func (h *WhatsAppWebhookHandler) HandleVerify(c fiber.Ctx) error {
	mode := c.Query("hub.mode")
	verifyToken := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	echo, ok := webhooksvc.VerifyHandshake(mode, verifyToken, challenge, global.ServerConfig.WhatsAppVerifyToken)
	if !ok {
		logger.GetAppLogger().WithField("mode", mode).Warn("🔔 [WHATSAPP WEBHOOK] Handshake thất bại")
		return c.Status(common.StatusForbidden).SendString("Forbidden")
	}

	c.Set("Content-Type", "text/plain; charset=utf-8")
	return c.Status(common.StatusOK).SendString(echo)
}

// HandleReceive xử lý event POST.
// Envelope có object khác "whatsapp_business_account" → 400.
// Envelope đúng dạng → LUÔN ack 200 {success} dù xử lý bên trong lỗi,
// để provider không redeliver bão — transport ack và business ack tách biệt.
func (h *WhatsAppWebhookHandler) HandleReceive(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		log := logger.GetAppLogger()
		rawBody := string(c.Body())
		ctx := c.Context()

		var envelope webhookdto.WhatsAppEnvelope
		parseErr := json.Unmarshal(c.Body(), &envelope)

		webhookLog, logErr := h.saveWebhookLog(ctx, c, envelope, rawBody)
		if logErr != nil {
			log.WithError(logErr).Warn("🔔 [WHATSAPP WEBHOOK] Không thể lưu webhook log")
		}

		// Object sai là lỗi transport — duy nhất trường hợp không ack 200
		if parseErr != nil || envelope.Object != webhookdto.WebhookObjectWhatsApp {
			return basehdl.JSONResponse(c, common.StatusBadRequest, fiber.Map{
				"code":    common.ErrCodeValidationFormat.Code,
				"message": "Envelope không hợp lệ",
				"status":  "error",
			})
		}

		result := h.ingestService.ProcessEnvelope(ctx, envelope, c.Get("X-Gym-ID"))

		if webhookLog != nil {
			errorMsg := ""
			if result.Skipped > 0 {
				errorMsg = fmt.Sprintf("%d unit bị bỏ qua", result.Skipped)
			}
			_ = h.webhookLogService.UpdateProcessedStatus(ctx, webhookLog.ID, result.Skipped == 0, errorMsg)
		}

		return basehdl.JSONResponse(c, common.StatusOK, fiber.Map{
			"success": true,
			"message": fmt.Sprintf("Đã nhận webhook: %d xử lý, %d trùng, %d bỏ qua", result.Processed, result.Duplicates, result.Skipped),
		})
	})
}

// saveWebhookLog lưu log webhook với headers và raw body để debug
func (h *WhatsAppWebhookHandler) saveWebhookLog(ctx context.Context, c fiber.Ctx, envelope webhookdto.WhatsAppEnvelope, rawBody string) (*webhookmodels.WebhookLog, error) {
	headers := make(map[string]string)
	c.Request().Header.VisitAll(func(key, value []byte) {
		headers[string(key)] = string(value)
	})

	var requestBody map[string]interface{}
	_ = json.Unmarshal([]byte(rawBody), &requestBody)

	phoneNumberID := ""
	for _, entry := range envelope.Entry {
		for _, change := range entry.Changes {
			if change.Value.Metadata.PhoneNumberID != "" {
				phoneNumberID = change.Value.Metadata.PhoneNumberID
				break
			}
		}
	}

	return h.webhookLogService.CreateWebhookLog(ctx, webhookmodels.WebhookLog{
		Source:         "whatsapp",
		PhoneNumberID:  phoneNumberID,
		RequestHeaders: headers,
		RequestBody:    requestBody,
		RawBody:        rawBody,
		IPAddress:      c.IP(),
		UserAgent:      string(c.Request().Header.UserAgent()),
		ReceivedAt:     time.Now().UnixMilli(),
	})
}
