// Package whatsappsvc - registry tài khoản WhatsApp theo gym.
// File: service.whatsapp.account.go
package whatsappsvc

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basesvc "gym_connect/internal/api/base/service"
	wamodels "gym_connect/internal/api/whatsapp/models"
	"gym_connect/internal/common"
	"gym_connect/internal/global"
	"gym_connect/internal/logger"
)

// activateLocks giữ mutex theo gym để probe + flip status của activate không bị
// interleave với upsertAccount của cùng gym. Process-wide vì service được tạo
// mới theo handler.
var activateLocks sync.Map

// AccountService là cấu trúc chứa các phương thức liên quan đến tài khoản WhatsApp
type AccountService struct {
	*basesvc.BaseServiceMongoImpl[wamodels.WaAccount]
	cloud *CloudClient
	log   *logrus.Logger
}

// NewAccountService tạo mới AccountService
func NewAccountService() (*AccountService, error) {
	coll, exist := global.RegistryCollections.Get(global.ColNames.WaAccounts)
	if !exist {
		return nil, fmt.Errorf("failed to get wa_accounts collection: %v", common.ErrNotFound)
	}
	cloud := NewCloudClient(
		global.ServerConfig.WhatsAppAPIBaseURL,
		time.Duration(global.ServerConfig.WhatsAppSendTimeoutSec)*time.Second,
	)
	return &AccountService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[wamodels.WaAccount](coll),
		cloud:                cloud,
		log:                  logger.GetAppLogger(),
	}, nil
}

// gymLock lấy mutex cho một gym
func gymLock(gymID primitive.ObjectID) *sync.Mutex {
	mu, _ := activateLocks.LoadOrStore(gymID.Hex(), &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// GetByGym lấy tài khoản WhatsApp của gym
func (s *AccountService) GetByGym(ctx context.Context, gymID primitive.ObjectID) (wamodels.WaAccount, error) {
	return s.FindOne(ctx, bson.M{"gymId": gymID}, nil)
}

// UpsertAccount cấu hình tài khoản WhatsApp cho gym.
// Upsert theo gymId — mỗi gym tối đa một tài khoản. Mọi thay đổi cấu hình đều
// ép status về PENDING: đổi credential là phải kiểm tra kết nối lại.
func (s *AccountService) UpsertAccount(ctx context.Context, gymID primitive.ObjectID, phoneNumberID, phoneNumber, accessToken string) (wamodels.WaAccount, error) {
	mu := gymLock(gymID)
	mu.Lock()
	defer mu.Unlock()

	filter := bson.M{"gymId": gymID}
	update := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"phoneNumberId": phoneNumberID,
			"phoneNumber":   phoneNumber,
			"accessToken":   accessToken,
			"status":        wamodels.AccountStatusPending,
		},
		SetOnInsert: map[string]interface{}{
			"gymId": gymID,
		},
	}

	account, err := s.Upsert(ctx, filter, update)
	if err != nil {
		return account, err
	}

	s.log.WithFields(logrus.Fields{
		"gymId":         gymID.Hex(),
		"phoneNumberId": phoneNumberID,
	}).Info("💬 [WHATSAPP] Đã cấu hình tài khoản, trạng thái PENDING")
	return account, nil
}

// ResolveByPhoneNumberID tìm tài khoản theo phone_number_id trong webhook payload.
// Đây là cơ chế định tuyến multi-tenant duy nhất cho traffic inbound —
// point lookup trên unique index.
func (s *AccountService) ResolveByPhoneNumberID(ctx context.Context, phoneNumberID string) (wamodels.WaAccount, error) {
	return s.FindOne(ctx, bson.M{"phoneNumberId": phoneNumberID}, nil)
}

// Activate chuyển tài khoản của gym sang ACTIVE.
// Luôn probe lại ngay trước khi flip status (không tin kết quả test cũ);
// probe + flip giữ lock theo gym để không interleave với upsertAccount.
//
// Phân loại lỗi:
//   - không có tài khoản        → ErrIntegrationNotReady
//   - probe timeout             → ErrUpstreamTimeout (504 — chặn activation)
//   - probe bị provider từ chối → ErrConnectivityCheck
func (s *AccountService) Activate(ctx context.Context, gymID primitive.ObjectID) (wamodels.WaAccount, *BusinessProfile, error) {
	var zero wamodels.WaAccount

	mu := gymLock(gymID)
	mu.Lock()
	defer mu.Unlock()

	account, err := s.GetByGym(ctx, gymID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return zero, nil, common.ErrIntegrationNotReady
		}
		return zero, nil, err
	}

	profile, err := s.cloud.GetBusinessProfile(ctx, account.AccessToken, account.PhoneNumberID)
	if err != nil {
		// Timeout phải được báo riêng — caller thấy 504, không phải 502
		if errors.Is(err, common.ErrUpstreamTimeout) {
			return zero, nil, err
		}
		s.log.WithError(err).WithField("gymId", gymID.Hex()).Warn("💬 [WHATSAPP] Probe kết nối thất bại, không activate")
		return zero, nil, common.NewError(
			common.ErrCodeConnectivityCheck,
			"Kiểm tra kết nối với provider thất bại",
			common.StatusBadGateway,
			err.Error(),
		)
	}

	updated, err := s.UpdateOne(ctx,
		bson.M{"_id": account.ID},
		bson.M{"$set": bson.M{"status": wamodels.AccountStatusActive}},
		nil,
	)
	if err != nil {
		return zero, nil, err
	}

	s.log.WithField("gymId", gymID.Hex()).Info("💬 [WHATSAPP] Tài khoản đã ACTIVE")
	return updated, profile, nil
}
