// Package evosvc - sync engine hai chiều với EVO.
// File: service.evo.sync.go
package evosvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	basemodels "gym_connect/internal/api/base/models"
	basesvc "gym_connect/internal/api/base/service"
	crmsvc "gym_connect/internal/api/crm/service"
	evomodels "gym_connect/internal/api/evo/models"
	"gym_connect/internal/common"
	"gym_connect/internal/global"
	"gym_connect/internal/logger"
	"gym_connect/internal/utility"
)

// IntegrationService quản lý cấu hình tích hợp EVO
type IntegrationService struct {
	*basesvc.BaseServiceMongoImpl[evomodels.EvoIntegration]
}

// NewIntegrationService tạo mới IntegrationService
func NewIntegrationService() (*IntegrationService, error) {
	coll, exist := global.RegistryCollections.Get(global.ColNames.EvoIntegrations)
	if !exist {
		return nil, fmt.Errorf("failed to get evo_integrations collection: %v", common.ErrNotFound)
	}
	return &IntegrationService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[evomodels.EvoIntegration](coll),
	}, nil
}

// BuildIntegrationUpsert dựng filter và update cho upsert cấu hình tích hợp.
// Định danh một đích EVO là (gymId, baseUrl, branchId) — POST lại cùng đích
// thì cập nhật credential/mapping, không sinh bản ghi mới.
func BuildIntegrationUpsert(integration evomodels.EvoIntegration) (bson.M, *basesvc.UpdateData) {
	filter := bson.M{
		"gymId":    integration.GymID,
		"baseUrl":  integration.BaseURL,
		"branchId": integration.BranchID,
	}
	update := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"apiKey":          integration.APIKey,
			"fieldMapping":    integration.FieldMapping,
			"autoSync":        integration.AutoSync,
			"syncIntervalMin": integration.SyncIntervalMin,
		},
		SetOnInsert: map[string]interface{}{
			"gymId":    integration.GymID,
			"baseUrl":  integration.BaseURL,
			"branchId": integration.BranchID,
		},
	}
	return filter, update
}

// UpsertConfig tạo hoặc cập nhật cấu hình tích hợp cho một đích EVO
func (s *IntegrationService) UpsertConfig(ctx context.Context, integration evomodels.EvoIntegration) (evomodels.EvoIntegration, error) {
	filter, update := BuildIntegrationUpsert(integration)
	return s.Upsert(ctx, filter, update)
}

// GetByGym lấy integration theo ID trong phạm vi gym
func (s *IntegrationService) GetByGym(ctx context.Context, gymID, integrationID primitive.ObjectID) (evomodels.EvoIntegration, error) {
	integration, err := s.FindOne(ctx, bson.M{"_id": integrationID, "gymId": gymID}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return integration, common.ErrIntegrationNotConfigured
		}
		return integration, err
	}
	return integration, nil
}

// SyncService chạy đồng bộ hai chiều và ghi lịch sử SyncRun.
// Engine stateless giữa các lần chạy — trạng thái duy nhất là lịch sử run.
type SyncService struct {
	integrationService *IntegrationService
	runService         *basesvc.BaseServiceMongoImpl[evomodels.EvoSyncRun]
	leadService        *crmsvc.LeadService
	client             *EvoClient
	pageSize           int64
	log                *logrus.Logger
}

// NewSyncService tạo mới SyncService
func NewSyncService() (*SyncService, error) {
	integrationService, err := NewIntegrationService()
	if err != nil {
		return nil, err
	}
	runColl, exist := global.RegistryCollections.Get(global.ColNames.EvoSyncRuns)
	if !exist {
		return nil, fmt.Errorf("failed to get evo_sync_runs collection: %v", common.ErrNotFound)
	}
	leadService, err := crmsvc.NewLeadService()
	if err != nil {
		return nil, fmt.Errorf("failed to create lead service: %v", err)
	}
	return &SyncService{
		integrationService: integrationService,
		runService:         basesvc.NewBaseServiceMongo[evomodels.EvoSyncRun](runColl),
		leadService:        leadService,
		client:             NewEvoClient(time.Duration(global.ServerConfig.EvoAPITimeoutSec) * time.Second),
		pageSize:           int64(global.ServerConfig.EvoSyncPageSize),
		log:                logger.GetAppLogger(),
	}, nil
}

// startRun tạo SyncRun mở đầu một lần chạy
func (s *SyncService) startRun(ctx context.Context, integration evomodels.EvoIntegration, direction string) (evomodels.EvoSyncRun, error) {
	return s.runService.InsertOne(ctx, evomodels.EvoSyncRun{
		IntegrationID: integration.ID,
		GymID:         integration.GymID,
		Direction:     direction,
		StartedAt:     time.Now().UnixMilli(),
	})
}

// BuildRunFinalize dựng update chốt kết quả run. recordsFailed chỉ đếm theo
// record; lỗi cấp run (kéo trang, đọc lead store) đi vào field error riêng.
// Run chỉ success khi không có cả hai.
func BuildRunFinalize(synced, failed int64, runErr string) bson.M {
	set := bson.M{
		"finishedAt":    time.Now().UnixMilli(),
		"recordsSynced": synced,
		"recordsFailed": failed,
		"success":       failed == 0 && runErr == "",
	}
	if runErr != "" {
		set["error"] = runErr
	}
	return bson.M{"$set": set}
}

// finalizeRun chốt kết quả run. Sau bước này run không bao giờ sửa nữa.
func (s *SyncService) finalizeRun(ctx context.Context, run evomodels.EvoSyncRun, synced, failed int64, runErr string) (evomodels.EvoSyncRun, error) {
	return s.runService.UpdateOne(ctx, bson.M{"_id": run.ID}, BuildRunFinalize(synced, failed, runErr), nil)
}

// lastSuccessfulRunTime trả về StartedAt của run thành công gần nhất theo
// hướng direction, 0 nếu chưa có (lần đầu push toàn bộ lead).
func (s *SyncService) lastSuccessfulRunTime(ctx context.Context, integrationID primitive.ObjectID, direction string) (int64, error) {
	filter := bson.M{
		"integrationId": integrationID,
		"direction":     direction,
		"success":       true,
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "startedAt", Value: -1}})
	run, err := s.runService.FindOne(ctx, filter, opts)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return run.StartedAt, nil
}

// SyncFromEvo kéo member từ EVO về lead local.
// Lỗi của một record chỉ tăng recordsFailed, không abort batch; run
// finalize với success = (recordsFailed == 0).
func (s *SyncService) SyncFromEvo(ctx context.Context, gymID, integrationID primitive.ObjectID) (evomodels.EvoSyncRun, error) {
	var zero evomodels.EvoSyncRun

	integration, err := s.integrationService.GetByGym(ctx, gymID, integrationID)
	if err != nil {
		return zero, err
	}

	run, err := s.startRun(ctx, integration, evomodels.SyncDirectionFromEvo)
	if err != nil {
		return zero, err
	}

	var synced, failed int64
	var runErr string
	for page := int64(1); ; page++ {
		members, err := s.client.ListMembers(ctx, integration, page, s.pageSize)
		if err != nil {
			// Lỗi kéo trang làm fail cả run nhưng không biết trang chứa bao
			// nhiêu record — ghi vào error cấp run, không đếm vào recordsFailed
			s.log.WithError(err).WithField("page", page).Error("🔄 [EVO SYNC] Không kéo được trang members")
			runErr = fmt.Sprintf("không kéo được trang %d: %v", page, err)
			break
		}
		if len(members) == 0 {
			break
		}

		for _, member := range members {
			if err := s.pullMember(ctx, integration, member); err != nil {
				failed++
				s.log.WithError(err).WithField("idMember", member.ID).Warn("🔄 [EVO SYNC] Lỗi record, tiếp tục batch")
				continue
			}
			synced++
		}

		if int64(len(members)) < s.pageSize {
			break
		}
	}

	return s.finalizeRun(ctx, run, synced, failed, runErr)
}

// pullMember map và upsert một member vào lead store
func (s *SyncService) pullMember(ctx context.Context, integration evomodels.EvoIntegration, member EvoMember) error {
	fields, err := MapMemberFields(member, integration.FieldMapping)
	if err != nil {
		return err
	}

	// Conflict policy: last-write-wins theo updatedAt phía EVO
	externalUpdatedAt := ParseEvoUpdatedAt(member.UpdatedAt)
	existing, err := s.leadService.GetByEvoID(ctx, integration.GymID, member.ID)
	if err == nil && !ShouldOverwrite(existing.EvoUpdatedAt, externalUpdatedAt) {
		return nil
	}
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return err
	}

	_, err = s.leadService.UpsertByEvoID(ctx, integration.GymID, member.ID, fields)
	return err
}

// SyncToEvo đẩy các lead đổi từ sau run TO_EVO thành công gần nhất lên EVO.
// Lead được EVO tạo mới được back-annotate idMember cho các lần pull sau.
func (s *SyncService) SyncToEvo(ctx context.Context, gymID, integrationID primitive.ObjectID) (evomodels.EvoSyncRun, error) {
	var zero evomodels.EvoSyncRun

	integration, err := s.integrationService.GetByGym(ctx, gymID, integrationID)
	if err != nil {
		return zero, err
	}

	since, err := s.lastSuccessfulRunTime(ctx, integrationID, evomodels.SyncDirectionToEvo)
	if err != nil {
		return zero, err
	}

	run, err := s.startRun(ctx, integration, evomodels.SyncDirectionToEvo)
	if err != nil {
		return zero, err
	}

	leads, err := s.leadService.ChangedSince(ctx, gymID, since)
	if err != nil {
		// Không đọc được lead store — finalize run rỗng thất bại
		s.log.WithError(err).Error("🔄 [EVO SYNC] Không đọc được lead thay đổi")
		return s.finalizeRun(ctx, run, 0, 0, fmt.Sprintf("không đọc được lead thay đổi: %v", err))
	}

	var synced, failed int64
	for _, lead := range leads {
		leadFields, err := utility.ToMap(lead)
		if err != nil {
			failed++
			continue
		}

		payload := BuildPushPayload(leadFields, integration.FieldMapping)
		if lead.EvoMemberID != "" {
			payload["idMember"] = lead.EvoMemberID
		}

		evoID, err := s.client.UpsertMember(ctx, integration, payload)
		if err != nil {
			failed++
			s.log.WithError(err).WithField("leadId", lead.ID.Hex()).Warn("🔄 [EVO SYNC] Lỗi đẩy lead, tiếp tục batch")
			continue
		}

		if lead.EvoMemberID == "" && evoID != "" {
			if err := s.leadService.SetEvoID(ctx, lead.ID, evoID); err != nil {
				failed++
				continue
			}
		}
		synced++
	}

	return s.finalizeRun(ctx, run, synced, failed, "")
}

// ListRuns trả về lịch sử sync run của integration, mới nhất trước
func (s *SyncService) ListRuns(ctx context.Context, gymID, integrationID primitive.ObjectID, page, limit int64) (*basemodels.PaginateResult[evomodels.EvoSyncRun], error) {
	filter := bson.M{"integrationId": integrationID, "gymId": gymID}
	opts := options.Find().SetSort(bson.D{{Key: "startedAt", Value: -1}})
	return s.runService.FindWithPagination(ctx, filter, page, limit, opts)
}
