// Package crmsvc chứa service cho domain CRM (lead).
package crmsvc

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	basemodels "gym_connect/internal/api/base/models"
	basesvc "gym_connect/internal/api/base/service"
	crmmodels "gym_connect/internal/api/crm/models"
	"gym_connect/internal/common"
	"gym_connect/internal/global"
)

// LeadService là cấu trúc chứa các phương thức liên quan đến lead
type LeadService struct {
	*basesvc.BaseServiceMongoImpl[crmmodels.CrmLead]
}

// NewLeadService tạo mới LeadService
func NewLeadService() (*LeadService, error) {
	coll, exist := global.RegistryCollections.Get(global.ColNames.CrmLeads)
	if !exist {
		return nil, fmt.Errorf("failed to get crm_leads collection: %v", common.ErrNotFound)
	}
	return &LeadService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[crmmodels.CrmLead](coll),
	}, nil
}

// UpsertByEvoID upsert lead theo foreign key (gymId, evoMemberId).
// Join chính xác theo ID — tuyệt đối không fuzzy match theo tên/email.
func (s *LeadService) UpsertByEvoID(ctx context.Context, gymID primitive.ObjectID, evoMemberID string, fields map[string]interface{}) (crmmodels.CrmLead, error) {
	var zero crmmodels.CrmLead
	if evoMemberID == "" {
		return zero, common.ErrRequiredField
	}

	filter := bson.M{"gymId": gymID, "evoMemberId": evoMemberID}
	update := &basesvc.UpdateData{
		Set: fields,
		SetOnInsert: map[string]interface{}{
			"gymId":       gymID,
			"evoMemberId": evoMemberID,
			"source":      crmmodels.LeadSourceEvo,
		},
	}
	return s.Upsert(ctx, filter, update)
}

// GetByEvoID tìm lead theo foreign key EVO
func (s *LeadService) GetByEvoID(ctx context.Context, gymID primitive.ObjectID, evoMemberID string) (crmmodels.CrmLead, error) {
	return s.FindOne(ctx, bson.M{"gymId": gymID, "evoMemberId": evoMemberID}, nil)
}

// ChangedSince trả về các lead của gym thay đổi sau mốc thời gian (Unix milli).
// Dùng cho sync TO_EVO: chỉ push những gì đổi từ sau lần chạy thành công trước.
func (s *LeadService) ChangedSince(ctx context.Context, gymID primitive.ObjectID, sinceMilli int64) ([]crmmodels.CrmLead, error) {
	filter := bson.M{
		"gymId":     gymID,
		"updatedAt": bson.M{"$gt": sinceMilli},
	}
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: 1}})
	return s.Find(ctx, filter, opts)
}

// BuildEvoIDAnnotation dựng update gắn ID mà EVO gán cho lead.
// Chỉ chạm evoMemberId, KHÔNG chạm updatedAt — bump updatedAt ở đây khiến
// lần TO_EVO kế tiếp push lại lead chỉ vì nó vừa được gắn ID.
func BuildEvoIDAnnotation(evoMemberID string) bson.M {
	return bson.M{"$set": bson.M{"evoMemberId": evoMemberID}}
}

// SetEvoID back-annotate lead với ID mà EVO gán sau khi push tạo mới.
// Ghi thẳng qua collection để né auto-timestamp của base service.
func (s *LeadService) SetEvoID(ctx context.Context, leadID primitive.ObjectID, evoMemberID string) error {
	filter := bson.M{"_id": leadID}
	result, err := s.Collection().UpdateOne(ctx, filter, BuildEvoIDAnnotation(evoMemberID))
	if err != nil {
		return common.ConvertMongoError(err)
	}
	if result.MatchedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}

// ListByGym trả về lead của gym, phân trang
func (s *LeadService) ListByGym(ctx context.Context, gymID primitive.ObjectID, page, limit int64) (*basemodels.PaginateResult[crmmodels.CrmLead], error) {
	filter := bson.M{"gymId": gymID}
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	return s.FindWithPagination(ctx, filter, page, limit, opts)
}
