// Package dto chứa các cấu trúc request/response cho domain EVO.
package dto

// UpsertIntegrationInput là body cấu hình tích hợp EVO
type UpsertIntegrationInput struct {
	BaseURL         string            `json:"baseUrl" validate:"required,url"`
	APIKey          string            `json:"apiKey" validate:"required"`
	BranchID        string            `json:"branchId,omitempty" validate:"omitempty,no_xss"`
	FieldMapping    map[string]string `json:"fieldMapping,omitempty"`
	AutoSync        bool              `json:"autoSync"`
	SyncIntervalMin int64             `json:"syncIntervalMin,omitempty" validate:"omitempty,min=1"`
}

// TriggerSyncInput là body kích hoạt một lần đồng bộ
type TriggerSyncInput struct {
	IntegrationID string `json:"integrationId" validate:"required,object_id"`
	Direction     string `json:"direction" validate:"required,oneof=FROM_EVO TO_EVO"`
}

// SyncResult là tổng kết trả về sau một lần đồng bộ
type SyncResult struct {
	RunID         string `json:"runId"`
	Success       bool   `json:"success"`
	RecordsSynced int64  `json:"recordsSynced"`
	RecordsFailed int64  `json:"recordsFailed"`
	Error         string `json:"error,omitempty"` // Lỗi cấp run, nếu có
}
