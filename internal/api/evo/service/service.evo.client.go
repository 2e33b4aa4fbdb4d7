// Package evosvc chứa service cho domain EVO (client, mapping, sync).
package evosvc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	evomodels "gym_connect/internal/api/evo/models"
	"gym_connect/internal/common"
)

// EvoMember là schema member phía EVO. Chỉ các field tham gia mapping được
// decode; phần còn lại giữ trong Raw để field mapping cấu hình được.
type EvoMember struct {
	ID        string                 `json:"idMember"`
	UpdatedAt string                 `json:"updatedAt,omitempty"` // RFC3339, có thể vắng
	Raw       map[string]interface{} `json:"-"`
}

// UnmarshalJSON decode member, giữ toàn bộ payload gốc trong Raw
func (m *EvoMember) UnmarshalJSON(data []byte) error {
	type alias struct {
		ID        string `json:"idMember"`
		UpdatedAt string `json:"updatedAt,omitempty"`
	}
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.ID = a.ID
	m.UpdatedAt = a.UpdatedAt
	m.Raw = raw
	return nil
}

// listMembersResponse là schema response của GET /members
type listMembersResponse struct {
	Members []EvoMember `json:"members"`
	Total   int64       `json:"total"`
}

// upsertMemberResponse là schema response của POST /members
type upsertMemberResponse struct {
	IDMember string `json:"idMember"`
}

// EvoClient gọi EVO API bằng net/http. Timeout và phân loại lỗi giống
// provider WhatsApp: deadline → UPS_001, còn lại → UPS_002.
type EvoClient struct {
	httpClient *http.Client
}

// NewEvoClient tạo EvoClient với timeout cấu hình được
func NewEvoClient(timeout time.Duration) *EvoClient {
	return &EvoClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ListMembers kéo một trang member từ EVO
func (c *EvoClient) ListMembers(ctx context.Context, integration evomodels.EvoIntegration, page, pageSize int64) ([]EvoMember, error) {
	endpoint := fmt.Sprintf("%s/members?page=%d&pageSize=%d", integration.BaseURL, page, pageSize)
	if integration.BranchID != "" {
		endpoint += "&idBranch=" + url.QueryEscape(integration.BranchID)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, common.ErrInvalidFormat
	}
	req.Header.Set("Authorization", "Bearer "+integration.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, common.ClassifyUpstreamError(err, "kéo members từ EVO")
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, common.NewUpstreamRejected(resp.StatusCode, string(bodyBytes))
	}

	var listResp listMembersResponse
	if err := json.Unmarshal(bodyBytes, &listResp); err != nil {
		return nil, common.NewError(
			common.ErrCodeValidationFormat,
			"Response members từ EVO không đúng schema",
			common.StatusBadGateway,
			string(bodyBytes),
		)
	}

	return listResp.Members, nil
}

// UpsertMember đẩy một member lên EVO.
// Member chưa có ID phía EVO sẽ được tạo — trả về idMember EVO gán để
// back-annotate lead local.
func (c *EvoClient) UpsertMember(ctx context.Context, integration evomodels.EvoIntegration, member map[string]interface{}) (string, error) {
	endpoint := integration.BaseURL + "/members"

	jsonData, err := json.Marshal(member)
	if err != nil {
		return "", common.ErrInvalidFormat
	}

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", common.ErrInvalidFormat
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+integration.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", common.ClassifyUpstreamError(err, "đẩy member lên EVO")
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", common.NewUpstreamRejected(resp.StatusCode, string(bodyBytes))
	}

	var upsertResp upsertMemberResponse
	if err := json.Unmarshal(bodyBytes, &upsertResp); err != nil || upsertResp.IDMember == "" {
		return "", common.NewError(
			common.ErrCodeValidationFormat,
			"Response upsert member từ EVO thiếu idMember",
			common.StatusBadGateway,
			string(bodyBytes),
		)
	}

	return upsertResp.IDMember, nil
}
