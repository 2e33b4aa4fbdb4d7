// Package whatsappsvc chứa service cho domain WhatsApp (account, cloud client, dispatch).
package whatsappsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"gym_connect/internal/common"
	"gym_connect/internal/logger"
)

// CloudClient gọi WhatsApp Cloud API (Graph API) bằng net/http.
// Mọi call đều có deadline; timeout được phân loại tách biệt với lỗi
// provider từ chối (xem common.ClassifyUpstreamError).
type CloudClient struct {
	baseURL    string
	httpClient *http.Client
	log        *logrus.Logger
}

// NewCloudClient tạo CloudClient với timeout cấu hình được
func NewCloudClient(baseURL string, timeout time.Duration) *CloudClient {
	return &CloudClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: logger.GetAppLogger(),
	}
}

// SendMessageResponse là schema response của POST /{phoneNumberId}/messages.
// Validate tại boundary thay vì optional chaining trên shape lồng nhau.
type SendMessageResponse struct {
	Messages []struct {
		ID string `json:"id"` // wamid provider gán
	} `json:"messages"`
}

// BusinessProfile là schema response của GET /{phoneNumberId}/whatsapp_business_profile
type BusinessProfile struct {
	Data []struct {
		About             string `json:"about,omitempty"`
		Address           string `json:"address,omitempty"`
		Description       string `json:"description,omitempty"`
		Email             string `json:"email,omitempty"`
		ProfilePictureURL string `json:"profile_picture_url,omitempty"`
		Vertical          string `json:"vertical,omitempty"`
	} `json:"data"`
}

// mediaInfoResponse là schema response của GET /{mediaId}
type mediaInfoResponse struct {
	URL      string `json:"url"`
	MimeType string `json:"mime_type"`
}

// uploadMediaResponse là schema response của POST /{phoneNumberId}/media
type uploadMediaResponse struct {
	ID string `json:"id"`
}

// SendText gửi tin nhắn text, trả về wamid provider gán
func (c *CloudClient) SendText(ctx context.Context, accessToken, phoneNumberID, to, body string) (string, error) {
	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                to,
		"type":              "text",
		"text": map[string]interface{}{
			"body": body,
		},
	}
	return c.postMessage(ctx, accessToken, phoneNumberID, payload)
}

// SendMedia gửi tin nhắn media theo mediaId đã upload trước
func (c *CloudClient) SendMedia(ctx context.Context, accessToken, phoneNumberID, to, mediaType, mediaID, caption, filename string) (string, error) {
	media := map[string]interface{}{
		"id": mediaID,
	}
	// Caption chỉ hợp lệ cho image/document/video; filename chỉ cho document
	if caption != "" && mediaType != "audio" {
		media["caption"] = caption
	}
	if filename != "" && mediaType == "document" {
		media["filename"] = filename
	}

	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                to,
		"type":              mediaType,
		mediaType:           media,
	}
	return c.postMessage(ctx, accessToken, phoneNumberID, payload)
}

// postMessage gửi payload lên endpoint messages và validate response schema
func (c *CloudClient) postMessage(ctx context.Context, accessToken, phoneNumberID string, payload map[string]interface{}) (string, error) {
	url := fmt.Sprintf("%s/%s/messages", c.baseURL, phoneNumberID)

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", common.ErrInvalidFormat
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", common.ErrInvalidFormat
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", common.ClassifyUpstreamError(err, "gửi tin nhắn WhatsApp")
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		c.log.WithFields(logrus.Fields{
			"statusCode": resp.StatusCode,
			"response":   string(bodyBytes),
		}).Error("💬 [WHATSAPP] Provider trả về lỗi khi gửi tin nhắn")
		return "", common.NewUpstreamRejected(resp.StatusCode, string(bodyBytes))
	}

	var sendResp SendMessageResponse
	if err := json.Unmarshal(bodyBytes, &sendResp); err != nil {
		return "", common.NewError(
			common.ErrCodeValidationFormat,
			"Response gửi tin nhắn từ provider không đúng schema",
			common.StatusBadGateway,
			string(bodyBytes),
		)
	}
	if len(sendResp.Messages) == 0 || sendResp.Messages[0].ID == "" {
		return "", common.NewError(
			common.ErrCodeValidationFormat,
			"Response gửi tin nhắn từ provider thiếu message id",
			common.StatusBadGateway,
			string(bodyBytes),
		)
	}

	return sendResp.Messages[0].ID, nil
}

// GetBusinessProfile lấy business profile — dùng làm probe kết nối khi activate
func (c *CloudClient) GetBusinessProfile(ctx context.Context, accessToken, phoneNumberID string) (*BusinessProfile, error) {
	url := fmt.Sprintf("%s/%s/whatsapp_business_profile?fields=about,address,description,email,profile_picture_url,vertical", c.baseURL, phoneNumberID)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, common.ErrInvalidFormat
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, common.ClassifyUpstreamError(err, "lấy business profile")
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, common.NewUpstreamRejected(resp.StatusCode, string(bodyBytes))
	}

	var profile BusinessProfile
	if err := json.Unmarshal(bodyBytes, &profile); err != nil {
		return nil, common.NewError(
			common.ErrCodeValidationFormat,
			"Response business profile từ provider không đúng schema",
			common.StatusBadGateway,
			string(bodyBytes),
		)
	}

	return &profile, nil
}

// UploadMedia upload media lên provider, trả về mediaId dùng cho send-media
func (c *CloudClient) UploadMedia(ctx context.Context, accessToken, phoneNumberID string, data []byte, mimeType string) (string, error) {
	url := fmt.Sprintf("%s/%s/media", c.baseURL, phoneNumberID)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("messaging_product", "whatsapp"); err != nil {
		return "", common.ErrInvalidFormat
	}
	if err := writer.WriteField("type", mimeType); err != nil {
		return "", common.ErrInvalidFormat
	}

	partHeader := make(map[string][]string)
	partHeader["Content-Disposition"] = []string{`form-data; name="file"; filename="upload"`}
	partHeader["Content-Type"] = []string{mimeType}
	part, err := writer.CreatePart(partHeader)
	if err != nil {
		return "", common.ErrInvalidFormat
	}
	if _, err := part.Write(data); err != nil {
		return "", common.ErrInvalidFormat
	}
	if err := writer.Close(); err != nil {
		return "", common.ErrInvalidFormat
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, &buf)
	if err != nil {
		return "", common.ErrInvalidFormat
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", common.ClassifyUpstreamError(err, "upload media")
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", common.NewUpstreamRejected(resp.StatusCode, string(bodyBytes))
	}

	var uploadResp uploadMediaResponse
	if err := json.Unmarshal(bodyBytes, &uploadResp); err != nil || uploadResp.ID == "" {
		return "", common.NewError(
			common.ErrCodeValidationFormat,
			"Response upload media từ provider thiếu media id",
			common.StatusBadGateway,
			string(bodyBytes),
		)
	}

	return uploadResp.ID, nil
}

// DownloadMedia tải media theo hai bước: lấy URL tạm từ mediaId rồi tải bytes.
// Trả về (bytes, mimeType).
func (c *CloudClient) DownloadMedia(ctx context.Context, accessToken, mediaID string) ([]byte, string, error) {
	// Bước 1: lấy URL tạm của media
	infoURL := fmt.Sprintf("%s/%s", c.baseURL, mediaID)
	req, err := http.NewRequestWithContext(ctx, "GET", infoURL, nil)
	if err != nil {
		return nil, "", common.ErrInvalidFormat
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", common.ClassifyUpstreamError(err, "lấy thông tin media")
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, "", common.NewUpstreamRejected(resp.StatusCode, string(bodyBytes))
	}

	var info mediaInfoResponse
	if err := json.Unmarshal(bodyBytes, &info); err != nil || info.URL == "" {
		return nil, "", common.NewError(
			common.ErrCodeValidationFormat,
			"Response thông tin media từ provider thiếu url",
			common.StatusBadGateway,
			string(bodyBytes),
		)
	}

	// Bước 2: tải bytes từ URL tạm (vẫn yêu cầu bearer token)
	dlReq, err := http.NewRequestWithContext(ctx, "GET", info.URL, nil)
	if err != nil {
		return nil, "", common.ErrInvalidFormat
	}
	dlReq.Header.Set("Authorization", "Bearer "+accessToken)

	dlResp, err := c.httpClient.Do(dlReq)
	if err != nil {
		return nil, "", common.ClassifyUpstreamError(err, "tải media")
	}
	defer dlResp.Body.Close()

	if dlResp.StatusCode != http.StatusOK {
		dlBody, _ := io.ReadAll(dlResp.Body)
		return nil, "", common.NewUpstreamRejected(dlResp.StatusCode, string(dlBody))
	}

	data, err := io.ReadAll(dlResp.Body)
	if err != nil {
		return nil, "", common.ClassifyUpstreamError(err, "đọc dữ liệu media")
	}

	return data, info.MimeType, nil
}
