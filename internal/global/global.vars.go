// Package global giữ các biến toàn cục của ứng dụng: cấu hình server,
// phiên kết nối MongoDB, validator và registry collections.
package global

import (
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"

	"gym_connect/config"
	"gym_connect/internal/registry"
)

// CollectionNames chứa tên các collection trong database
type CollectionNames struct {
	WaAccounts        string // Tài khoản WhatsApp theo gym
	ChatConversations string // Hội thoại
	ChatMessages      string // Tin nhắn
	CrmLeads          string // Lead của gym
	EvoIntegrations   string // Cấu hình tích hợp EVO
	EvoSyncRuns       string // Lịch sử các lần đồng bộ EVO
	WebhookLogs       string // Log webhook nhận từ provider
}

var Validate *validator.Validate            // Biến để xác thực dữ liệu
var MongoDB_Session *mongo.Client           // Phiên kết nối tới MongoDB
var ServerConfig *config.Configuration      // Cấu hình của server
var ColNames CollectionNames = *new(CollectionNames) // Tên các collection

// RegistryCollections chứa các collections đã đăng ký theo tên
var RegistryCollections = registry.NewRegistry[*mongo.Collection]()
