package main

import (
	"github.com/sirupsen/logrus"

	"gym_connect/config"
	"gym_connect/internal/database"
	"gym_connect/internal/global"
)

// InitGlobal khởi tạo các biến toàn cục theo thứ tự phụ thuộc
func InitGlobal() {
	initColNames()         // Khởi tạo tên các collection trong database
	initValidator()        // Khởi tạo validator
	initConfig()           // Khởi tạo cấu hình server
	initDatabase_MongoDB() // Khởi tạo kết nối database
}

// Hàm khởi tạo tên các collection trong database
func initColNames() {
	global.ColNames.WaAccounts = "wa_accounts"
	global.ColNames.ChatConversations = "chat_conversations"
	global.ColNames.ChatMessages = "chat_messages"
	global.ColNames.CrmLeads = "crm_leads"
	global.ColNames.EvoIntegrations = "evo_integrations"
	global.ColNames.EvoSyncRuns = "evo_sync_runs"
	global.ColNames.WebhookLogs = "webhook_logs"

	logrus.Info("Initialized collection names")
}

// Hàm khởi tạo validator (đăng ký custom validators: no_xss, object_id)
func initValidator() {
	global.InitValidator()
	logrus.Info("Initialized validator")
}

// Hàm khởi tạo cấu hình server từ env
func initConfig() {
	global.ServerConfig = config.NewConfig()
	if global.ServerConfig == nil {
		logrus.Fatal("Failed to load server configuration")
	}
	logrus.Info("Initialized server configuration")
}

// Hàm khởi tạo kết nối MongoDB
func initDatabase_MongoDB() {
	client, err := database.GetInstance(global.ServerConfig)
	if err != nil {
		logrus.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	global.MongoDB_Session = client
	logrus.Info("Initialized MongoDB session")
}
