package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"gym_connect/config"
	chatmodels "gym_connect/internal/api/chat/models"
	crmmodels "gym_connect/internal/api/crm/models"
	evomodels "gym_connect/internal/api/evo/models"
	webhookmodels "gym_connect/internal/api/webhook/models"
	wamodels "gym_connect/internal/api/whatsapp/models"
	"gym_connect/internal/database"
	"gym_connect/internal/global"
)

// InitRegistry đăng ký các collection vào registry và tạo index theo model tags
func InitRegistry() {
	if err := InitCollections(global.MongoDB_Session, global.ServerConfig); err != nil {
		logrus.Fatalf("Failed to initialize collections: %v", err)
	}
	logrus.Info("Initialized collection registry")

	if err := InitIndexes(); err != nil {
		logrus.Fatalf("Failed to create indexes: %v", err)
	}
	logrus.Info("Initialized collection indexes")
}

// InitCollections khởi tạo và đăng ký các collections MongoDB
func InitCollections(client *mongo.Client, cfg *config.Configuration) error {
	db := client.Database(cfg.MongoDB_DBName)
	colNames := []string{
		global.ColNames.WaAccounts,
		global.ColNames.ChatConversations,
		global.ColNames.ChatMessages,
		global.ColNames.CrmLeads,
		global.ColNames.EvoIntegrations,
		global.ColNames.EvoSyncRuns,
		global.ColNames.WebhookLogs,
	}

	for _, name := range colNames {
		registered, err := global.RegistryCollections.Register(name, db.Collection(name))
		if err != nil {
			logrus.Errorf("Failed to register collection %s: %v", name, err)
			return err
		}

		if registered {
			logrus.Infof("Collection %s registered successfully", name)
		} else {
			logrus.Errorf("Collection %s already registered", name)
		}
	}

	return nil
}

// InitIndexes tạo index cho từng collection dựa trên tag `index` của model.
// Index unique trên (gymId, externalMessageId) là nền của dedup inbound —
// thiếu nó hệ thống mất idempotency.
func InitIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	indexTargets := []struct {
		colName string
		model   interface{}
	}{
		{global.ColNames.WaAccounts, wamodels.WaAccount{}},
		{global.ColNames.ChatConversations, chatmodels.Conversation{}},
		{global.ColNames.ChatMessages, chatmodels.ChatMessage{}},
		{global.ColNames.CrmLeads, crmmodels.CrmLead{}},
		{global.ColNames.EvoIntegrations, evomodels.EvoIntegration{}},
		{global.ColNames.EvoSyncRuns, evomodels.EvoSyncRun{}},
		{global.ColNames.WebhookLogs, webhookmodels.WebhookLog{}},
	}

	for _, target := range indexTargets {
		coll, exist := global.RegistryCollections.Get(target.colName)
		if !exist {
			logrus.Errorf("Collection %s not found in registry", target.colName)
			continue
		}
		if err := database.CreateIndexes(ctx, coll, target.model); err != nil {
			return err
		}
	}

	return nil
}
