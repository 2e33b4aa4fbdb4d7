package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"

	"gym_connect/internal/database"
	"gym_connect/internal/global"
	"gym_connect/internal/logger"
	"gym_connect/internal/notification"
	"gym_connect/internal/notification/channels"
)

// initLogger khởi tạo logger cho toàn bộ ứng dụng
func initLogger() {
	if err := logger.Init(nil); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	logger.GetAppLogger().Info("Logger system initialized successfully")
}

// initBroadcaster chọn kênh phát sự kiện chat: AMQP nếu cấu hình, không thì log
func initBroadcaster() notification.Broadcaster {
	log := logger.GetAppLogger()
	cfg := global.ServerConfig

	if cfg.AmqpURL == "" {
		log.Info("AMQP_URL trống, dùng log broadcaster cho sự kiện chat")
		return &notification.LogBroadcaster{}
	}

	broadcaster, err := channels.NewAmqpBroadcaster(cfg.AmqpURL, cfg.AmqpExchange)
	if err != nil {
		// Broadcast là best-effort: không chặn server vì broker chưa sẵn sàng
		log.WithError(err).Error("Không kết nối được AMQP, fallback sang log broadcaster")
		return &notification.LogBroadcaster{}
	}

	log.WithFields(map[string]interface{}{
		"exchange": cfg.AmqpExchange,
	}).Info("AMQP broadcaster initialized")
	return broadcaster
}

// main_thread khởi tạo và chạy Fiber server trên main goroutine
func main_thread(app *fiber.App) {
	log := logger.GetAppLogger()
	address := ":" + global.ServerConfig.Address

	log.WithFields(map[string]interface{}{
		"address":  address,
		"protocol": "HTTP",
	}).Info("Starting Fiber server...")

	if err := app.Listen(address, fiber.ListenConfig{}); err != nil {
		log.Fatalf("Error in Fiber Listen: %v", err)
	}
}

func main() {
	// Khởi tạo logger
	initLogger()

	// Khởi tạo các biến toàn cục
	InitGlobal()

	// Khởi tạo registry và index
	InitRegistry()

	log := logger.GetAppLogger()

	// Khởi tạo kênh phát sự kiện
	broadcaster := initBroadcaster()

	// Khởi tạo Fiber app với toàn bộ routes
	app, err := InitFiberApp(broadcaster)
	if err != nil {
		log.Fatalf("Failed to initialize Fiber app: %v", err)
	}

	// Graceful shutdown: đóng broadcaster và MongoDB khi nhận tín hiệu dừng
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		log.Info("Shutdown signal received, stopping server...")
		if err := app.Shutdown(); err != nil {
			log.WithError(err).Error("Error during Fiber shutdown")
		}
		if err := broadcaster.Close(); err != nil {
			log.WithError(err).Error("Error closing broadcaster")
		}
		if err := database.CloseInstance(global.MongoDB_Session); err != nil {
			log.WithError(err).Error("Error closing MongoDB session")
		}
	}()

	// Chạy Fiber server trên main thread
	main_thread(app)
}
