package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Configuration chứa thông tin tĩnh cần thiết để chạy ứng dụng:
// cấu hình server, MongoDB, WhatsApp Cloud API, EVO và AMQP.
type Configuration struct {
	Address               string `env:"ADDRESS" envDefault:"8080"`       // Cổng server
	MongoDB_ConnectionURI string `env:"MONGODB_CONNECTION_URI,required"` // URL kết nối cơ sở dữ liệu
	MongoDB_DBName        string `env:"MONGODB_DBNAME,required"`         // Tên cơ sở dữ liệu
	CORS_Origins          string `env:"CORS_ORIGINS" envDefault:"*"`     // Các origins được phép (phân cách bởi dấu phẩy)
	CORS_AllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"`
	RateLimit_Max         int    `env:"RATE_LIMIT_MAX" envDefault:"100"`   // Số request tối đa trong window (0 = disable)
	RateLimit_Window      int    `env:"RATE_LIMIT_WINDOW" envDefault:"60"` // Thời gian window (giây)
	RateLimit_Enabled     bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`

	// WhatsApp Cloud API
	WhatsAppVerifyToken    string `env:"WHATSAPP_VERIFY_TOKEN,required"`                                       // Verify token dùng chung cho webhook handshake
	WhatsAppAPIBaseURL     string `env:"WHATSAPP_API_BASE_URL" envDefault:"https://graph.facebook.com/v19.0"` // Base URL Graph API
	WhatsAppSendTimeoutSec int    `env:"WHATSAPP_SEND_TIMEOUT" envDefault:"15"`                                // Timeout gọi provider (giây)

	// EVO CRM
	EvoAPITimeoutSec int `env:"EVO_API_TIMEOUT" envDefault:"30"` // Timeout gọi EVO API (giây)
	EvoSyncPageSize  int `env:"EVO_SYNC_PAGE_SIZE" envDefault:"200"`

	// AMQP (broadcast sự kiện tin nhắn realtime)
	AmqpURL      string `env:"AMQP_URL"`                                    // Để trống = dùng log broadcaster
	AmqpExchange string `env:"AMQP_EXCHANGE" envDefault:"gym_connect.chat"` // Topic exchange cho sự kiện chat
}

// getEnvPath trả về đường dẫn đến file env dựa trên môi trường
func getEnvPath() string {
	// Mặc định sử dụng môi trường development
	environment := os.Getenv("GO_ENV")
	if environment == "" {
		environment = "development"
	}

	currentDir, err := os.Getwd()
	if err != nil {
		// Sử dụng fmt.Printf vì logger có thể chưa được init ở đây
		fmt.Printf("Không thể lấy được thư mục hiện tại: %v\n", err)
		return ""
	}

	// Tìm thư mục config/env bằng cách đi lên từ working directory
	for {
		envDir := filepath.Join(currentDir, "config", "env")
		if _, err := os.Stat(envDir); err == nil {
			return filepath.Join(envDir, fmt.Sprintf("%s.env", environment))
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

// NewConfig đọc dữ liệu cấu hình từ file env (nếu có) và environment variables
func NewConfig() *Configuration {
	envPath := getEnvPath()
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			// Không fatal: cho phép chạy thuần bằng environment variables (container)
			fmt.Printf("Không thể load file env tại %s: %v\n", envPath, err)
		}
	}

	cfg := Configuration{}
	if err := env.Parse(&cfg); err != nil {
		fmt.Printf("Lỗi khi parse config: %+v\n", err)
		return nil
	}

	return &cfg
}
