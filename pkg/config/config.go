package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

// DBConfig 数据库配置
type DBConfig struct {
	Driver          string // sqlite | postgres
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	LogLevel        logger.LogLevel
}

// ServerConfig 服务配置
type ServerConfig struct {
	Port         string
	Env          string
	DeviceCookie string
}

// StoreConfig KV 存储配置
type StoreConfig struct {
	// 每个设备命名空间可用的最大字节数，0 表示不限制
	QuotaBytes int64
}

// OTPConfig 验证码配置
type OTPConfig struct {
	SendDelay  time.Duration // 模拟发送延迟
	ExposeCode bool          // 演示模式下在响应中返回验证码
}

// Config 全部配置
type Config struct {
	ServiceName string
	DB          DBConfig
	Server      ServerConfig
	Store       StoreConfig
	OTP         OTPConfig
	LogLevel    string
	AdminEmails []string
	StatsCron   string
}

// Load 从 .env 与环境变量加载配置
func Load(serviceName string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env 可选
		fmt.Fprintln(os.Stderr, "Warning: .env file not found, using environment variables")
	}

	cfg := &Config{
		ServiceName: serviceName,
		DB: DBConfig{
			Driver:          getEnv("DB_DRIVER", "sqlite"),
			DSN:             getEnv("DB_DSN", "peermall.db"),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
			LogLevel:        getEnvAsLogLevel("DB_LOG_LEVEL", logger.Warn),
		},
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Env:          getEnv("APP_ENV", "development"),
			DeviceCookie: getEnv("DEVICE_COOKIE", "peermall_device"),
		},
		Store: StoreConfig{
			// 浏览器 localStorage 的常见上限
			QuotaBytes: int64(getEnvAsInt("KV_QUOTA_BYTES", 5*1024*1024)),
		},
		OTP: OTPConfig{
			SendDelay:  getEnvAsDuration("OTP_SEND_DELAY", time.Second),
			ExposeCode: getEnvAsBool("OTP_EXPOSE_CODE", true),
		},
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		AdminEmails: getEnvAsList("ADMIN_EMAILS", nil),
		StatsCron:   getEnv("STATS_CRON", "0 */1 * * * *"),
	}

	switch cfg.DB.Driver {
	case "sqlite", "postgres":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DB.Driver)
	}

	return cfg, nil
}

// IsProduction 是否生产环境
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// LogFields 启动时打印的配置摘要（不含 DSN）
func (c *Config) LogFields() []zap.Field {
	return []zap.Field{
		zap.String("service", c.ServiceName),
		zap.String("environment", c.Server.Env),
		zap.String("db_driver", c.DB.Driver),
		zap.String("server_port", c.Server.Port),
		zap.Int64("kv_quota_bytes", c.Store.QuotaBytes),
		zap.Duration("otp_send_delay", c.OTP.SendDelay),
		zap.Bool("otp_expose_code", c.OTP.ExposeCode),
		zap.Int("admin_emails", len(c.AdminEmails)),
	}
}

// ==================== 工具函数 ====================

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	raw := strings.TrimSpace(getEnv(key, ""))
	if raw == "" {
		return defaultValue
	}
	var values []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}

func getEnvAsLogLevel(key string, defaultValue logger.LogLevel) logger.LogLevel {
	switch getEnv(key, "") {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	default:
		return defaultValue
	}
}
