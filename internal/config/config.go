package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	SMTP      SMTPConfig
	Auth      AuthConfig
	Payment   PaymentConfig
	Library   LibraryConfig
	Scheduler SchedulerConfig
	Telegram  TelegramConfig
	Tracing   TracingConfig
}

type AppConfig struct {
	Port                string
	BaseURL             string
	Environment         string
	LogFilePath         string
	NotificationLogPath string
	CorsAllowedOrigins  string
	NatsURL             string
	RedisURL            string
}

func (c AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type AuthConfig struct {
	JwtSecret       string
	AccessLifetime  time.Duration
	RefreshLifetime time.Duration
}

type PaymentConfig struct {
	// Provider is "midtrans" or "stub".
	Provider          string
	MidtransServerKey string
	IsProduction      bool
	SessionWindow     time.Duration
	RequestTimeout    time.Duration
}

type LibraryConfig struct {
	FineMultiplier int
}

type SchedulerConfig struct {
	Enabled     bool
	OverdueSpec string
	ExpirySpec  string
	LockTTL     time.Duration
}

type TelegramConfig struct {
	BotToken   string
	APIBaseURL string
}

type TracingConfig struct {
	Enabled  bool
	Endpoint string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:                getEnv("APP_PORT", "3000"),
			BaseURL:             strings.TrimRight(getEnv("APP_BASE_URL", "http://localhost:3000"), "/"),
			Environment:         getEnv("GO_ENV", "development"),
			LogFilePath:         getEnv("LOG_FILE_PATH", "logs/app.log"),
			NotificationLogPath: getEnv("NOTIFICATION_LOG_PATH", "logs/notifications.log"),
			CorsAllowedOrigins:  getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:             getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:            getEnv("REDIS_URL", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Library Service"),
		},
		Auth: AuthConfig{
			JwtSecret:       getEnv("JWT_SECRET", ""),
			AccessLifetime:  getEnvAsDuration("JWT_ACCESS_LIFETIME", 30*time.Minute),
			RefreshLifetime: getEnvAsDuration("JWT_REFRESH_LIFETIME", 7*24*time.Hour),
		},
		Payment: PaymentConfig{
			Provider:          getEnv("PAYMENT_PROVIDER", "midtrans"),
			MidtransServerKey: getEnv("MIDTRANS_SERVER_KEY", ""),
			IsProduction:      getEnvAsBool("MIDTRANS_IS_PRODUCTION", false),
			SessionWindow:     getEnvAsDuration("PAYMENT_SESSION_WINDOW", 24*time.Hour),
			RequestTimeout:    getEnvAsDuration("PAYMENT_REQUEST_TIMEOUT", 15*time.Second),
		},
		Library: LibraryConfig{
			FineMultiplier: getEnvAsInt("FINE_MULTIPLIER", 2),
		},
		Scheduler: SchedulerConfig{
			Enabled:     getEnvAsBool("SCHEDULER_ENABLED", true),
			OverdueSpec: getEnv("SCHEDULE_OVERDUE", "0 7 * * *"),
			ExpirySpec:  getEnv("SCHEDULE_PAYMENT_EXPIRY", "@every 1m"),
			LockTTL:     getEnvAsDuration("SCHEDULER_LOCK_TTL", 5*time.Minute),
		},
		Telegram: TelegramConfig{
			BotToken:   getEnv("TELEGRAM_BOT_TOKEN", ""),
			APIBaseURL: strings.TrimRight(getEnv("LIBRARY_API_URL", "http://localhost:3000"), "/"),
		},
		Tracing: TracingConfig{
			Enabled:  getEnvAsBool("OTEL_ENABLED", false),
			Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
