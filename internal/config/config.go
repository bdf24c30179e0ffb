package config

import (
	"os"
	"strconv"
	"time"

	"afisha/internal/database"
	"afisha/internal/external"
	"afisha/internal/messaging"

	"github.com/joho/godotenv"
)

// Lifecycle содержит временные окна жизненного цикла события.
// Значения неизменяемы после старта и внедряются в сервисы при создании.
type Lifecycle struct {
	// MinEventLead - минимальный запас до даты события при создании/правке
	MinEventLead time.Duration
	// MinPublishLead - минимальный запас до даты события при публикации
	MinPublishLead time.Duration
}

// Config содержит конфигурацию приложения
type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	LogFormat      string
	RequestTimeout time.Duration

	// Порт сервиса статистики (cmd/statsvc)
	StatsPort string

	Database  database.Config
	Stats     external.StatsConfig
	NATS      messaging.Config
	Lifecycle Lifecycle
}

// Load загружает конфигурацию из .env (если есть) и переменных окружения
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SEC", 30)) * time.Second,

		StatsPort: getEnv("STATS_PORT", "9090"),

		Database: database.Config{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			User:               getEnv("DB_USER", "afisha"),
			Password:           getEnv("DB_PASSWORD", "afisha123"),
			DBName:             getEnv("DB_NAME", "afisha"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 50),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetimeMin: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 5),
			ConnMaxIdleTimeMin: getEnvInt("DB_CONN_MAX_IDLE_TIME_MIN", 1),
		},

		Stats: external.StatsConfig{
			BaseURL: getEnv("STATS_SERVICE_URL", "http://localhost:9090"),
			AppName: getEnv("STATS_APP_NAME", "afisha-main-service"),
			Timeout: time.Duration(getEnvInt("STATS_TIMEOUT_SEC", 5)) * time.Second,
		},

		NATS: messaging.Config{
			URL:       getEnv("NATS_URL", "nats://localhost:4222"),
			ClusterID: getEnv("NATS_CLUSTER_ID", "afisha"),
			ClientID:  getEnv("NATS_CLIENT_ID", "afisha-api"),
		},

		Lifecycle: Lifecycle{
			MinEventLead:   time.Duration(getEnvInt("MIN_EVENT_LEAD_HOURS", 2)) * time.Hour,
			MinPublishLead: time.Duration(getEnvInt("MIN_PUBLISH_LEAD_HOURS", 1)) * time.Hour,
		},
	}
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает целочисленное значение переменной окружения
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
