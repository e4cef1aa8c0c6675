package config

import (
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bmcallister/trade-journal/internal/analytics"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Risk     RiskConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port string
	Host string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MigrationsPath string
}

// RedisConfig holds session store configuration
type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	SessionTTL time.Duration
}

// KafkaConfig holds Kafka configuration
type KafkaConfig struct {
	Brokers       []string
	Topic         string
	ImportTopic   string
	ImportGroupID string
}

// RiskConfig carries the alert thresholds and dashboard defaults. The
// threshold values are a deployment decision; the analytics engine
// only ever sees them as explicit parameters.
type RiskConfig struct {
	Thresholds    analytics.RiskThresholds
	DashboardDays int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnv("DB_PORT", "5432"),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", "postgres"),
			DBName:         getEnv("DB_NAME", "tradejournal"),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			MigrationsPath: getEnv("DB_MIGRATIONS_PATH", "file://db/migrations"),
		},
		Redis: RedisConfig{
			Addr:       getEnv("REDIS_ADDR", "localhost:6379"),
			Password:   getEnv("REDIS_PASSWORD", ""),
			DB:         getEnvInt("REDIS_DB", 0),
			SessionTTL: time.Duration(getEnvInt("SESSION_TTL_HOURS", 72)) * time.Hour,
		},
		Kafka: KafkaConfig{
			Brokers:       []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			Topic:         getEnv("KAFKA_TOPIC", "journal-events"),
			ImportTopic:   getEnv("KAFKA_IMPORT_TOPIC", "trade-imports"),
			ImportGroupID: getEnv("KAFKA_IMPORT_GROUP_ID", "trade-journal-importer"),
		},
		Risk: RiskConfig{
			Thresholds: analytics.RiskThresholds{
				MaxLossStreak:         getEnvInt("RISK_MAX_LOSS_STREAK", 3),
				MaxDrawdownRate:       getEnvDecimal("RISK_MAX_DRAWDOWN_RATE", "10"),
				AverageLossMultiplier: getEnvDecimal("RISK_AVG_LOSS_MULTIPLIER", "1.5"),
			},
			DashboardDays: getEnvInt("DASHBOARD_DAYS", 90),
		},
	}
}

// ConnectionString returns the PostgreSQL connection string
func (d *DatabaseConfig) ConnectionString() string {
	return "postgres://" + d.User + ":" + d.Password + "@" + d.Host + ":" + d.Port + "/" + d.DBName + "?sslmode=" + d.SSLMode
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDecimal(key, defaultValue string) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if parsed, err := decimal.NewFromString(value); err == nil {
			return parsed
		}
	}
	return decimal.RequireFromString(defaultValue)
}
