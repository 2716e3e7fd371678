package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Security SecurityConfig
	Accounts AccountsConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port     string
	Env      string
	LoginURL string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	AutoMigrate bool
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	PASSWORD string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret       string
	AccessExpiry time.Duration
}

// SecurityConfig holds session and password settings
type SecurityConfig struct {
	SessionEncryptionKey string
	SessionTTL           time.Duration
	PasswordHashCost     int
}

// AccountsConfig holds account lifecycle settings
type AccountsConfig struct {
	// DefaultStatus is the status given to newly registered accounts: "active" or "pending".
	DefaultStatus string
	// IntegrityAuditInterval is how often role profiles are audited; zero disables the audit.
	IntegrityAuditInterval time.Duration
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:     getEnv("SERVER_PORT", "8080"),
			Env:      getEnv("SERVER_ENV", "development"),
			LoginURL: getEnv("LOGIN_URL", "/login"),
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnvAsInt("DB_PORT", 5432),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			DBName:      getEnv("DB_NAME", "tutorhub"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", false),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			PASSWORD: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret:       getEnv("JWT_SECRET", "change-this-in-production"),
			AccessExpiry: getEnvAsDuration("JWT_ACCESS_EXPIRY", 24*time.Hour),
		},
		Security: SecurityConfig{
			SessionEncryptionKey: getEnv("SESSION_ENCRYPTION_KEY", "0000000000000000000000000000000000000000000000000000000000000000"), // 32-bytes hex string
			SessionTTL:           getEnvAsDuration("SESSION_TTL", 24*time.Hour),
			PasswordHashCost:     getEnvAsInt("PASSWORD_HASH_COST", 12),
		},
		Accounts: AccountsConfig{
			DefaultStatus:          getAccountStatus("ACCOUNT_DEFAULT_STATUS", "active"),
			IntegrityAuditInterval: getEnvAsDuration("ROLE_AUDIT_INTERVAL", 15*time.Minute),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getAccountStatus only accepts the statuses a fresh registration may start in
func getAccountStatus(key, defaultValue string) string {
	switch v := strings.ToLower(strings.TrimSpace(os.Getenv(key))); v {
	case "active", "pending":
		return v
	default:
		return defaultValue
	}
}
