package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Token providers supported by the token issuer.
const (
	TokenProviderJWT    = "jwt"
	TokenProviderPaseto = "paseto"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Token    TokenConfig
}

type ServerConfig struct {
	Port            string
	Env             string // dev or prod
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	TrustedOrigins  []string // CORS allowed origins for cookie auth
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// TokenConfig is the single source of truth for both token paths.
// Register and login sign with the same secrets, lifetimes, issuer and
// audience; downstream verification must use the same values.
type TokenConfig struct {
	Provider        string // "jwt" (HS256) or "paseto" (v4.local)
	AccessSecret    []byte
	RefreshSecret   []byte
	AccessDuration  time.Duration
	RefreshDuration time.Duration
	Issuer          string
	Audience        string
}

// Load reads configuration from environment variables.
// A .env file is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			Env:             getEnv("APP_ENV", "dev"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 15*time.Second),
			TrustedOrigins:  getSliceEnv("TRUSTED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "saasauth"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Token: TokenConfig{
			Provider:        getEnv("TOKEN_PROVIDER", TokenProviderJWT),
			AccessSecret:    []byte(getEnv("ACCESS_TOKEN_SECRET", "")),
			RefreshSecret:   []byte(getEnv("REFRESH_TOKEN_SECRET", "")),
			AccessDuration:  getDurationEnv("ACCESS_TOKEN_DURATION", 15*time.Minute),
			RefreshDuration: getDurationEnv("REFRESH_TOKEN_DURATION", 7*24*time.Hour),
			Issuer:          getEnv("TOKEN_ISSUER", "saas-auth-backend"),
			Audience:        getEnv("TOKEN_AUDIENCE", "saas-auth-clients"),
		},
	}

	if err := cfg.Token.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the token configuration is usable by the selected
// provider before anything gets signed with it.
func (c *TokenConfig) Validate() error {
	switch c.Provider {
	case TokenProviderJWT:
		if len(c.AccessSecret) == 0 {
			return fmt.Errorf("ACCESS_TOKEN_SECRET is required")
		}
		if len(c.RefreshSecret) == 0 {
			return fmt.Errorf("REFRESH_TOKEN_SECRET is required")
		}
	case TokenProviderPaseto:
		// v4.local keys must be exactly 32 bytes
		if len(c.AccessSecret) != 32 {
			return fmt.Errorf("ACCESS_TOKEN_SECRET must be exactly 32 bytes for paseto, got %d", len(c.AccessSecret))
		}
		if len(c.RefreshSecret) != 32 {
			return fmt.Errorf("REFRESH_TOKEN_SECRET must be exactly 32 bytes for paseto, got %d", len(c.RefreshSecret))
		}
	default:
		return fmt.Errorf("unknown token provider %q", c.Provider)
	}
	return nil
}

func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Address returns Redis connection address (host:port)
func (c *RedisConfig) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDevelopment returns true if the environment is set to dev
func (c *ServerConfig) IsDevelopment() bool {
	return c.Env == "dev"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	seconds, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return time.Duration(seconds) * time.Second
}

func getSliceEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	if len(result) == 0 {
		return defaultValue
	}

	return result
}
