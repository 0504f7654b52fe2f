package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPort         = "8400"
	DefaultSendBuffer   = 256
	DefaultJWTSecret    = "your-secret-key"
	DefaultStaffRoles   = "staff,doctor,admin,receptionist,nurse"
	DefaultTokenTTL     = 24 * time.Hour
	DefaultJobQueue     = 1024
	DefaultStoreTimeout = 2 * time.Second
)

// Config holds all configuration for the chat server.
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// JWTSecret verifies the handshake token issued by the web application.
	JWTSecret string
	// StaffRoles are the token roles treated as staff-like.
	StaffRoles []string
	TokenTTL   time.Duration

	RedisURL    string
	DatabaseURL string

	AllowedOrigins []string
	SendBuffer     int
	JobQueueSize   int
	StoreTimeout   time.Duration
}

// Load reads configuration from environment variables, loading a .env file first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", DefaultPort),
		Env:            getEnv("ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		StaffRoles:     splitList(getEnv("STAFF_ROLES", DefaultStaffRoles)),
		RedisURL:       os.Getenv("REDIS_URL"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "*")),
		TokenTTL:       DefaultTokenTTL,
		StoreTimeout:   DefaultStoreTimeout,
	}

	var err error
	if cfg.SendBuffer, err = getInt("SEND_BUFFER", DefaultSendBuffer); err != nil {
		return nil, err
	}
	if cfg.JobQueueSize, err = getInt("JOB_QUEUE_SIZE", DefaultJobQueue); err != nil {
		return nil, err
	}
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		if cfg.TokenTTL, err = time.ParseDuration(v); err != nil {
			return nil, fmt.Errorf("invalid TOKEN_TTL %q: %w", v, err)
		}
	}

	if cfg.JWTSecret == "" {
		if !cfg.IsDevelopment() {
			return nil, fmt.Errorf("JWT_SECRET is required in %s", cfg.Env)
		}
		cfg.JWTSecret = DefaultJWTSecret
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// OriginAllowed reports whether a browser origin may open a socket.
func (c *Config) OriginAllowed(origin string) bool {
	if origin == "" {
		return true
	}
	for _, o := range c.AllowedOrigins {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive integer", key, v)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry != "" {
			out = append(out, entry)
		}
	}
	return out
}
