package config

import (
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort              string
	ServerReadHeaderTimeout time.Duration
	ServerWriteTimeout      time.Duration
	ServerIdleTimeout       time.Duration
	RequestTimeout          time.Duration
	DatabaseURL             string
	DBMaxConns              int32
	DBMinConns              int32
	JWTSecret               string
	SessionTTL              time.Duration
	CookieSecure            bool
	CORSOrigins             []string
	RateLimitRPM            int
	TrustedProxies          []string
	AuthRateLimitMax        int
	AuthRateLimitWindow     time.Duration
	RedisAddr               string
	RedisDB                 int
	GeneratorEndpoint       string
	GeneratorAPIKey         string
	GeneratorModel          string
	GeneratorTimeout        time.Duration
	PaymentDelay            time.Duration
	ChatReplyDelay          time.Duration
	AvatarMaxBytes          int
	AvatarMaxDimension      int
	LogLevel                string
	LogFormat               string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:              getEnv("SERVER_PORT", "3000"),
		ServerReadHeaderTimeout: getDuration("SERVER_READ_HEADER_TIMEOUT", 10*time.Second),
		ServerWriteTimeout:      getDuration("SERVER_WRITE_TIMEOUT", 60*time.Second),
		ServerIdleTimeout:       getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		RequestTimeout:          getDuration("REQUEST_TIMEOUT", 45*time.Second),
		DatabaseURL:             strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DBMaxConns:              int32(getInt("DB_MAX_CONNS", 10)),
		DBMinConns:              int32(getInt("DB_MIN_CONNS", 1)),
		JWTSecret:               strings.TrimSpace(os.Getenv("JWT_SECRET")),
		SessionTTL:              getDuration("SESSION_TTL", 24*time.Hour),
		CookieSecure:            getBool("COOKIE_SECURE", false),
		CORSOrigins:             splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		RateLimitRPM:            getInt("RATE_LIMIT_RPM", 100),
		TrustedProxies:          splitCSV(getEnv("TRUSTED_PROXIES", "")),
		AuthRateLimitMax:        getInt("AUTH_RATE_LIMIT_MAX", 10),
		AuthRateLimitWindow:     getDuration("AUTH_RATE_LIMIT_WINDOW", 15*time.Minute),
		RedisAddr:               strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisDB:                 getInt("REDIS_DB", 0),
		GeneratorEndpoint:       getEnv("GENERATOR_ENDPOINT", "https://api.openai.com"),
		GeneratorAPIKey:         strings.TrimSpace(os.Getenv("GENERATOR_API_KEY")),
		GeneratorModel:          getEnv("GENERATOR_MODEL", "gpt-4o-mini"),
		GeneratorTimeout:        getDuration("GENERATOR_TIMEOUT", 20*time.Second),
		PaymentDelay:            getDuration("PAYMENT_DELAY", 2*time.Second),
		ChatReplyDelay:          getDuration("CHAT_REPLY_DELAY", 800*time.Millisecond),
		AvatarMaxBytes:          getInt("AVATAR_MAX_BYTES", 2<<20),
		AvatarMaxDimension:      getInt("AVATAR_MAX_DIMENSION", 256),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		LogFormat:               getEnv("LOG_FORMAT", "pretty"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT cannot be empty")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}

	if c.AuthRateLimitMax <= 0 {
		return fmt.Errorf("AUTH_RATE_LIMIT_MAX must be positive")
	}

	if c.AuthRateLimitWindow <= 0 {
		return fmt.Errorf("AUTH_RATE_LIMIT_WINDOW must be positive")
	}

	if c.GeneratorTimeout <= 0 {
		return fmt.Errorf("GENERATOR_TIMEOUT must be positive")
	}

	if c.PaymentDelay < 0 || c.ChatReplyDelay < 0 {
		return fmt.Errorf("PAYMENT_DELAY and CHAT_REPLY_DELAY cannot be negative")
	}

	if c.AvatarMaxBytes <= 0 || c.AvatarMaxDimension <= 0 {
		return fmt.Errorf("AVATAR_MAX_BYTES and AVATAR_MAX_DIMENSION must be positive")
	}

	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS cannot exceed DB_MAX_CONNS")
	}

	for _, proxy := range c.TrustedProxies {
		if _, err := netip.ParsePrefix(proxy); err == nil {
			continue
		}
		if _, err := netip.ParseAddr(proxy); err != nil {
			return fmt.Errorf("TRUSTED_PROXIES entry %q is not an IP or CIDR", proxy)
		}
	}

	return nil
}

func getEnv(key string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	return v
}

func getInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return v
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}

	return out
}
