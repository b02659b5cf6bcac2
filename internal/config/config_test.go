package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/travel")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.ServerPort)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 10, cfg.AuthRateLimitMax)
	assert.Equal(t, 15*time.Minute, cfg.AuthRateLimitWindow)
	assert.Equal(t, 2*time.Second, cfg.PaymentDelay)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	assert.False(t, cfg.CookieSecure)
	assert.Empty(t, cfg.GeneratorAPIKey)
	assert.Empty(t, cfg.TrustedProxies)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/travel")
	t.Setenv("SERVER_PORT", "8081")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("PAYMENT_DELAY", "0s")
	t.Setenv("AUTH_RATE_LIMIT_MAX", "not-a-number")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.0.2.1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.ServerPort)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, time.Duration(0), cfg.PaymentDelay)
	assert.Equal(t, 10, cfg.AuthRateLimitMax)
	assert.Equal(t, []string{"10.0.0.0/8", "192.0.2.1"}, cfg.TrustedProxies)
}

func TestLoad_RejectsBadTrustedProxy(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/travel")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8,lb.internal")

	_, err := Load()
	assert.ErrorContains(t, err, "TRUSTED_PROXIES")
}

func TestLoad_RequiresSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/travel")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DATABASE_URL", "")

	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestValidate_RejectsBadPoolSizes(t *testing.T) {
	cfg := &Config{
		ServerPort:          "3000",
		RequestTimeout:      time.Second,
		DatabaseURL:         "postgres://x",
		JWTSecret:           "s",
		SessionTTL:          time.Hour,
		AuthRateLimitMax:    10,
		AuthRateLimitWindow: time.Minute,
		GeneratorTimeout:    time.Second,
		AvatarMaxBytes:      1,
		AvatarMaxDimension:  1,
		DBMaxConns:          1,
		DBMinConns:          2,
	}

	assert.ErrorContains(t, cfg.Validate(), "DB_MIN_CONNS")
}
