package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig_Defaults(t *testing.T) {
	t.Setenv("USER_SESSION_TTL_HOURS", "")
	t.Setenv("RESET_SESSION_TTL_MINUTES", "")

	cfg := NewConfig()

	assert.Equal(t, 7*24*time.Hour, cfg.GetUserSessionTTL())
	assert.Equal(t, 24*time.Hour, cfg.GetAdminSessionTTL())
	assert.Equal(t, 10*time.Minute, cfg.GetResetSessionTTL())
	assert.Equal(t, 10*time.Minute, cfg.GetOTPTTL())
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Empty(t, cfg.TrustedProxyHeaders)
}

func TestNewConfig_Overrides(t *testing.T) {
	t.Setenv("ADMIN_SESSION_TTL_HOURS", "2")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("S3_USE_PATH_STYLE", "true")
	t.Setenv("MAX_CONNECTIONS", "256")
	t.Setenv("AUTH_RATE_LIMIT_PER_SECOND", "0.5")
	t.Setenv("CONTENT_CACHE_TTL_SECONDS", "30")
	t.Setenv("TRUSTED_PROXY_HEADERS", "X-Real-IP")

	cfg := NewConfig()

	assert.Equal(t, 2*time.Hour, cfg.GetAdminSessionTTL())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.True(t, cfg.S3UsePathStyle)
	assert.Equal(t, 256, cfg.MaxConnections)
	assert.Equal(t, 0.5, cfg.AuthRatePerSecond)
	assert.Equal(t, 30*time.Second, cfg.ContentCacheTTL)
	assert.Equal(t, []string{"X-Real-IP"}, cfg.TrustedProxyHeaders)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "MONGODB_URI")
	assert.Contains(t, err.Error(), "JWT_SECRET")

	cfg = &Config{MongoURI: "mongodb://localhost", MongoDBName: "mpi", JWTSecret: "s"}
	assert.NoError(t, cfg.Validate())
}
