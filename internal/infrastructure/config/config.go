package config

import (
	"errors"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration values.
type Config struct {
	Port             string
	MongoURI         string
	MongoDBName      string
	RedisURL         string
	LogLevel         string
	AppBaseURL       string
	AllowedOrigins   []string
	RequestTimeout   time.Duration
	MaxConnections   int
	HashConcurrency  int
	JWTSecret        string
	JWTResetSecret   string
	UserSessionTTL   time.Duration
	AdminSessionTTL  time.Duration
	ResetSessionTTL  time.Duration
	OTPTTL           time.Duration
	DefaultPhotoURL  string
	ChatHistoryLimit int
	ChatHistoryTTL   time.Duration
	ContentCacheTTL  time.Duration

	RatePerSecond     float64
	RateBurst         int
	AuthRatePerSecond float64
	AuthRateBurst     int

	// TrustedProxyHeaders are client IP headers the rate limiter reads before RemoteAddr.
	TrustedProxyHeaders []string

	FederatedJWKSURL  string
	FederatedIssuer   string
	FederatedAudience string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	EmailHost            string
	EmailPort            string
	EmailUsername        string
	EmailAppPassword     string
	EmailFrom            string
	EmailRatePerSecond   float64
	OrgNotificationEmail string

	S3Bucket        string
	S3Region        string
	S3Endpoint      string
	S3AccessKey     string
	S3SecretKey     string
	S3PublicBaseURL string
	S3UsePathStyle  bool

	AIServiceAPIKey string
	AIModel         string

	AdminBootstrapName     string
	AdminBootstrapEmail    string
	AdminBootstrapPassword string
}

// NewConfig creates a new Config instance, loading values from environment variables.
func NewConfig() *Config {
	return &Config{
		Port:             getEnv("PORT", "5000"),
		MongoURI:         getEnv("MONGODB_URI", ""),
		MongoDBName:      getEnv("MONGODB_DB_NAME", ""),
		RedisURL:         getEnv("REDIS_URL", ""),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		AppBaseURL:       getEnv("APP_BASE_URL", "http://localhost:5000"),
		AllowedOrigins:   getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		RequestTimeout:   time.Second * time.Duration(getEnvAsInt("REQUEST_TIMEOUT_SECONDS", 15)),
		MaxConnections:   getEnvAsInt("MAX_CONNECTIONS", 0),
		HashConcurrency:  getEnvAsInt("HASH_CONCURRENCY", runtime.GOMAXPROCS(0)),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTResetSecret:   getEnv("JWT_RESET_SECRET", ""),
		UserSessionTTL:   time.Hour * time.Duration(getEnvAsInt("USER_SESSION_TTL_HOURS", 168)), // 7 days
		AdminSessionTTL:  time.Hour * time.Duration(getEnvAsInt("ADMIN_SESSION_TTL_HOURS", 24)),
		ResetSessionTTL:  time.Minute * time.Duration(getEnvAsInt("RESET_SESSION_TTL_MINUTES", 10)),
		OTPTTL:           time.Minute * time.Duration(getEnvAsInt("OTP_TTL_MINUTES", 10)),
		DefaultPhotoURL:  getEnv("DEFAULT_PHOTO_URL", "https://placehold.co/200x200?text=MPI"),
		ChatHistoryLimit: getEnvAsInt("CHAT_HISTORY_LIMIT", 40),
		ChatHistoryTTL:   time.Hour * time.Duration(getEnvAsInt("CHAT_HISTORY_TTL_HOURS", 72)),
		ContentCacheTTL:  time.Second * time.Duration(getEnvAsInt("CONTENT_CACHE_TTL_SECONDS", 300)),

		RatePerSecond:     getEnvAsFloat("RATE_LIMIT_PER_SECOND", 10),
		RateBurst:         getEnvAsInt("RATE_LIMIT_BURST", 20),
		AuthRatePerSecond: getEnvAsFloat("AUTH_RATE_LIMIT_PER_SECOND", 1),
		AuthRateBurst:     getEnvAsInt("AUTH_RATE_LIMIT_BURST", 5),

		TrustedProxyHeaders: getEnvAsList("TRUSTED_PROXY_HEADERS", nil),

		FederatedJWKSURL:  getEnv("FEDERATED_JWKS_URL", ""),
		FederatedIssuer:   getEnv("FEDERATED_ISSUER", ""),
		FederatedAudience: getEnv("FEDERATED_AUDIENCE", ""),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),

		EmailHost:            getEnv("EMAIL_HOST", ""),
		EmailPort:            getEnv("EMAIL_PORT", "587"),
		EmailUsername:        getEnv("EMAIL_USERNAME", ""),
		EmailAppPassword:     getEnv("EMAIL_APP_PASSWORD", ""),
		EmailFrom:            getEnv("EMAIL_FROM", ""),
		EmailRatePerSecond:   getEnvAsFloat("EMAIL_RATE_PER_SECOND", 5),
		OrgNotificationEmail: getEnv("ORG_NOTIFICATION_EMAIL", "mathare4peace@gmail.com"),

		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Region:        getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:      getEnv("S3_ENDPOINT", ""),
		S3AccessKey:     getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:     getEnv("S3_SECRET_KEY", ""),
		S3PublicBaseURL: getEnv("S3_PUBLIC_BASE_URL", ""),
		S3UsePathStyle:  getEnvAsBool("S3_USE_PATH_STYLE", false),

		AIServiceAPIKey: getEnv("AI_SERVICE_API_KEY", ""),
		AIModel:         getEnv("AI_MODEL", "gemini-1.5-flash"),

		AdminBootstrapName:     getEnv("ADMIN_BOOTSTRAP_NAME", "Administrator"),
		AdminBootstrapEmail:    getEnv("ADMIN_BOOTSTRAP_EMAIL", ""),
		AdminBootstrapPassword: getEnv("ADMIN_BOOTSTRAP_PASSWORD", ""),
	}
}

// Validate reports missing required settings.
func (c *Config) Validate() error {
	var errs []error
	if c.MongoURI == "" {
		errs = append(errs, errors.New("MONGODB_URI environment variable not set"))
	}
	if c.MongoDBName == "" {
		errs = append(errs, errors.New("MONGODB_DB_NAME environment variable not set"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET environment variable not set"))
	}
	return errors.Join(errs...)
}

// GoogleCallbackURL returns the OAuth redirect URL, derived from the base URL when unset.
func (c *Config) GoogleCallbackURL() string {
	if c.GoogleRedirectURL != "" {
		return c.GoogleRedirectURL
	}
	return strings.TrimRight(c.AppBaseURL, "/") + "/api/auth/google/callback"
}

// GetAppBaseURL returns the base URL of the application.
func (c *Config) GetAppBaseURL() string {
	return c.AppBaseURL
}

// GetUserSessionTTL returns the lifetime of user login sessions.
func (c *Config) GetUserSessionTTL() time.Duration {
	return c.UserSessionTTL
}

// GetAdminSessionTTL returns the lifetime of admin login sessions.
func (c *Config) GetAdminSessionTTL() time.Duration {
	return c.AdminSessionTTL
}

// GetResetSessionTTL returns the lifetime of password reset session tokens.
func (c *Config) GetResetSessionTTL() time.Duration {
	return c.ResetSessionTTL
}

// GetOTPTTL returns how long a password reset code stays valid.
func (c *Config) GetOTPTTL() time.Duration {
	return c.OTPTTL
}

func (c *Config) GetDefaultPhotoURL() string {
	return c.DefaultPhotoURL
}

func (c *Config) GetOrgNotificationEmail() string {
	return c.OrgNotificationEmail
}

func (c *Config) GetChatHistoryLimit() int {
	return c.ChatHistoryLimit
}

// Helper function to get an environment variable or return a default value.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// Helper function to get an environment variable as an integer or return a default value.
func getEnvAsInt(name string, fallback int) int {
	valueStr := getEnv(name, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(name string, fallback float64) float64 {
	valueStr := getEnv(name, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return fallback
}

// Helper function to get an environment variable as a boolean or return a default value.
func getEnvAsBool(name string, fallback bool) bool {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}
	return fallback
}

// getEnvAsList splits a comma separated variable.
func getEnvAsList(name string, fallback []string) []string {
	valStr := strings.TrimSpace(getEnv(name, ""))
	if valStr == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(valStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
