package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/invisiedge/Atreo-sub001/internal/platform/logger"
	"github.com/invisiedge/Atreo-sub001/internal/platform/tracer"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const insecureJWTSecret = "change-me-in-production"

// Config holds all configuration for the service.
type Config struct {
	ServiceName    string        `mapstructure:"SERVICE_NAME"`
	HTTPPort       string        `mapstructure:"HTTP_PORT"`
	ShutdownPeriod time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
	CORSOrigins    string        `mapstructure:"CORS_ALLOWED_ORIGINS"`

	MongoURI      string `mapstructure:"MONGO_URI"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`

	RedisAddress  string `mapstructure:"REDIS_ADDRESS"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	NATSURL string `mapstructure:"NATS_URL"`

	JWTSecret string        `mapstructure:"JWT_SECRET"`
	JWTTTL    time.Duration `mapstructure:"JWT_TTL"`

	MinIOEndpoint   string        `mapstructure:"MINIO_ENDPOINT"`
	MinIOAccessKey  string        `mapstructure:"MINIO_ACCESS_KEY"`
	MinIOSecretKey  string        `mapstructure:"MINIO_SECRET_KEY"`
	MinIOBucket     string        `mapstructure:"MINIO_BUCKET"`
	MinIOUseSSL     bool          `mapstructure:"MINIO_USE_SSL"`
	PresignedURLTTL time.Duration `mapstructure:"PRESIGNED_URL_TTL"`
	UploadMaxBytes  int64         `mapstructure:"UPLOAD_MAX_BYTES"`

	SMTPHost       string `mapstructure:"SMTP_HOST"`
	SMTPPort       int    `mapstructure:"SMTP_PORT"`
	SMTPUsername   string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword   string `mapstructure:"SMTP_PASSWORD"`
	SMTPSender     string `mapstructure:"SMTP_SENDER_EMAIL"`
	SMTPSenderName string `mapstructure:"SMTP_SENDER_NAME"`

	OTPTTL            time.Duration `mapstructure:"OTP_TTL"`
	OTPMaxAttempts    int           `mapstructure:"OTP_MAX_ATTEMPTS"`
	OTPResendCooldown time.Duration `mapstructure:"OTP_RESEND_COOLDOWN"`
	OTPOnLogin        bool          `mapstructure:"AUTH_OTP_ON_LOGIN"`
	LoginRatePerMin   int           `mapstructure:"LOGIN_RATE_PER_MINUTE"`

	CredentialsKey     string `mapstructure:"CREDENTIALS_KEY"`
	AuditRetentionDays int    `mapstructure:"AUDIT_RETENTION_DAYS"`

	SeedSuperAdminEmail    string `mapstructure:"SEED_SUPERADMIN_EMAIL"`
	SeedSuperAdminPassword string `mapstructure:"SEED_SUPERADMIN_PASSWORD"`
	SeedSuperAdminName     string `mapstructure:"SEED_SUPERADMIN_NAME"`

	PrometheusMetricsPort  string `mapstructure:"PROMETHEUS_METRICS_PORT"`
	LogLevel               string `mapstructure:"LOG_LEVEL"`
	LogFormat              string `mapstructure:"LOG_FORMAT"`
	LogOutputFile          string `mapstructure:"LOG_OUTPUT_FILE"`
	OTExporterOTLPEndpoint string  `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTelSampleRatio        float64 `mapstructure:"OTEL_SAMPLE_RATIO"`
	Environment            string  `mapstructure:"APP_ENV"`
}

var defaults = map[string]any{
	"SERVICE_NAME":                "atreo",
	"HTTP_PORT":                   "8080",
	"SHUTDOWN_TIMEOUT":            "15s",
	"CORS_ALLOWED_ORIGINS":        "*",
	"MONGO_URI":                   "mongodb://localhost:27017",
	"MONGO_DATABASE":              "atreo",
	"REDIS_ADDRESS":               "localhost:6379",
	"REDIS_PASSWORD":              "",
	"REDIS_DB":                    0,
	"NATS_URL":                    "",
	"JWT_SECRET":                  insecureJWTSecret,
	"JWT_TTL":                     "12h",
	"MINIO_ENDPOINT":              "localhost:9000",
	"MINIO_ACCESS_KEY":            "minioadmin",
	"MINIO_SECRET_KEY":            "minioadmin",
	"MINIO_BUCKET":                "atreo-files",
	"MINIO_USE_SSL":               false,
	"PRESIGNED_URL_TTL":           "15m",
	"UPLOAD_MAX_BYTES":            10 << 20,
	"SMTP_HOST":                   "",
	"SMTP_PORT":                   587,
	"SMTP_USERNAME":               "",
	"SMTP_PASSWORD":               "",
	"SMTP_SENDER_EMAIL":           "",
	"SMTP_SENDER_NAME":            "Atreo",
	"OTP_TTL":                     "10m",
	"OTP_MAX_ATTEMPTS":            5,
	"OTP_RESEND_COOLDOWN":         "60s",
	"AUTH_OTP_ON_LOGIN":           false,
	"LOGIN_RATE_PER_MINUTE":       10,
	"CREDENTIALS_KEY":             "",
	"AUDIT_RETENTION_DAYS":        0,
	"SEED_SUPERADMIN_EMAIL":       "",
	"SEED_SUPERADMIN_PASSWORD":    "",
	"SEED_SUPERADMIN_NAME":        "Super Admin",
	"PROMETHEUS_METRICS_PORT":     "9090",
	"LOG_LEVEL":                   "info",
	"LOG_FORMAT":                  "json",
	"LOG_OUTPUT_FILE":             "stdout",
	"OTEL_EXPORTER_OTLP_ENDPOINT": "",
	"OTEL_SAMPLE_RATIO":           1.0,
	"APP_ENV":                     "development",
}

// LoadConfig reads configuration from the environment, after loading a .env
// file when one is present.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var problems []string
	if c.MongoURI == "" {
		problems = append(problems, "MONGO_URI is required")
	}
	if c.MongoDatabase == "" {
		problems = append(problems, "MONGO_DATABASE is required")
	}
	if c.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET is required")
	}
	if c.JWTTTL <= 0 {
		problems = append(problems, "JWT_TTL must be positive")
	}
	if c.OTPTTL <= 0 || c.OTPMaxAttempts <= 0 {
		problems = append(problems, "OTP_TTL and OTP_MAX_ATTEMPTS must be positive")
	}
	if c.UploadMaxBytes <= 0 {
		problems = append(problems, "UPLOAD_MAX_BYTES must be positive")
	}
	if c.OTelSampleRatio < 0 || c.OTelSampleRatio > 1 {
		problems = append(problems, "OTEL_SAMPLE_RATIO must be between 0 and 1")
	}
	if len(problems) > 0 {
		return errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return nil
}

// Logger returns the logger section of the configuration.
func (c *Config) Logger() logger.Config {
	return logger.Config{Level: c.LogLevel, Format: c.LogFormat, OutputFile: c.LogOutputFile}
}

// Tracer returns the tracing section of the configuration.
func (c *Config) Tracer() tracer.Options {
	return tracer.Options{
		ServiceName: c.ServiceName,
		Environment: c.Environment,
		Endpoint:    c.OTExporterOTLPEndpoint,
		SampleRatio: c.OTelSampleRatio,
	}
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS on commas.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, origin := range strings.Split(c.CORSOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			out = append(out, origin)
		}
	}
	return out
}

// CredentialsPassphrase falls back to the JWT secret when no dedicated key is set.
func (c *Config) CredentialsPassphrase() string {
	if c.CredentialsKey != "" {
		return c.CredentialsKey
	}
	return c.JWTSecret
}

// Warnings lists settings that work but should not reach production.
func (c *Config) Warnings() []string {
	var out []string
	if c.JWTSecret == insecureJWTSecret {
		out = append(out, "JWT_SECRET is set to its default insecure value. Please set a strong secret in your environment.")
	}
	if c.CredentialsKey == "" {
		out = append(out, "CREDENTIALS_KEY is not set, tool passwords are sealed with a key derived from JWT_SECRET.")
	}
	if c.SMTPHost == "" {
		out = append(out, "SMTP_HOST is not set, verification emails cannot be delivered.")
	}
	return out
}
