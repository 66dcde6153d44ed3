package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	DB         DBConfig
	JWT        JWTConfig
	Log        LogConfig
	CORS       CORSConfig
	S3         S3Config
	Providers  ProvidersConfig
	Generation GenerationConfig
	Batch      BatchConfig
	Upload     UploadConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// S3Config holds settings for the optional transcript archive. An empty
// bucket disables archiving.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// ProviderConfig holds settings for a single LLM provider.
type ProviderConfig struct {
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// ProvidersConfig holds one block per supported provider.
type ProvidersConfig struct {
	OpenAI ProviderConfig `mapstructure:"openai"`
	Claude ProviderConfig `mapstructure:"claude"`
	Gemini ProviderConfig `mapstructure:"gemini"`
}

// For returns the config block for a provider name, or nil when the name
// is not one of the supported providers.
func (p *ProvidersConfig) For(name string) *ProviderConfig {
	switch name {
	case "openai":
		return &p.OpenAI
	case "claude":
		return &p.Claude
	case "gemini":
		return &p.Gemini
	default:
		return nil
	}
}

// GenerationConfig holds request parameters applied to every provider call.
// These are set once per request and never adjusted or retried on failure.
type GenerationConfig struct {
	MaxOutputTokens int     `mapstructure:"max_output_tokens"`
	Temperature     float64 `mapstructure:"temperature"`
}

// BatchConfig holds batch run settings. JobTimeoutSecs bounds one job's
// extraction plus provider call; zero disables the bound.
type BatchConfig struct {
	JobTimeoutSecs int `mapstructure:"job_timeout_secs"`
}

// UploadConfig holds limits on batch file uploads.
type UploadConfig struct {
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
	MaxFiles      int   `mapstructure:"max_files"`
}

// Load reads configuration from environment variables with the BRIEFER_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BRIEFER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "0s") // streaming responses must not be cut off
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "briefer")
	v.SetDefault("db.password", "briefer_secret")
	v.SetDefault("db.name", "briefer_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "briefer")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173,http://127.0.0.1:5173")

	// S3 defaults (archiving disabled unless a bucket is set)
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.endpoint", "")

	// Provider defaults
	v.SetDefault("providers.openai.api_key", "")
	v.SetDefault("providers.openai.default_model", "gpt-4o-mini")
	v.SetDefault("providers.openai.timeout_secs", 120)
	v.SetDefault("providers.claude.api_key", "")
	v.SetDefault("providers.claude.default_model", "claude-sonnet-4-20250514")
	v.SetDefault("providers.claude.timeout_secs", 120)
	v.SetDefault("providers.gemini.api_key", "")
	v.SetDefault("providers.gemini.default_model", "gemini-2.0-flash")
	v.SetDefault("providers.gemini.timeout_secs", 120)

	// Generation defaults
	v.SetDefault("generation.max_output_tokens", 4096)
	v.SetDefault("generation.temperature", 0.2)

	// Batch defaults (no per-job timeout unless configured)
	v.SetDefault("batch.job_timeout_secs", 0)

	// Upload defaults
	v.SetDefault("upload.max_file_size_mb", 25)
	v.SetDefault("upload.max_files", 20)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                     "BRIEFER_SERVER_PORT",
		"server.read_timeout":             "BRIEFER_SERVER_READ_TIMEOUT",
		"server.write_timeout":            "BRIEFER_SERVER_WRITE_TIMEOUT",
		"server.environment":              "BRIEFER_SERVER_ENVIRONMENT",
		"db.host":                         "BRIEFER_DB_HOST",
		"db.port":                         "BRIEFER_DB_PORT",
		"db.user":                         "BRIEFER_DB_USER",
		"db.password":                     "BRIEFER_DB_PASSWORD",
		"db.name":                         "BRIEFER_DB_NAME",
		"db.sslmode":                      "BRIEFER_DB_SSLMODE",
		"db.max_open":                     "BRIEFER_DB_MAX_OPEN",
		"db.max_idle":                     "BRIEFER_DB_MAX_IDLE",
		"jwt.secret":                      "BRIEFER_JWT_SECRET",
		"jwt.access_expiry":               "BRIEFER_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":              "BRIEFER_JWT_REFRESH_EXPIRY",
		"jwt.issuer":                      "BRIEFER_JWT_ISSUER",
		"log.level":                       "BRIEFER_LOG_LEVEL",
		"log.format":                      "BRIEFER_LOG_FORMAT",
		"cors.allowed_origins":            "BRIEFER_CORS_ALLOWED_ORIGINS",
		"s3.region":                       "BRIEFER_S3_REGION",
		"s3.bucket":                       "BRIEFER_S3_BUCKET",
		"s3.endpoint":                     "BRIEFER_S3_ENDPOINT",
		"s3.access_key":                   "BRIEFER_S3_ACCESS_KEY",
		"s3.secret_key":                   "BRIEFER_S3_SECRET_KEY",
		"providers.openai.api_key":        "BRIEFER_PROVIDERS_OPENAI_API_KEY",
		"providers.openai.default_model":  "BRIEFER_PROVIDERS_OPENAI_DEFAULT_MODEL",
		"providers.openai.timeout_secs":   "BRIEFER_PROVIDERS_OPENAI_TIMEOUT_SECS",
		"providers.claude.api_key":        "BRIEFER_PROVIDERS_CLAUDE_API_KEY",
		"providers.claude.default_model":  "BRIEFER_PROVIDERS_CLAUDE_DEFAULT_MODEL",
		"providers.claude.timeout_secs":   "BRIEFER_PROVIDERS_CLAUDE_TIMEOUT_SECS",
		"providers.gemini.api_key":        "BRIEFER_PROVIDERS_GEMINI_API_KEY",
		"providers.gemini.default_model":  "BRIEFER_PROVIDERS_GEMINI_DEFAULT_MODEL",
		"providers.gemini.timeout_secs":   "BRIEFER_PROVIDERS_GEMINI_TIMEOUT_SECS",
		"generation.max_output_tokens":    "BRIEFER_GENERATION_MAX_OUTPUT_TOKENS",
		"generation.temperature":          "BRIEFER_GENERATION_TEMPERATURE",
		"batch.job_timeout_secs":          "BRIEFER_BATCH_JOB_TIMEOUT_SECS",
		"upload.max_file_size_mb":         "BRIEFER_UPLOAD_MAX_FILE_SIZE_MB",
		"upload.max_files":                "BRIEFER_UPLOAD_MAX_FILES",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if BRIEFER_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("BRIEFER_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}

	cfg.Providers = ProvidersConfig{
		OpenAI: ProviderConfig{
			APIKey:       v.GetString("providers.openai.api_key"),
			DefaultModel: v.GetString("providers.openai.default_model"),
			TimeoutSecs:  v.GetInt("providers.openai.timeout_secs"),
		},
		Claude: ProviderConfig{
			APIKey:       v.GetString("providers.claude.api_key"),
			DefaultModel: v.GetString("providers.claude.default_model"),
			TimeoutSecs:  v.GetInt("providers.claude.timeout_secs"),
		},
		Gemini: ProviderConfig{
			APIKey:       v.GetString("providers.gemini.api_key"),
			DefaultModel: v.GetString("providers.gemini.default_model"),
			TimeoutSecs:  v.GetInt("providers.gemini.timeout_secs"),
		},
	}

	cfg.Generation = GenerationConfig{
		MaxOutputTokens: v.GetInt("generation.max_output_tokens"),
		Temperature:     v.GetFloat64("generation.temperature"),
	}

	cfg.Batch = BatchConfig{
		JobTimeoutSecs: v.GetInt("batch.job_timeout_secs"),
	}

	cfg.Upload = UploadConfig{
		MaxFileSizeMB: v.GetInt64("upload.max_file_size_mb"),
		MaxFiles:      v.GetInt("upload.max_files"),
	}

	return cfg, nil
}
