package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultJWTSecret     = "dev_secret"
	defaultUploadsSecret = "dev_uploads_secret"

	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Storage drivers understood by UploadsConfig.Driver.
const (
	StorageDriverLocal = "local"
	StorageDriverGCS   = "gcs"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	Uploads  UploadsConfig
	Admin    AdminSeedConfig
	Stats    StatsConfig
	Cleanup  CleanupConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret          string
	Expiration      time.Duration
	ResetExpiration time.Duration
	Issuer          string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// UploadsConfig controls where application attachments are stored and how they are exposed.
type UploadsConfig struct {
	Driver          string
	Dir             string
	MaxFileSize     int64
	SignedURLSecret string
	SignedURLTTL    time.Duration
	GCSBucket       string
	GCSProjectID    string
	GCSCredentials  string
}

// AdminSeedConfig drives the first-admin bootstrap.
type AdminSeedConfig struct {
	AutoSeed        bool
	DefaultEmail    string
	DefaultPassword string
}

// StatsConfig governs caching of application statistics.
type StatsConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// CleanupConfig sizes the retry queue for attachment deletions.
type CleanupConfig struct {
	Workers int
	Retries int
}

// Debug reports whether diagnostic error detail may be exposed to clients.
func (c *Config) Debug() bool {
	return c.Env != EnvProduction
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:          v.GetString("JWT_SECRET"),
		Expiration:      parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		ResetExpiration: parseDuration(v.GetString("RESET_TOKEN_EXPIRATION"), 15*time.Minute),
		Issuer:          v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	maxUpload := v.GetInt64("UPLOADS_MAX_FILE_SIZE")
	if maxUpload <= 0 {
		maxUpload = 10 * 1024 * 1024
	}
	cfg.Uploads = UploadsConfig{
		Driver:          strings.ToLower(v.GetString("UPLOADS_DRIVER")),
		Dir:             v.GetString("UPLOADS_DIR"),
		MaxFileSize:     maxUpload,
		SignedURLSecret: v.GetString("UPLOADS_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("UPLOADS_SIGNED_URL_TTL"), 30*time.Minute),
		GCSBucket:       v.GetString("GCS_BUCKET"),
		GCSProjectID:    v.GetString("GCS_PROJECT_ID"),
		GCSCredentials:  v.GetString("GCS_CREDENTIALS_FILE"),
	}

	cfg.Admin = AdminSeedConfig{
		AutoSeed:        v.GetBool("AUTO_SEED_ADMIN"),
		DefaultEmail:    v.GetString("DEFAULT_ADMIN_EMAIL"),
		DefaultPassword: v.GetString("DEFAULT_ADMIN_PASSWORD"),
	}

	cfg.Stats = StatsConfig{
		CacheEnabled: v.GetBool("ENABLE_STATS_CACHE"),
		CacheTTL:     parseDuration(v.GetString("STATS_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Cleanup = CleanupConfig{
		Workers: v.GetInt("CLEANUP_WORKERS"),
		Retries: v.GetInt("CLEANUP_RETRIES"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Uploads.Driver == StorageDriverGCS && c.Uploads.GCSBucket == "" {
		return errors.New("GCS_BUCKET is required when UPLOADS_DRIVER=gcs")
	}
	if c.Env != EnvProduction {
		return nil
	}
	if c.JWT.Secret == defaultJWTSecret {
		return fmt.Errorf("JWT_SECRET must be set in %s", EnvProduction)
	}
	if c.Uploads.SignedURLSecret == defaultUploadsSecret {
		return fmt.Errorf("UPLOADS_SIGNED_URL_SECRET must be set in %s", EnvProduction)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8000)
	v.SetDefault("API_PREFIX", "")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "admissions_portal")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("RESET_TOKEN_EXPIRATION", "15m")
	v.SetDefault("JWT_ISSUER", "admissions-portal-api")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("UPLOADS_DRIVER", StorageDriverLocal)
	v.SetDefault("UPLOADS_DIR", "./uploads/applications")
	v.SetDefault("UPLOADS_MAX_FILE_SIZE", 10*1024*1024)
	v.SetDefault("UPLOADS_SIGNED_URL_SECRET", defaultUploadsSecret)
	v.SetDefault("UPLOADS_SIGNED_URL_TTL", "30m")
	v.SetDefault("GCS_BUCKET", "")
	v.SetDefault("GCS_PROJECT_ID", "")
	v.SetDefault("GCS_CREDENTIALS_FILE", "")

	v.SetDefault("AUTO_SEED_ADMIN", false)
	v.SetDefault("DEFAULT_ADMIN_EMAIL", "admin@example.com")
	v.SetDefault("DEFAULT_ADMIN_PASSWORD", "Admin@123")

	v.SetDefault("ENABLE_STATS_CACHE", false)
	v.SetDefault("STATS_CACHE_TTL", "5m")

	v.SetDefault("CLEANUP_WORKERS", 1)
	v.SetDefault("CLEANUP_RETRIES", 3)
}

func isMissingFile(err error) bool {
	return strings.Contains(err.Error(), "no such file or directory")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
