package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Logging  LoggingConfig
	CORS     CORSConfig
	Storage  StorageConfig
	Upload   UploadConfig
	Gradient GradientWorkerConfig
}

// AppConfig holds application-level settings
type AppConfig struct {
	Env  string
	Addr string
	Name string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Enabled  bool
}

// JWTConfig holds settings used to decode the upstream identity provider's
// session assertion into an AuthContext (session bootstrap, not issuance).
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level                    string
	Format                   string
	SQLThresholdMilliSeconds int
	SQLParameterizedQueries  bool
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
}

// StorageConfig holds S3/MinIO object storage settings
type StorageConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	UseSSL          bool
	PublicURL       string
}

// UploadConfig holds chunked-upload engine settings (spec §5)
type UploadConfig struct {
	MaxChunkSize      int64
	SessionTTL        time.Duration
	ProgressRetainTTL time.Duration
	TempDir           string
}

// GradientWorkerConfig holds the asynchronous gradient worker settings (spec §6)
type GradientWorkerConfig struct {
	Enabled            bool
	Concurrency        int
	MaxRetries         int
	PollIntervalMillis int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if in development
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil {
			// .env file is optional, so just log a warning
			fmt.Println("Warning: .env file not found, using environment variables")
		}
	}

	cfg := &Config{
		App: AppConfig{
			Env:  getEnv("APP_ENV", "development"),
			Addr: getEnv("APP_ADDR", ":8080"),
			Name: getEnv("APP_NAME", "photo-gallery"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			DBName:          getEnv("DB_NAME", "photogallery"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},
		JWT: JWTConfig{
			Secret:          getEnv("JWT_SECRET", "change-this-secret-in-production"),
			ExpirationHours: getEnvAsInt("JWT_EXPIRATION_HOURS", 24),
		},
		Logging: LoggingConfig{
			Level:                    getEnv("LOG_LEVEL", "debug"),
			Format:                   getEnv("LOG_FORMAT", "json"),
			SQLThresholdMilliSeconds: getEnvAsInt("LOG_SQL_THRESHOLD_MILLI_SECONDS", 200),
			SQLParameterizedQueries:  getEnvAsBool("LOG_SQL_PARAMETERIZED_QUERIES", false),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			AllowedMethods: getEnv("CORS_ALLOWED_METHODS", "GET,POST,PUT,DELETE,OPTIONS"),
			AllowedHeaders: getEnv("CORS_ALLOWED_HEADERS", "Origin,Content-Type,Accept,Authorization,X-Guild-ID"),
		},
		Storage: StorageConfig{
			Endpoint:        getEnv("STORAGE_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getEnv("STORAGE_ACCESS_KEY", "minioadmin"),
			SecretAccessKey: getEnv("STORAGE_SECRET_KEY", "minioadmin"),
			BucketName:      getEnv("STORAGE_BUCKET", "photo-gallery"),
			UseSSL:          getEnvAsBool("STORAGE_USE_SSL", false),
			PublicURL:       getEnv("STORAGE_PUBLIC_URL", "http://localhost:9000"),
		},
		Upload: UploadConfig{
			MaxChunkSize:      getEnvAsInt64("UPLOAD_MAX_CHUNK_SIZE", 10*1024*1024), // 10 MiB, spec §5
			SessionTTL:        getEnvAsDuration("UPLOAD_SESSION_TTL", 24*time.Hour),
			ProgressRetainTTL: getEnvAsDuration("UPLOAD_PROGRESS_RETAIN_TTL", 5*time.Minute),
			TempDir:           getEnv("UPLOAD_TEMP_DIR", ""),
		},
		Gradient: GradientWorkerConfig{
			Enabled:            getEnvAsBool("GRADIENT_WORKER_ENABLED", true),
			Concurrency:        getEnvAsInt("GRADIENT_WORKER_CONCURRENCY", 4),
			MaxRetries:         getEnvAsInt("GRADIENT_JOB_MAX_RETRIES", 3),
			PollIntervalMillis: getEnvAsInt("GRADIENT_WORKER_POLL_INTERVAL_MS", 1000),
		},
	}

	// Validate critical settings
	if cfg.JWT.Secret == "change-this-secret-in-production" && cfg.App.Env == "production" {
		return nil, fmt.Errorf("JWT_SECRET must be set in production")
	}

	if cfg.Database.Password == "" && cfg.App.Env == "production" {
		return nil, fmt.Errorf("DB_PASSWORD must be set in production")
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
