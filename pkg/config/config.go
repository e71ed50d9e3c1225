package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Redis         RedisConfig
	NATS          NATSConfig
	CloudWatch    CloudWatchConfig
	DynamoDB      DynamoDBConfig
	S3            S3Config
	Diagnostics   DiagnosticsConfig
	Reports       ReportsConfig
	Security      SecurityConfig
	TrendAnalyzer TrendAnalyzerConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Database        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Enabled      bool
	Host         string
	Port         string
	Password     string
	DB           int
	TTL          time.Duration
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type NATSConfig struct {
	Enabled bool
	URL     string
}

type CloudWatchConfig struct {
	Enabled           bool
	Namespace         string
	Region            string
	Endpoint          string
	AccessKeyID       string
	SecretAccessKey   string
	BufferSize        int
	FlushInterval     time.Duration
	StorageResolution int32
	LogGroupName      string
	LogStreamName     string
}

type DynamoDBConfig struct {
	Enabled         bool
	TableName       string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	StrongReads     bool
}

type S3Config struct {
	Enabled         bool
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	KeyPrefix       string
	URLMode         string
	PresignedTTL    time.Duration
}

type DiagnosticsConfig struct {
	// Интервал снятия измерений со всех агрегатов
	AcquisitionInterval time.Duration
	// Глубина хранения оценок в днях
	RetentionDays int
	// Максимальное окно выборки истории
	MaxHistoryDuration time.Duration
	// Seed генератора симулятора, 0 = текущее время
	SimulatorSeed int64
}

type ReportsConfig struct {
	MaxPayloadBytes    int64
	RateLimitPerMinute int
	TTL                time.Duration
}

type TrendAnalyzerConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
}

type SecurityConfig struct {
	AllowedOrigins  []string
	AuthEnabled     bool
	AuthToken       string
	RateLimitPerSec float64
	RateLimitBurst  int
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	acquisitionInterval, err := parseDuration(getEnv("DIAG_ACQUISITION_INTERVAL", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid DIAG_ACQUISITION_INTERVAL: %w", err)
	}

	retentionDays, err := strconv.Atoi(getEnv("DIAG_RETENTION_DAYS", "90"))
	if err != nil {
		return nil, fmt.Errorf("invalid DIAG_RETENTION_DAYS: %w", err)
	}

	maxHistoryDuration, err := parseDuration(getEnv("DIAG_MAX_HISTORY_DURATION", "720h"))
	if err != nil {
		return nil, fmt.Errorf("invalid DIAG_MAX_HISTORY_DURATION: %w", err)
	}

	simulatorSeed, err := strconv.ParseInt(getEnv("DIAG_SIMULATOR_SEED", "0"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid DIAG_SIMULATOR_SEED: %w", err)
	}

	redisTTL, err := parseDuration(getEnv("REDIS_TTL", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_TTL: %w", err)
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cwFlushInterval, err := parseDuration(getEnv("CLOUDWATCH_FLUSH_INTERVAL", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid CLOUDWATCH_FLUSH_INTERVAL: %w", err)
	}

	presignedTTL, err := parseDuration(getEnv("S3_PRESIGNED_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid S3_PRESIGNED_TTL: %w", err)
	}

	reportTTL, err := parseDuration(getEnv("REPORT_TTL", "2160h"))
	if err != nil {
		return nil, fmt.Errorf("invalid REPORT_TTL: %w", err)
	}

	maxPayloadMB, err := strconv.Atoi(getEnv("REPORT_MAX_PAYLOAD_MB", "1"))
	if err != nil {
		return nil, fmt.Errorf("invalid REPORT_MAX_PAYLOAD_MB: %w", err)
	}

	rateLimitPerMinute, err := strconv.Atoi(getEnv("REPORT_RATE_LIMIT_PER_MINUTE", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid REPORT_RATE_LIMIT_PER_MINUTE: %w", err)
	}

	rateLimitPerSec, err := strconv.ParseFloat(getEnv("RATE_LIMIT_PER_SECOND", "50"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_PER_SECOND: %w", err)
	}

	rateLimitBurst, err := strconv.Atoi(getEnv("RATE_LIMIT_BURST", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
	}

	trendAnalyzerTimeout, err := parseDuration(getEnv("TREND_ANALYZER_REQUEST_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid TREND_ANALYZER_REQUEST_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Database:        getEnv("DB_NAME", "diagnostics"),
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
			ConnMaxIdleTime: 10 * time.Minute,
		},
		Redis: RedisConfig{
			Enabled:      getEnvBool("REDIS_ENABLED", true),
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           redisDB,
			TTL:          redisTTL,
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		NATS: NATSConfig{
			Enabled: getEnvBool("NATS_ENABLED", false),
			URL:     getEnv("NATS_URL", "nats://localhost:4222"),
		},
		CloudWatch: CloudWatchConfig{
			Enabled:           getEnvBool("CLOUDWATCH_ENABLED", false),
			Namespace:         getEnv("CLOUDWATCH_NAMESPACE", "VibrationDiagnostics/Health"),
			Region:            getEnv("CLOUDWATCH_REGION", "us-east-1"),
			Endpoint:          getEnv("CLOUDWATCH_ENDPOINT", ""),
			AccessKeyID:       getEnv("CLOUDWATCH_ACCESS_KEY_ID", ""),
			SecretAccessKey:   getEnv("CLOUDWATCH_SECRET_ACCESS_KEY", ""),
			BufferSize:        100,
			FlushInterval:     cwFlushInterval,
			StorageResolution: 60,
			LogGroupName:      getEnv("CLOUDWATCH_LOG_GROUP", "/vibration-diagnostics/api"),
			LogStreamName:     getEnv("CLOUDWATCH_LOG_STREAM", "default"),
		},
		DynamoDB: DynamoDBConfig{
			Enabled:         getEnvBool("DYNAMODB_ENABLED", false),
			TableName:       getEnv("DYNAMODB_TABLE", ""),
			Region:          getEnv("DYNAMODB_REGION", "us-east-1"),
			Endpoint:        getEnv("DYNAMODB_ENDPOINT", ""),
			AccessKeyID:     getEnv("DYNAMODB_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("DYNAMODB_SECRET_ACCESS_KEY", ""),
			StrongReads:     getEnvBool("DYNAMODB_STRONG_READS", false),
		},
		S3: S3Config{
			Enabled:         getEnvBool("S3_ENABLED", false),
			Bucket:          getEnv("S3_BUCKET", ""),
			Region:          getEnv("S3_REGION", "ru-central1"),
			Endpoint:        getEnv("S3_ENDPOINT", "https://storage.yandexcloud.net"),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			UsePathStyle:    getEnvBool("S3_USE_PATH_STYLE", true),
			KeyPrefix:       getEnv("S3_KEY_PREFIX", "reports"),
			URLMode:         getEnv("S3_URL_MODE", "presigned"),
			PresignedTTL:    presignedTTL,
		},
		Diagnostics: DiagnosticsConfig{
			AcquisitionInterval: acquisitionInterval,
			RetentionDays:       retentionDays,
			MaxHistoryDuration:  maxHistoryDuration,
			SimulatorSeed:       simulatorSeed,
		},
		Reports: ReportsConfig{
			MaxPayloadBytes:    int64(maxPayloadMB) * 1024 * 1024,
			RateLimitPerMinute: rateLimitPerMinute,
			TTL:                reportTTL,
		},
		Security: SecurityConfig{
			AllowedOrigins:  splitCSV(getEnv("ALLOWED_ORIGINS", "http://localhost:8080,http://127.0.0.1:8080")),
			AuthEnabled:     getEnvBool("AUTH_ENABLED", false),
			AuthToken:       getEnv("AUTH_BEARER_TOKEN", ""),
			RateLimitPerSec: rateLimitPerSec,
			RateLimitBurst:  rateLimitBurst,
		},
		TrendAnalyzer: TrendAnalyzerConfig{
			BaseURL:        getEnv("TREND_ANALYZER_BASE_URL", ""),
			RequestTimeout: trendAnalyzerTimeout,
		},
	}

	if cfg.Security.AuthEnabled && cfg.Security.AuthToken == "" {
		return nil, fmt.Errorf("AUTH_BEARER_TOKEN is required when AUTH_ENABLED=true")
	}
	if cfg.Diagnostics.AcquisitionInterval <= 0 {
		return nil, fmt.Errorf("DIAG_ACQUISITION_INTERVAL must be positive")
	}

	return cfg, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.Database)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return parsed
}

func splitCSV(raw string) []string {
	items := make([]string, 0)
	current := ""

	for _, r := range raw {
		if r == ',' {
			if current != "" {
				items = append(items, current)
				current = ""
			}
			continue
		}
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			current += string(r)
		}
	}

	if current != "" {
		items = append(items, current)
	}

	return items
}

func parseDuration(s string) (time.Duration, error) {
	return time.ParseDuration(s)
}
