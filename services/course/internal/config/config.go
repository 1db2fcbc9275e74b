package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileConfig represents configuration loaded from YAML.
type FileConfig struct {
	Port      string `yaml:"port"`
	LogLevel  string `yaml:"logLevel"`
	LogFormat string `yaml:"logFormat"`

	// StoreDriver is "postgres" (default) or "memory".
	StoreDriver  string `yaml:"storeDriver"`
	DatabaseURL  string `yaml:"databaseURL"`
	MaxOpenConns int    `yaml:"maxOpenConns"`

	RedisAddr       string `yaml:"redisAddr"`
	RedisPassword   string `yaml:"redisPassword"`
	RedisDB         int    `yaml:"redisDB"`
	CacheTTLSeconds int    `yaml:"cacheTTLSeconds"`
	CleanupStream   string `yaml:"cleanupStream"`
	// ConsumerGroup is shared with the cleanup worker, which creates and reads it.
	ConsumerGroup string `yaml:"consumerGroup"`

	JWTSecret   string `yaml:"jwtSecret"`
	JWTIssuer   string `yaml:"jwtIssuer"`
	JWTAudience string `yaml:"jwtAudience"`

	StorageDriver    string `yaml:"storageDriver"`
	MinioEndpoint    string `yaml:"minioEndpoint"`
	MinioAccessKey   string `yaml:"minioAccessKey"`
	MinioSecretKey   string `yaml:"minioSecretKey"`
	MinioBucket      string `yaml:"minioBucket"`
	MinioUseSSL      bool   `yaml:"minioUseSSL"`
	MinioPublicRead  bool   `yaml:"minioPublicRead"`
	StorageLocalPath string `yaml:"storageLocalPath"`
	MediaPublicURL   string `yaml:"mediaPublicURL"`

	FFprobePath         string `yaml:"ffprobePath"`
	ProbeTimeoutSeconds int    `yaml:"probeTimeoutSeconds"`
	SpoolDir            string `yaml:"spoolDir"`
	MaxUploadBytes      int64  `yaml:"maxUploadBytes"`

	AMQPURL        string   `yaml:"amqpURL"`
	AMQPExchange   string   `yaml:"amqpExchange"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// DefaultPath is COURSEHUB_CONFIG or config.yaml.
func DefaultPath() string {
	if v := strings.TrimSpace(os.Getenv("COURSEHUB_CONFIG")); v != "" {
		return v
	}
	return "config.yaml"
}

// Load reads config from path (defaults to DefaultPath). A .env file in the
// working directory is loaded first; it never overrides the real environment.
func Load(path string) (FileConfig, error) {
	_ = godotenv.Load()
	cfg := FileConfig{}
	if path == "" {
		path = DefaultPath()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	applyEnv(&cfg)
	applyDefaults(&cfg)
	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Override with environment variables
func applyEnv(cfg *FileConfig) {
	setString(&cfg.Port, "PORT")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.StoreDriver, "STORE_DRIVER")
	setString(&cfg.DatabaseURL, "DATABASE_URL")
	setString(&cfg.RedisAddr, "REDIS_ADDR")
	setString(&cfg.RedisPassword, "REDIS_PASSWORD")
	setString(&cfg.JWTSecret, "JWT_SECRET")
	setString(&cfg.StorageDriver, "STORAGE_DRIVER")
	setString(&cfg.MinioEndpoint, "MINIO_ENDPOINT")
	setString(&cfg.MinioAccessKey, "MINIO_ACCESS_KEY")
	setString(&cfg.MinioSecretKey, "MINIO_SECRET_KEY")
	setString(&cfg.MinioBucket, "MINIO_BUCKET")
	setString(&cfg.StorageLocalPath, "STORAGE_LOCAL_PATH")
	setString(&cfg.MediaPublicURL, "MEDIA_PUBLIC_URL")
	setString(&cfg.FFprobePath, "FFPROBE_PATH")
	setString(&cfg.AMQPURL, "AMQP_URL")
	if v := os.Getenv("MINIO_USE_SSL"); v == "true" {
		cfg.MinioUseSSL = true
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RedisDB = n
		}
	}
	if v := os.Getenv("PROBE_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ProbeTimeoutSeconds = n
		}
	}
	if v := os.Getenv("COURSE_MAX_UPLOAD_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.MaxUploadBytes = n
		}
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitCSV(v)
	}
}

func applyDefaults(cfg *FileConfig) {
	if cfg.StoreDriver == "" {
		cfg.StoreDriver = "postgres"
	}
	if cfg.StorageDriver == "" {
		cfg.StorageDriver = "minio"
	}
	if cfg.CleanupStream == "" {
		cfg.CleanupStream = "coursehub:media-cleanup"
	}
	if cfg.ConsumerGroup == "" {
		cfg.ConsumerGroup = "media-cleanup"
	}
	if cfg.ProbeTimeoutSeconds <= 0 {
		cfg.ProbeTimeoutSeconds = 30
	}
	if cfg.CacheTTLSeconds <= 0 {
		cfg.CacheTTLSeconds = 60
	}
}

// ProbeTimeout returns the media probe bound.
func (c FileConfig) ProbeTimeout() time.Duration {
	return time.Duration(c.ProbeTimeoutSeconds) * time.Second
}

// CacheTTL returns the listing cache lifetime.
func (c FileConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

func validateConfig(cfg FileConfig) error {
	if cfg.Port == "" {
		return errors.New("config: port is required (set in config.yaml)")
	}
	switch cfg.StoreDriver {
	case "postgres":
		if cfg.DatabaseURL == "" {
			return errors.New("config: databaseURL is required (set in config.yaml or DATABASE_URL)")
		}
	case "memory":
	default:
		return fmt.Errorf("config: unknown storeDriver %q (postgres or memory)", cfg.StoreDriver)
	}
	if len(cfg.JWTSecret) < 32 {
		return errors.New("config: jwtSecret must be at least 32 bytes (set in config.yaml or JWT_SECRET)")
	}
	switch cfg.StorageDriver {
	case "minio":
		if cfg.MinioEndpoint == "" {
			return errors.New("config: minioEndpoint is required (set in config.yaml)")
		}
		if cfg.MinioAccessKey == "" {
			return errors.New("config: minioAccessKey is required (set in config.yaml)")
		}
		if cfg.MinioSecretKey == "" {
			return errors.New("config: minioSecretKey is required (set in config.yaml)")
		}
		if cfg.MinioBucket == "" {
			return errors.New("config: minioBucket is required (set in config.yaml)")
		}
	case "local":
		if cfg.StorageLocalPath == "" {
			return errors.New("config: storageLocalPath is required for the local storage driver")
		}
	default:
		return fmt.Errorf("config: unknown storageDriver %q (minio or local)", cfg.StorageDriver)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
