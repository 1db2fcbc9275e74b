package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileConfig represents the cleanup worker configuration loaded from YAML.
type FileConfig struct {
	LogLevel  string `yaml:"logLevel"`
	LogFormat string `yaml:"logFormat"`

	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"redisPassword"`
	RedisDB       int    `yaml:"redisDB"`
	CleanupStream string `yaml:"cleanupStream"`
	ConsumerGroup string `yaml:"consumerGroup"`
	Concurrency   int    `yaml:"concurrency"`
	MaxRetries    int    `yaml:"maxRetries"`

	StorageDriver    string `yaml:"storageDriver"`
	MinioEndpoint    string `yaml:"minioEndpoint"`
	MinioAccessKey   string `yaml:"minioAccessKey"`
	MinioSecretKey   string `yaml:"minioSecretKey"`
	MinioBucket      string `yaml:"minioBucket"`
	MinioUseSSL      bool   `yaml:"minioUseSSL"`
	StorageLocalPath string `yaml:"storageLocalPath"`
}

// DefaultPath is COURSEHUB_CLEANUP_CONFIG, then COURSEHUB_CONFIG, then config.yaml.
func DefaultPath() string {
	for _, key := range []string{"COURSEHUB_CLEANUP_CONFIG", "COURSEHUB_CONFIG"} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}
	return "config.yaml"
}

// Load reads config from path (defaults to DefaultPath).
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
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("STORAGE_DRIVER"); v != "" {
		cfg.StorageDriver = v
	}
	if v := os.Getenv("MINIO_ENDPOINT"); v != "" {
		cfg.MinioEndpoint = v
	}
	if v := os.Getenv("MINIO_ACCESS_KEY"); v != "" {
		cfg.MinioAccessKey = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		cfg.MinioSecretKey = v
	}
	if v := os.Getenv("MINIO_BUCKET"); v != "" {
		cfg.MinioBucket = v
	}
	if v := os.Getenv("MINIO_USE_SSL"); v == "true" {
		cfg.MinioUseSSL = true
	}
	if v := os.Getenv("STORAGE_LOCAL_PATH"); v != "" {
		cfg.StorageLocalPath = v
	}
	if v := os.Getenv("CLEANUP_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Concurrency = n
		}
	}
	if cfg.CleanupStream == "" {
		cfg.CleanupStream = "coursehub:media-cleanup"
	}
	if cfg.ConsumerGroup == "" {
		cfg.ConsumerGroup = "media-cleanup"
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 2
	}
	if cfg.StorageDriver == "" {
		cfg.StorageDriver = "minio"
	}
	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validateConfig(cfg FileConfig) error {
	if cfg.RedisAddr == "" {
		return errors.New("config: redisAddr is required (set in config.yaml or REDIS_ADDR)")
	}
	switch cfg.StorageDriver {
	case "minio":
		if cfg.MinioEndpoint == "" || cfg.MinioBucket == "" {
			return errors.New("config: minioEndpoint and minioBucket are required (set in config.yaml)")
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
