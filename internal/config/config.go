package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "EVENTPAPERS_"

type ServerConfig struct {
	Port         int    `koanf:"port"`
	Host         string `koanf:"host"`
	BodyLimitMB  int    `koanf:"body_limit_mb"`
	AllowOrigins string `koanf:"allow_origins"`
	RateLimit    int    `koanf:"rate_limit"` // requests per minute per IP, 0 disables
	AccessLog    bool   `koanf:"access_log"`
}

type DatabaseConfig struct {
	URL         string `koanf:"url"`
	AutoMigrate bool   `koanf:"auto_migrate"`
}

// StorageConfig points at any S3-compatible endpoint (AWS, R2, MinIO).
type StorageConfig struct {
	Endpoint        string `koanf:"endpoint"`
	Region          string `koanf:"region"`
	AccessKeyID     string `koanf:"access_key_id"`
	SecretAccessKey string `koanf:"secret_access_key"`
	Bucket          string `koanf:"bucket"`
	PublicURL       string `koanf:"public_url"` // prefixed to stored keys in responses
	UsePathStyle    bool   `koanf:"use_path_style"`
}

type LogConfig struct {
	Development bool   `koanf:"development"`
	Level       string `koanf:"level"`
}

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Storage  StorageConfig  `koanf:"storage"`
	Log      LogConfig      `koanf:"log"`
}

func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load reads .env (when present), then layers defaults, the optional YAML file
// and EVENTPAPERS_* environment variables. EVENTPAPERS_STORAGE__BUCKET=x
// overrides storage.bucket.
func Load(configPath string) (*Config, error) {
	// .env is optional outside local development
	_ = godotenv.Load()

	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.port":            8080,
		"server.host":            "0.0.0.0",
		"server.body_limit_mb":   100,
		"server.allow_origins":   "*",
		"server.rate_limit":      60,
		"server.access_log":      false,
		"database.url":           "",
		"database.auto_migrate":  true,
		"storage.endpoint":       "",
		"storage.region":         "auto",
		"storage.bucket":         "",
		"storage.public_url":     "",
		"storage.use_path_style": true,
		"log.development":        false,
		"log.level":              "info",
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, envPrefix)), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("database.url is not set")
	}
	if c.Storage.Bucket == "" {
		return fmt.Errorf("storage.bucket is not set")
	}
	if c.Server.BodyLimitMB <= 0 {
		return fmt.Errorf("server.body_limit_mb must be positive, got %d", c.Server.BodyLimitMB)
	}
	return nil
}
