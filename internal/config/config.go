package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the config file location
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are searched in order when CONFIG_PATH is not set
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/thinking-wizard/config.yaml",
}

// Config 应用配置
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Database    DatabaseConfig    `koanf:"database"`
	Storage     StorageConfig     `koanf:"storage"`
	Security    SecurityConfig    `koanf:"security"`
	OpenAI      OpenAIConfig      `koanf:"openai"`
	Analysis    AnalysisConfig    `koanf:"analysis"`
	Reflections ReflectionsConfig `koanf:"reflections"`
	Canvas      CanvasConfig      `koanf:"canvas"`
	Logging     LoggingConfig     `koanf:"logging"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Port            string        `koanf:"port" validate:"required"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	// Mode is passed to gin.SetMode: debug, release or test
	Mode string `koanf:"mode" validate:"oneof=debug release test"`
}

// DatabaseConfig SQLite 配置
type DatabaseConfig struct {
	Path string `koanf:"path" validate:"required"`
}

// StorageConfig configures the badger-backed local store and object storage
type StorageConfig struct {
	Path          string `koanf:"path"`
	InMemory      bool   `koanf:"in_memory"`
	PublicBaseURL string `koanf:"public_base_url" validate:"required"`
	ImageBucket   string `koanf:"image_bucket" validate:"required"`
}

// SecurityConfig holds token verification and rate limit settings
type SecurityConfig struct {
	JWTSecret       string        `koanf:"jwt_secret" validate:"required"`
	AuthDisabled    bool          `koanf:"auth_disabled"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs" validate:"gte=0"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window" validate:"gt=0"`
}

// OpenAIConfig configures the OpenAI REST client
type OpenAIConfig struct {
	APIKey     string        `koanf:"api_key"`
	BaseURL    string        `koanf:"base_url" validate:"required,url"`
	ChatModel  string        `koanf:"chat_model" validate:"required"`
	ImageModel string        `koanf:"image_model" validate:"required"`
	Timeout    time.Duration `koanf:"timeout" validate:"gt=0"`
}

// AnalysisConfig controls the LinkedIn batch analysis
type AnalysisConfig struct {
	DefaultBatchSize int `koanf:"default_batch_size" validate:"gte=1"`
	MaxBatchSize     int `koanf:"max_batch_size" validate:"gtefield=DefaultBatchSize"`
	CellLevel        int `koanf:"cell_level" validate:"gte=1,lte=30"`
}

// ReflectionsConfig controls reflection autosave
type ReflectionsConfig struct {
	AutosaveDelay  time.Duration `koanf:"autosave_delay" validate:"gt=0"`
	AutosaveTarget string        `koanf:"autosave_target" validate:"oneof=local remote"`
}

// CanvasConfig controls lesson graph persistence
type CanvasConfig struct {
	SaveInterval time.Duration `koanf:"save_interval" validate:"gt=0"`
}

// LoggingConfig mirrors logging.Config
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            ":8080",
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
			Mode:            "release",
		},
		Database: DatabaseConfig{
			Path: "./data/wizard/wizard.db",
		},
		Storage: StorageConfig{
			Path:          "./data/wizard/store",
			PublicBaseURL: "http://localhost:8080",
			ImageBucket:   "generated-images",
		},
		Security: SecurityConfig{
			JWTSecret:       "your-secret-key-change-in-production",
			RateLimitReqs:   30,
			RateLimitWindow: time.Minute,
		},
		OpenAI: OpenAIConfig{
			BaseURL:    "https://api.openai.com/v1",
			ChatModel:  "gpt-4o-mini",
			ImageModel: "dall-e-3",
			Timeout:    2 * time.Minute,
		},
		Analysis: AnalysisConfig{
			DefaultBatchSize: 50,
			MaxBatchSize:     500,
			CellLevel:        10,
		},
		Reflections: ReflectionsConfig{
			AutosaveDelay:  time.Second,
			AutosaveTarget: "remote",
		},
		Canvas: CanvasConfig{
			SaveInterval: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load 加载配置: defaults, then the config file, then environment variables
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := splitCommaList(k, "server.cors_origins"); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks the struct tags on every section
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	return v.Struct(c)
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

var envMappings = map[string]string{
	"port":                    "server.port",
	"gin_mode":                "server.mode",
	"cors_origins":            "server.cors_origins",
	"db_path":                 "database.path",
	"storage_path":            "storage.path",
	"storage_public_base_url": "storage.public_base_url",
	"jwt_secret":              "security.jwt_secret",
	"auth_disabled":           "security.auth_disabled",
	"rate_limit_reqs":         "security.rate_limit_reqs",
	"rate_limit_window":       "security.rate_limit_window",
	"openai_api_key":          "openai.api_key",
	"openai_base_url":         "openai.base_url",
	"openai_chat_model":       "openai.chat_model",
	"openai_image_model":      "openai.image_model",
	"analysis_batch_size":     "analysis.default_batch_size",
	"analysis_cell_level":     "analysis.cell_level",
	"autosave_delay":          "reflections.autosave_delay",
	"autosave_target":         "reflections.autosave_target",
	"canvas_save_interval":    "canvas.save_interval",
	"log_level":               "logging.level",
	"log_format":              "logging.format",
}

// envTransformFunc maps known environment variables to koanf paths; everything else is dropped
func envTransformFunc(key string) string {
	if path, ok := envMappings[strings.ToLower(key)]; ok {
		return path
	}
	return ""
}

func splitCommaList(k *koanf.Koanf, path string) error {
	s, ok := k.Get(path).(string)
	if !ok || s == "" {
		return nil
	}
	var parts []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if err := k.Set(path, parts); err != nil {
		return fmt.Errorf("failed to set %s: %w", path, err)
	}
	return nil
}
