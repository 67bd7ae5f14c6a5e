// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type AIConfig struct {
	Provider     string `yaml:"provider"` // openai | noop
	OpenAIKey    string `yaml:"openai_key"`
	BaseURL      string `yaml:"base_url"` // optional OpenAI-compatible base URL
	DefaultModel string `yaml:"default_model"`
	RateLimit    int    `yaml:"rate_limit"` // provider calls per window
	RateWindow   time.Duration `yaml:"rate_window"`
}

type RunsConfig struct {
	MaxAttempts int           `yaml:"max_attempts"` // status fetch budget per run
	Delay       time.Duration `yaml:"delay"`        // fixed pause between fetches
}

type WorkerConfig struct {
	Workers      int           `yaml:"workers"`
	PollInterval time.Duration `yaml:"poll_interval"`  // run-job queue sweep
	StuckAfter   time.Duration `yaml:"stuck_after"`    // reaper cutoff for processing jobs
	ReapInterval time.Duration `yaml:"reap_interval"`
}

type WebConfig struct {
	Port      int           `yaml:"port"`
	APIKey    string        `yaml:"api_key"` // exchanged for a session JWT at /api/v1/auth/login
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

type SecurityConfig struct {
	EncryptionKey string `yaml:"encryption_key"`
}

type Config struct {
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	AI       AIConfig       `yaml:"ai"`
	Runs     RunsConfig     `yaml:"runs"`
	Worker   WorkerConfig   `yaml:"worker"`
	Web      WebConfig      `yaml:"web"`
	Security SecurityConfig `yaml:"security"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}
	if cfg.AI.Provider == "openai" && cfg.AI.OpenAIKey == "" {
		return nil, errors.New("ai.openai_key is required when ai.provider is openai")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.AI.Provider == "" {
		if cfg.AI.OpenAIKey != "" {
			cfg.AI.Provider = "openai"
		} else {
			cfg.AI.Provider = "noop"
		}
	}
	if cfg.AI.DefaultModel == "" {
		cfg.AI.DefaultModel = "gpt-4o-mini"
	}
	if cfg.AI.RateLimit <= 0 {
		cfg.AI.RateLimit = 60
	}
	if cfg.AI.RateWindow <= 0 {
		cfg.AI.RateWindow = time.Minute
	}
	if cfg.Runs.MaxAttempts <= 0 {
		cfg.Runs.MaxAttempts = 30
	}
	if cfg.Runs.Delay <= 0 {
		cfg.Runs.Delay = time.Second
	}
	if cfg.Worker.Workers <= 0 {
		cfg.Worker.Workers = 4
	}
	if cfg.Worker.PollInterval <= 0 {
		cfg.Worker.PollInterval = 500 * time.Millisecond
	}
	if cfg.Worker.StuckAfter <= 0 {
		cfg.Worker.StuckAfter = 10 * time.Minute
	}
	if cfg.Worker.ReapInterval <= 0 {
		cfg.Worker.ReapInterval = time.Minute
	}
	if cfg.Web.Port == 0 {
		cfg.Web.Port = 8080
	}
	if cfg.Web.TokenTTL <= 0 {
		cfg.Web.TokenTTL = 30 * time.Minute
	}
	if cfg.Redis.TTL <= 0 {
		cfg.Redis.TTL = time.Hour
	}
}
