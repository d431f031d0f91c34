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

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type StorageConfig struct {
	Driver        string        `yaml:"driver"` // file | postgres
	Dir           string        `yaml:"dir"`    // file driver data root
	PostgresURL   string        `yaml:"postgres_url"`
	SweepInterval time.Duration `yaml:"sweep_interval"` // chain integrity sweeps; 0 disables
}

type RedisConfig struct {
	URL      string        `yaml:"url"` // empty disables the message cache
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type AIConfig struct {
	OpenAIKey       string        `yaml:"openai_key"`
	GeminiKey       string        `yaml:"gemini_key"`
	GeminiURL       string        `yaml:"gemini_url"`
	Model           string        `yaml:"model"`
	Timeout         time.Duration `yaml:"timeout"`
	ConcurrentLimit int           `yaml:"concurrent_limit"` // max concurrent completion calls
	MaxOutputTokens int           `yaml:"max_output_tokens"`
}

type PushConfig struct {
	Workers    int `yaml:"workers"`     // completion workers behind the push channel
	SendBuffer int `yaml:"send_buffer"` // per-client outbound event buffer
}

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Storage StorageConfig `yaml:"storage"`
	Redis   RedisConfig   `yaml:"redis"`
	AI      AIConfig      `yaml:"ai"`
	Push    PushConfig    `yaml:"push"`

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
	// defaults
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "file"
	}
	if cfg.Storage.Dir == "" {
		cfg.Storage.Dir = "data"
	}
	if cfg.Storage.SweepInterval < 0 {
		cfg.Storage.SweepInterval = 0
	}
	if cfg.Redis.TTL <= 0 {
		cfg.Redis.TTL = time.Hour
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gpt-4o-mini"
	}
	if cfg.AI.Timeout <= 0 {
		cfg.AI.Timeout = 60 * time.Second
	}
	if cfg.AI.ConcurrentLimit <= 0 {
		cfg.AI.ConcurrentLimit = 4
	}
	if cfg.Push.Workers <= 0 {
		cfg.Push.Workers = 4
	}
	if cfg.Push.SendBuffer <= 0 {
		cfg.Push.SendBuffer = 16
	}

	// Minimal validation
	switch cfg.Storage.Driver {
	case "file", "postgres":
	default:
		return nil, fmt.Errorf("storage.driver must be file or postgres, got %q", cfg.Storage.Driver)
	}
	if cfg.Storage.Driver == "postgres" && cfg.Storage.PostgresURL == "" {
		return nil, errors.New("storage.postgres_url is required with the postgres driver")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
