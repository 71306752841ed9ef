package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPath        = "config/quiz-admin.yaml"
	DefaultBackendURL  = "http://127.0.0.1:8000"
	DefaultConsolePort = "8090"
)

type Config struct {
	Backend struct {
		URL     string `yaml:"url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"backend"`
	Feedback struct {
		TTL string `yaml:"ttl"`
	} `yaml:"feedback"`
	Launch struct {
		RedirectDelay string `yaml:"redirect_delay"`
	} `yaml:"launch"`
	Console struct {
		Port string `yaml:"port"`
	} `yaml:"console"`
	Drafts struct {
		TTL string `yaml:"ttl"`
	} `yaml:"drafts"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Log struct {
		Env string `yaml:"env"`
	} `yaml:"log"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	cfg := Config{}
	cfg.Backend.URL = DefaultBackendURL
	cfg.Console.Port = DefaultConsolePort
	cfg.Log.Env = "development"
	return cfg
}

// Load reads YAML config from path on top of Default. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Backend.URL == "" {
		cfg.Backend.URL = DefaultBackendURL
	}
	if cfg.Console.Port == "" {
		cfg.Console.Port = DefaultConsolePort
	}
	return cfg, nil
}

// Duration parses a duration string or returns the fallback if empty or invalid.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
