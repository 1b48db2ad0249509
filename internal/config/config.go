// Package config loads the YAML configuration with environment overrides.
// Every backend is optional: without Postgres or Redis the server runs fully
// in-memory, which is the dev and test default.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
		Env  string `yaml:"env"` // "dev" enables the colorized log handler
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Cache struct {
		AnswerKeyTTL string `yaml:"answer_key_ttl"`
		SnapshotTTL  string `yaml:"snapshot_ttl"`
	} `yaml:"cache"`
	Session struct {
		TTL string `yaml:"ttl"`
	} `yaml:"session"`
	Leaderboard struct {
		Limit int `yaml:"limit"`
	} `yaml:"leaderboard"`
}

// Load reads YAML config from path, then applies environment overrides.
// A missing or empty path falls through to defaults; .env is loaded
// best-effort first.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return cfg, err
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, err
			}
		}
	}

	cfg.Server.Port = envOr("PORT", cfg.Server.Port)
	cfg.Server.Env = envOr("APP_ENV", cfg.Server.Env)
	cfg.Redis.Addr = envOr("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = envOr("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Postgres.URL = envOr("DATABASE_URL", cfg.Postgres.URL)

	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Leaderboard.Limit <= 0 {
		cfg.Leaderboard.Limit = 50
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// TTLDuration parses a duration string or returns the fallback if empty or
// invalid.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
