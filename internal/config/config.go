package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendSupabase = "supabase"
)

type Config struct {
	TelegramToken string
	TelegramDebug bool
	UpdateTimeout int

	PredictorURL string
	HTTPTimeout  time.Duration

	StateBackend string
	StateTTL     time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SupabaseURL string
	SupabaseKey string

	LogLevel    string
	LogFormat   string
	MetricsAddr string
}

// LoadConfig читает .env (если он есть) и переменные окружения
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	return FromEnv()
}

// FromEnv собирает конфигурацию из окружения без чтения .env
func FromEnv() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("TELEGRAM_DEBUG", false)
	v.SetDefault("UPDATE_TIMEOUT", 60)
	v.SetDefault("PREDICTOR_URL", "https://atm-project.onrender.com")
	v.SetDefault("HTTP_TIMEOUT", "60s")
	v.SetDefault("STATE_BACKEND", BackendMemory)
	v.SetDefault("STATE_TTL", "24h")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	cfg := &Config{
		TelegramToken: v.GetString("TELEGRAM_TOKEN"),
		TelegramDebug: v.GetBool("TELEGRAM_DEBUG"),
		UpdateTimeout: v.GetInt("UPDATE_TIMEOUT"),
		PredictorURL:  strings.TrimRight(v.GetString("PREDICTOR_URL"), "/"),
		HTTPTimeout:   v.GetDuration("HTTP_TIMEOUT"),
		StateBackend:  strings.ToLower(v.GetString("STATE_BACKEND")),
		StateTTL:      v.GetDuration("STATE_TTL"),
		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),
		SupabaseURL:   v.GetString("SUPABASE_URL"),
		SupabaseKey:   v.GetString("SUPABASE_KEY"),
		LogLevel:      v.GetString("LOG_LEVEL"),
		LogFormat:     v.GetString("LOG_FORMAT"),
		MetricsAddr:   v.GetString("METRICS_ADDR"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.TelegramToken == "" {
		return errors.New("TELEGRAM_TOKEN is required")
	}
	if c.PredictorURL == "" {
		return errors.New("PREDICTOR_URL is required")
	}

	switch c.StateBackend {
	case BackendMemory, BackendRedis:
	case BackendSupabase:
		if c.SupabaseURL == "" || c.SupabaseKey == "" {
			return errors.New("SUPABASE_URL and SUPABASE_KEY are required for the supabase backend")
		}
	default:
		return fmt.Errorf("unknown STATE_BACKEND %q", c.StateBackend)
	}
	return nil
}
