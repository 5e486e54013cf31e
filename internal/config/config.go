package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Environment string `mapstructure:"ENV"`

	// клиент расписания
	TelegramToken string        `mapstructure:"TELEGRAM_TOKEN"`
	APIBaseURL    string        `mapstructure:"API_BASE_URL"`
	AccessToken   string        `mapstructure:"ACCESS_TOKEN"`
	TimetableID   string        `mapstructure:"TIMETABLE_ID"`
	HTTPTimeout   time.Duration `mapstructure:"HTTP_TIMEOUT"`
	SyncInterval  time.Duration `mapstructure:"SYNC_INTERVAL"`

	// эталонный сервер
	DBDSN      string        `mapstructure:"DB_DSN"`
	ServerAddr string        `mapstructure:"SERVER_ADDR"`
	AuthSecret string        `mapstructure:"AUTH_SECRET"`
	TokenTTL   time.Duration `mapstructure:"TOKEN_TTL"`
}

var keys = []string{
	"ENV", "TELEGRAM_TOKEN", "API_BASE_URL", "ACCESS_TOKEN", "TIMETABLE_ID",
	"HTTP_TIMEOUT", "SYNC_INTERVAL", "DB_DSN", "SERVER_ADDR", "AUTH_SECRET", "TOKEN_TTL",
}

// Load читает .env (если есть) и переменные окружения
func Load() (*Config, error) {
	// .env необязателен
	_ = godotenv.Load(".env")
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetDefault("ENV", "development")
	v.SetDefault("HTTP_TIMEOUT", 10*time.Second)
	v.SetDefault("SYNC_INTERVAL", 5*time.Minute)
	v.SetDefault("SERVER_ADDR", ":8080")
	v.SetDefault("TOKEN_TTL", 24*time.Hour)
	v.AutomaticEnv()

	// Unmarshal видит только известные ключи, AutomaticEnv их не регистрирует
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	return cfg, nil
}

// RequireBot проверяет ключи, без которых бот не стартует
func (c *Config) RequireBot() error {
	var errs []error
	if c.TelegramToken == "" {
		errs = append(errs, errors.New("TELEGRAM_TOKEN is required but not set"))
	}
	if c.APIBaseURL == "" {
		errs = append(errs, errors.New("API_BASE_URL is required but not set"))
	}
	if c.HTTPTimeout <= 0 {
		errs = append(errs, errors.New("HTTP_TIMEOUT must be positive"))
	}
	return errors.Join(errs...)
}

// RequireServer проверяет ключи эталонного сервера
func (c *Config) RequireServer() error {
	var errs []error
	if c.DBDSN == "" {
		errs = append(errs, errors.New("DB_DSN is required but not set"))
	}
	if c.AuthSecret == "" {
		errs = append(errs, errors.New("AUTH_SECRET is required but not set"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	return errors.Join(errs...)
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}
