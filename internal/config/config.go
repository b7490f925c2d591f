package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	StoreSQLite = "sqlite"
	StoreFile   = "file"
	StoreNoop   = "noop"
)

// Quote providers. An empty provider picks rest when a base URL is set, yahoo otherwise.
const (
	ProviderYahoo = "yahoo"
	ProviderREST  = "rest"
	ProviderMock  = "mock"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		Provider string        `yaml:"provider"`
		BaseURL  string        `yaml:"base_url"`
		APIKey   string        `yaml:"api_key"`
		Timeout  time.Duration `yaml:"timeout"`
	} `yaml:"data_source"`
	Schedule struct {
		WatchCron string `yaml:"watch_cron"`
	} `yaml:"schedule"`
	Store struct {
		Driver     string `yaml:"driver"`
		SQLitePath string `yaml:"sqlite_path"`
		Dir        string `yaml:"dir"`
	} `yaml:"store"`
	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads .env, then the YAML file, then applies environment variable
// overrides and defaults. A missing YAML file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	override(&cfg.Telegram.BotToken, "TELEGRAM_BOT_TOKEN")
	override(&cfg.Telegram.ChatID, "TELEGRAM_CHAT_ID")
	override(&cfg.DataSource.BaseURL, "QUOTE_BASE_URL")
	override(&cfg.DataSource.APIKey, "QUOTE_API_KEY")
	override(&cfg.Proxy, "HTTPS_PROXY")
	override(&cfg.Store.SQLitePath, "SQLITE_PATH")
	override(&cfg.Store.Dir, "STORE_DIR")
	override(&cfg.Schedule.WatchCron, "CRON_WATCH")
	override(&cfg.Log.Level, "LOG_LEVEL")

	// Defaults
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = ProviderYahoo
		if cfg.DataSource.BaseURL != "" {
			cfg.DataSource.Provider = ProviderREST
		}
	}
	if cfg.DataSource.Timeout == 0 {
		cfg.DataSource.Timeout = 10 * time.Second
	}
	if cfg.Schedule.WatchCron == "" {
		cfg.Schedule.WatchCron = "0 */15 9-16 * * 1-5"
	}
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = StoreSQLite
	}
	if cfg.Store.SQLitePath == "" {
		cfg.Store.SQLitePath = "data/phoenix.db"
	}
	if cfg.Store.Dir == "" {
		cfg.Store.Dir = "data/state"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

func override(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StoreSQLite, StoreFile, StoreNoop:
	default:
		return fmt.Errorf("store.driver must be one of sqlite, file, noop; got %q", c.Store.Driver)
	}
	switch c.DataSource.Provider {
	case ProviderYahoo, ProviderMock:
	case ProviderREST:
		if c.DataSource.BaseURL == "" {
			return errors.New("data_source.base_url is required for the rest provider")
		}
	default:
		return fmt.Errorf("data_source.provider must be one of yahoo, rest, mock; got %q", c.DataSource.Provider)
	}
	if c.DataSource.Timeout <= 0 {
		return errors.New("data_source.timeout must be positive")
	}
	return nil
}

// ValidateBot additionally requires the Telegram settings.
func (c *Config) ValidateBot() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Telegram.BotToken == "" {
		return errors.New("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return errors.New("telegram.chat_id is required")
	}
	if c.Schedule.WatchCron == "" {
		return errors.New("schedule.watch_cron is required")
	}
	return nil
}
