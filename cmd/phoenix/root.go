package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"Phoenix/internal/collector"
	"Phoenix/internal/config"
	"Phoenix/internal/logger"
	"Phoenix/internal/store"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:          "phoenix",
	Short:        "Position rescue assistant: diagnose, simulate, plan, review",
	SilenceUsage: true,
}

func init() {
	defaultPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultPath = v
	}
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", defaultPath, "path to YAML config")
}

// loadConfig loads and validates the config and sets up the global logger.
// Logs go to stderr so reports on stdout stay clean.
func loadConfig() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("load config: %w", err)
	}
	log := logger.NewWithWriter(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty}, os.Stderr)
	logger.SetGlobalLogger(log)
	if err := cfg.Validate(); err != nil {
		return nil, log, fmt.Errorf("config validation: %w", err)
	}
	return cfg, log, nil
}

// openStore opens the configured store, falling back to the no-op store when it cannot be opened.
func openStore(cfg *config.Config, log zerolog.Logger) store.Store {
	switch cfg.Store.Driver {
	case config.StoreSQLite:
		s, err := store.NewSQLiteStore(cfg.Store.SQLitePath, log)
		if err == nil {
			return s
		}
		log.Warn().Err(err).Msg("init sqlite store failed, using noop")
	case config.StoreFile:
		s, err := store.NewFileStore(cfg.Store.Dir)
		if err == nil {
			return s
		}
		log.Warn().Err(err).Msg("init file store failed, using noop")
	}
	return store.NewNoopStore()
}

// newProvider builds the signal provider for the configured quote source.
func newProvider(cfg *config.Config, log zerolog.Logger) collector.Provider {
	switch cfg.DataSource.Provider {
	case config.ProviderMock:
		return &collector.MockProvider{}
	case config.ProviderREST:
		return collector.NewSignalProvider(collector.NewRESTSource(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy), log)
	default:
		return collector.NewSignalProvider(collector.NewYahooSource(cfg.Proxy), log)
	}
}
