package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"Phoenix/internal/collector"
	"Phoenix/internal/notifier"
	"Phoenix/internal/scheduler"
	"Phoenix/internal/workflow"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot and the plan watch job",
	RunE:  runBot,
}

var botWatchOnStart bool

func init() {
	rootCmd.AddCommand(botCmd)
	botCmd.Flags().BoolVar(&botWatchOnStart, "watch-now", os.Getenv("RUN_ON_START") == "true", "run the plan watch once at startup")
}

func runBot(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.ValidateBot(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	log.Info().Msg("Phoenix starting...")

	provider := newProvider(cfg, log)
	log.Info().Str("source", provider.Name()).Msg("data source")

	st := openStore(cfg, log)
	defer st.Close()

	// Context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	col := collector.NewCollector(provider, cfg.DataSource.Timeout, log)
	wf := workflow.New(col, st, log)
	history := wf.LoadHistory(ctx)
	log.Info().Int("reviews", len(history)).Msg("history loaded")

	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log)

	sched := scheduler.NewScheduler(ctx, wf, provider, tn, st, log)
	sched.QuoteTimeout = cfg.DataSource.Timeout
	if err := sched.RegisterAll(cfg.Schedule.WatchCron); err != nil {
		return fmt.Errorf("register cron tasks: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Info().Msg("telegram polling started")

	if botWatchOnStart {
		go sched.RunWatchNow()
	}

	log.Info().Str("watch_cron", cfg.Schedule.WatchCron).Msg("Phoenix is running. Press Ctrl+C to stop.")
	<-ctx.Done()

	log.Info().Msg("shutdown signal received, stopping...")
	return nil
}
