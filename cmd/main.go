// Package main is the entry point for the pool watcher.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/opspulse/pool-watcher/internal/config"
	"github.com/opspulse/pool-watcher/internal/monitoring"
	"github.com/opspulse/pool-watcher/internal/notify"
	"github.com/opspulse/pool-watcher/internal/store"
	"github.com/opspulse/pool-watcher/internal/tail"
	"github.com/opspulse/pool-watcher/internal/watcher"
)

// loadEnvFiles loads .env from standard locations
func loadEnvFiles() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		_ = godotenv.Load()
		return
	}

	// Try loading from ~/.config/pool-watcher/.env first
	configEnv := filepath.Join(homeDir, ".config", "pool-watcher", ".env")
	if _, err := os.Stat(configEnv); err == nil {
		_ = godotenv.Load(configEnv)
	}

	// Also load local .env (can override)
	_ = godotenv.Load()
}

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version", "-v", "--version":
			PrintVersion()
			return
		case "help", "-h", "--help":
			printHelp()
			return
		}
	}

	runWatcher()
}

// resolveConfig builds the configuration: a YAML file when WATCHER_CONFIG
// points at one, environment variables otherwise (the environment always
// overrides the file either way).
func resolveConfig() (config.Config, error) {
	if path := os.Getenv("WATCHER_CONFIG"); path != "" {
		return config.Load(path)
	}
	return config.FromEnv()
}

// runWatcher runs the watch loop until an external stop signal.
func runWatcher() {
	loadEnvFiles()

	cfg, err := resolveConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if err := monitoring.Global(monitoring.LoggerConfig{
		Level:  cfg.LogLevel,
		Format: "console",
		Output: "stdout",
	}); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize logging")
	}

	webhookState := "not configured"
	if cfg.NotifierConfigured() {
		webhookState = "configured"
	}
	log.Info().
		Str("version", Version).
		Str("access_log", cfg.AccessLogPath).
		Int("window_size", cfg.WindowSize).
		Float64("error_rate_threshold", cfg.ErrorRateThresholdPercent).
		Int("cooldown_seconds", cfg.CooldownSeconds).
		Bool("maintenance_mode", cfg.MaintenanceMode).
		Str("webhook", webhookState).
		Msg("pool watcher starting")

	metrics := monitoring.NewMetricsCollector()

	var notifier watcher.Notifier
	if cfg.NotifierConfigured() {
		notifier = notify.NewSlackNotifier(cfg.WebhookURL)
	} else {
		log.Warn().Msg("no webhook endpoint configured, alerts will be dropped")
	}

	var journal watcher.Journal
	if cfg.JournalPath != "" {
		j, err := store.Open(cfg.JournalPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open alert journal")
		}
		defer j.Close()
		journal = j
		log.Info().Str("path", cfg.JournalPath).Msg("alert journal enabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info().Msg("shutdown signal received")
		cancel()
	}()

	tailer := tail.New(cfg.AccessLogPath)
	if err := tailer.Open(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Fatal().Err(err).Msg("failed to open log source")
	}
	defer tailer.Close()

	proc := watcher.NewProcessor(cfg, notifier, journal, metrics)
	if err := proc.Run(ctx, tailer); err != nil {
		log.Fatal().Err(err).Msg("watcher loop failed")
	}

	log.Info().Interface("stats", metrics.Stats()).Msg("pool watcher stopped")
}

// printHelp prints usage information
func printHelp() {
	fmt.Println("pool-watcher - blue/green access log watcher")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  pool-watcher              Watch the access log until terminated")
	fmt.Println("  pool-watcher version      Print version information")
	fmt.Println("  pool-watcher help         Show this help message")
	fmt.Println()
	fmt.Println("Configuration (environment, read once at startup):")
	fmt.Println("  ACCESS_LOG_PATH               Log file to tail (default /var/log/nginx/access.log)")
	fmt.Println("  SLACK_WEBHOOK_URL             Alert webhook endpoint (empty = alerting disabled)")
	fmt.Println("  ERROR_RATE_THRESHOLD_PERCENT  5xx alert threshold (default 2.0)")
	fmt.Println("  WINDOW_SIZE                   Trailing window size (default 200)")
	fmt.Println("  COOLDOWN_SECONDS              Per-alert-type cooldown (default 300)")
	fmt.Println("  MAINTENANCE_MODE              Suppress all alerts (default false)")
	fmt.Println("  ALERT_JOURNAL_PATH            Optional sqlite alert journal")
	fmt.Println("  LOG_LEVEL                     debug, info, warn, error (default info)")
	fmt.Println("  WATCHER_CONFIG                Optional YAML config file")
}
