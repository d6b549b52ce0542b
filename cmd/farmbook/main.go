package main

import (
	"context"
	"errors"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"farmbook/internal/advisory"
	"farmbook/internal/amqp"
	"farmbook/internal/backend"
	"farmbook/internal/backup"
	"farmbook/internal/config"
	"farmbook/internal/http"
	"farmbook/internal/log"
	"farmbook/internal/sheets/google"
)

func main() {
	// Load .env for local development; absent in containers.
	_ = godotenv.Load()

	logger := log.New(log.Config{Level: slog.LevelInfo, Component: "farmbook"})
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	factory := backend.NewFactory(logger.Logger)
	result, err := factory.CreateBackend(ctx, backend.Config{
		Type:         backend.BackendType(cfg.DataBackend),
		SQLiteDBPath: cfg.SQLiteDBPath,
	})
	if err != nil {
		logger.Error("Backend initialization failed", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", "error", err)
			}
		}()
	}

	deps := http.Deps{
		Store:   result.Store,
		Backups: backup.NewManager(result.Store, cfg.BackupDirectory),
	}

	if cfg.AMQPURL != "" {
		events, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("AMQP initialization failed", "error", err)
			os.Exit(1)
		}
		defer events.Close()
		deps.Events = events
		logger.Info("Event publishing enabled", "exchange", cfg.AMQPExchange)
	}

	if cfg.GoogleSpreadsheetID != "" {
		reports, err := google.NewFromEnv(ctx)
		if err != nil {
			logger.Error("Google Sheets initialization failed", "error", err)
			os.Exit(1)
		}
		deps.Reports = reports
		logger.Info("Spreadsheet export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	}

	if cfg.GenAIAPIKey != "" {
		advisor, err := advisory.NewGeminiAdvisor(ctx, cfg.GenAIAPIKey, cfg.GenAIModel)
		if err != nil {
			logger.Error("Advisory initialization failed", "error", err)
			os.Exit(1)
		}
		deps.Advisor = advisor
		logger.Info("Advisory enabled", "model", cfg.GenAIModel)
	}

	srv := http.NewServer(":"+cfg.Port, deps)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting farmbook server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
