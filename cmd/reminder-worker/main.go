package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"farmbook/internal/amqp"
	"farmbook/internal/backend"
	"farmbook/internal/config"
	"farmbook/internal/log"
	"farmbook/internal/worker"
)

func main() {
	// Load .env for local development; absent in containers.
	_ = godotenv.Load()

	logger := log.New(log.Config{Level: slog.LevelInfo, Component: "reminder-worker"})
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// The worker needs shared state with the server, so it requires the
	// sqlite backend; a private in-memory store would scan nothing useful.
	if cfg.DataBackend != "sqlite" {
		logger.Error("Reminder worker requires DATA_BACKEND=sqlite", "backend", cfg.DataBackend)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	factory := backend.NewFactory(logger.Logger)
	result, err := factory.CreateBackend(ctx, backend.Config{
		Type:         backend.SQLiteBackend,
		SQLiteDBPath: cfg.SQLiteDBPath,
	})
	if err != nil {
		logger.Error("Backend initialization failed", "error", err)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", "error", err)
			}
		}()
	}

	var events *amqp.Client
	if cfg.AMQPURL != "" {
		events, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("AMQP initialization failed", "error", err)
			os.Exit(1)
		}
		defer events.Close()
		logger.Info("Event consumption enabled", "queue", cfg.AMQPQueue)
	} else {
		logger.Info("Event consumption disabled, no AMQP_URL provided")
	}

	w := worker.NewReminderWorker(result.Store, events, cfg.ReminderHorizonDays, cfg.ReminderInterval)

	logger.Info("Starting reminder worker",
		"horizon_days", cfg.ReminderHorizonDays,
		"interval", cfg.ReminderInterval.String())

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
