package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"afisha/cmd/notifier/jobs"
	"afisha/internal/config"
	"afisha/internal/consumers"
	"afisha/internal/logger"
)

func main() {
	// Загружаем конфигурацию
	cfg := config.Load()
	cfg.NATS.ClientID = "afisha-notifier"

	logger.Init(cfg.LogLevel, cfg.LogFormat)

	consumerService, err := consumers.NewConsumerService(cfg)
	if err != nil {
		logger.Fatal("Failed to create notifier", "error", err)
	}

	if err := consumerService.Start(); err != nil {
		logger.Fatal("Failed to start consumers", "error", err)
	}

	// Фоновая очистка заявок по прошедшим событиям
	staleJob := jobs.NewStaleRequestJob(
		consumerService.Repositories().Requests, consumerService.NATS())
	staleJob.Start(context.Background())

	slog.Info("Notifier started")

	// Ждем сигнал для graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down notifier...")

	staleJob.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := consumerService.Shutdown(ctx); err != nil {
		slog.Error("Error during shutdown", "error", err)
	}

	slog.Info("Notifier stopped")
}
