package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"afisha/internal/config"
	"afisha/internal/database"
	"afisha/internal/logger"
	"afisha/internal/stats"
)

func main() {
	// Загружаем конфигурацию
	cfg := config.Load()

	logger.Init(cfg.LogLevel, cfg.LogFormat)

	// Подключаемся к базе данных
	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer db.Close()

	// Запускаем миграции
	if err := db.RunStatsMigrations(); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	service := stats.NewService(stats.NewRepository(db))

	srv := &http.Server{
		Addr:    ":" + cfg.StatsPort,
		Handler: stats.Router(service),
	}

	// Запускаем сервер в отдельной горутине
	go func() {
		slog.Info("Starting stats server", "port", cfg.StatsPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start stats server", "error", err)
		}
	}()

	// Ждем сигнал для graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down stats server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Stats server forced to shutdown", "error", err)
	}

	slog.Info("Stats server stopped")
}
