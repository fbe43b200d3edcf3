// Package main запускает сервис мониторинга аккаунтов.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"igmonitor/internal/app"
	"igmonitor/internal/config"
	"igmonitor/pkg/log"

	"go.uber.org/zap"
)

func main() {
	// Инициализация логгера
	logger, err := log.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Создание контекста
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Обработка сигналов
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received")
		cancel()
	}()

	// Создание монитора через фабрику
	monitor, err := app.NewMonitorWithFactory(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create monitor", zap.Error(err))
	}

	// Запуск монитора
	runErr := monitor.Start(ctx)

	if err := monitor.Stop(); err != nil {
		logger.Error("Failed to stop monitor", zap.Error(err))
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		logger.Error("Monitor stopped with error", zap.Error(runErr))
		os.Exit(1)
	}

	logger.Info("Monitor stopped successfully")
}
