// Package app содержит основную логику приложения.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"igmonitor/internal/config"
	"igmonitor/internal/health"
	"igmonitor/internal/service"
	"igmonitor/internal/storage"
	"igmonitor/internal/worker"

	"go.uber.org/zap"
)

// Monitor представляет основную логику сервиса мониторинга
type Monitor struct {
	config    *config.Config
	logger    *zap.Logger
	db        *storage.Postgres
	workers   *worker.Pool
	scheduler *service.Scheduler
	health    *health.Server
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewMonitor создает новый экземпляр монитора
func NewMonitor(cfg *config.Config, logger *zap.Logger) (*Monitor, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	ctx, cancel := context.WithCancel(context.Background())

	monitor := &Monitor{
		config: cfg,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}

	logger.Info("Monitor structure created successfully")
	return monitor, nil
}

// NewMonitorWithFactory создает новый экземпляр монитора со всеми зависимостями
func NewMonitorWithFactory(cfg *config.Config, logger *zap.Logger) (*Monitor, error) {
	factory := NewComponentFactory(cfg, logger)
	return factory.CreateMonitor()
}

// Start запускает монитор и блокируется до отмены контекста
func (m *Monitor) Start(ctx context.Context) error {
	m.logger.Info("Starting monitor")

	// Запускаем health check сервер
	if m.health != nil {
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			if err := m.health.Start(); err != nil {
				if err.Error() == "http: Server closed" {
					m.logger.Info("Health check server stopped normally")
				} else {
					m.logger.Error("Health check server failed", zap.Error(err))
				}
			}
		}()
	}

	// Запускаем пул воркеров
	m.workers.Start()

	// Запускаем планировщик прогонов
	if err := m.scheduler.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	m.logger.Info("Monitor started successfully")

	select {
	case <-ctx.Done():
		m.logger.Info("Monitor stopping: context cancelled")
		return ctx.Err()
	case <-m.ctx.Done():
		m.logger.Info("Monitor stopping: stop requested")
		return nil
	}
}

// Stop gracefully останавливает монитор
func (m *Monitor) Stop() error {
	m.logger.Info("Stopping monitor gracefully")

	// Новые прогоны больше не ставятся в очередь
	if m.scheduler != nil {
		m.scheduler.Stop()
	}

	// Дожидаемся текущих прогонов
	if m.workers != nil {
		m.workers.Stop()
	}

	if m.cancel != nil {
		m.cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Останавливаем health check сервер
	if m.health != nil {
		if err := m.health.Stop(); err != nil {
			m.logger.Error("Failed to stop health check server", zap.Error(err))
		}
	}

	// Ждем завершения всех горутин с таймаутом
	done := make(chan struct{})
	go func() {
		defer close(done)
		m.wg.Wait()
	}()

	select {
	case <-done:
		m.logger.Info("All goroutines stopped successfully")
	case <-shutdownCtx.Done():
		m.logger.Warn("Graceful shutdown timeout exceeded, forcing stop")
	}

	// Закрытие соединения с базой данных
	if m.db != nil {
		if err := m.db.Close(); err != nil {
			m.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	m.logger.Info("Monitor stopped successfully")
	return nil
}
