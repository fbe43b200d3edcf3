// Package app содержит фабрику компонентов приложения.
package app

import (
	"fmt"

	"igmonitor/internal/config"
	"igmonitor/internal/health"
	"igmonitor/internal/metrics"
	"igmonitor/internal/model"
	"igmonitor/internal/notifier"
	"igmonitor/internal/proxy"
	"igmonitor/internal/refresher"
	"igmonitor/internal/scraper"
	"igmonitor/internal/service"
	"igmonitor/internal/storage"
	"igmonitor/internal/storage/repository"
	"igmonitor/internal/worker"

	"go.uber.org/zap"
)

// ComponentFactory создает компоненты приложения
type ComponentFactory struct {
	config *config.Config
	logger *zap.Logger
}

// NewComponentFactory создает новую фабрику компонентов
func NewComponentFactory(config *config.Config, logger *zap.Logger) *ComponentFactory {
	if config == nil {
		logger.Fatal("Config cannot be nil")
	}
	if logger == nil {
		panic("Logger cannot be nil")
	}

	return &ComponentFactory{
		config: config,
		logger: logger,
	}
}

// CreateDatabase создает подключение к базе данных
func (f *ComponentFactory) CreateDatabase() (*storage.Postgres, error) {
	if f.config.DatabaseURL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	db, err := storage.NewPostgres(f.config.DatabaseURL, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection: %w", err)
	}

	f.logger.Info("Database connection created successfully")
	return db, nil
}

// CreateProxyPool создает пул прокси поверх базы данных
func (f *ComponentFactory) CreateProxyPool(db *storage.Postgres) *proxy.Pool {
	pool := proxy.NewPool(db.GetProxyRepository(), f.config.ProxyConfig.BurntCooldown, f.logger)
	f.logger.Info("Proxy pool created successfully")
	return pool
}

// CreateClientFactory создает фабрику клиентов скрейпера
func (f *ComponentFactory) CreateClientFactory() refresher.ClientFactory {
	scraperConfig := scraper.Config{
		BaseURL:          f.config.ScraperConfig.BaseURL,
		UserAgent:        f.config.ScraperConfig.UserAgent,
		PostsLimit:       f.config.ScraperConfig.PostsLimit,
		RequestDelay:     f.config.ScraperConfig.RequestDelay,
		HTTPClientConfig: f.config.ScraperConfig.HTTPClientConfig,
		RetryConfig:      f.config.ScraperConfig.RetryConfig,
	}

	factory := scraper.NewFactory(scraperConfig, f.logger)
	f.logger.Info("Scraper client factory created successfully")
	return &proxyClientFactory{factory: factory}
}

// proxyClientFactory привязывает клиент скрейпера к зарезервированному прокси
type proxyClientFactory struct {
	factory *scraper.Factory
}

// NewClient создает клиент, маршрутизирующий запросы через прокси
func (p *proxyClientFactory) NewClient(reserved *model.Proxy) refresher.AccountClient {
	return p.factory.NewClient(reserved.URL())
}

// CreateNotifier создает уведомитель админа.
// Без настроенного Telegram возвращается заглушка.
func (f *ComponentFactory) CreateNotifier() (refresher.Notifier, error) {
	if !f.config.NotificationsEnabled() {
		f.logger.Info("Admin notifications disabled, using no-op notifier")
		return notifier.NewNop(), nil
	}

	tg, err := notifier.NewTelegramNotifier(f.config.BotToken, f.config.AdminChatID, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram notifier: %w", err)
	}

	f.logger.Info("Telegram notifier created successfully")
	return tg, nil
}

// CreateOrchestrator создает оркестратор прогонов обновления
func (f *ComponentFactory) CreateOrchestrator(db *storage.Postgres, pool *proxy.Pool, adminNotifier refresher.Notifier, recorder *metrics.Recorder) *refresher.Orchestrator {
	writer := repository.NewRefreshWriter(
		db.GetAccountRepository(),
		db.GetMediaRepository(),
		f.config.RefreshConfig,
		f.logger,
	)

	orchestrator := refresher.NewOrchestrator(
		pool,
		f.CreateClientFactory(),
		writer,
		writer,
		adminNotifier,
		recorder,
		f.logger,
	)

	f.logger.Info("Refresh orchestrator created successfully")
	return orchestrator
}

// CreateWorkerPool создает пул воркеров
func (f *ComponentFactory) CreateWorkerPool() *worker.Pool {
	pool := worker.NewPool(f.config.SchedulerConfig.Workers, f.config.SchedulerConfig.QueueSize, f.logger)
	f.logger.Info("Worker pool created successfully",
		zap.Int("workers", f.config.SchedulerConfig.Workers),
		zap.Int("queue_size", f.config.SchedulerConfig.QueueSize))
	return pool
}

// CreateScheduler создает планировщик прогонов
func (f *ComponentFactory) CreateScheduler(db *storage.Postgres, orchestrator *refresher.Orchestrator, workers *worker.Pool) *service.Scheduler {
	scheduler := service.NewScheduler(db.GetAccountRepository(), orchestrator, workers, f.config.SchedulerConfig, f.logger)
	f.logger.Info("Scheduler created successfully")
	return scheduler
}

// CreateHealthServer создает сервер health check
func (f *ComponentFactory) CreateHealthServer(db *storage.Postgres, pool *proxy.Pool, recorder *metrics.Recorder) (*health.Server, error) {
	if !f.config.HealthCheckEnabled {
		f.logger.Info("Health check server is disabled")
		return nil, nil
	}

	if f.config.HealthPort == "" {
		return nil, fmt.Errorf("health port is required when health check is enabled")
	}

	server := health.NewServer(f.config.HealthPort, f.logger, db, pool, recorder)
	f.logger.Info("Health check server created", zap.String("port", f.config.HealthPort))
	return server, nil
}

// CreateMonitor создает полный экземпляр монитора со всеми зависимостями
func (f *ComponentFactory) CreateMonitor() (*Monitor, error) {
	db, err := f.CreateDatabase()
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	proxyPool := f.CreateProxyPool(db)

	adminNotifier, err := f.CreateNotifier()
	if err != nil {
		return nil, fmt.Errorf("failed to create notifier: %w", err)
	}

	recorder := metrics.NewRecorder()
	orchestrator := f.CreateOrchestrator(db, proxyPool, adminNotifier, recorder)
	workers := f.CreateWorkerPool()
	scheduler := f.CreateScheduler(db, orchestrator, workers)

	healthServer, err := f.CreateHealthServer(db, proxyPool, recorder)
	if err != nil {
		return nil, fmt.Errorf("failed to create health server: %w", err)
	}

	monitor, err := NewMonitor(f.config, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create monitor: %w", err)
	}

	monitor.db = db
	monitor.workers = workers
	monitor.scheduler = scheduler
	monitor.health = healthServer

	if free, err := proxyPool.FreeCount(); err == nil && free == 0 {
		f.logger.Warn("No free proxies in pool; refresh runs will be skipped until proxies are added")
	}

	f.logger.Info("Monitor created successfully with all dependencies")
	return monitor, nil
}

// ValidateConfig проверяет конфигурацию на корректность
func (f *ComponentFactory) ValidateConfig() error {
	if f.config == nil {
		return fmt.Errorf("config is nil")
	}

	if err := f.config.Validate(); err != nil {
		return err
	}

	f.logger.Info("Configuration validation passed")
	return nil
}
