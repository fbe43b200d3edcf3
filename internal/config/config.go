// Package config содержит загрузку и валидацию конфигурации.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config представляет конфигурацию приложения
type Config struct {
	// Database
	DatabaseURL string

	// Scraper
	ScraperConfig ScraperConfig

	// Refresh policies
	RefreshConfig RefreshConfig

	// Scheduler
	SchedulerConfig SchedulerConfig

	// Proxy pool
	ProxyConfig ProxyConfig

	// Telegram admin notifications
	BotToken    string
	AdminChatID int64

	// Health
	HealthPort         string
	HealthCheckEnabled bool

	// Logging
	LogLevel string
}

// ScraperConfig представляет конфигурацию скрейпера
type ScraperConfig struct {
	BaseURL          string
	UserAgent        string
	PostsLimit       int
	RequestDelay     time.Duration
	HTTPClientConfig HTTPClientConfig
	RetryConfig      RetryConfig
}

// HTTPClientConfig представляет конфигурацию HTTP клиента
type HTTPClientConfig struct {
	Timeout               time.Duration
	MaxIdleConns          int
	MaxIdleConnsPerHost   int
	IdleConnTimeout       time.Duration
	TLSHandshakeTimeout   time.Duration
	ResponseHeaderTimeout time.Duration
	DisableKeepAlives     bool
}

// RetryConfig представляет конфигурацию retry механизма
type RetryConfig struct {
	MaxRetries        int
	InitialDelay      time.Duration
	MaxDelay          time.Duration
	BackoffMultiplier float64
}

// RefreshConfig представляет политики планирования следующего обновления аккаунта
type RefreshConfig struct {
	// StandardInterval интервал между обновлениями валидного аккаунта
	StandardInterval time.Duration
	// FailureBackoff короткий откат для аккаунтов с ошибкой (приватный, не найден и т.д.)
	FailureBackoff time.Duration
	// LoginWallRetryDelay одиночный повтор после login wall (проблема прокси, не аккаунта)
	LoginWallRetryDelay time.Duration
}

// SchedulerConfig представляет конфигурацию планировщика
type SchedulerConfig struct {
	DueCheckSpec string
	BatchSize    int
	Workers      int
	QueueSize    int
}

// ProxyConfig представляет конфигурацию пула прокси
type ProxyConfig struct {
	// BurntCooldown время, на которое сожженный прокси исключается из выдачи
	BurntCooldown time.Duration
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	// Загружаем .env файл если он существует
	_ = godotenv.Load()

	config := &Config{
		DatabaseURL: getEnv("DB_DSN", ""),
		ScraperConfig: ScraperConfig{
			BaseURL:      getEnv("SCRAPER_BASE_URL", "https://www.instagram.com"),
			UserAgent:    getEnv("SCRAPER_USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
			PostsLimit:   getEnvInt("SCRAPER_POSTS_LIMIT", 12),
			RequestDelay: getEnvDuration("SCRAPER_REQUEST_DELAY", 2*time.Second),
			HTTPClientConfig: HTTPClientConfig{
				Timeout:               getEnvDuration("HTTP_TIMEOUT", 30*time.Second),
				MaxIdleConns:          getEnvInt("HTTP_MAX_IDLE_CONNS", 100),
				MaxIdleConnsPerHost:   getEnvInt("HTTP_MAX_IDLE_CONNS_PER_HOST", 10),
				IdleConnTimeout:       getEnvDuration("HTTP_IDLE_CONN_TIMEOUT", 90*time.Second),
				TLSHandshakeTimeout:   getEnvDuration("HTTP_TLS_HANDSHAKE_TIMEOUT", 10*time.Second),
				ResponseHeaderTimeout: getEnvDuration("HTTP_RESPONSE_HEADER_TIMEOUT", 30*time.Second),
				DisableKeepAlives:     getEnvBool("HTTP_DISABLE_KEEP_ALIVES", false),
			},
			RetryConfig: RetryConfig{
				MaxRetries:        getEnvInt("RETRY_MAX_RETRIES", 2),
				InitialDelay:      getEnvDuration("RETRY_INITIAL_DELAY", 1*time.Second),
				MaxDelay:          getEnvDuration("RETRY_MAX_DELAY", 15*time.Second),
				BackoffMultiplier: getEnvFloat("RETRY_BACKOFF_MULTIPLIER", 2.0),
			},
		},
		RefreshConfig: RefreshConfig{
			StandardInterval:    getEnvDuration("REFRESH_STANDARD_INTERVAL", 24*time.Hour),
			FailureBackoff:      getEnvDuration("REFRESH_FAILURE_BACKOFF", 1*time.Hour),
			LoginWallRetryDelay: getEnvDuration("REFRESH_LOGIN_WALL_RETRY_DELAY", 10*time.Minute),
		},
		SchedulerConfig: SchedulerConfig{
			DueCheckSpec: getEnv("SCHEDULER_DUE_CHECK_SPEC", "@every 1m"),
			BatchSize:    getEnvInt("SCHEDULER_BATCH_SIZE", 50),
			Workers:      getEnvInt("SCHEDULER_WORKERS", 4),
			QueueSize:    getEnvInt("SCHEDULER_QUEUE_SIZE", 100),
		},
		ProxyConfig: ProxyConfig{
			BurntCooldown: getEnvDuration("PROXY_BURNT_COOLDOWN", 30*time.Minute),
		},
		BotToken:           getEnv("BOT_TOKEN", ""),
		AdminChatID:        getEnvInt64("ADMIN_CHAT_ID", 0),
		HealthPort:         getEnv("HEALTH_PORT", "8080"),
		HealthCheckEnabled: getEnvBool("HEALTH_CHECK_ENABLED", true),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}

	// Валидация обязательных полей
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Validate проверяет конфигурацию
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DB_DSN is required")
	}

	if c.ScraperConfig.BaseURL == "" {
		return fmt.Errorf("SCRAPER_BASE_URL is required")
	}

	if c.ScraperConfig.PostsLimit <= 0 {
		return fmt.Errorf("SCRAPER_POSTS_LIMIT must be positive")
	}

	if c.SchedulerConfig.Workers <= 0 {
		return fmt.Errorf("SCHEDULER_WORKERS must be positive")
	}

	if c.SchedulerConfig.BatchSize <= 0 {
		return fmt.Errorf("SCHEDULER_BATCH_SIZE must be positive")
	}

	if c.RefreshConfig.StandardInterval <= 0 {
		return fmt.Errorf("REFRESH_STANDARD_INTERVAL must be positive")
	}

	// Уведомления опциональны, но chat ID без токена бесполезен
	if c.AdminChatID != 0 && c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required when ADMIN_CHAT_ID is set")
	}

	return nil
}

// NotificationsEnabled возвращает true, если настроены админ-уведомления
func (c *Config) NotificationsEnabled() bool {
	return c.BotToken != "" && c.AdminChatID != 0
}

// getEnv получает переменную окружения с значением по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает переменную окружения как int
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvInt64 получает переменную окружения как int64
func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDuration получает переменную окружения как time.Duration
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvBool получает переменную окружения как bool
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvFloat получает переменную окружения как float64
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
