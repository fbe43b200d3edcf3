// Package scraper содержит retry логику для запросов к удаленному сайту.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"igmonitor/internal/config"

	"go.uber.org/zap"
)

// permanentError помечает ошибку, которую не нужно повторять
type permanentError struct {
	err error
}

func (e *permanentError) Error() string {
	return e.err.Error()
}

func (e *permanentError) Unwrap() error {
	return e.err
}

// Permanent оборачивает ошибку так, что WithRetry вернет ее без повторов
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// WithRetry выполняет функцию с экспоненциальным backoff.
// Ошибки, обернутые Permanent, возвращаются сразу без повторов.
func WithRetry(ctx context.Context, logger *zap.Logger, config config.RetryConfig, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		// Проверяем контекст перед каждой попыткой
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := fn()
		if err == nil {
			if attempt > 0 {
				logger.Debug("Function succeeded after retry",
					zap.Int("attempt", attempt+1),
					zap.Int("max_retries", config.MaxRetries))
			}
			return nil
		}

		var permanent *permanentError
		if errors.As(err, &permanent) {
			return permanent.err
		}

		lastErr = err

		if attempt == config.MaxRetries {
			break
		}

		// Вычисляем задержку с экспоненциальным backoff
		delay := time.Duration(float64(config.InitialDelay) * math.Pow(config.BackoffMultiplier, float64(attempt)))
		if delay > config.MaxDelay {
			delay = config.MaxDelay
		}

		logger.Debug("Function failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", config.MaxRetries),
			zap.Duration("delay", delay),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("function failed after %d attempts: %w", config.MaxRetries+1, lastErr)
}
