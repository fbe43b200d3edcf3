// Package worker реализует пул воркеров для конкурентных прогонов обновления.
package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Ошибки пула
var (
	// ErrQueueFull очередь заполнена или пул остановлен
	ErrQueueFull = errors.New("refresh queue is full")
)

// Job представляет один прогон обновления аккаунта
type Job struct {
	AccountID int64
	Username  string
	Handler   func() error
}

// Metrics метрики воркер пула
type Metrics struct {
	mu             sync.RWMutex
	processedJobs  int64
	failedJobs     int64
	processingTime time.Duration
	queueSize      int
}

// Pool пул воркеров для прогонов обновления.
// Каждый прогон — последовательная блокирующая единица работы; параллелизм
// достигается независимыми парами аккаунт/прокси в разных воркерах.
type Pool struct {
	workers  int
	jobQueue chan Job
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	logger   *zap.Logger
	metrics  *Metrics
	stopOnce sync.Once
	stopped  bool
	mu       sync.RWMutex
}

// NewPool создает новый пул воркеров
func NewPool(workers int, queueSize int, logger *zap.Logger) *Pool {
	ctx, cancel := context.WithCancel(context.Background())

	return &Pool{
		workers:  workers,
		jobQueue: make(chan Job, queueSize),
		ctx:      ctx,
		cancel:   cancel,
		logger:   logger,
		metrics:  &Metrics{},
	}
}

// Start запускает пул воркеров
func (wp *Pool) Start() {
	wp.logger.Info("Starting refresh worker pool", zap.Int("workers", wp.workers))

	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop останавливает пул воркеров
func (wp *Pool) Stop() {
	wp.logger.Info("Stopping refresh worker pool")
	wp.cancel()

	// Безопасное закрытие jobQueue
	wp.stopOnce.Do(func() {
		wp.mu.Lock()
		wp.stopped = true
		wp.mu.Unlock()
		close(wp.jobQueue)
	})

	wp.wg.Wait()
	wp.logger.Info("Refresh worker pool stopped")
}

// Submit добавляет прогон в очередь
func (wp *Pool) Submit(job Job) error {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if wp.stopped {
		return ErrQueueFull
	}

	select {
	case wp.jobQueue <- job:
		wp.metrics.mu.Lock()
		wp.metrics.queueSize = len(wp.jobQueue)
		wp.metrics.mu.Unlock()
		return nil
	case <-wp.ctx.Done():
		return wp.ctx.Err()
	default:
		return ErrQueueFull
	}
}

// worker основной цикл воркера
func (wp *Pool) worker(id int) {
	defer wp.wg.Done()

	wp.logger.Debug("Worker started", zap.Int("worker_id", id))

	for {
		select {
		case job, ok := <-wp.jobQueue:
			if !ok {
				wp.logger.Debug("Worker stopping", zap.Int("worker_id", id))
				return
			}

			wp.processJob(job, id)

		case <-wp.ctx.Done():
			wp.logger.Debug("Worker context cancelled", zap.Int("worker_id", id))
			return
		}
	}
}

// processJob выполняет прогон обновления
func (wp *Pool) processJob(job Job, workerID int) {
	startTime := time.Now()

	wp.logger.Debug("Processing refresh job",
		zap.Int("worker_id", workerID),
		zap.Int64("account_id", job.AccountID),
		zap.String("username", job.Username))

	if err := job.Handler(); err != nil {
		wp.logger.Error("Refresh job failed",
			zap.Int("worker_id", workerID),
			zap.Int64("account_id", job.AccountID),
			zap.String("username", job.Username),
			zap.Error(err))

		wp.metrics.mu.Lock()
		wp.metrics.failedJobs++
		wp.metrics.mu.Unlock()
	} else {
		wp.metrics.mu.Lock()
		wp.metrics.processedJobs++
		wp.metrics.processingTime += time.Since(startTime)
		wp.metrics.mu.Unlock()

		wp.logger.Debug("Refresh job processed",
			zap.Int("worker_id", workerID),
			zap.Int64("account_id", job.AccountID),
			zap.Duration("duration", time.Since(startTime)))
	}
}

// GetProcessedJobs возвращает количество успешных прогонов
func (wp *Pool) GetProcessedJobs() int64 {
	wp.metrics.mu.RLock()
	defer wp.metrics.mu.RUnlock()
	return wp.metrics.processedJobs
}

// GetFailedJobs возвращает количество неудачных прогонов
func (wp *Pool) GetFailedJobs() int64 {
	wp.metrics.mu.RLock()
	defer wp.metrics.mu.RUnlock()
	return wp.metrics.failedJobs
}

// GetQueueSize возвращает текущий размер очереди
func (wp *Pool) GetQueueSize() int {
	wp.metrics.mu.RLock()
	defer wp.metrics.mu.RUnlock()
	return wp.metrics.queueSize
}
