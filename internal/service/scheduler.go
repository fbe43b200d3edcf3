// Package service содержит планировщик прогонов обновления.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"igmonitor/internal/config"
	"igmonitor/internal/model"
	"igmonitor/internal/worker"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// runTimeout максимальное время одного прогона обновления
const runTimeout = 10 * time.Minute

// Scheduler периодически выбирает просроченные аккаунты и раздает их воркерам
type Scheduler struct {
	accounts     model.AccountRepository
	orchestrator Refresher
	pool         JobQueue
	cfg          config.SchedulerConfig
	cron         *cron.Cron
	logger       *zap.Logger

	mu       sync.Mutex
	running  bool
	inFlight map[int64]struct{}
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewScheduler создает новый планировщик
func NewScheduler(accounts model.AccountRepository, orchestrator Refresher, pool JobQueue, cfg config.SchedulerConfig, logger *zap.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		accounts:     accounts,
		orchestrator: orchestrator,
		pool:         pool,
		cfg:          cfg,
		cron:         cron.New(cron.WithLocation(time.UTC)),
		logger:       logger,
		inFlight:     make(map[int64]struct{}),
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Start запускает планировщик
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler is already running")
	}

	s.logger.Info("Starting refresh scheduler", zap.String("due_check_spec", s.cfg.DueCheckSpec))

	if _, err := s.cron.AddFunc(s.cfg.DueCheckSpec, s.checkDueAccounts); err != nil {
		return fmt.Errorf("failed to add due check to cron: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("Refresh scheduler started")
	return nil
}

// Stop останавливает планировщик
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.logger.Info("Stopping refresh scheduler")

	s.cancel()
	s.cron.Stop()
	s.running = false

	s.logger.Info("Refresh scheduler stopped")
}

// checkDueAccounts выбирает просроченные аккаунты и ставит их в очередь
func (s *Scheduler) checkDueAccounts() {
	due, err := s.accounts.GetDue(s.cfg.BatchSize)
	if err != nil {
		s.logger.Error("Failed to get due accounts", zap.Error(err))
		return
	}

	if len(due) == 0 {
		return
	}

	s.logger.Info("Found due accounts", zap.Int("count", len(due)))

	submitted := 0
	for i := range due {
		if s.submitAccount(due[i]) {
			submitted++
		}
	}

	s.logger.Debug("Due accounts submitted",
		zap.Int("submitted", submitted),
		zap.Int("skipped", len(due)-submitted))
}

// submitAccount ставит один аккаунт в очередь воркеров.
// Аккаунт, прогон которого еще не завершился, повторно не ставится.
func (s *Scheduler) submitAccount(account model.Account) bool {
	s.mu.Lock()
	if _, busy := s.inFlight[account.AccountID]; busy {
		s.mu.Unlock()
		return false
	}
	s.inFlight[account.AccountID] = struct{}{}
	s.mu.Unlock()

	job := worker.Job{
		AccountID: account.AccountID,
		Username:  account.Username,
		Handler: func() error {
			defer s.markDone(account.AccountID)
			return s.runRefresh(&account)
		},
	}

	if err := s.pool.Submit(job); err != nil {
		s.markDone(account.AccountID)
		s.logger.Warn("Failed to submit refresh job",
			zap.Int64("account_id", account.AccountID),
			zap.String("username", account.Username),
			zap.Error(err))
		return false
	}

	return true
}

// runRefresh выполняет один прогон обновления с таймаутом
func (s *Scheduler) runRefresh(account *model.Account) error {
	ctx, cancel := context.WithTimeout(s.ctx, runTimeout)
	defer cancel()

	return s.orchestrator.Run(ctx, account)
}

// markDone убирает аккаунт из множества выполняющихся
func (s *Scheduler) markDone(accountID int64) {
	s.mu.Lock()
	delete(s.inFlight, accountID)
	s.mu.Unlock()
}

// GetStatus возвращает статус планировщика
func (s *Scheduler) GetStatus() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	var nextRun time.Time
	if len(entries) > 0 {
		nextRun = entries[0].Next
	}

	return map[string]interface{}{
		"running":   s.running,
		"in_flight": len(s.inFlight),
		"next_run":  nextRun,
	}
}
