package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"igmonitor/internal/config"
	"igmonitor/internal/model"
	"igmonitor/internal/worker"

	"go.uber.org/zap"
)

type fakeQueue struct {
	mu        sync.Mutex
	jobs      []worker.Job
	submitErr error
}

func (q *fakeQueue) Submit(job worker.Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.submitErr != nil {
		return q.submitErr
	}
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *fakeQueue) drain() int {
	q.mu.Lock()
	jobs := q.jobs
	q.jobs = nil
	q.mu.Unlock()

	for _, job := range jobs {
		_ = job.Handler()
	}
	return len(jobs)
}

type fakeRefresher struct {
	mu   sync.Mutex
	runs []string
}

func (r *fakeRefresher) Run(ctx context.Context, account *model.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, account.Username)
	return nil
}

type fakeAccounts struct {
	due    []model.Account
	dueErr error
}

func (f *fakeAccounts) GetByID(id int64) (*model.Account, error)       { return nil, nil }
func (f *fakeAccounts) GetByUsername(u string) (*model.Account, error) { return nil, nil }
func (f *fakeAccounts) GetDue(limit int) ([]model.Account, error) {
	if f.dueErr != nil {
		return nil, f.dueErr
	}
	if limit < len(f.due) {
		return f.due[:limit], nil
	}
	return f.due, nil
}
func (f *fakeAccounts) Create(account *model.Account) error { return nil }
func (f *fakeAccounts) Update(account *model.Account) error { return nil }
func (f *fakeAccounts) Delete(id int64) error               { return nil }

func newTestScheduler(accounts model.AccountRepository, refresher Refresher, queue JobQueue) *Scheduler {
	cfg := config.SchedulerConfig{
		DueCheckSpec: "@every 1m",
		BatchSize:    10,
		Workers:      1,
		QueueSize:    10,
	}
	return NewScheduler(accounts, refresher, queue, cfg, zap.NewNop())
}

func TestScheduler_CheckDueAccounts(t *testing.T) {
	accounts := &fakeAccounts{due: []model.Account{
		{AccountID: 1, Username: "alpha"},
		{AccountID: 2, Username: "beta"},
	}}
	refresher := &fakeRefresher{}
	queue := &fakeQueue{}

	s := newTestScheduler(accounts, refresher, queue)
	s.checkDueAccounts()

	if got := queue.drain(); got != 2 {
		t.Fatalf("submitted jobs = %d, want 2", got)
	}
	if len(refresher.runs) != 2 {
		t.Errorf("refresh runs = %d, want 2", len(refresher.runs))
	}
}

func TestScheduler_InFlightDedup(t *testing.T) {
	refresher := &fakeRefresher{}
	queue := &fakeQueue{}

	s := newTestScheduler(&fakeAccounts{}, refresher, queue)
	account := model.Account{AccountID: 7, Username: "gamma"}

	if !s.submitAccount(account) {
		t.Fatal("first submit should succeed")
	}
	// Прогон еще в очереди: повторная постановка не допускается
	if s.submitAccount(account) {
		t.Error("second submit should be skipped while job is in flight")
	}

	queue.drain()

	// После завершения прогона аккаунт снова доступен
	if !s.submitAccount(account) {
		t.Error("submit after completion should succeed")
	}
}

func TestScheduler_SubmitFailureClearsInFlight(t *testing.T) {
	refresher := &fakeRefresher{}
	queue := &fakeQueue{submitErr: fmt.Errorf("queue is full")}

	s := newTestScheduler(&fakeAccounts{}, refresher, queue)
	account := model.Account{AccountID: 3, Username: "delta"}

	if s.submitAccount(account) {
		t.Fatal("submit should fail when queue rejects the job")
	}

	queue.submitErr = nil
	if !s.submitAccount(account) {
		t.Error("submit after queue failure should succeed")
	}
}

func TestScheduler_StartStop(t *testing.T) {
	s := newTestScheduler(&fakeAccounts{}, &fakeRefresher{}, &fakeQueue{})

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := s.Start(); err == nil {
		t.Error("second Start() should fail")
	}

	s.Stop()

	status := s.GetStatus()
	if status["running"].(bool) {
		t.Error("scheduler should not be running after Stop()")
	}
}
