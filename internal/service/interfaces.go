package service

import (
	"context"

	"igmonitor/internal/model"
	"igmonitor/internal/worker"
)

// Refresher выполняет один прогон обновления аккаунта
type Refresher interface {
	Run(ctx context.Context, account *model.Account) error
}

// JobQueue принимает прогоны на выполнение
type JobQueue interface {
	Submit(job worker.Job) error
}
