// Package proxy содержит пул прокси для маршрутизации запросов скрейпера.
package proxy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"igmonitor/internal/model"

	"go.uber.org/zap"
)

// ErrPoolExhausted возвращается, когда в пуле нет свободных прокси
var ErrPoolExhausted = errors.New("no free proxy available")

// Pool выдает прокси в аренду на один прогон обновления.
//
// Учет аренды живет в базе (колонка in_use резервируется атомарно), поэтому
// пул безопасен для конкурентных прогонов и для нескольких экземпляров
// монитора над одной базой.
type Pool struct {
	repo          model.ProxyRepository
	burntCooldown time.Duration
	logger        *zap.Logger
}

// NewPool создает новый пул прокси
func NewPool(repo model.ProxyRepository, burntCooldown time.Duration, logger *zap.Logger) *Pool {
	return &Pool{
		repo:          repo,
		burntCooldown: burntCooldown,
		logger:        logger,
	}
}

// Reserve резервирует свободный прокси.
// Сожженные прокси не выдаются, пока не истечет их cooldown.
func (p *Pool) Reserve(ctx context.Context) (*model.Proxy, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reserved, err := p.repo.Acquire(p.burntCooldown)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire proxy: %w", err)
	}
	if reserved == nil {
		return nil, ErrPoolExhausted
	}

	p.logger.Debug("Proxy reserved",
		zap.Int64("proxy_id", reserved.ProxyID),
		zap.String("host", reserved.Host))

	return reserved, nil
}

// Release возвращает прокси в пул. burnt=true помечает прокси засвеченным:
// выдача такого прокси откладывается на burntCooldown.
func (p *Pool) Release(reserved *model.Proxy, burnt bool) {
	if reserved == nil {
		return
	}

	if err := p.repo.Release(reserved.ProxyID, burnt); err != nil {
		p.logger.Error("Failed to release proxy",
			zap.Int64("proxy_id", reserved.ProxyID),
			zap.Bool("burnt", burnt),
			zap.Error(err))
		return
	}

	if burnt {
		p.logger.Warn("Proxy released as burnt",
			zap.Int64("proxy_id", reserved.ProxyID),
			zap.String("host", reserved.Host))
	} else {
		p.logger.Debug("Proxy released",
			zap.Int64("proxy_id", reserved.ProxyID))
	}
}

// FreeCount возвращает количество свободных прокси в пуле
func (p *Pool) FreeCount() (int, error) {
	return p.repo.GetFreeCount(p.burntCooldown)
}
