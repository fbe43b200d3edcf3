// Package repository содержит репозитории для работы с базой данных.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"igmonitor/internal/model"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// ProxyRepository реализует интерфейс для работы с пулом прокси
type ProxyRepository struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewProxyRepository создает новый репозиторий прокси
func NewProxyRepository(db *bun.DB, logger *zap.Logger) *ProxyRepository {
	return &ProxyRepository{
		db:     db,
		logger: logger,
	}
}

// Acquire атомарно резервирует наименее недавно использованный свободный прокси.
// Сожженные прокси пропускаются, пока не истечет cooldown. SKIP LOCKED
// позволяет конкурентным прогонам резервировать без взаимной блокировки.
// Возвращает nil без ошибки, если свободных прокси нет.
func (r *ProxyRepository) Acquire(burntCooldown time.Duration) (*model.Proxy, error) {
	ctx := context.Background()
	reserved := new(model.Proxy)

	err := r.db.NewRaw(`
		UPDATE proxies
		SET in_use = TRUE, last_used_at = now(), updated_at = now()
		WHERE proxy_id = (
			SELECT proxy_id FROM proxies
			WHERE is_active
			  AND NOT in_use
			  AND (burnt_at IS NULL OR burnt_at < now() - make_interval(secs => ?))
			ORDER BY last_used_at ASC NULLS FIRST
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING *`,
		burntCooldown.Seconds(),
	).Scan(ctx, reserved)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to acquire proxy: %w", err)
	}

	return reserved, nil
}

// Release возвращает прокси в пул; burnt=true ставит отметку о сожжении
func (r *ProxyRepository) Release(proxyID int64, burnt bool) error {
	ctx := context.Background()

	query := r.db.NewUpdate().
		Model((*model.Proxy)(nil)).
		Set("in_use = FALSE").
		Set("updated_at = now()").
		Where("proxy_id = ?", proxyID)

	if burnt {
		query = query.Set("burnt_at = now()")
	}

	if _, err := query.Exec(ctx); err != nil {
		return fmt.Errorf("failed to release proxy: %w", err)
	}

	return nil
}

// Create добавляет прокси в пул
func (r *ProxyRepository) Create(p *model.Proxy) error {
	ctx := context.Background()

	if err := p.Validate(); err != nil {
		return fmt.Errorf("failed to validate proxy: %w", err)
	}

	_, err := r.db.NewInsert().
		Model(p).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to create proxy: %w", err)
	}

	return nil
}

// GetFreeCount возвращает количество свободных прокси
func (r *ProxyRepository) GetFreeCount(burntCooldown time.Duration) (int, error) {
	ctx := context.Background()

	count, err := r.db.NewSelect().
		Model((*model.Proxy)(nil)).
		Where("is_active").
		Where("NOT in_use").
		Where("burnt_at IS NULL OR burnt_at < now() - make_interval(secs => ?)", burntCooldown.Seconds()).
		Count(ctx)

	if err != nil {
		return 0, fmt.Errorf("failed to count free proxies: %w", err)
	}

	return count, nil
}
