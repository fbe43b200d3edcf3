// Package repository содержит репозитории для работы с базой данных.
package repository

import (
	"context"
	"fmt"

	"igmonitor/internal/model"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// MediaRepository реализует интерфейс для работы с постами
type MediaRepository struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewMediaRepository создает новый репозиторий постов
func NewMediaRepository(db *bun.DB, logger *zap.Logger) *MediaRepository {
	return &MediaRepository{
		db:     db,
		logger: logger,
	}
}

// GetByAccount возвращает посты аккаунта, новые первыми
func (r *MediaRepository) GetByAccount(accountID int64) ([]model.Media, error) {
	ctx := context.Background()
	var media []model.Media

	err := r.db.NewSelect().
		Model(&media).
		Where("account_id = ?", accountID).
		Order("taken_at DESC").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to query media by account: %w", err)
	}

	return media, nil
}

// Upsert вставляет посты, обновляя счетчики у уже известных shortcode
func (r *MediaRepository) Upsert(media []model.Media) error {
	if len(media) == 0 {
		return nil
	}

	ctx := context.Background()

	_, err := r.db.NewInsert().
		Model(&media).
		On("CONFLICT (shortcode) DO UPDATE").
		Set("caption = EXCLUDED.caption").
		Set("like_count = EXCLUDED.like_count").
		Set("comment_count = EXCLUDED.comment_count").
		Set("updated_at = current_timestamp").
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to upsert media: %w", err)
	}

	return nil
}

// Delete удаляет пост
func (r *MediaRepository) Delete(id int64) error {
	ctx := context.Background()

	_, err := r.db.NewDelete().
		Model((*model.Media)(nil)).
		Where("media_id = ?", id).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to delete media: %w", err)
	}

	return nil
}
