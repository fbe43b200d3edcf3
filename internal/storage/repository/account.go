// Package repository содержит репозитории для работы с базой данных.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"igmonitor/internal/model"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// AccountRepository реализует интерфейс для работы с аккаунтами
type AccountRepository struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewAccountRepository создает новый репозиторий аккаунтов
func NewAccountRepository(db *bun.DB, logger *zap.Logger) *AccountRepository {
	return &AccountRepository{
		db:     db,
		logger: logger,
	}
}

// GetByID возвращает аккаунт по ID
func (r *AccountRepository) GetByID(id int64) (*model.Account, error) {
	ctx := context.Background()
	account := new(model.Account)

	err := r.db.NewSelect().
		Model(account).
		Where("account_id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query account by ID: %w", err)
	}

	return account, nil
}

// GetByUsername возвращает аккаунт по имени (нечувствительно к регистру)
func (r *AccountRepository) GetByUsername(username string) (*model.Account, error) {
	ctx := context.Background()
	account := new(model.Account)

	normalized := strings.ToLower(strings.TrimSpace(username))

	err := r.db.NewSelect().
		Model(account).
		Where("LOWER(username) = ?", normalized).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query account by username: %w", err)
	}

	return account, nil
}

// GetDue возвращает аккаунты, которым пора обновить статистику
func (r *AccountRepository) GetDue(limit int) ([]model.Account, error) {
	ctx := context.Background()
	var accounts []model.Account

	err := r.db.NewSelect().
		Model(&accounts).
		Where("next_stats_update_at <= ?", time.Now()).
		Order("next_stats_update_at ASC").
		Limit(limit).
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to query due accounts: %w", err)
	}

	return accounts, nil
}

// Create создает новый аккаунт
func (r *AccountRepository) Create(account *model.Account) error {
	ctx := context.Background()

	account.Username = strings.TrimSpace(account.Username)
	if err := account.Validate(); err != nil {
		return fmt.Errorf("failed to validate account: %w", err)
	}

	_, err := r.db.NewInsert().
		Model(account).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// Update обновляет аккаунт
func (r *AccountRepository) Update(account *model.Account) error {
	ctx := context.Background()

	_, err := r.db.NewUpdate().
		Model(account).
		WherePK().
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}

	return nil
}

// Delete удаляет аккаунт
func (r *AccountRepository) Delete(id int64) error {
	ctx := context.Background()

	_, err := r.db.NewDelete().
		Model((*model.Account)(nil)).
		Where("account_id = ?", id).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	return nil
}
