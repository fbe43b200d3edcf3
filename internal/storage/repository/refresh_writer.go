// Package repository содержит репозитории для работы с базой данных.
package repository

import (
	"context"
	"fmt"
	"time"

	"igmonitor/internal/config"
	"igmonitor/internal/model"
	"igmonitor/internal/refresher"
	"igmonitor/internal/scraper"

	"go.uber.org/zap"
)

// RefreshWriter применяет решение прогона обновления к хранимому аккаунту
// и его постам. Реализует refresher.AccountWriter и refresher.MediaWriter.
type RefreshWriter struct {
	accounts model.AccountRepository
	media    model.MediaRepository
	policy   config.RefreshConfig
	now      func() time.Time
	logger   *zap.Logger
}

// NewRefreshWriter создает новый писатель результатов обновления
func NewRefreshWriter(accounts model.AccountRepository, media model.MediaRepository, policy config.RefreshConfig, logger *zap.Logger) *RefreshWriter {
	return &RefreshWriter{
		accounts: accounts,
		media:    media,
		policy:   policy,
		now:      time.Now,
		logger:   logger,
	}
}

// Persist сохраняет решение прогона: детали профиля, состояние инвалидации
// и время следующего обновления
func (w *RefreshWriter) Persist(ctx context.Context, account *model.Account, decision refresher.Decision) error {
	now := w.now()

	if invalidation, changed := decision.Invalidation(); changed {
		account.InvalidationType = invalidation
		account.IsValid = invalidation == model.InvalidationNone
	}

	switch decision.Outcome {
	case refresher.OutcomeUpdated:
		w.applyAccountData(account, decision.Data)
		account.IsPrivate = false
	case refresher.OutcomeMarkedPrivate:
		account.IsPrivate = true
		// Снимок приватного профиля все равно несет публичные счетчики
		if decision.Data != nil {
			w.applyAccountData(account, decision.Data)
		}
	}

	account.NextStatsUpdateAt = now.Add(w.policyDelay(decision.Policy))
	account.UpdatedAt = now

	if err := w.accounts.Update(account); err != nil {
		return fmt.Errorf("failed to persist refresh decision: %w", err)
	}

	w.logger.Debug("Refresh decision persisted",
		zap.String("username", account.Username),
		zap.String("outcome", decision.Outcome.String()),
		zap.Time("next_update", account.NextStatsUpdateAt))

	return nil
}

// AttachPosts привязывает посты прогона к аккаунту
func (w *RefreshWriter) AttachPosts(ctx context.Context, account *model.Account, posts []scraper.Post) error {
	if len(posts) == 0 {
		return nil
	}

	media := make([]model.Media, 0, len(posts))
	for _, post := range posts {
		media = append(media, model.Media{
			AccountID:    account.AccountID,
			Shortcode:    post.Shortcode,
			Caption:      post.Caption,
			LikeCount:    post.LikeCount,
			CommentCount: post.CommentCount,
			IsVideo:      post.IsVideo,
			TakenAt:      post.TakenAt,
		})
	}

	if err := w.media.Upsert(media); err != nil {
		return fmt.Errorf("failed to attach posts: %w", err)
	}

	return nil
}

// applyAccountData переносит снимок профиля в хранимый аккаунт.
// Переименование отслеживается: прежний username сохраняется как исторический
// идентификатор для последующих разрешений.
func (w *RefreshWriter) applyAccountData(account *model.Account, data *scraper.AccountData) {
	if data.Username != "" && data.Username != account.Username {
		account.FormerUsername = account.Username
		account.Username = data.Username
	}

	account.InstagramID = data.InstagramID
	account.FullName = data.FullName
	account.Biography = data.Biography
	account.ExternalURL = data.ExternalURL
	account.AvatarURL = data.AvatarURL
	account.FollowedBy = data.FollowedBy
	account.Follows = data.Follows
	account.MediaCount = data.MediaCount
}

// policyDelay переводит политику следующего обновления в интервал
func (w *RefreshWriter) policyDelay(policy refresher.NextUpdatePolicy) time.Duration {
	switch policy {
	case refresher.PolicyImmediate:
		return w.policy.FailureBackoff
	case refresher.PolicyNearRetry:
		return w.policy.LoginWallRetryDelay
	default:
		return w.policy.StandardInterval
	}
}
