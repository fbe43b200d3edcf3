// Package refresher содержит оркестрацию обновления аккаунтов.
//
// Группа: ORCHESTRATION - Жизненный цикл одного прогона
// Содержит: Orchestrator
package refresher

import (
	"context"
	"errors"
	"fmt"

	"igmonitor/internal/model"
	"igmonitor/internal/proxy"
	"igmonitor/internal/scraper"

	"go.uber.org/zap"
)

// Orchestrator владеет жизненным циклом одного прогона обновления аккаунта:
// аренда прокси, разрешение данных, классификация исхода, персистенция.
//
// Классифицированные ошибки полностью поглощаются и отражаются только в
// сохраненном состоянии аккаунта. Наружу выходят лишь отказ резервирования
// прокси и ошибки персистенции.
type Orchestrator struct {
	pool     ProxyPool
	clients  ClientFactory
	resolver *Resolver
	accounts AccountWriter
	media    MediaWriter
	notifier Notifier
	metrics  Metrics
	logger   *zap.Logger
}

// NewOrchestrator создает новый оркестратор. notifier и metrics опциональны.
func NewOrchestrator(pool ProxyPool, clients ClientFactory, accounts AccountWriter, media MediaWriter, notifier Notifier, metrics Metrics, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		pool:     pool,
		clients:  clients,
		resolver: NewResolver(logger),
		accounts: accounts,
		media:    media,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger,
	}
}

// Run выполняет один прогон обновления аккаунта.
//
// Инвариант: прокси резервируется не более одного раза и возвращается ровно
// один раз, до любых вызовов персистенции. Сожженным прокси помечается только
// при login wall: это сигнал о здоровье прокси, а не аккаунта.
func (o *Orchestrator) Run(ctx context.Context, account *model.Account) error {
	reserved, err := o.pool.Reserve(ctx)
	if err != nil {
		// Ни один идентификатор даже не пробовался: состояние аккаунта не трогаем
		if errors.Is(err, proxy.ErrPoolExhausted) && o.notifier != nil {
			o.notifier.NotifyPoolExhausted()
		}
		if o.metrics != nil {
			o.metrics.RecordUnclassified()
		}
		return fmt.Errorf("failed to reserve proxy for %q: %w", account.Username, err)
	}

	released := false
	release := func(burnt bool) {
		if released {
			return
		}
		released = true
		o.pool.Release(reserved, burnt)
	}
	// Страховка: аренда не переживает прогон ни на одном пути выхода
	defer release(false)

	client := o.clients.NewClient(reserved)
	data, posts, fetchErr := o.fetchPhase(ctx, account, client)

	// Единственная точка возврата прокси: сетевая фаза закончена,
	// персистенции сеть не нужна
	release(scraper.IsKind(fetchErr, scraper.KindLoginWall))

	decision := Classify(data, posts, fetchErr)

	o.logger.Info("Refresh run classified",
		zap.String("username", account.Username),
		zap.String("outcome", decision.Outcome.String()),
		zap.Error(fetchErr))

	if err := o.accounts.Persist(ctx, account, decision); err != nil {
		return fmt.Errorf("failed to persist refresh decision for %q: %w", account.Username, err)
	}

	if decision.Outcome == OutcomeUpdated {
		if err := o.media.AttachPosts(ctx, account, decision.Posts); err != nil {
			return fmt.Errorf("failed to attach posts to %q: %w", account.Username, err)
		}
	}

	if o.metrics != nil {
		o.metrics.RecordOutcome(decision.Outcome)
	}

	if invalidation, changed := decision.Invalidation(); o.notifier != nil && changed && invalidation != model.InvalidationNone {
		o.notifier.NotifyAccountInvalidated(account, invalidation)
	}

	return nil
}

// fetchPhase выполняет сетевую часть прогона: разрешение профиля и,
// для публичного аккаунта, загрузку последних постов тем же клиентом
func (o *Orchestrator) fetchPhase(ctx context.Context, account *model.Account, client AccountClient) (*scraper.AccountData, []scraper.Post, error) {
	data, err := o.resolver.Resolve(ctx, account, client)
	if err != nil {
		return nil, nil, err
	}

	// Приватный профиль: постов не видно, лента не запрашивается
	if data.IsPrivate {
		return data, nil, nil
	}

	posts, err := client.FetchLastPosts(ctx, data.Username)
	if err != nil {
		return data, nil, err
	}

	return data, posts, nil
}
