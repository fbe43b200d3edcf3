// Package refresher содержит оркестрацию обновления аккаунтов.
//
// Группа: CONTRACTS - Контракты внешних коллабораторов
// Содержит: ProxyPool, ClientFactory, AccountClient, AccountWriter, MediaWriter, Notifier, Metrics
package refresher

import (
	"context"

	"igmonitor/internal/model"
	"igmonitor/internal/scraper"
)

// ProxyPool выдает прокси в аренду на один прогон обновления
type ProxyPool interface {
	// Reserve резервирует свободный прокси; возвращает ошибку с proxy.ErrPoolExhausted,
	// если свободных прокси нет
	Reserve(ctx context.Context) (*model.Proxy, error)
	// Release возвращает прокси в пул; burnt=true помечает его засвеченным
	Release(proxy *model.Proxy, burnt bool)
}

// AccountClient выполняет сетевые запросы к удаленному сайту
type AccountClient interface {
	FetchOne(ctx context.Context, ident string) (*scraper.AccountData, error)
	FetchLastPosts(ctx context.Context, username string) ([]scraper.Post, error)
}

// ClientFactory создает клиент, привязанный к зарезервированному прокси
type ClientFactory interface {
	NewClient(proxy *model.Proxy) AccountClient
}

// AccountWriter применяет решение прогона к хранимому аккаунту
type AccountWriter interface {
	Persist(ctx context.Context, account *model.Account, decision Decision) error
}

// MediaWriter привязывает посты к аккаунту; вызывается только для OutcomeUpdated
type MediaWriter interface {
	AttachPosts(ctx context.Context, account *model.Account, posts []scraper.Post) error
}

// Notifier уведомляет админа о проблемах; реализация может быть no-op
type Notifier interface {
	NotifyAccountInvalidated(account *model.Account, invalidation model.InvalidationType)
	NotifyPoolExhausted()
}

// Metrics записывает исходы прогонов обновления
type Metrics interface {
	RecordOutcome(outcome OutcomeKind)
	RecordUnclassified()
}
