// Package refresher содержит оркестрацию обновления аккаунтов.
//
// Группа: RESOLUTION - Разрешение аккаунта по идентификаторам
// Содержит: Resolver
package refresher

import (
	"context"

	"igmonitor/internal/model"
	"igmonitor/internal/scraper"

	"go.uber.org/zap"
)

// Resolver разрешает данные аккаунта, перебирая его идентификаторы
type Resolver struct {
	logger *zap.Logger
}

// NewResolver создает новый резолвер
func NewResolver(logger *zap.Logger) *Resolver {
	return &Resolver{
		logger: logger,
	}
}

// Resolve пробует идентификаторы аккаунта по очереди, пока один не даст
// авторитетные данные.
//
// Не разрешившийся идентификатор (not found) не прерывает перебор: аккаунт мог
// сменить публичное имя, следующий кандидат еще может сработать. Несовпадение
// известного remote id тоже двигает перебор дальше: после переименования тот же
// username может занять чужой профиль. Любая другая ошибка (ограничение сайта,
// login wall, сетевой сбой) не зависит от выбора идентификатора и
// поднимается сразу.
func (r *Resolver) Resolve(ctx context.Context, account *model.Account, client AccountClient) (*scraper.AccountData, error) {
	for _, ident := range account.Idents() {
		data, err := client.FetchOne(ctx, ident)
		if err != nil {
			if scraper.IsKind(err, scraper.KindNotFound) {
				r.logger.Warn("Ident did not resolve, trying next",
					zap.String("username", account.Username),
					zap.String("ident", ident),
					zap.Error(err))
				continue
			}
			return nil, err
		}

		if account.InstagramID != "" && data.InstagramID != account.InstagramID {
			r.logger.Warn("Remote id mismatch, trying next ident",
				zap.String("username", account.Username),
				zap.String("ident", ident),
				zap.String("known_id", account.InstagramID),
				zap.String("fetched_id", data.InstagramID))
			continue
		}

		return data, nil
	}

	return nil, scraper.NewError(scraper.KindNotFound, account.Username, nil)
}
