// Package refresher содержит оркестрацию обновления аккаунтов.
//
// Группа: CLASSIFICATION - Классификация исходов прогона
// Содержит: OutcomeKind, NextUpdatePolicy, Decision, Classify
package refresher

import (
	"igmonitor/internal/model"
	"igmonitor/internal/scraper"
)

// OutcomeKind представляет исход одного прогона обновления.
// Набор закрытый: каждый прогон завершается ровно одним из этих исходов.
type OutcomeKind int

// Исходы прогона обновления
const (
	// OutcomeUpdated публичный профиль успешно обновлен
	OutcomeUpdated OutcomeKind = iota
	// OutcomeMarkedPrivate профиль закрыт настройками приватности
	OutcomeMarkedPrivate
	// OutcomeMarkedNotFound ни один идентификатор не разрешился
	OutcomeMarkedNotFound
	// OutcomeMarkedRestricted сайт ограничил доступ к профилю
	OutcomeMarkedRestricted
	// OutcomeRetryLater login wall: проблема прокси, аккаунт не трогаем
	OutcomeRetryLater
	// OutcomeMarkedGenericFailure неклассифицированная сетевая ошибка
	OutcomeMarkedGenericFailure
)

// String возвращает строковое представление исхода
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeUpdated:
		return "updated"
	case OutcomeMarkedPrivate:
		return "marked_private"
	case OutcomeMarkedNotFound:
		return "marked_not_found"
	case OutcomeMarkedRestricted:
		return "marked_restricted"
	case OutcomeRetryLater:
		return "retry_later"
	case OutcomeMarkedGenericFailure:
		return "marked_generic_failure"
	default:
		return "unknown"
	}
}

// NextUpdatePolicy представляет политику планирования следующего обновления
type NextUpdatePolicy int

// Политики планирования следующего обновления
const (
	// PolicyStandard обычный периодический интервал
	PolicyStandard NextUpdatePolicy = iota
	// PolicyImmediate короткий откат: проверить снова как можно скорее
	PolicyImmediate
	// PolicyNearRetry одиночный близкий повтор после login wall
	PolicyNearRetry
)

// Decision представляет решение прогона: исход, политика следующего
// обновления и данные для персистенции
type Decision struct {
	Outcome OutcomeKind
	Policy  NextUpdatePolicy
	Data    *scraper.AccountData
	Posts   []scraper.Post
}

// Invalidation возвращает состояние инвалидации для решения.
// Второе значение false означает, что хранимое состояние не меняется
// (login wall говорит о прокси, а не об аккаунте).
func (d Decision) Invalidation() (model.InvalidationType, bool) {
	switch d.Outcome {
	case OutcomeUpdated:
		return model.InvalidationNone, true
	case OutcomeMarkedPrivate:
		return model.InvalidationPrivate, true
	case OutcomeMarkedNotFound:
		return model.InvalidationNotFound, true
	case OutcomeMarkedRestricted:
		return model.InvalidationRestricted, true
	case OutcomeMarkedGenericFailure:
		return model.InvalidationGeneric, true
	case OutcomeRetryLater:
		return model.InvalidationNone, false
	default:
		return model.InvalidationNone, false
	}
}

// Classify сводит результат сетевой фазы прогона к решению.
// Чистая функция: один и тот же вход всегда дает одно и то же решение.
func Classify(data *scraper.AccountData, posts []scraper.Post, err error) Decision {
	if err != nil {
		kind, ok := scraper.KindOf(err)
		if !ok {
			kind = scraper.KindTransport
		}

		switch kind {
		case scraper.KindNotFound:
			return Decision{Outcome: OutcomeMarkedNotFound, Policy: PolicyImmediate}
		case scraper.KindRestricted:
			return Decision{Outcome: OutcomeMarkedRestricted, Policy: PolicyImmediate}
		case scraper.KindLoginWall:
			return Decision{Outcome: OutcomeRetryLater, Policy: PolicyNearRetry}
		default:
			return Decision{Outcome: OutcomeMarkedGenericFailure, Policy: PolicyImmediate}
		}
	}

	if data.IsPrivate {
		return Decision{Outcome: OutcomeMarkedPrivate, Policy: PolicyImmediate, Data: data}
	}

	return Decision{Outcome: OutcomeUpdated, Policy: PolicyStandard, Data: data, Posts: posts}
}
