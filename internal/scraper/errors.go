// Package scraper содержит клиент для получения данных аккаунтов с удаленного сайта.
package scraper

import (
	"errors"
	"fmt"
)

// Kind представляет вид ошибки удаленного запроса.
// Набор закрытый: классификация исходов обновления перебирает его целиком.
type Kind int

// Виды ошибок удаленного запроса
const (
	// KindNotFound профиль не найден (404 / bad request)
	KindNotFound Kind = iota
	// KindRestricted сайт ограничил доступ к профилю
	KindRestricted
	// KindLoginWall запрос перехвачен страницей логина/регистрации: сигнал,
	// что прокси засвечен, а не что аккаунт сломан
	KindLoginWall
	// KindTransport сетевая ошибка, таймаут или неожиданный HTTP статус
	KindTransport
)

// String возвращает строковое представление вида ошибки
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindRestricted:
		return "restricted"
	case KindLoginWall:
		return "login_wall"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// Error представляет ошибку удаленного запроса с закрытым видом
type Error struct {
	Kind  Kind
	Ident string
	Err   error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %q: %s: %v", e.Ident, e.Kind, e.Err)
	}
	return fmt.Sprintf("fetch %q: %s", e.Ident, e.Kind)
}

// Unwrap возвращает вложенную ошибку
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError создает ошибку удаленного запроса
func NewError(kind Kind, ident string, err error) *Error {
	return &Error{Kind: kind, Ident: ident, Err: err}
}

// KindOf возвращает вид ошибки и true, если err — ошибка скрейпера
func KindOf(err error) (Kind, bool) {
	var scraperErr *Error
	if errors.As(err, &scraperErr) {
		return scraperErr.Kind, true
	}
	return 0, false
}

// IsKind проверяет, что err — ошибка скрейпера указанного вида
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
