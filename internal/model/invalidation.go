// Package model содержит модели данных.
//
// Группа: DICTIONARIES - Словари и константы
// Содержит: InvalidationType
package model

// InvalidationType представляет причину, по которой аккаунт не удалось обновить
type InvalidationType string

// Причины инвалидации аккаунта
const (
	// InvalidationNone аккаунт валиден
	InvalidationNone InvalidationType = ""
	// InvalidationPrivate профиль закрыт настройками приватности
	InvalidationPrivate InvalidationType = "is_private"
	// InvalidationNotFound ни один из идентификаторов не разрешился
	InvalidationNotFound InvalidationType = "not_found"
	// InvalidationRestricted профиль ограничен самим сайтом
	InvalidationRestricted InvalidationType = "restricted_profile"
	// InvalidationGeneric неклассифицированная ошибка сети/HTTP
	InvalidationGeneric InvalidationType = "generic_failure"
)

// IsValid проверяет, что значение входит в словарь
func (t InvalidationType) IsValid() bool {
	switch t {
	case InvalidationNone, InvalidationPrivate, InvalidationNotFound,
		InvalidationRestricted, InvalidationGeneric:
		return true
	}
	return false
}

// String возвращает строковое представление причины
func (t InvalidationType) String() string {
	if t == InvalidationNone {
		return "valid"
	}
	return string(t)
}
