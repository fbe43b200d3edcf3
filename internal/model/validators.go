// Package model содержит модели данных.
//
// Группа: VALIDATION - Валидация моделей
// Содержит: ValidationError, ValidationErrors, хелперы валидации
package model

import (
	"fmt"
	"strings"
)

// ValidationError представляет ошибку валидации одного поля
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors представляет набор ошибок валидации
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	messages := make([]string, 0, len(e))
	for _, err := range e {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

// HasErrors проверяет, есть ли ошибки
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// ValidateRequired проверяет, что строковое поле заполнено
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError{Field: field, Message: "is required"}
	}
	return nil
}

// ValidateLength проверяет длину строкового поля
func ValidateLength(field, value string, min, max int) error {
	if len(value) < min || len(value) > max {
		return ValidationError{Field: field, Message: fmt.Sprintf("length must be between %d and %d", min, max)}
	}
	return nil
}
