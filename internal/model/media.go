// Package model содержит модели данных.
//
// Группа: ENTITIES - Основные сущности
// Содержит: Media, MediaRepository
package model

import (
	"time"

	"github.com/uptrace/bun"
)

// Media представляет пост аккаунта
type Media struct {
	bun.BaseModel `bun:"table:media"`

	MediaID   int64  `bun:"media_id,pk,autoincrement" json:"media_id"`
	AccountID int64  `bun:"account_id,notnull" json:"account_id"`
	Shortcode string `bun:"shortcode,unique,notnull" json:"shortcode"`

	Caption       string    `bun:"caption" json:"caption,omitempty"`
	LikeCount     int       `bun:"like_count,notnull,default:0" json:"like_count"`
	CommentCount  int       `bun:"comment_count,notnull,default:0" json:"comment_count"`
	IsVideo       bool      `bun:"is_video,notnull,default:false" json:"is_video"`
	TakenAt       time.Time `bun:"taken_at" json:"taken_at"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// Validate проверяет валидность поста
func (m *Media) Validate() error {
	var errors ValidationErrors

	if err := ValidateRequired("shortcode", m.Shortcode); err != nil {
		errors = append(errors, err.(ValidationError))
	}

	if m.AccountID == 0 {
		errors = append(errors, ValidationError{Field: "account_id", Message: "is required"})
	}

	if errors.HasErrors() {
		return errors
	}

	return nil
}

// MediaRepository определяет интерфейс для работы с постами
type MediaRepository interface {
	GetByAccount(accountID int64) ([]Media, error)
	Upsert(media []Media) error
	Delete(id int64) error
}
