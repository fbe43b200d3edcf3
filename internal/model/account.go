// Package model содержит модели данных.
//
// Группа: ENTITIES - Основные сущности
// Содержит: Account, AccountRepository
package model

import (
	"time"

	"github.com/uptrace/bun"
)

// Account представляет отслеживаемый аккаунт
type Account struct {
	bun.BaseModel `bun:"table:accounts"`

	AccountID      int64  `bun:"account_id,pk,autoincrement" json:"account_id"`
	Username       string `bun:"username,unique,notnull" json:"username"`
	FormerUsername string `bun:"former_username" json:"former_username,omitempty"`
	InstagramID    string `bun:"instagram_id" json:"instagram_id,omitempty"`

	FullName    string `bun:"full_name" json:"full_name,omitempty"`
	Biography   string `bun:"biography" json:"biography,omitempty"`
	ExternalURL string `bun:"external_url" json:"external_url,omitempty"`
	AvatarURL   string `bun:"avatar_url" json:"avatar_url,omitempty"`

	FollowedBy int `bun:"followed_by,notnull,default:0" json:"followed_by"`
	Follows    int `bun:"follows,notnull,default:0" json:"follows"`
	MediaCount int `bun:"media_count,notnull,default:0" json:"media_count"`

	IsPrivate        bool             `bun:"is_private,notnull,default:false" json:"is_private"`
	IsValid          bool             `bun:"is_valid,notnull,default:true" json:"is_valid"`
	InvalidationType InvalidationType `bun:"invalidation_type" json:"invalidation_type,omitempty"`

	NextStatsUpdateAt time.Time `bun:"next_stats_update_at,notnull,default:current_timestamp" json:"next_stats_update_at"`
	CreatedAt         time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt         time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// Idents возвращает идентификаторы аккаунта для разрешения на удаленном сайте.
// Текущий username пробуется первым, исторический — вторым; пустые отбрасываются.
func (a *Account) Idents() []string {
	idents := make([]string, 0, 2)
	for _, ident := range []string{a.Username, a.FormerUsername} {
		if ident != "" {
			idents = append(idents, ident)
		}
	}
	return idents
}

// Validate проверяет валидность аккаунта
func (a *Account) Validate() error {
	var errors ValidationErrors

	if err := ValidateRequired("username", a.Username); err != nil {
		errors = append(errors, err.(ValidationError))
	}

	if err := ValidateLength("username", a.Username, 1, 30); err != nil {
		errors = append(errors, err.(ValidationError))
	}

	if !a.InvalidationType.IsValid() {
		errors = append(errors, ValidationError{Field: "invalidation_type", Message: "unknown invalidation type"})
	}

	if errors.HasErrors() {
		return errors
	}

	return nil
}

// AccountRepository определяет интерфейс для работы с аккаунтами
type AccountRepository interface {
	GetByID(id int64) (*Account, error)
	GetByUsername(username string) (*Account, error)
	GetDue(limit int) ([]Account, error)
	Create(account *Account) error
	Update(account *Account) error
	Delete(id int64) error
}
