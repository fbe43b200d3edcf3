// Package model содержит модели данных.
//
// Группа: ENTITIES - Основные сущности
// Содержит: Proxy, ProxyRepository
package model

import (
	"fmt"
	"net/url"
	"time"

	"github.com/uptrace/bun"
)

// Proxy представляет прокси из пула
type Proxy struct {
	bun.BaseModel `bun:"table:proxies"`

	ProxyID  int64  `bun:"proxy_id,pk,autoincrement" json:"proxy_id"`
	Scheme   string `bun:"scheme,notnull,default:'http'" json:"scheme"`
	Host     string `bun:"host,notnull" json:"host"`
	Port     int    `bun:"port,notnull" json:"port"`
	Username string `bun:"username" json:"username,omitempty"`
	Password string `bun:"password" json:"-"`

	IsActive   bool      `bun:"is_active,notnull,default:true" json:"is_active"`
	InUse      bool      `bun:"in_use,notnull,default:false" json:"in_use"`
	BurntAt    time.Time `bun:"burnt_at,nullzero" json:"burnt_at,omitempty"`
	LastUsedAt time.Time `bun:"last_used_at,nullzero" json:"last_used_at,omitempty"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// URL возвращает адрес прокси для http.Transport
func (p *Proxy) URL() *url.URL {
	u := &url.URL{
		Scheme: p.Scheme,
		Host:   fmt.Sprintf("%s:%d", p.Host, p.Port),
	}
	if p.Username != "" {
		u.User = url.UserPassword(p.Username, p.Password)
	}
	return u
}

// Validate проверяет валидность прокси
func (p *Proxy) Validate() error {
	var errors ValidationErrors

	if err := ValidateRequired("host", p.Host); err != nil {
		errors = append(errors, err.(ValidationError))
	}

	if p.Port <= 0 || p.Port > 65535 {
		errors = append(errors, ValidationError{Field: "port", Message: "must be between 1 and 65535"})
	}

	switch p.Scheme {
	case "http", "https", "socks5":
	default:
		errors = append(errors, ValidationError{Field: "scheme", Message: "must be http, https or socks5"})
	}

	if errors.HasErrors() {
		return errors
	}

	return nil
}

// ProxyRepository определяет интерфейс для работы с пулом прокси
type ProxyRepository interface {
	// Acquire атомарно резервирует свободный прокси; возвращает nil, если пул пуст
	Acquire(burntCooldown time.Duration) (*Proxy, error)
	// Release возвращает прокси в пул, помечая его сожженным при burnt=true
	Release(proxyID int64, burnt bool) error
	Create(proxy *Proxy) error
	GetFreeCount(burntCooldown time.Duration) (int, error)
}
