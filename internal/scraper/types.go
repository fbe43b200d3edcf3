// Package scraper содержит клиент для получения данных аккаунтов с удаленного сайта.
package scraper

import (
	"time"

	"igmonitor/internal/config"
)

// AccountData представляет снимок профиля, полученный с удаленного сайта.
// Живет только в течение одного прогона обновления.
type AccountData struct {
	InstagramID string
	Username    string
	FullName    string
	Biography   string
	ExternalURL string
	AvatarURL   string
	IsPrivate   bool
	FollowedBy  int
	Follows     int
	MediaCount  int
}

// Post представляет один пост из ленты профиля
type Post struct {
	Shortcode    string
	Caption      string
	LikeCount    int
	CommentCount int
	IsVideo      bool
	TakenAt      time.Time
}

// Config представляет конфигурацию скрейпера
type Config struct {
	BaseURL          string
	UserAgent        string
	PostsLimit       int
	RequestDelay     time.Duration
	HTTPClientConfig config.HTTPClientConfig
	RetryConfig      config.RetryConfig
}
