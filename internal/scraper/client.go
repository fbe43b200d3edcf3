// Package scraper содержит клиент для получения данных аккаунтов с удаленного сайта.
//
// Клиент привязывается к конкретному прокси на время одного прогона обновления:
// фабрика собирает http.Transport с адресом прокси, все запросы аккаунта идут
// через него.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

// errLoginRedirect прерывает redirect на страницу логина внутри http.Client
var errLoginRedirect = fmt.Errorf("redirected to login page")

// Factory создает клиентов, привязанных к прокси
type Factory struct {
	config Config
	logger *zap.Logger
}

// NewFactory создает новую фабрику клиентов
func NewFactory(config Config, logger *zap.Logger) *Factory {
	return &Factory{
		config: config,
		logger: logger,
	}
}

// NewClient создает клиент, маршрутизирующий запросы через указанный прокси
func (f *Factory) NewClient(proxyURL *url.URL) *Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyURL(proxyURL),
		MaxIdleConns:          f.config.HTTPClientConfig.MaxIdleConns,
		MaxIdleConnsPerHost:   f.config.HTTPClientConfig.MaxIdleConnsPerHost,
		IdleConnTimeout:       f.config.HTTPClientConfig.IdleConnTimeout,
		TLSHandshakeTimeout:   f.config.HTTPClientConfig.TLSHandshakeTimeout,
		ResponseHeaderTimeout: f.config.HTTPClientConfig.ResponseHeaderTimeout,
		DisableKeepAlives:     f.config.HTTPClientConfig.DisableKeepAlives,
	}

	return &Client{
		config:    f.config,
		transport: transport,
		logger:    f.logger.With(zap.String("proxy", proxyURL.Host)),
	}
}

// Client представляет клиент удаленного сайта, привязанный к одному прокси
type Client struct {
	config    Config
	transport *http.Transport
	logger    *zap.Logger
}

// FetchOne получает данные профиля по идентификатору
func (c *Client) FetchOne(ctx context.Context, ident string) (*AccountData, error) {
	account, _, err := c.fetchProfile(ctx, ident)
	return account, err
}

// FetchLastPosts получает последние посты профиля
func (c *Client) FetchLastPosts(ctx context.Context, username string) ([]Post, error) {
	_, posts, err := c.fetchProfile(ctx, username)
	if err != nil {
		return nil, err
	}
	if len(posts) > c.config.PostsLimit {
		posts = posts[:c.config.PostsLimit]
	}
	return posts, nil
}

// fetchProfile загружает страницу профиля и разбирает снимок аккаунта с постами
func (c *Client) fetchProfile(ctx context.Context, ident string) (*AccountData, []Post, error) {
	pageURL := fmt.Sprintf("%s/%s/", strings.TrimSuffix(c.config.BaseURL, "/"), url.PathEscape(ident))

	var body []byte
	var statusCode int

	visit := func() error {
		collector := c.newCollector()

		collector.OnResponse(func(r *colly.Response) {
			body = r.Body
		})
		collector.OnError(func(r *colly.Response, err error) {
			if r != nil {
				statusCode = r.StatusCode
			}
		})

		c.logger.Debug("Fetching profile page", zap.String("url", pageURL))
		return collector.Visit(pageURL)
	}

	// Повторяем только transport-уровень; классифицированные ошибки не ретраим
	err := WithRetry(ctx, c.logger, c.config.RetryConfig, func() error {
		statusCode = 0
		visitErr := visit()
		if visitErr != nil && classifyVisitError(visitErr, statusCode) != KindTransport {
			return Permanent(visitErr)
		}
		return visitErr
	})

	if err != nil {
		kind := classifyVisitError(err, statusCode)
		c.logger.Debug("Profile fetch failed",
			zap.String("ident", ident),
			zap.String("kind", kind.String()),
			zap.Int("status", statusCode),
			zap.Error(err))
		return nil, nil, NewError(kind, ident, err)
	}

	account, posts, parseErr := parseProfilePage(body)
	if parseErr != nil {
		if errors.Is(parseErr, errLoginPage) {
			return nil, nil, NewError(KindLoginWall, ident, parseErr)
		}
		return nil, nil, NewError(KindTransport, ident, parseErr)
	}

	return account, posts, nil
}

// newCollector создает colly-коллектор, маршрутизирующий запросы через прокси клиента
func (c *Client) newCollector() *colly.Collector {
	collector := colly.NewCollector(
		colly.UserAgent(c.config.UserAgent),
		colly.MaxDepth(1),
		colly.AllowURLRevisit(),
	)

	collector.WithTransport(c.transport)
	collector.SetRequestTimeout(c.config.HTTPClientConfig.Timeout)

	// Редирект на страницу логина означает, что прокси засвечен
	collector.SetRedirectHandler(func(req *http.Request, via []*http.Request) error {
		if isLoginURL(req.URL) {
			return errLoginRedirect
		}
		if len(via) >= 5 {
			return fmt.Errorf("too many redirects")
		}
		return nil
	})

	_ = collector.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 1,
		Delay:       c.config.RequestDelay,
	})

	return collector
}

// classifyVisitError сводит ошибку HTTP-запроса к закрытому виду
func classifyVisitError(err error, statusCode int) Kind {
	if errors.Is(err, errLoginRedirect) {
		return KindLoginWall
	}

	switch statusCode {
	case http.StatusNotFound, http.StatusBadRequest:
		return KindNotFound
	case http.StatusForbidden:
		return KindRestricted
	}

	return KindTransport
}

// isLoginURL проверяет, ведет ли URL на страницу логина/регистрации
func isLoginURL(u *url.URL) bool {
	path := u.Path
	return strings.HasPrefix(path, "/accounts/login") || strings.HasPrefix(path, "/accounts/signup")
}
