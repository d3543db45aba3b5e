package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenSource выдаёт bearer токены одного пользователя
type TokenSource interface {
	// Token возвращает текущий access токен
	Token(ctx context.Context) (string, error)
	// Refresh обменивает refresh токен на новую пару и возвращает новый access токен
	Refresh(ctx context.Context) (string, error)
	// Unauthorized сообщает что сессия больше не действительна
	Unauthorized(ctx context.Context)
}

// Observer получает информацию о каждом запросе (метрики)
type Observer interface {
	ObserveRequest(method, route string, status int, duration time.Duration)
}

// Client REST клиент бэкенда +praTiHub
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	observer   Observer
	logger     *zap.Logger
}

// NewClient создаёт клиент без авторизации
func NewClient(baseURL string, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = DefaultHTTPClient()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// DefaultHTTPClient http клиент с таймаутом по умолчанию
func DefaultHTTPClient() *http.Client {
	return &http.Client{Timeout: 10 * time.Second}
}

// WithObserver подключает сбор метрик
func (c *Client) WithObserver(o Observer) *Client {
	cp := *c
	cp.observer = o
	return &cp
}

// WithTokens возвращает копию клиента, которая авторизуется через ts
func (c *Client) WithTokens(ts TokenSource) *Client {
	cp := *c
	cp.tokens = ts
	return &cp
}

// do выполняет запрос, при 401 один раз обновляет токен и повторяет запрос
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out interface{}) error {
	var payload []byte
	if in != nil {
		var err error
		payload, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
	}

	var token string
	if c.tokens != nil {
		var err error
		token, err = c.tokens.Token(ctx)
		if err != nil {
			return err
		}
	}

	status, body, err := c.send(ctx, method, path, query, payload, token)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized && c.tokens != nil {
		c.logger.Debug("Access token rejected, refreshing",
			zap.String("method", method),
			zap.String("path", path))

		token, err = c.tokens.Refresh(ctx)
		if err != nil {
			// сессию завершает только отклонённый refresh токен, сбои бэкенда и таймауты её сохраняют
			if errors.Is(err, ErrUnauthorized) {
				c.tokens.Unauthorized(ctx)
			}
			return fmt.Errorf("%s %s: refresh: %w", method, path, err)
		}

		status, body, err = c.send(ctx, method, path, query, payload, token)
		if err != nil {
			return err
		}
		if status == http.StatusUnauthorized {
			c.tokens.Unauthorized(ctx)
		}
	}

	if status < 200 || status >= 300 {
		return fmt.Errorf("%s %s: %w", method, path, newAPIError(status, body))
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}

	return nil
}

// send выполняет один HTTP запрос и читает тело ответа целиком
func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte, token string) (int, []byte, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("build request %s %s: %w", method, path, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(method, path, 0, time.Since(started))
		return 0, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	c.observe(method, path, resp.StatusCode, time.Since(started))
	if err != nil {
		return 0, nil, fmt.Errorf("read %s %s: %w", method, path, err)
	}

	if resp.StatusCode >= 500 {
		c.logger.Warn("Backend returned server error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
	}

	return resp.StatusCode, body, nil
}

func (c *Client) observe(method, path string, status int, d time.Duration) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveRequest(method, routeOf(path), status, d)
}

// routeOf сворачивает путь до ресурса, чтобы не плодить метки: /users/42/activate -> /users
func routeOf(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		trimmed = trimmed[:i]
	}
	return "/" + trimmed
}

func pathOf(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(p)
	}
	return "/" + strings.Join(escaped, "/")
}

// StaticToken источник с фиксированным токеном, без обновления.
// Используется сразу после логина, пока сессия ещё не сохранена.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) {
	return string(t), nil
}

func (t StaticToken) Refresh(context.Context) (string, error) {
	return "", ErrUnauthorized
}

func (t StaticToken) Unauthorized(context.Context) {}
