package api

import (
	"context"
	"net/http"

	"github.com/pratihub/pratihub_bot/internal/model"
)

// LoginResponse ответ /auth/login; user присутствует не во всех версиях бэкенда
type LoginResponse struct {
	model.TokenPair
	User *model.User `json:"user,omitempty"`
}

// Login обменивает email/пароль на пару токенов
func (c *Client) Login(ctx context.Context, creds model.Credentials) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, creds, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, ErrUnexpected
	}
	return &resp, nil
}

// Register создаёт аккаунт студента
func (c *Client) Register(ctx context.Context, reg model.Registration) error {
	return c.do(ctx, http.MethodPost, "/auth/register", nil, reg, nil)
}

// Refresh обменивает refresh токен на новую пару
func (c *Client) Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	var pair model.TokenPair
	body := map[string]string{"refreshToken": refreshToken}
	if err := c.do(ctx, http.MethodPost, "/auth/refresh", nil, body, &pair); err != nil {
		return model.TokenPair{}, err
	}
	if pair.AccessToken == "" {
		return model.TokenPair{}, ErrUnexpected
	}
	if pair.RefreshToken == "" {
		// некоторые бэкенды не ротируют refresh токен
		pair.RefreshToken = refreshToken
	}
	return pair, nil
}

// Logout инвалидирует refresh токен на сервере
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	body := map[string]string{"refreshToken": refreshToken}
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, body, nil)
}

// ForgotPassword запрашивает письмо со ссылкой сброса пароля
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.do(ctx, http.MethodPost, "/auth/forgot-password", nil, body, nil)
}

// ResetPassword устанавливает новый пароль по токену из письма
func (c *Client) ResetPassword(ctx context.Context, reset model.PasswordReset) error {
	return c.do(ctx, http.MethodPost, "/auth/reset-password", nil, reset, nil)
}

// Me возвращает профиль владельца токена
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
