package model

import "time"

// TokenPair пара токенов, выдаваемая /auth/login и /auth/refresh
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Session привязка чата Telegram к аккаунту платформы
type Session struct {
	ChatID       int64     `json:"chat_id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	UserID       ID        `json:"user_id"`
	UserName     string    `json:"user_name"`
	UserType     UserType  `json:"user_type"`
	LastActivity time.Time `json:"last_activity"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin проверяет роль владельца сессии
func (s *Session) IsAdmin() bool {
	return s != nil && s.UserType == UserTypeAdmin
}

// Credentials тело запроса /auth/login
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Registration тело запроса /auth/register
type Registration struct {
	Name     string `json:"name" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// PasswordReset тело запроса /auth/reset-password
type PasswordReset struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}
