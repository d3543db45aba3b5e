package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pratihub/pratihub_bot/internal/api"
	"github.com/pratihub/pratihub_bot/internal/model"
	"github.com/pratihub/pratihub_bot/internal/session"
)

// AuthService регистрация, вход и восстановление пароля
type AuthService struct {
	client   *api.Client
	sessions *session.Manager
	validate *Validator
	logger   *zap.Logger
}

func NewAuthService(client *api.Client, sessions *session.Manager, validate *Validator, logger *zap.Logger) *AuthService {
	return &AuthService{
		client:   client,
		sessions: sessions,
		validate: validate,
		logger:   logger,
	}
}

// Login проверяет ввод и открывает сессию чата
func (s *AuthService) Login(ctx context.Context, chatID int64, email, password string) (*model.Session, error) {
	creds := model.Credentials{Email: strings.TrimSpace(email), Password: password}
	if err := s.validate.Struct(creds); err != nil {
		return nil, err
	}
	return s.sessions.Login(ctx, chatID, creds)
}

// Register создаёт аккаунт студента
func (s *AuthService) Register(ctx context.Context, name, email, password string) error {
	reg := model.Registration{
		Name:     strings.TrimSpace(name),
		Email:    strings.TrimSpace(email),
		Password: password,
	}
	if err := s.validate.Struct(reg); err != nil {
		return err
	}

	if err := s.client.Register(ctx, reg); err != nil {
		return fmt.Errorf("register: %w", err)
	}

	s.logger.Info("Account registered", zap.String("email", reg.Email))
	return nil
}

// ForgotPassword запрашивает письмо для сброса пароля
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if err := s.validate.Var("email", email, "required,email"); err != nil {
		return err
	}
	if err := s.client.ForgotPassword(ctx, email); err != nil {
		return fmt.Errorf("forgot password: %w", err)
	}
	return nil
}

// ResetPassword задаёт новый пароль по токену из письма
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	reset := model.PasswordReset{Token: strings.TrimSpace(token), Password: password}
	if err := s.validate.Struct(reset); err != nil {
		return err
	}
	if err := s.client.ResetPassword(ctx, reset); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	return nil
}
