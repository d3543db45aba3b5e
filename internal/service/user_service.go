package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/pratihub/pratihub_bot/internal/api"
	"github.com/pratihub/pratihub_bot/internal/model"
)

type UserService struct {
	client   *api.Client
	validate *Validator
	logger   *zap.Logger
}

func NewUserService(client *api.Client, validate *Validator, logger *zap.Logger) *UserService {
	return &UserService{
		client:   client,
		validate: validate,
		logger:   logger,
	}
}

// List пользователи по имени
func (s *UserService) List(ctx context.Context, ts api.TokenSource) ([]model.User, error) {
	users, err := s.client.WithTokens(ts).ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	sort.SliceStable(users, func(i, j int) bool {
		return strings.ToLower(users[i].Name) < strings.ToLower(users[j].Name)
	})
	return users, nil
}

// Students только студенты
func (s *UserService) Students(ctx context.Context, ts api.TokenSource) ([]model.User, error) {
	users, err := s.List(ctx, ts)
	if err != nil {
		return nil, err
	}
	out := users[:0]
	for _, u := range users {
		if u.Type == model.UserTypeStudent {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *UserService) Get(ctx context.Context, ts api.TokenSource, id model.ID) (*model.User, error) {
	user, err := s.client.WithTokens(ts).GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

type profileInput struct {
	Name string `json:"name" validate:"required,min=3,max=100"`
}

// Rename обновляет имя в профиле
func (s *UserService) Rename(ctx context.Context, ts api.TokenSource, id model.ID, name string) (*model.User, error) {
	name = strings.TrimSpace(name)
	if err := s.validate.Struct(profileInput{Name: name}); err != nil {
		return nil, err
	}

	user, err := s.client.WithTokens(ts).UpdateUser(ctx, id, model.UserUpdate{Name: &name})
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// SetActive активирует или деактивирует аккаунт, только для администратора
func (s *UserService) SetActive(ctx context.Context, ts api.TokenSource, actor *model.Session, id model.ID, active bool) error {
	if !actor.IsAdmin() {
		return ErrAdminOnly
	}

	c := s.client.WithTokens(ts)
	var err error
	if active {
		err = c.ActivateUser(ctx, id)
	} else {
		err = c.DeactivateUser(ctx, id)
	}
	if err != nil {
		return fmt.Errorf("set user active=%t: %w", active, err)
	}

	s.logger.Info("User activation changed",
		zap.String("user_id", id.String()),
		zap.Bool("active", active),
		zap.String("by", actor.UserID.String()))
	return nil
}

// SetEmotionalStatus сохраняет самочувствие студента, статус из фиксированного списка
func (s *UserService) SetEmotionalStatus(ctx context.Context, ts api.TokenSource, id model.ID, status string) error {
	if err := s.validate.Var("status", status, "required,oneof="+strings.Join(model.EmotionalStatuses, " ")); err != nil {
		return err
	}
	if err := s.client.WithTokens(ts).SetEmotionalStatus(ctx, id, status); err != nil {
		return fmt.Errorf("set emotional status: %w", err)
	}
	return nil
}
