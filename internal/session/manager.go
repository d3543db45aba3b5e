// Package session связывает чаты Telegram с токенами платформы:
// логин, обновление токенов, истечение и неактивность.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/pratihub/pratihub_bot/internal/api"
	"github.com/pratihub/pratihub_bot/internal/model"
)

// refreshTimeout предел одного обмена /auth/refresh
const refreshTimeout = 10 * time.Second

var (
	ErrNotLoggedIn = errors.New("not logged in")
	errNoExpiry    = errors.New("token has no exp claim")
)

// Reason причина завершения сессии
type Reason string

const (
	ReasonExpired Reason = "expired"
	ReasonIdle    Reason = "idle"
)

// Options тайминги менеджера
type Options struct {
	UnauthorizedDebounce time.Duration
	RefreshSkew          time.Duration
	IdleTimeout          time.Duration
}

// DefaultOptions значения по умолчанию
func DefaultOptions() Options {
	return Options{
		UnauthorizedDebounce: 200 * time.Millisecond,
		RefreshSkew:          time.Minute,
		IdleTimeout:          2 * time.Hour,
	}
}

// Manager управляет сессиями всех чатов
type Manager struct {
	store  Store
	client *api.Client
	logger *zap.Logger
	opts   Options

	refreshGroup singleflight.Group

	mu      sync.Mutex
	pending map[int64]*time.Timer
	onEnd   func(ctx context.Context, chatID int64, reason Reason)

	now func() time.Time
}

// NewManager создаёт менеджер. client должен быть без авторизации.
func NewManager(store Store, client *api.Client, logger *zap.Logger, opts Options) *Manager {
	if opts.UnauthorizedDebounce <= 0 {
		opts.UnauthorizedDebounce = DefaultOptions().UnauthorizedDebounce
	}
	if opts.RefreshSkew <= 0 {
		opts.RefreshSkew = DefaultOptions().RefreshSkew
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = DefaultOptions().IdleTimeout
	}
	return &Manager{
		store:   store,
		client:  client,
		logger:  logger,
		opts:    opts,
		pending: make(map[int64]*time.Timer),
		now:     time.Now,
	}
}

// OnSessionEnd регистрирует колбэк, вызываемый после принудительного завершения сессии
func (m *Manager) OnSessionEnd(fn func(ctx context.Context, chatID int64, reason Reason)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onEnd = fn
}

// ============================================================================
// Логин / логаут
// ============================================================================

// Login обменивает креды на токены, загружает профиль и сохраняет сессию чата
func (m *Manager) Login(ctx context.Context, chatID int64, creds model.Credentials) (*model.Session, error) {
	resp, err := m.client.Login(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	user, err := m.client.WithTokens(api.StaticToken(resp.AccessToken)).Me(ctx)
	if err != nil {
		if resp.User == nil {
			return nil, fmt.Errorf("load profile: %w", err)
		}
		m.logger.Warn("Failed to load profile after login, using login payload",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		user = resp.User
	}

	now := m.now()
	sess := &model.Session{
		ChatID:       chatID,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		UserID:       user.ID,
		UserName:     user.Name,
		UserType:     user.Type,
		LastActivity: now,
		UpdatedAt:    now,
	}
	if err := m.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	m.logger.Info("User logged in",
		zap.Int64("chat_id", chatID),
		zap.String("user_id", user.ID.String()),
		zap.String("user_type", string(user.Type)))

	return sess, nil
}

// Logout завершает сессию на сервере и удаляет локальную.
// Ошибка бэкенда не мешает удалить локальную сессию.
func (m *Manager) Logout(ctx context.Context, chatID int64) error {
	sess, err := m.store.Get(ctx, chatID)
	if err != nil {
		return fmt.Errorf("get session: %w", err)
	}
	if sess == nil {
		return ErrNotLoggedIn
	}

	if err := m.client.Logout(ctx, sess.RefreshToken); err != nil {
		m.logger.Warn("Backend logout failed",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}

	if err := m.store.Delete(ctx, chatID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	m.logger.Info("User logged out", zap.Int64("chat_id", chatID))
	return nil
}

// ============================================================================
// Доступ к сессии
// ============================================================================

// Get возвращает сессию чата или ErrNotLoggedIn
func (m *Manager) Get(ctx context.Context, chatID int64) (*model.Session, error) {
	sess, err := m.store.Get(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if sess == nil {
		return nil, ErrNotLoggedIn
	}
	return sess, nil
}

// List все активные сессии
func (m *Manager) List(ctx context.Context) ([]*model.Session, error) {
	return m.store.List(ctx)
}

// Touch отмечает активность пользователя
func (m *Manager) Touch(ctx context.Context, chatID int64) {
	if err := m.store.Touch(ctx, chatID, m.now()); err != nil {
		m.logger.Warn("Failed to touch session",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
}

// Source источник токенов чата для api.Client
func (m *Manager) Source(chatID int64) api.TokenSource {
	return &chatSource{manager: m, chatID: chatID}
}

// Client клиент API, авторизованный от имени чата
func (m *Manager) Client(chatID int64) *api.Client {
	return m.client.WithTokens(m.Source(chatID))
}

// CurrentUser перечитывает профиль через /auth/me.
// При ошибке сервера (5xx) возвращает профиль из сессии.
func (m *Manager) CurrentUser(ctx context.Context, chatID int64) (*model.User, error) {
	sess, err := m.Get(ctx, chatID)
	if err != nil {
		return nil, err
	}

	cached := &model.User{ID: sess.UserID, Name: sess.UserName, Type: sess.UserType, Active: true}

	user, err := m.Client(chatID).Me(ctx)
	if err != nil {
		if api.IsServerError(err) {
			m.logger.Warn("Profile refresh failed, using cached profile",
				zap.Int64("chat_id", chatID),
				zap.Error(err))
			return cached, nil
		}
		return nil, err
	}

	if user.Name != sess.UserName || user.Type != sess.UserType {
		// перечитываем, чтобы не затереть токены, обновлённые параллельно
		if fresh, err := m.store.Get(ctx, chatID); err == nil && fresh != nil {
			fresh.UserName = user.Name
			fresh.UserType = user.Type
			if err := m.store.Save(ctx, fresh); err != nil {
				m.logger.Warn("Failed to save refreshed profile", zap.Int64("chat_id", chatID), zap.Error(err))
			}
		}
	}

	return user, nil
}

// ============================================================================
// Обновление токенов
// ============================================================================

// refresh обновляет пару токенов. Одновременные вызовы для одного чата
// разделяют один запрос /auth/refresh.
func (m *Manager) refresh(ctx context.Context, chatID int64) (string, error) {
	v, err, shared := m.refreshGroup.Do(strconv.FormatInt(chatID, 10), func() (interface{}, error) {
		// запрос общий для всех ожидающих, дедлайн первого вызывающего на него не влияет
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()

		sess, err := m.Get(ctx, chatID)
		if err != nil {
			return nil, err
		}

		pair, err := m.client.Refresh(ctx, sess.RefreshToken)
		if err != nil {
			return nil, fmt.Errorf("refresh tokens: %w", err)
		}

		if err := m.store.UpdateTokens(ctx, chatID, pair); err != nil {
			return nil, fmt.Errorf("save tokens: %w", err)
		}

		m.logger.Debug("Tokens refreshed", zap.Int64("chat_id", chatID))
		return pair.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	if shared {
		m.logger.Debug("Shared in-flight refresh", zap.Int64("chat_id", chatID))
	}
	return v.(string), nil
}

// unauthorized планирует завершение сессии. Повторные сигналы
// в пределах окна debounce схлопываются в один.
func (m *Manager) unauthorized(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.pending[chatID]; ok {
		return
	}

	m.pending[chatID] = time.AfterFunc(m.opts.UnauthorizedDebounce, func() {
		m.mu.Lock()
		delete(m.pending, chatID)
		m.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		m.end(ctx, chatID, ReasonExpired)
	})
}

// end удаляет сессию и уведомляет подписчика
func (m *Manager) end(ctx context.Context, chatID int64, reason Reason) {
	if err := m.store.Delete(ctx, chatID); err != nil {
		m.logger.Error("Failed to delete session",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}

	m.logger.Info("Session ended",
		zap.Int64("chat_id", chatID),
		zap.String("reason", string(reason)))

	m.mu.Lock()
	fn := m.onEnd
	m.mu.Unlock()

	if fn != nil {
		fn(ctx, chatID, reason)
	}
}

// ============================================================================
// Периодические проверки
// ============================================================================

// CheckSessions заранее обновляет токены, которые скоро истекут
func (m *Manager) CheckSessions(ctx context.Context) error {
	sessions, err := m.store.List(ctx)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	deadline := m.now().Add(m.opts.RefreshSkew)
	for _, sess := range sessions {
		exp, err := tokenExpiry(sess.AccessToken)
		if err != nil {
			m.logger.Debug("Cannot read token expiry",
				zap.Int64("chat_id", sess.ChatID),
				zap.Error(err))
			continue
		}
		if exp.After(deadline) {
			continue
		}

		if _, err := m.refresh(ctx, sess.ChatID); err != nil {
			m.logger.Warn("Proactive refresh failed",
				zap.Int64("chat_id", sess.ChatID),
				zap.Error(err))
			if errors.Is(err, api.ErrUnauthorized) {
				m.unauthorized(sess.ChatID)
			}
		}
	}

	return nil
}

// CheckActivity завершает сессии, неактивные дольше IdleTimeout
func (m *Manager) CheckActivity(ctx context.Context) error {
	sessions, err := m.store.List(ctx)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	now := m.now()
	for _, sess := range sessions {
		if now.Sub(sess.LastActivity) <= m.opts.IdleTimeout {
			continue
		}

		if err := m.client.Logout(ctx, sess.RefreshToken); err != nil {
			m.logger.Warn("Backend logout failed for idle session",
				zap.Int64("chat_id", sess.ChatID),
				zap.Error(err))
		}
		m.end(ctx, sess.ChatID, ReasonIdle)
	}

	return nil
}

// tokenExpiry читает claim exp без проверки подписи
func tokenExpiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, err
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, err
	}
	if exp == nil {
		return time.Time{}, errNoExpiry
	}
	return exp.Time, nil
}

// chatSource реализует api.TokenSource поверх сессии одного чата
type chatSource struct {
	manager *Manager
	chatID  int64
}

func (s *chatSource) Token(ctx context.Context) (string, error) {
	sess, err := s.manager.Get(ctx, s.chatID)
	if err != nil {
		return "", err
	}
	return sess.AccessToken, nil
}

func (s *chatSource) Refresh(ctx context.Context) (string, error) {
	return s.manager.refresh(ctx, s.chatID)
}

func (s *chatSource) Unauthorized(context.Context) {
	s.manager.unauthorized(s.chatID)
}
