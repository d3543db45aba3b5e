package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/pratihub/pratihub_bot/internal/api"
	"github.com/pratihub/pratihub_bot/internal/model"
)

// NotificationService уведомления пользователя и лента новых уведомлений
type NotificationService struct {
	client   *api.Client
	validate *Validator
	logger   *zap.Logger

	mu   sync.Mutex
	seen map[int64]map[model.ID]struct{}
}

func NewNotificationService(client *api.Client, validate *Validator, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		client:   client,
		validate: validate,
		logger:   logger,
		seen:     make(map[int64]map[model.ID]struct{}),
	}
}

// List уведомления пользователя: непрочитанные первыми, внутри группы новые первыми
func (s *NotificationService) List(ctx context.Context, ts api.TokenSource, userID model.ID) ([]model.Notification, error) {
	items, err := s.client.WithTokens(ts).ListNotifications(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Read != items[j].Read {
			return !items[i].Read
		}
		return items[i].CreatedAt > items[j].CreatedAt
	})
	return items, nil
}

// Unread количество непрочитанных
func Unread(items []model.Notification) int {
	n := 0
	for _, it := range items {
		if !it.Read {
			n++
		}
	}
	return n
}

// Send отправляет уведомление пользователю, только для администратора
func (s *NotificationService) Send(ctx context.Context, ts api.TokenSource, sender *model.Session, n model.NewNotification) (*model.Notification, error) {
	if !sender.IsAdmin() {
		return nil, ErrAdminOnly
	}
	if err := s.validate.Struct(n); err != nil {
		return nil, err
	}

	created, err := s.client.WithTokens(ts).CreateNotification(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}

	s.logger.Info("Notification sent",
		zap.String("user_id", n.UserID.String()),
		zap.String("notification_id", created.ID.String()))
	return created, nil
}

// MarkRead помечает уведомление прочитанным
func (s *NotificationService) MarkRead(ctx context.Context, ts api.TokenSource, id model.ID) error {
	if err := s.client.WithTokens(ts).MarkNotificationRead(ctx, id); err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

// Delete удаляет уведомление
func (s *NotificationService) Delete(ctx context.Context, ts api.TokenSource, id model.ID) error {
	if err := s.client.WithTokens(ts).DeleteNotification(ctx, id); err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	return nil
}

// Poll проверяет уведомления всех чатов и отправляет ещё не показанные.
// Первый опрос чата только заполняет множество показанных, старые уведомления не повторяются.
func (s *NotificationService) Poll(ctx context.Context, sessions Sessions, notifier Notifier) error {
	list, err := sessions.List(ctx)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	active := make(map[int64]struct{}, len(list))
	err = eachChat(ctx, list, func(ctx context.Context, sess *model.Session) {
		active[sess.ChatID] = struct{}{}

		items, err := s.client.WithTokens(sessions.Source(sess.ChatID)).ListNotifications(ctx, sess.UserID)
		if err != nil {
			s.logger.Debug("Notification poll skipped",
				zap.Int64("chat_id", sess.ChatID),
				zap.Error(err))
			return
		}

		fresh := s.markSeen(sess.ChatID, items)
		if len(fresh) > 0 {
			notifier.NotifyNotifications(ctx, sess.ChatID, fresh)
		}
	})
	if err != nil {
		return err
	}

	s.forgetInactive(active)
	return nil
}

// markSeen возвращает непрочитанные уведомления, которых ещё не было в ленте чата
func (s *NotificationService) markSeen(chatID int64, items []model.Notification) []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen, seeded := s.seen[chatID]
	if !seeded {
		seen = make(map[model.ID]struct{}, len(items))
		s.seen[chatID] = seen
	}

	var fresh []model.Notification
	for _, it := range items {
		if _, ok := seen[it.ID]; ok {
			continue
		}
		seen[it.ID] = struct{}{}
		if seeded && !it.Read {
			fresh = append(fresh, it)
		}
	}
	return fresh
}

func (s *NotificationService) forgetInactive(active map[int64]struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for chatID := range s.seen {
		if _, ok := active[chatID]; !ok {
			delete(s.seen, chatID)
		}
	}
}
