package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pratihub/pratihub_bot/internal/api"
	"github.com/pratihub/pratihub_bot/internal/meetings"
	"github.com/pratihub/pratihub_bot/internal/model"
)

// Sessions источник активных сессий для фоновых задач
type Sessions interface {
	List(ctx context.Context) ([]*model.Session, error)
	Source(chatID int64) api.TokenSource
}

// Notifier доставляет фоновые события в чаты
type Notifier interface {
	NotifyAppointments(ctx context.Context, chatID int64, added, cancelled []model.Appointment)
	NotifyNotifications(ctx context.Context, chatID int64, items []model.Notification)
	NotifyReminder(ctx context.Context, chatID int64, today []model.Appointment)
}

// MeetingService списки встреч, отмена и наблюдение за изменениями
type MeetingService struct {
	client *api.Client
	loc    *time.Location
	logger *zap.Logger
	now    func() time.Time

	mu        sync.Mutex
	snapshots map[int64][]model.Appointment
}

func NewMeetingService(client *api.Client, loc *time.Location, logger *zap.Logger) *MeetingService {
	return &MeetingService{
		client:    client,
		loc:       loc,
		logger:    logger,
		now:       time.Now,
		snapshots: make(map[int64][]model.Appointment),
	}
}

// Now текущее время в часовом поясе платформы
func (s *MeetingService) Now() time.Time {
	return s.now().In(s.loc)
}

// List все встречи владельца сессии: администратора по adminId, студента по studentId
func (s *MeetingService) List(ctx context.Context, ts api.TokenSource, sess *model.Session) ([]model.Appointment, error) {
	c := s.client.WithTokens(ts)

	var (
		list []model.Appointment
		err  error
	)
	if sess.IsAdmin() {
		list, err = c.ListAppointmentsByAdmin(ctx, sess.UserID)
	} else {
		list, err = c.ListAppointmentsByStudent(ctx, sess.UserID)
	}
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return list, nil
}

// Bucket отфильтрованная и дедуплицированная вкладка
func (s *MeetingService) Bucket(list []model.Appointment, b meetings.Bucket) []model.Appointment {
	return meetings.Filter(list, b, s.Now())
}

// Cancel отменяет встречу и перечитывает список.
// При ошибке возвращает current без изменений и ErrCancelFailed.
func (s *MeetingService) Cancel(ctx context.Context, ts api.TokenSource, sess *model.Session, id model.ID, current []model.Appointment) ([]model.Appointment, error) {
	if err := s.client.WithTokens(ts).CancelAppointment(ctx, id); err != nil {
		s.logger.Error("Failed to cancel appointment",
			zap.String("appointment_id", id.String()),
			zap.Error(err))
		return current, ErrCancelFailed
	}

	s.logger.Info("Appointment cancelled", zap.String("appointment_id", id.String()))

	fresh, err := s.List(ctx, ts, sess)
	if err != nil {
		// отмена прошла, отражаем её локально
		s.logger.Warn("Refetch after cancel failed", zap.Error(err))
		out := make([]model.Appointment, len(current))
		copy(out, current)
		for i := range out {
			if out[i].ID == id {
				out[i].Status = model.AppointmentStatusCancelled
			}
		}
		return out, nil
	}
	return fresh, nil
}

// Today предстоящие встречи на сегодня
func (s *MeetingService) Today(ctx context.Context, ts api.TokenSource, sess *model.Session) ([]model.Appointment, error) {
	list, err := s.List(ctx, ts, sess)
	if err != nil {
		return nil, err
	}
	return meetings.Today(list, s.Now()), nil
}

// Watch сравнивает встречи администраторов с прошлым снимком и сообщает о новых и отменённых.
// Первый опрос чата только запоминает снимок.
func (s *MeetingService) Watch(ctx context.Context, sessions Sessions, notifier Notifier) error {
	list, err := sessions.List(ctx)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	var admins []*model.Session
	active := make(map[int64]struct{}, len(list))
	for _, sess := range list {
		if sess.IsAdmin() {
			admins = append(admins, sess)
			active[sess.ChatID] = struct{}{}
		}
	}

	err = eachChat(ctx, admins, func(ctx context.Context, sess *model.Session) {
		appts, err := s.List(ctx, sessions.Source(sess.ChatID), sess)
		if err != nil {
			s.logger.Debug("Meeting watch skipped",
				zap.Int64("chat_id", sess.ChatID),
				zap.Error(err))
			return
		}

		s.mu.Lock()
		prev, seeded := s.snapshots[sess.ChatID]
		s.snapshots[sess.ChatID] = appts
		s.mu.Unlock()

		if !seeded {
			return
		}

		added, cancelled := meetings.Changes(prev, appts)
		if len(added) > 0 || len(cancelled) > 0 {
			notifier.NotifyAppointments(ctx, sess.ChatID, added, cancelled)
		}
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	for chatID := range s.snapshots {
		if _, ok := active[chatID]; !ok {
			delete(s.snapshots, chatID)
		}
	}
	s.mu.Unlock()

	return nil
}

// SendReminders рассылает каждому пользователю его встречи на сегодня
func (s *MeetingService) SendReminders(ctx context.Context, sessions Sessions, notifier Notifier) error {
	list, err := sessions.List(ctx)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	sent := 0
	err = eachChat(ctx, list, func(ctx context.Context, sess *model.Session) {
		today, err := s.Today(ctx, sessions.Source(sess.ChatID), sess)
		if err != nil {
			s.logger.Warn("Reminder skipped",
				zap.Int64("chat_id", sess.ChatID),
				zap.Error(err))
			return
		}
		if len(today) == 0 {
			return
		}
		notifier.NotifyReminder(ctx, sess.ChatID, today)
		sent++
	})
	if err != nil {
		return err
	}

	s.logger.Info("Reminders sent", zap.Int("chats", sent))
	return nil
}
