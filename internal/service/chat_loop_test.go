package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pratihub/pratihub_bot/internal/model"
)

const (
	slowLatency = 250 * time.Millisecond
	jobBudget   = 500 * time.Millisecond
)

func slowChats(n int, userType model.UserType, userID model.ID) staticSessions {
	out := make(staticSessions, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &model.Session{ChatID: int64(1000 + i), UserID: userID, UserType: userType})
	}
	return out
}

func withJobBudget(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), jobBudget)
	t.Cleanup(cancel)
	return ctx
}

// общий дедлайн задачи меньше суммы задержек, но каждый чат обслужен
func TestSlowBackend_EveryChatServed(t *testing.T) {
	t.Run("reminders", func(t *testing.T) {
		backend, client := newFakeBackend(t)
		backend.appointments = []model.Appointment{
			{ID: "10", StudentID: "2", AdminID: "1", Date: "2025-01-15", Time: "14:00:00", Status: model.AppointmentStatusScheduled},
		}
		backend.latency = slowLatency

		svc := NewMeetingService(client, saoPaulo, zap.NewNop())
		svc.now = fixedNow(time.Date(2025, 1, 15, 8, 0, 0, 0, saoPaulo))
		sessions := slowChats(5, model.UserTypeStudent, "2")
		notifier := newRecordingNotifier()

		require.NoError(t, svc.SendReminders(withJobBudget(t), sessions, notifier))

		for _, sess := range sessions {
			assert.Len(t, notifier.reminders[sess.ChatID], 1, "chat %d", sess.ChatID)
		}
	})

	t.Run("notifications", func(t *testing.T) {
		backend, client := newFakeBackend(t)
		backend.latency = slowLatency

		svc := NewNotificationService(client, NewValidator(), zap.NewNop())
		sessions := slowChats(5, model.UserTypeStudent, "2")
		notifier := newRecordingNotifier()

		require.NoError(t, svc.Poll(withJobBudget(t), sessions, notifier))

		backend.mu.Lock()
		backend.notifications = append(backend.notifications,
			model.Notification{ID: "7", UserID: "2", Title: "Reunião", Message: "Nova reunião"})
		backend.mu.Unlock()

		require.NoError(t, svc.Poll(withJobBudget(t), sessions, notifier))

		for _, sess := range sessions {
			assert.Len(t, notifier.notifications[sess.ChatID], 1, "chat %d", sess.ChatID)
		}
	})

	t.Run("watch", func(t *testing.T) {
		backend, client := newFakeBackend(t)
		backend.latency = slowLatency

		svc := NewMeetingService(client, saoPaulo, zap.NewNop())
		sessions := slowChats(5, model.UserTypeAdmin, "1")
		notifier := newRecordingNotifier()

		require.NoError(t, svc.Watch(withJobBudget(t), sessions, notifier))

		backend.mu.Lock()
		backend.appointments = append(backend.appointments, model.Appointment{
			ID: "11", StudentID: "3", AdminID: "1", Date: "2025-01-21", Time: "11:00:00", Status: model.AppointmentStatusScheduled,
		})
		backend.mu.Unlock()

		require.NoError(t, svc.Watch(withJobBudget(t), sessions, notifier))

		for _, sess := range sessions {
			assert.Len(t, notifier.added[sess.ChatID], 1, "chat %d", sess.ChatID)
		}
	})
}

func TestEachChat_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var visited []int64
	err := eachChat(ctx, slowChats(5, model.UserTypeStudent, "2"), func(chatCtx context.Context, sess *model.Session) {
		visited = append(visited, sess.ChatID)
		if len(visited) == 2 {
			cancel()
			select {
			case <-chatCtx.Done():
				assert.ErrorIs(t, chatCtx.Err(), context.Canceled)
			case <-time.After(time.Second):
				t.Error("chat context not cancelled")
			}
		}
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []int64{1000, 1001}, visited)
}

func TestEachChat_OwnDeadlinePerChat(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	<-ctx.Done()

	var left []time.Duration
	err := eachChat(ctx, slowChats(3, model.UserTypeStudent, "2"), func(chatCtx context.Context, sess *model.Session) {
		require.NoError(t, chatCtx.Err(), strconv.FormatInt(sess.ChatID, 10))
		deadline, ok := chatCtx.Deadline()
		require.True(t, ok)
		left = append(left, time.Until(deadline))
	})

	require.NoError(t, err)
	require.Len(t, left, 3)
	for _, d := range left {
		assert.Greater(t, d, chatTimeout-time.Second)
	}
}
