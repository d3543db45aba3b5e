package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pratihub/pratihub_bot/internal/api"
	"github.com/pratihub/pratihub_bot/internal/model"
)

func TestCancel_ServerErrorKeepsList(t *testing.T) {
	backend, client := newFakeBackend(t)
	backend.appointments = []model.Appointment{
		{ID: "10", StudentID: "2", AdminID: "1", Date: "2025-01-20", Time: "10:00:00", Status: model.AppointmentStatusScheduled},
	}
	backend.failCancel = true

	svc := NewMeetingService(client, saoPaulo, zap.NewNop())
	sess := &model.Session{UserID: "2", UserType: model.UserTypeStudent}
	current := []model.Appointment{backend.appointments[0]}

	out, err := svc.Cancel(context.Background(), api.StaticToken("t"), sess, "10", current)

	require.Error(t, err)
	assert.Equal(t, "Erro ao cancelar agendamento", err.Error())
	assert.Equal(t, current, out)
	assert.Equal(t, model.AppointmentStatusScheduled, out[0].Status)
	assert.Equal(t, 1, backend.count("PATCH /appointments/{id}/cancel"))
	assert.Equal(t, 0, backend.count("GET /appointments"))
}

func TestCancel_RefetchesOnSuccess(t *testing.T) {
	backend, client := newFakeBackend(t)
	backend.appointments = []model.Appointment{
		{ID: "10", StudentID: "2", AdminID: "1", Date: "2025-01-20", Time: "10:00:00", Status: model.AppointmentStatusScheduled},
	}

	svc := NewMeetingService(client, saoPaulo, zap.NewNop())
	sess := &model.Session{UserID: "1", UserType: model.UserTypeAdmin}

	out, err := svc.Cancel(context.Background(), api.StaticToken("t"), sess, "10", backend.appointments)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.True(t, out[0].Status.IsCancelled())
}

// recordingNotifier запоминает всё, что сервисы отправили бы в чат
type recordingNotifier struct {
	mu            sync.Mutex
	added         map[int64][]model.Appointment
	cancelled     map[int64][]model.Appointment
	notifications map[int64][]model.Notification
	reminders     map[int64][]model.Appointment
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{
		added:         map[int64][]model.Appointment{},
		cancelled:     map[int64][]model.Appointment{},
		notifications: map[int64][]model.Notification{},
		reminders:     map[int64][]model.Appointment{},
	}
}

func (n *recordingNotifier) NotifyAppointments(_ context.Context, chatID int64, added, cancelled []model.Appointment) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.added[chatID] = append(n.added[chatID], added...)
	n.cancelled[chatID] = append(n.cancelled[chatID], cancelled...)
}

func (n *recordingNotifier) NotifyNotifications(_ context.Context, chatID int64, items []model.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notifications[chatID] = append(n.notifications[chatID], items...)
}

func (n *recordingNotifier) NotifyReminder(_ context.Context, chatID int64, today []model.Appointment) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reminders[chatID] = append(n.reminders[chatID], today...)
}

// staticSessions фиксированный набор сессий
type staticSessions []*model.Session

func (s staticSessions) List(context.Context) ([]*model.Session, error) { return s, nil }

func (s staticSessions) Source(int64) api.TokenSource { return api.StaticToken("t") }

func TestWatch_ReportsNewAndCancelledAfterSeeding(t *testing.T) {
	backend, client := newFakeBackend(t)
	backend.appointments = []model.Appointment{
		{ID: "10", StudentID: "2", AdminID: "1", Date: "2025-01-20", Time: "10:00:00", Status: model.AppointmentStatusScheduled},
	}

	svc := NewMeetingService(client, saoPaulo, zap.NewNop())
	sessions := staticSessions{
		{ChatID: 100, UserID: "1", UserType: model.UserTypeAdmin},
		{ChatID: 200, UserID: "2", UserType: model.UserTypeStudent},
	}
	notifier := newRecordingNotifier()
	ctx := context.Background()

	require.NoError(t, svc.Watch(ctx, sessions, notifier))
	assert.Empty(t, notifier.added[100])

	backend.mu.Lock()
	backend.appointments[0].Status = model.AppointmentStatusCanceled
	backend.appointments = append(backend.appointments, model.Appointment{
		ID: "11", StudentID: "3", AdminID: "1", Date: "2025-01-21", Time: "11:00:00", Status: model.AppointmentStatusScheduled,
	})
	backend.mu.Unlock()

	require.NoError(t, svc.Watch(ctx, sessions, notifier))

	require.Len(t, notifier.added[100], 1)
	assert.Equal(t, model.ID("11"), notifier.added[100][0].ID)
	require.Len(t, notifier.cancelled[100], 1)
	assert.Equal(t, model.ID("10"), notifier.cancelled[100][0].ID)
	assert.Empty(t, notifier.added[200])
}

func TestSendReminders_OnlyToday(t *testing.T) {
	backend, client := newFakeBackend(t)
	backend.appointments = []model.Appointment{
		{ID: "10", StudentID: "2", AdminID: "1", Date: "2025-01-15", Time: "14:00:00", Status: model.AppointmentStatusScheduled},
		{ID: "11", StudentID: "2", AdminID: "1", Date: "2025-01-16", Time: "14:00:00", Status: model.AppointmentStatusScheduled},
		{ID: "12", StudentID: "3", AdminID: "1", Date: "2025-01-15", Time: "15:00:00", Status: model.AppointmentStatusCancelled},
	}

	svc := NewMeetingService(client, saoPaulo, zap.NewNop())
	svc.now = fixedNow(time.Date(2025, 1, 15, 8, 0, 0, 0, saoPaulo))
	notifier := newRecordingNotifier()

	sessions := staticSessions{
		{ChatID: 200, UserID: "2", UserType: model.UserTypeStudent},
		{ChatID: 300, UserID: "3", UserType: model.UserTypeStudent},
	}
	require.NoError(t, svc.SendReminders(context.Background(), sessions, notifier))

	require.Len(t, notifier.reminders[200], 1)
	assert.Equal(t, model.ID("10"), notifier.reminders[200][0].ID)
	assert.Empty(t, notifier.reminders[300])
}
