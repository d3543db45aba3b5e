package controller

import (
	"context"
	"errors"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pratihub/pratihub_bot/internal/model"
	"github.com/pratihub/pratihub_bot/internal/session"
)

type fakeSender struct {
	sent []*bot.SendMessageParams
	err  error
}

func (f *fakeSender) SendMessage(_ context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	f.sent = append(f.sent, params)
	if f.err != nil {
		return nil, f.err
	}
	return &models.Message{}, nil
}

func TestNotifier_NotifyAppointments(t *testing.T) {
	sender := &fakeSender{}
	n := NewNotifier(sender, zap.NewNop())

	n.NotifyAppointments(context.Background(), 42,
		[]model.Appointment{{ID: "1", Date: "2025-01-20", Time: "10:00:00", TeamName: "Alpha"}},
		[]model.Appointment{{ID: "2", Date: "2025-01-21", Time: "15:30:00", StudentName: "Bia"}},
	)

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Equal(t, models.ParseModeHTML, msg.ParseMode)

	text := msg.Text
	assert.Contains(t, text, "Novos agendamentos</b> (1)")
	assert.Contains(t, text, "Agendamentos cancelados</b> (1)")
	assert.Contains(t, text, "10:00 • 👥 Alpha")
	assert.Contains(t, text, "15:30 • 👤 Bia")

	kb, ok := msg.ReplyMarkup.(*models.InlineKeyboardMarkup)
	require.True(t, ok)
	assert.Equal(t, "meet_tab:upcoming:0", kb.InlineKeyboard[0][0].CallbackData)
}

func TestNotifier_SendErrorIsSwallowed(t *testing.T) {
	sender := &fakeSender{err: errors.New("blocked by user")}
	n := NewNotifier(sender, zap.NewNop())

	assert.NotPanics(t, func() {
		n.NotifyReminder(context.Background(), 7, []model.Appointment{{Time: "09:00:00"}})
	})
	assert.Len(t, sender.sent, 1)
	assert.Nil(t, sender.sent[0].ReplyMarkup)
}

func TestNotificationsMessage(t *testing.T) {
	single := notificationsMessage([]model.Notification{{Title: "Prazo <hoje>", Message: "Entregar & revisar"}})
	assert.Equal(t, "🔔 <b>Prazo &lt;hoje&gt;</b>\n\nEntregar &amp; revisar", single)

	many := notificationsMessage([]model.Notification{{Title: "A"}, {Title: "B"}})
	assert.Contains(t, many, "• <b>A</b>")
	assert.Contains(t, many, "• <b>B</b>")
}

func TestReminderMessage(t *testing.T) {
	text := reminderMessage([]model.Appointment{
		{Time: "09:00:00", TeamName: "Alpha"},
		{Time: "14:30:00", StudentName: "Caio"},
		{Time: "16:00:00"},
	})

	assert.Contains(t, text, "🕐 09:00 • Alpha")
	assert.Contains(t, text, "🕐 14:30 • Caio")
	assert.Contains(t, text, "🕐 16:00")
}

func TestSessionEndMessage(t *testing.T) {
	assert.Contains(t, sessionEndMessage(session.ReasonIdle), "inatividade")
	assert.Contains(t, sessionEndMessage(session.ReasonExpired), "/login")
}
