package controller

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/common"
	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/common/formatting"
	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/common/keyboard"
	"github.com/pratihub/pratihub_bot/internal/model"
	"github.com/pratihub/pratihub_bot/internal/service"
	"github.com/pratihub/pratihub_bot/internal/session"
)

// sender часть *bot.Bot, которой нужен Notifier
type sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// Notifier отправляет фоновые события в чаты
type Notifier struct {
	bot    sender
	logger *zap.Logger
}

func NewNotifier(b sender, logger *zap.Logger) *Notifier {
	return &Notifier{bot: b, logger: logger}
}

var _ service.Notifier = (*Notifier)(nil)

// NotifyAppointments новые и отменённые встречи администратора
func (n *Notifier) NotifyAppointments(ctx context.Context, chatID int64, added, cancelled []model.Appointment) {
	kb := keyboard.NewBuilder().
		Row(keyboard.Button("📋 Ver reuniões", common.MeetingsTab+"upcoming:0")).
		Build()
	n.send(ctx, chatID, appointmentsMessage(added, cancelled), kb)
}

// NotifyNotifications новые уведомления пользователя
func (n *Notifier) NotifyNotifications(ctx context.Context, chatID int64, items []model.Notification) {
	kb := keyboard.NewBuilder().
		Row(keyboard.Button("🔔 Abrir notificações", common.NotificationsPage+"0")).
		Build()
	n.send(ctx, chatID, notificationsMessage(items), kb)
}

// NotifyReminder встречи на сегодня
func (n *Notifier) NotifyReminder(ctx context.Context, chatID int64, today []model.Appointment) {
	n.send(ctx, chatID, reminderMessage(today), nil)
}

// NotifySessionEnd сообщает что сессия закрыта по истечении токенов или неактивности
func (n *Notifier) NotifySessionEnd(ctx context.Context, chatID int64, reason session.Reason) {
	n.send(ctx, chatID, sessionEndMessage(reason), nil)
}

func (n *Notifier) send(ctx context.Context, chatID int64, text string, kb *models.InlineKeyboardMarkup) {
	params := &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if kb != nil {
		params.ReplyMarkup = kb
	}
	if _, err := n.bot.SendMessage(ctx, params); err != nil {
		n.logger.Warn("Failed to deliver notification",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
}

// ========================
// Messages
// ========================

func appointmentsMessage(added, cancelled []model.Appointment) string {
	var sb strings.Builder
	if len(added) > 0 {
		fmt.Fprintf(&sb, "📅 <b>Novos agendamentos</b> (%d)\n", len(added))
		for _, a := range added {
			sb.WriteString(formatting.FormatAppointmentLine(a, true))
			sb.WriteString("\n")
		}
	}
	if len(cancelled) > 0 {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "❌ <b>Agendamentos cancelados</b> (%d)\n", len(cancelled))
		for _, a := range cancelled {
			sb.WriteString(formatting.FormatAppointmentLine(a, true))
			sb.WriteString("\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func notificationsMessage(items []model.Notification) string {
	if len(items) == 1 {
		it := items[0]
		return fmt.Sprintf("🔔 <b>%s</b>\n\n%s", html.EscapeString(it.Title), html.EscapeString(it.Message))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🔔 Você tem %s\n", formatting.CountNotifications(len(items)))
	for _, it := range items {
		fmt.Fprintf(&sb, "\n• <b>%s</b>", html.EscapeString(formatting.Truncate(it.Title, 60)))
	}
	return sb.String()
}

func reminderMessage(today []model.Appointment) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "⏰ <b>Hoje</b> você tem %s:\n", formatting.CountMeetings(len(today)))
	for _, a := range today {
		fmt.Fprintf(&sb, "\n🕐 %s", formatting.FormatClock(a.Time))
		switch {
		case a.TeamName != "":
			fmt.Fprintf(&sb, " • %s", html.EscapeString(a.TeamName))
		case a.StudentName != "":
			fmt.Fprintf(&sb, " • %s", html.EscapeString(a.StudentName))
		}
	}
	return sb.String()
}

func sessionEndMessage(reason session.Reason) string {
	if reason == session.ReasonIdle {
		return "⏰ Sua sessão foi encerrada por inatividade.\n\nEntre novamente com /login"
	}
	return common.ErrorMessage(session.ErrNotLoggedIn)
}
