package callbacks

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/appointments"
	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/callbacktypes"
	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/common"
	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/forum"
	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/notifications"
	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/profile"
	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/schedule"
	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/team"
	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/users"
)

// ========================
// Main Callback Router
// ========================

// Route распределяет callback query по соответствующим обработчикам
func Route(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	data := callback.Data

	h.Logger.Debug("Routing callback",
		zap.String("data", data),
		zap.Int64("user_id", callback.From.ID),
		zap.String("user_name", callback.From.FirstName))

	switch {
	// ===== Common Navigation =====
	case data == common.BackToMain:
		common.HandleBackToMain(ctx, b, callback, h)
	case data == common.Noop:
		common.AnswerCallback(ctx, b, callback.ID, "")
	case data == common.Profile:
		common.HandleProfile(ctx, b, callback, h)

	// ===== Horários =====
	case strings.HasPrefix(data, common.CalendarPage):
		schedule.HandleCalendarPage(ctx, b, callback, h)
	case strings.HasPrefix(data, common.ViewDay):
		schedule.HandleViewDay(ctx, b, callback, h)
	case strings.HasPrefix(data, common.DayImage):
		schedule.HandleDayImage(ctx, b, callback, h)
	case strings.HasPrefix(data, common.ToggleSlot):
		schedule.HandleToggleSlot(ctx, b, callback, h)
	case strings.HasPrefix(data, common.BookSlot):
		schedule.HandleBookSlot(ctx, b, callback, h)
	case strings.HasPrefix(data, common.ConfirmBook):
		schedule.HandleConfirmBook(ctx, b, callback, h)

	// ===== Reuniões =====
	case strings.HasPrefix(data, common.MeetingsTab):
		appointments.HandleTab(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CancelMeeting):
		appointments.HandleCancel(ctx, b, callback, h)
	case strings.HasPrefix(data, common.ConfirmCancelMeeting):
		appointments.HandleConfirmCancel(ctx, b, callback, h)

	// ===== Equipe & Kanban =====
	case data == common.TeamView:
		team.HandleView(ctx, b, callback, h)
	case data == common.TeamCreate:
		team.HandleCreate(ctx, b, callback, h)
	case data == common.TeamRename:
		team.HandleRename(ctx, b, callback, h)
	case data == common.TeamAddMember:
		team.HandleAddMember(ctx, b, callback, h)
	case strings.HasPrefix(data, common.TeamRemoveMember):
		team.HandleRemoveMember(ctx, b, callback, h)
	case strings.HasPrefix(data, common.TeamsPage):
		team.HandleTeamsPage(ctx, b, callback, h)
	case strings.HasPrefix(data, common.TeamOpen):
		team.HandleOpen(ctx, b, callback, h)
	case data == common.KanbanMy:
		team.HandleKanbanMy(ctx, b, callback, h)
	case strings.HasPrefix(data, common.KanbanBoard):
		team.HandleKanbanBoard(ctx, b, callback, h)
	case strings.HasPrefix(data, common.KanbanAdvance):
		team.HandleKanbanAdvance(ctx, b, callback, h)

	// ===== Notificações =====
	case strings.HasPrefix(data, common.NotificationsPage):
		notifications.HandlePage(ctx, b, callback, h)
	case strings.HasPrefix(data, common.NotificationRead):
		notifications.HandleRead(ctx, b, callback, h)
	case strings.HasPrefix(data, common.NotificationDelete):
		notifications.HandleDelete(ctx, b, callback, h)
	case strings.HasPrefix(data, common.NotificationNew):
		notifications.HandleNew(ctx, b, callback, h)
	case strings.HasPrefix(data, common.NotificationTo):
		notifications.HandleTo(ctx, b, callback, h)

	// ===== Fórum =====
	case strings.HasPrefix(data, common.ForumPage):
		forum.HandlePage(ctx, b, callback, h)
	case strings.HasPrefix(data, common.ForumPost):
		forum.HandlePost(ctx, b, callback, h)
	case data == common.ForumNewPost:
		forum.HandleNewPost(ctx, b, callback, h)
	case strings.HasPrefix(data, common.ForumComment):
		forum.HandleComment(ctx, b, callback, h)

	// ===== Perfil =====
	case data == common.HumorMenu:
		profile.HandleHumorMenu(ctx, b, callback, h)
	case strings.HasPrefix(data, common.Humor):
		profile.HandleHumor(ctx, b, callback, h)
	case data == common.ProfileRename:
		profile.HandleRename(ctx, b, callback, h)

	// ===== Usuários =====
	case strings.HasPrefix(data, common.UsersPage):
		users.HandlePage(ctx, b, callback, h)
	case strings.HasPrefix(data, common.UserActivate):
		users.HandleActivate(ctx, b, callback, h)
	case strings.HasPrefix(data, common.UserDeactivate):
		users.HandleDeactivate(ctx, b, callback, h)

	// ===== Unknown Callback =====
	default:
		h.Logger.Warn("Unknown callback",
			zap.String("data", data),
			zap.Int64("user_id", callback.From.ID))
		common.AnswerCallback(ctx, b, callback.ID, "❌ Comando desconhecido")
	}
}
