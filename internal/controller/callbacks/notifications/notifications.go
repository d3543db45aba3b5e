package notifications

import (
	"context"
	"strconv"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/callbacktypes"
	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/common"
	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/common/formatting"
	"github.com/pratihub/pratihub_bot/internal/controller/state"
	"github.com/pratihub/pratihub_bot/internal/model"
	"github.com/pratihub/pratihub_bot/internal/pagination"
	"github.com/pratihub/pratihub_bot/internal/service"
)

// ========================
// Notification Feed
// ========================

// HandlePage страница ленты; формат notif_page:page
func HandlePage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		args, err := common.CallbackArgs(callback.Data, 1)
		if err != nil {
			common.HandleError(hc, err, "notifications_page")
			return
		}
		if err := show(hc, common.ParsePage(args[0])); err != nil {
			common.HandleError(hc, err, "notifications_page")
			return
		}
		hc.Answer("")
	})
}

// HandleRead помечает уведомление прочитанным; формат notif_read:id:page
func HandleRead(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, page, err := parseItemArgs(callback.Data)
		if err != nil {
			common.HandleError(hc, err, "notifications_read")
			return
		}
		if err := h.NotificationService.MarkRead(hc.Ctx, hc.Source(), id); err != nil {
			common.HandleError(hc, err, "notifications_read")
			return
		}
		if err := show(hc, page); err != nil {
			common.HandleError(hc, err, "notifications_read")
			return
		}
		hc.Answer("✔️ Marcada como lida")
	})
}

// HandleDelete удаляет уведомление; формат notif_del:id:page
func HandleDelete(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, page, err := parseItemArgs(callback.Data)
		if err != nil {
			common.HandleError(hc, err, "notifications_delete")
			return
		}
		if err := h.NotificationService.Delete(hc.Ctx, hc.Source(), id); err != nil {
			common.HandleError(hc, err, "notifications_delete")
			return
		}
		if err := show(hc, page); err != nil {
			common.HandleError(hc, err, "notifications_delete")
			return
		}
		common.LogAndAnswer(hc, "Notification deleted", "🗑 Notificação excluída")
	})
}

// ========================
// Sending (admin)
// ========================

// HandleNew выбор студента-получателя; формат notif_new:page
func HandleNew(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		args, err := common.CallbackArgs(callback.Data, 1)
		if err != nil {
			common.HandleError(hc, err, "notifications_new")
			return
		}

		students, err := h.UserService.Students(hc.Ctx, hc.Source())
		if err != nil {
			common.HandleError(hc, err, "notifications_new")
			return
		}
		if len(students) == 0 {
			hc.AnswerAlert("Nenhum estudante cadastrado")
			return
		}

		text, kb := common.BuildStudentPickerScreen(pagination.Paginate(students, common.ParsePage(args[0]), common.UsersPageSize))
		if err := hc.EditMessage(text, kb); err != nil {
			h.Logger.Error("Failed to show student picker", zap.Int64("chat_id", hc.ChatID), zap.Error(err))
		}
		hc.Answer("")
	})
}

// HandleTo запоминает получателя и спрашивает заголовок; формат notif_to:userID
func HandleTo(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		userID, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			common.HandleError(hc, err, "notifications_to")
			return
		}

		user, err := h.UserService.Get(hc.Ctx, hc.Source(), userID)
		if err != nil {
			common.HandleError(hc, err, "notifications_to")
			return
		}

		hc.ClearState()
		hc.SetState(state.StateNotifyTitle)
		hc.SetData(state.KeyTargetID, user.ID.String())
		hc.SetData(state.KeyName, user.Name)

		prompt := "✉️ Notificação para <b>" + formatting.Truncate(user.Name, 60) + "</b>\n\nDigite o título:\n\n/cancelar para desistir"
		if err := hc.SendMessage(prompt, nil); err != nil {
			h.Logger.Error("Failed to prompt notification title", zap.Int64("chat_id", hc.ChatID), zap.Error(err))
		}
		hc.Answer("")
	})
}

// Screen первая страница ленты. Используется командой /notificacoes.
func Screen(ctx context.Context, h *callbacktypes.Handler, sess *model.Session, page int) (string, *models.InlineKeyboardMarkup, error) {
	items, err := h.NotificationService.List(ctx, h.Sessions.Source(sess.ChatID), sess.UserID)
	if err != nil {
		return "", nil, err
	}
	text, kb := common.BuildNotificationsScreen(
		pagination.Paginate(items, page, common.NotificationsPageSize),
		service.Unread(items),
		sess.IsAdmin(),
	)
	return text, kb, nil
}

func show(hc *common.HandlerContext, page int) error {
	text, kb, err := Screen(hc.Ctx, hc.Handler, hc.Session, page)
	if err != nil {
		return err
	}
	if err := hc.EditMessage(text, kb); err != nil {
		hc.Handler.Logger.Error("Failed to show notifications", zap.Int64("chat_id", hc.ChatID), zap.Error(err))
	}
	return nil
}

// parseItemArgs разбирает "<prefix>id:page"
func parseItemArgs(data string) (model.ID, int, error) {
	args, err := common.CallbackArgs(data, 2)
	if err != nil {
		return "", 0, err
	}
	if args[0] == "" {
		return "", 0, common.ErrInvalidFormat
	}
	page, err := strconv.Atoi(args[1])
	if err != nil {
		return "", 0, common.ErrInvalidFormat
	}
	return model.ID(args[0]), page, nil
}
