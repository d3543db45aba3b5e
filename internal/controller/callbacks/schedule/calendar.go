package schedule

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/callbacktypes"
	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/common"
	"github.com/pratihub/pratihub_bot/internal/model"
	"github.com/pratihub/pratihub_bot/internal/service"
)

// ========================
// Calendar View Handlers
// ========================

// HandleCalendarPage календарь на 7 дней; формат cal:offset
func HandleCalendarPage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	offset, err := strconv.Atoi(strings.TrimPrefix(callback.Data, common.CalendarPage))
	if err != nil {
		h.Logger.Warn("Invalid calendar offset", zap.String("data", callback.Data))
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(common.ErrInvalidFormat))
		return
	}

	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		text, kb, err := CalendarScreen(hc.Ctx, h, hc.Session, offset)
		if err != nil {
			common.HandleError(hc, err, "calendar")
			return
		}
		if err := hc.EditMessage(text, kb); err != nil {
			h.Logger.Error("Failed to show calendar", zap.Int64("chat_id", hc.ChatID), zap.Error(err))
		}
		hc.Answer("")
	})
}

// CalendarScreen строит календарь по роли. Используется и командой /horarios.
func CalendarScreen(ctx context.Context, h *callbacktypes.Handler, sess *model.Session, offset int) (string, *models.InlineKeyboardMarkup, error) {
	today := Today(h)
	if sess.IsAdmin() {
		text, kb := common.BuildCalendarScreen(today, offset, true, "")
		return text, kb, nil
	}

	admin, err := h.BookingService.Admin(ctx, h.Sessions.Source(sess.ChatID))
	if err != nil {
		return "", nil, err
	}
	text, kb := common.BuildCalendarScreen(today, offset, false, admin.Name)
	return text, kb, nil
}

// Today начало текущего дня в часовом поясе платформы
func Today(h *callbacktypes.Handler) time.Time {
	now := h.AvailabilityService.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// adminFor чей календарь показывать: свой для администратора, единственного администратора для студента
func adminFor(hc *common.HandlerContext) (model.ID, error) {
	if hc.Session.IsAdmin() {
		return hc.Session.UserID, nil
	}
	admin, err := hc.Handler.BookingService.Admin(hc.Ctx, hc.Source())
	if err != nil {
		return "", err
	}
	return admin.ID, nil
}

// parseDateArg разбирает дату и отклоняет дни раньше сегодняшнего
func parseDateArg(h *callbacktypes.Handler, s string) (time.Time, error) {
	date, err := common.ParseCallbackDate(s, h.Location)
	if err != nil {
		return time.Time{}, err
	}
	if date.Before(Today(h)) {
		return time.Time{}, service.ErrSlotUnavailable
	}
	return date, nil
}
