package appointments

import (
	"context"
	"errors"
	"strconv"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/callbacktypes"
	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/common"
	"github.com/pratihub/pratihub_bot/internal/meetings"
	"github.com/pratihub/pratihub_bot/internal/model"
	"github.com/pratihub/pratihub_bot/internal/pagination"
	"github.com/pratihub/pratihub_bot/internal/service"
)

// ========================
// Meeting List Handlers
// ========================

// HandleTab показывает вкладку встреч; формат meet_tab:upcoming:0
func HandleTab(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		args, err := common.CallbackArgs(callback.Data, 2)
		if err != nil {
			common.HandleError(hc, err, "meetings_tab")
			return
		}
		bucket := meetings.ParseBucket(args[0])

		list, err := h.MeetingService.List(hc.Ctx, hc.Source(), hc.Session)
		if err != nil {
			common.HandleError(hc, err, "meetings_tab")
			return
		}

		showTab(hc, list, bucket, common.ParsePage(args[1]))
		hc.Answer("")
	})
}

// HandleCancel просит подтвердить отмену; формат meet_cancel:id:upcoming:0
func HandleCancel(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, bucket, page, err := parseMeetingArgs(callback.Data)
		if err != nil {
			common.HandleError(hc, err, "meetings_cancel")
			return
		}

		list, err := h.MeetingService.List(hc.Ctx, hc.Source(), hc.Session)
		if err != nil {
			common.HandleError(hc, err, "meetings_cancel")
			return
		}

		a, ok := find(h.MeetingService.Bucket(list, meetings.BucketUpcoming), id)
		if !ok {
			// встречу уже отменили или она прошла
			showTab(hc, list, bucket, page)
			hc.AnswerAlert(common.ErrorMessage(common.ErrNotFound))
			return
		}

		text, kb := common.BuildCancelMeetingScreen(a, hc.Session.IsAdmin(), bucket, page)
		if err := hc.EditMessage(text, kb); err != nil {
			h.Logger.Error("Failed to show cancel confirmation", zap.Int64("chat_id", hc.ChatID), zap.Error(err))
		}
		hc.Answer("")
	})
}

// HandleConfirmCancel отменяет встречу и перерисовывает вкладку; формат meet_confirm:id:upcoming:0
func HandleConfirmCancel(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, bucket, page, err := parseMeetingArgs(callback.Data)
		if err != nil {
			common.HandleError(hc, err, "meetings_confirm_cancel")
			return
		}

		current, err := h.MeetingService.List(hc.Ctx, hc.Source(), hc.Session)
		if err != nil {
			common.HandleError(hc, err, "meetings_confirm_cancel")
			return
		}

		list, err := h.MeetingService.Cancel(hc.Ctx, hc.Source(), hc.Session, id, current)
		showTab(hc, list, bucket, page)
		if err != nil {
			if errors.Is(err, service.ErrCancelFailed) {
				hc.AnswerAlert(err.Error())
				return
			}
			common.HandleError(hc, err, "meetings_confirm_cancel")
			return
		}

		common.LogAndAnswer(hc, "Appointment cancelled from bot", "✅ Reunião cancelada")
	})
}

// Screen первая страница вкладки «Próximas». Используется командой /reunioes.
func Screen(ctx context.Context, h *callbacktypes.Handler, sess *model.Session) (string, *models.InlineKeyboardMarkup, error) {
	list, err := h.MeetingService.List(ctx, h.Sessions.Source(sess.ChatID), sess)
	if err != nil {
		return "", nil, err
	}
	page := pagination.Paginate(h.MeetingService.Bucket(list, meetings.BucketUpcoming), 0, common.MeetingsPageSize)
	text, kb := common.BuildMeetingsScreen(page, meetings.BucketUpcoming, sess.IsAdmin())
	return text, kb, nil
}

func showTab(hc *common.HandlerContext, list []model.Appointment, bucket meetings.Bucket, page int) {
	admin := hc.Session.IsAdmin()
	if !allowed(bucket, admin) {
		bucket = meetings.BucketUpcoming
	}

	p := pagination.Paginate(hc.Handler.MeetingService.Bucket(list, bucket), page, common.MeetingsPageSize)
	text, kb := common.BuildMeetingsScreen(p, bucket, admin)
	if err := hc.EditMessage(text, kb); err != nil {
		hc.Handler.Logger.Error("Failed to show meetings",
			zap.Int64("chat_id", hc.ChatID),
			zap.String("bucket", string(bucket)),
			zap.Error(err))
	}
}

// allowed вкладка доступна роли
func allowed(bucket meetings.Bucket, admin bool) bool {
	for _, b := range common.MeetingTabs(admin) {
		if b == bucket {
			return true
		}
	}
	return false
}

func find(list []model.Appointment, id model.ID) (model.Appointment, bool) {
	for _, a := range list {
		if a.ID == id {
			return a, true
		}
	}
	return model.Appointment{}, false
}

// parseMeetingArgs разбирает "<prefix>id:bucket:page"
func parseMeetingArgs(data string) (model.ID, meetings.Bucket, int, error) {
	args, err := common.CallbackArgs(data, 3)
	if err != nil {
		return "", "", 0, err
	}
	if args[0] == "" {
		return "", "", 0, common.ErrInvalidFormat
	}
	page, err := strconv.Atoi(args[2])
	if err != nil {
		return "", "", 0, common.ErrInvalidFormat
	}
	return model.ID(args[0]), meetings.ParseBucket(args[1]), page, nil
}
