package users

import (
	"context"
	"strconv"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/callbacktypes"
	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/common"
	"github.com/pratihub/pratihub_bot/internal/model"
	"github.com/pratihub/pratihub_bot/internal/pagination"
)

// ========================
// User Administration
// ========================

// HandlePage список пользователей; формат users_page:page
func HandlePage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		args, err := common.CallbackArgs(callback.Data, 1)
		if err != nil {
			common.HandleError(hc, err, "users_page")
			return
		}
		if err := show(hc, common.ParsePage(args[0])); err != nil {
			common.HandleError(hc, err, "users_page")
			return
		}
		hc.Answer("")
	})
}

// HandleActivate формат user_on:id:page
func HandleActivate(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	setActive(ctx, b, callback, h, true)
}

// HandleDeactivate формат user_off:id:page
func HandleDeactivate(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	setActive(ctx, b, callback, h, false)
}

func setActive(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler, active bool) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		args, err := common.CallbackArgs(callback.Data, 2)
		if err != nil || args[0] == "" {
			common.HandleError(hc, common.ErrInvalidFormat, "users_set_active")
			return
		}
		page, err := strconv.Atoi(args[1])
		if err != nil {
			common.HandleError(hc, common.ErrInvalidFormat, "users_set_active")
			return
		}

		id := model.ID(args[0])
		if id == hc.Session.UserID {
			hc.AnswerAlert("⛔ Você não pode desativar a própria conta")
			return
		}

		if err := h.UserService.SetActive(hc.Ctx, hc.Source(), hc.Session, id, active); err != nil {
			common.HandleError(hc, err, "users_set_active")
			return
		}
		if err := show(hc, page); err != nil {
			common.HandleError(hc, err, "users_set_active")
			return
		}

		answer := "⏸ Usuário desativado"
		if active {
			answer = "✅ Usuário ativado"
		}
		hc.Answer(answer)
	})
}

// Screen страница списка пользователей. Используется командой /usuarios.
func Screen(ctx context.Context, h *callbacktypes.Handler, sess *model.Session, page int) (string, *models.InlineKeyboardMarkup, error) {
	list, err := h.UserService.List(ctx, h.Sessions.Source(sess.ChatID))
	if err != nil {
		return "", nil, err
	}
	text, kb := common.BuildUsersScreen(pagination.Paginate(list, page, common.UsersPageSize), sess.UserID)
	return text, kb, nil
}

func show(hc *common.HandlerContext, page int) error {
	text, kb, err := Screen(hc.Ctx, hc.Handler, hc.Session, page)
	if err != nil {
		return err
	}
	if err := hc.EditMessage(text, kb); err != nil {
		hc.Handler.Logger.Error("Failed to show users", zap.Int64("chat_id", hc.ChatID), zap.Error(err))
	}
	return nil
}
