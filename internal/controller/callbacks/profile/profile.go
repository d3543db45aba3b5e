package profile

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/callbacktypes"
	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/common"
	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/common/formatting"
	"github.com/pratihub/pratihub_bot/internal/controller/state"
	"github.com/pratihub/pratihub_bot/internal/model"
)

// HandleHumorMenu выбор эмоционального статуса
func HandleHumorMenu(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		text, kb, err := HumorScreen(hc.Ctx, h, hc.Session)
		if err != nil {
			common.HandleError(hc, err, "humor_menu")
			return
		}
		if err := hc.EditMessage(text, kb); err != nil {
			h.Logger.Error("Failed to show humor menu", zap.Int64("chat_id", hc.ChatID), zap.Error(err))
		}
		hc.Answer("")
	})
}

// HandleHumor сохраняет статус; формат humor:GREAT
func HandleHumor(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		status := strings.TrimPrefix(callback.Data, common.Humor)
		if err := h.UserService.SetEmotionalStatus(hc.Ctx, hc.Source(), hc.Session.UserID, status); err != nil {
			common.HandleError(hc, err, "humor")
			return
		}

		text, kb := common.BuildHumorScreen(status)
		if err := hc.EditMessage(text, kb); err != nil {
			h.Logger.Error("Failed to show humor menu", zap.Int64("chat_id", hc.ChatID), zap.Error(err))
		}
		common.LogAndAnswer(hc, "Emotional status updated", "Obrigado! "+formatting.GetEmotionalStatusDisplay(status).String())
	})
}

// HandleRename начинает диалог смены имени
func HandleRename(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		hc.ClearState()
		hc.SetState(state.StateProfileName)
		if err := hc.SendMessage("✏️ Digite o seu novo nome:\n\n/cancelar para desistir", nil); err != nil {
			h.Logger.Error("Failed to prompt profile name", zap.Int64("chat_id", hc.ChatID), zap.Error(err))
		}
		hc.Answer("")
	})
}

// HumorScreen меню статуса с текущим значением. Используется командой /humor.
func HumorScreen(ctx context.Context, h *callbacktypes.Handler, sess *model.Session) (string, *models.InlineKeyboardMarkup, error) {
	user, err := h.Sessions.CurrentUser(ctx, sess.ChatID)
	if err != nil {
		return "", nil, err
	}
	text, kb := common.BuildHumorScreen(user.EmotionalStatus)
	return text, kb, nil
}
