package common

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/callbacktypes"
)

// ========================
// Common Navigation Handlers
// ========================

// HandleBackToMain возвращает пользователя к главному меню
func HandleBackToMain(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	WithSession(ctx, b, callback, h, func(hc *HandlerContext) {
		hc.ClearState()

		text, kb := BuildMainMenuScreen(hc.Session)
		if err := hc.EditMessage(text, kb); err != nil {
			h.Logger.Error("Failed to show main menu", zap.Int64("chat_id", hc.ChatID), zap.Error(err))
		}
		hc.Answer("")
	})
}

// HandleProfile показывает профиль текущего пользователя
func HandleProfile(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	WithSession(ctx, b, callback, h, func(hc *HandlerContext) {
		user, err := h.Sessions.CurrentUser(hc.Ctx, hc.ChatID)
		if err != nil {
			HandleError(hc, err, "profile")
			return
		}

		text, kb := BuildProfileScreen(user)
		if err := hc.EditMessage(text, kb); err != nil {
			h.Logger.Error("Failed to show profile", zap.Int64("chat_id", hc.ChatID), zap.Error(err))
		}
		hc.Answer("")
	})
}
