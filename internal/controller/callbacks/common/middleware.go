package common

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/pratihub/pratihub_bot/internal/api"
	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/callbacktypes"
)

// WithSession создаёт HandlerContext и загружает сессию чата
// При ошибке автоматически отвечает пользователю
func WithSession(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
	handler func(*HandlerContext),
) {
	hc := NewHandlerContext(ctx, b, callback, h)

	if err := hc.RequireSession(); err != nil {
		h.Logger.Info("Callback without session",
			zap.Int64("chat_id", hc.ChatID),
			zap.Error(err))
		hc.AnswerAlert(ErrorMessage(err))
		return
	}

	handler(hc)
}

// WithAdmin создаёт HandlerContext и проверяет что пользователь администратор
func WithAdmin(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
	handler func(*HandlerContext),
) {
	hc := NewHandlerContext(ctx, b, callback, h)

	if err := hc.RequireAdmin(); err != nil {
		h.Logger.Warn("Admin check failed",
			zap.Int64("chat_id", hc.ChatID),
			zap.Error(err))
		hc.AnswerAlert(ErrorMessage(err))
		return
	}

	handler(hc)
}

// HandleError логирует ошибку и показывает её пользователю всплывающим окном
func HandleError(hc *HandlerContext, err error, operation string) {
	fields := []zap.Field{
		zap.String("operation", operation),
		zap.Int64("chat_id", hc.ChatID),
		zap.Error(err),
	}
	if api.IsServerError(err) {
		hc.Handler.Logger.Error("Operation failed", fields...)
	} else {
		hc.Handler.Logger.Warn("Operation failed", fields...)
	}
	hc.AnswerAlert(ErrorMessage(err))
}

// LogAndAnswer логирует действие и отвечает на callback
func LogAndAnswer(hc *HandlerContext, message string, answer string) {
	fields := []zap.Field{zap.Int64("chat_id", hc.ChatID)}
	if hc.Session != nil {
		fields = append(fields, zap.String("user_id", hc.Session.UserID.String()))
	}
	hc.Handler.Logger.Info(message, fields...)
	hc.Answer(answer)
}
