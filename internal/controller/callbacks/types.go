package callbacks

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/callbacktypes"
)

// ========================
// Handler with Dependencies
// ========================

// Handler обертка для callbacktypes.Handler с методами
type Handler struct {
	*callbacktypes.Handler
	observe func(kind string)
}

// NewHandler создаёт обработчик callbacks. observe может быть nil.
func NewHandler(deps *callbacktypes.Handler, observe func(kind string)) *Handler {
	return &Handler{Handler: deps, observe: observe}
}

// HandleCallbackQuery - главный обработчик callback queries
func (h *Handler) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}

	callback := update.CallbackQuery
	if h.observe != nil {
		h.observe("callback")
	}

	h.Logger.Info("Callback received",
		zap.String("data", callback.Data),
		zap.Int64("user_id", callback.From.ID),
	)

	// Любое нажатие продлевает сессию
	if msg := callback.Message.Message; msg != nil {
		h.Sessions.Touch(ctx, msg.Chat.ID)
	}

	Route(ctx, b, callback, h.Handler)
}
