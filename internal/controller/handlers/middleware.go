package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/pratihub/pratihub_bot/internal/api"
	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/common"
	"github.com/pratihub/pratihub_bot/internal/model"
	"github.com/pratihub/pratihub_bot/internal/service"
)

// begin учитывает апдейт в метриках и продлевает сессию.
// Возвращает chat id или false если в апдейте нет сообщения.
func (h *Handlers) begin(ctx context.Context, update *models.Update, kind string) (int64, bool) {
	if update.Message == nil {
		return 0, false
	}
	h.observe(kind)
	chatID := update.Message.Chat.ID
	h.deps.Sessions.Touch(ctx, chatID)
	return chatID, true
}

// requireSession проверяет что чат вошёл в систему
// Возвращает сессию и true если OK, nil и false если нет
func (h *Handlers) requireSession(ctx context.Context, b *bot.Bot, chatID int64) (*model.Session, bool) {
	sess, err := h.deps.Sessions.Get(ctx, chatID)
	if err != nil {
		if !common.IsSessionError(err) {
			h.logger.Error("Failed to get session", zap.Int64("chat_id", chatID), zap.Error(err))
		}
		h.sendError(ctx, b, chatID, err)
		return nil, false
	}
	return sess, true
}

// requireAdmin проверяет что пользователь администратор
func (h *Handlers) requireAdmin(ctx context.Context, b *bot.Bot, chatID int64) (*model.Session, bool) {
	sess, ok := h.requireSession(ctx, b, chatID)
	if !ok {
		return nil, false
	}
	if !sess.IsAdmin() {
		h.sendError(ctx, b, chatID, service.ErrAdminOnly)
		return nil, false
	}
	return sess, true
}

// sendError отправляет текст ошибки и логирует если не удалось
func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, err error) {
	if api.IsServerError(err) {
		h.logger.Error("Backend error", zap.Int64("chat_id", chatID), zap.Error(err))
	}

	text := common.ErrorMessage(err)
	if _, sendErr := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}); sendErr != nil {
		h.logger.Error("Failed to send error message",
			zap.Int64("chat_id", chatID),
			zap.String("text", text),
			zap.Error(sendErr),
		)
	}
}

// sendMessage отправляет HTML-сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	h.sendScreen(ctx, b, chatID, text, nil)
}

// sendScreen отправляет экран с клавиатурой
func (h *Handlers) sendScreen(ctx context.Context, b *bot.Bot, chatID int64, text string, kb *models.InlineKeyboardMarkup) {
	params := &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if kb != nil {
		params.ReplyMarkup = kb
	}
	if _, err := b.SendMessage(ctx, params); err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// deleteMessage убирает сообщение пользователя (например, с паролем)
func (h *Handlers) deleteMessage(ctx context.Context, b *bot.Bot, msg *models.Message) {
	if _, err := b.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
	}); err != nil {
		h.logger.Warn("Failed to delete message",
			zap.Int64("chat_id", msg.Chat.ID),
			zap.Int("message_id", msg.ID),
			zap.Error(err))
	}
}
