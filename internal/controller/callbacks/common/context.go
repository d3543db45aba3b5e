package common

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/pratihub/pratihub_bot/internal/api"
	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/callbacktypes"
	"github.com/pratihub/pratihub_bot/internal/model"
	"github.com/pratihub/pratihub_bot/internal/service"
	"github.com/pratihub/pratihub_bot/internal/session"
)

// HandlerContext содержит общие данные для обработки callback
// Это избавляет от дублирования кода получения сессии, сообщения и т.д.
type HandlerContext struct {
	Ctx        context.Context
	Bot        *bot.Bot
	Callback   *models.CallbackQuery
	Handler    *callbacktypes.Handler
	Message    *models.Message
	Session    *model.Session
	TelegramID int64
	ChatID     int64
}

// NewHandlerContext создаёт новый контекст обработчика
func NewHandlerContext(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
) *HandlerContext {
	msg := GetMessageFromCallback(callback)
	chatID := callback.From.ID
	if msg != nil {
		chatID = msg.Chat.ID
	}

	return &HandlerContext{
		Ctx:        ctx,
		Bot:        b,
		Callback:   callback,
		Handler:    h,
		Message:    msg,
		TelegramID: callback.From.ID,
		ChatID:     chatID,
	}
}

// LoadSession загружает сессию чата в контекст
func (hc *HandlerContext) LoadSession() error {
	sess, err := hc.Handler.Sessions.Get(hc.Ctx, hc.ChatID)
	if err != nil {
		return err
	}
	hc.Session = sess
	return nil
}

// RequireSession проверяет что чат авторизован
func (hc *HandlerContext) RequireSession() error {
	if hc.Session == nil {
		return hc.LoadSession()
	}
	return nil
}

// RequireAdmin проверяет что владелец сессии администратор
func (hc *HandlerContext) RequireAdmin() error {
	if err := hc.RequireSession(); err != nil {
		return err
	}
	if !hc.Session.IsAdmin() {
		return service.ErrAdminOnly
	}
	return nil
}

// Source токены текущего чата для вызовов сервисов
func (hc *HandlerContext) Source() api.TokenSource {
	return hc.Handler.Sessions.Source(hc.ChatID)
}

// Answer отвечает на callback query
func (hc *HandlerContext) Answer(text string) {
	AnswerCallback(hc.Ctx, hc.Bot, hc.Callback.ID, text)
}

// AnswerAlert отвечает на callback query с alert
func (hc *HandlerContext) AnswerAlert(text string) {
	AnswerCallbackAlert(hc.Ctx, hc.Bot, hc.Callback.ID, text)
}

// EditMessage редактирует сообщение
func (hc *HandlerContext) EditMessage(text string, keyboard *models.InlineKeyboardMarkup) error {
	if hc.Message == nil {
		return ErrNoMessage
	}

	// Фото нельзя превратить в текст, отправляем новое сообщение
	if len(hc.Message.Photo) > 0 {
		return hc.SendMessage(text, keyboard)
	}

	_, err := hc.Bot.EditMessageText(hc.Ctx, &bot.EditMessageTextParams{
		ChatID:      hc.ChatID,
		MessageID:   hc.Message.ID,
		Text:        text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: keyboard,
	})

	// Игнорируем ошибку "message is not modified" - это не настоящая ошибка
	if IsMessageNotModifiedError(err) {
		return nil
	}

	return err
}

// DeleteMessage удаляет сообщение
func (hc *HandlerContext) DeleteMessage() error {
	if hc.Message == nil {
		return ErrNoMessage
	}

	_, err := hc.Bot.DeleteMessage(hc.Ctx, &bot.DeleteMessageParams{
		ChatID:    hc.ChatID,
		MessageID: hc.Message.ID,
	})

	return err
}

// SendMessage отправляет новое сообщение
func (hc *HandlerContext) SendMessage(text string, keyboard *models.InlineKeyboardMarkup) error {
	params := &bot.SendMessageParams{
		ChatID:    hc.ChatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}
	_, err := hc.Bot.SendMessage(hc.Ctx, params)
	return err
}

// SendPhoto отправляет PNG с подписью
func (hc *HandlerContext) SendPhoto(filename string, data []byte, caption string) error {
	_, err := hc.Bot.SendPhoto(hc.Ctx, &bot.SendPhotoParams{
		ChatID:    hc.ChatID,
		Photo:     &models.InputFileUpload{Filename: filename, Data: bytes.NewReader(data)},
		Caption:   caption,
		ParseMode: models.ParseModeHTML,
	})
	return err
}

// ClearState очищает состояние чата
func (hc *HandlerContext) ClearState() {
	hc.Handler.StateManager.ClearState(hc.ChatID)
}

// SetState устанавливает состояние чата
func (hc *HandlerContext) SetState(state callbacktypes.UserState) {
	hc.Handler.StateManager.SetState(hc.ChatID, state)
}

// SetData устанавливает данные в state
func (hc *HandlerContext) SetData(key string, value interface{}) {
	hc.Handler.StateManager.SetData(hc.ChatID, key, value)
}

// GetData получает данные из state
func (hc *HandlerContext) GetData(key string) (interface{}, bool) {
	return hc.Handler.StateManager.GetData(hc.ChatID, key)
}

// IsMessageNotModifiedError Telegram отвечает так на редактирование без изменений
func IsMessageNotModifiedError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "message is not modified")
}

// IsSessionError ошибка означает что пользователю нужно войти заново
func IsSessionError(err error) bool {
	return err != nil && (errors.Is(err, session.ErrNotLoggedIn) || errors.Is(err, api.ErrUnauthorized))
}
