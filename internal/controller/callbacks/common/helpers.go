package common

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/pratihub/pratihub_bot/internal/model"
)

// Helper functions для всех callback handlers

// CallbackDateLayout дата в callback data без разделителей, чтобы не путать с ':'
const CallbackDateLayout = "20060102"

// AnswerCallback отвечает на callback query (без alert)
func AnswerCallback(ctx context.Context, b *bot.Bot, callbackID string, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       false,
	})
}

// AnswerCallbackAlert отвечает на callback query с alert (всплывающее окно)
func AnswerCallbackAlert(ctx context.Context, b *bot.Bot, callbackID string, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       true,
	})
}

// GetMessageFromCallback извлекает сообщение из callback query
func GetMessageFromCallback(callback *models.CallbackQuery) *models.Message {
	if callback.Message.Message != nil {
		return callback.Message.Message
	}
	return nil
}

// CallbackArgs разбивает callback data на аргументы после префикса.
// Например: "meet_cancel:42:upcoming:0" -> ["42", "upcoming", "0"]
func CallbackArgs(data string, want int) ([]string, error) {
	parts := strings.Split(data, ":")
	if len(parts)-1 != want {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, data)
	}
	return parts[1:], nil
}

// ParseIDFromCallback извлекает ID из callback data
// Например: "forum_post:123" -> "123"
func ParseIDFromCallback(data string) (model.ID, error) {
	args, err := CallbackArgs(data, 1)
	if err != nil {
		return "", err
	}
	if args[0] == "" {
		return "", ErrInvalidFormat
	}
	return model.ID(args[0]), nil
}

// ParsePage разбирает номер страницы, отрицательные значения считаются первой страницей
func ParsePage(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// FormatCallbackDate кодирует дату для callback data
func FormatCallbackDate(t time.Time) string {
	return t.Format(CallbackDateLayout)
}

// ParseCallbackDate разбирает дату из callback data в часовом поясе loc
func ParseCallbackDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(CallbackDateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q", ErrInvalidFormat, s)
	}
	return t, nil
}

// FormatCallbackTime "10:30" -> "1030"
func FormatCallbackTime(clock string) string {
	return strings.ReplaceAll(clock, ":", "")
}

// ParseCallbackTime "1030" -> "10:30"
func ParseCallbackTime(s string) (string, error) {
	if len(s) != 4 {
		return "", fmt.Errorf("%w: time %q", ErrInvalidFormat, s)
	}
	if _, err := strconv.Atoi(s); err != nil {
		return "", fmt.Errorf("%w: time %q", ErrInvalidFormat, s)
	}
	return s[:2] + ":" + s[2:], nil
}
