package keyboard

import (
	"github.com/go-telegram/bot/models"
)

// CallbackBackToMain общий callback возврата в меню
const CallbackBackToMain = "back_to_main"

// BackButton создаёт кнопку "Voltar"
func BackButton(callbackData string) models.InlineKeyboardButton {
	return Button("⬅️ Voltar", callbackData)
}

// BackToMainButton создаёт кнопку "Menu principal"
func BackToMainButton() models.InlineKeyboardButton {
	return Button("🏠 Menu principal", CallbackBackToMain)
}

// CancelButton создаёт кнопку "Cancelar"
func CancelButton(callbackData string) models.InlineKeyboardButton {
	return Button("❌ Cancelar", callbackData)
}

// ConfirmButton создаёт кнопку "Confirmar"
func ConfirmButton(callbackData string) models.InlineKeyboardButton {
	return Button("✅ Confirmar", callbackData)
}

// ConfirmCancelButtons ряд Confirmar/Cancelar
func ConfirmCancelButtons(confirmCallback, cancelCallback string) []models.InlineKeyboardButton {
	return []models.InlineKeyboardButton{
		ConfirmButton(confirmCallback),
		CancelButton(cancelCallback),
	}
}

// AddBackButton добавляет кнопку "Voltar" к builder
func (b *Builder) AddBackButton(callbackData string) *Builder {
	return b.Row(BackButton(callbackData))
}

// AddBackToMainButton добавляет кнопку "Menu principal" к builder
func (b *Builder) AddBackToMainButton() *Builder {
	return b.Row(BackToMainButton())
}
