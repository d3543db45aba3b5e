package keyboard

import (
	"fmt"

	"github.com/go-telegram/bot/models"
)

// CallbackNoop кнопка-индикатор без действия
const CallbackNoop = "noop"

// PaginationButtons создаёт ряд кнопок пагинации
// prefix - префикс для callback (например "forum_page:")
// currentPage - текущая страница (0-based)
// totalPages - всего страниц
func PaginationButtons(prefix string, currentPage, totalPages int) []models.InlineKeyboardButton {
	if totalPages <= 1 {
		return nil
	}

	var buttons []models.InlineKeyboardButton

	if currentPage > 0 {
		buttons = append(buttons, Button("⬅️", fmt.Sprintf("%s%d", prefix, currentPage-1)))
	}

	buttons = append(buttons, Button(
		fmt.Sprintf("📄 %d/%d", currentPage+1, totalPages),
		CallbackNoop,
	))

	if currentPage < totalPages-1 {
		buttons = append(buttons, Button("➡️", fmt.Sprintf("%s%d", prefix, currentPage+1)))
	}

	return buttons
}

// AddPagination добавляет пагинацию к builder
func (b *Builder) AddPagination(prefix string, currentPage, totalPages int) *Builder {
	buttons := PaginationButtons(prefix, currentPage, totalPages)
	if len(buttons) > 0 {
		b.Row(buttons...)
	}
	return b
}

// WeekPagination листание календаря по неделям; назад только если offset > 0
func WeekPagination(prefix string, offset, maxOffset int) []models.InlineKeyboardButton {
	var buttons []models.InlineKeyboardButton
	if offset > 0 {
		prev := offset - 7
		if prev < 0 {
			prev = 0
		}
		buttons = append(buttons, Button("⬅️ Semana anterior", fmt.Sprintf("%s%d", prefix, prev)))
	}
	if offset+7 <= maxOffset {
		buttons = append(buttons, Button("Próxima semana ➡️", fmt.Sprintf("%s%d", prefix, offset+7)))
	}
	return buttons
}
