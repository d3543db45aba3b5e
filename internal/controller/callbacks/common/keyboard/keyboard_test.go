package keyboard

import (
	"testing"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labels(row []models.InlineKeyboardButton) []string {
	out := make([]string, 0, len(row))
	for _, b := range row {
		out = append(out, b.CallbackData)
	}
	return out
}

func TestBuilder_Grid(t *testing.T) {
	buttons := make([]models.InlineKeyboardButton, 0, 7)
	for _, d := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		buttons = append(buttons, Button(d, d))
	}

	kb := NewBuilder().Grid(buttons, 3).Build()
	require.Len(t, kb.InlineKeyboard, 3)
	assert.Equal(t, []string{"a", "b", "c"}, labels(kb.InlineKeyboard[0]))
	assert.Equal(t, []string{"g"}, labels(kb.InlineKeyboard[2]))

	kb = NewBuilder().Grid(buttons[:2], 0).Build()
	assert.Len(t, kb.InlineKeyboard, 2)
}

func TestBuilder_SkipsEmptyRows(t *testing.T) {
	b := NewBuilder().Row().AddPagination("p:", 0, 1).AddBackToMainButton()
	assert.Equal(t, 1, b.Len())
	assert.Equal(t, CallbackBackToMain, b.Build().InlineKeyboard[0][0].CallbackData)
}

func TestPaginationButtons(t *testing.T) {
	tests := []struct {
		name    string
		current int
		total   int
		want    []string
	}{
		{"single page", 0, 1, nil},
		{"first", 0, 3, []string{CallbackNoop, "forum_page:1"}},
		{"middle", 1, 3, []string{"forum_page:0", CallbackNoop, "forum_page:2"}},
		{"last", 2, 3, []string{"forum_page:1", CallbackNoop}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buttons := PaginationButtons("forum_page:", tt.current, tt.total)
			if tt.want == nil {
				assert.Empty(t, buttons)
				return
			}
			assert.Equal(t, tt.want, labels(buttons))
		})
	}

	buttons := PaginationButtons("x:", 1, 3)
	assert.Equal(t, "📄 2/3", buttons[1].Text)
}

func TestWeekPagination(t *testing.T) {
	assert.Equal(t, []string{"cal:7"}, labels(WeekPagination("cal:", 0, 84)))
	assert.Equal(t, []string{"cal:0", "cal:10"}, labels(WeekPagination("cal:", 3, 84)))
	assert.Equal(t, []string{"cal:77"}, labels(WeekPagination("cal:", 84, 84)))
}
