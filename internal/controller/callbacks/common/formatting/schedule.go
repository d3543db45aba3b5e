package formatting

import (
	"fmt"
	"html"
	"strings"

	"github.com/pratihub/pratihub_bot/internal/model"
	"github.com/pratihub/pratihub_bot/internal/slots"
)

// FormatDaySummary краткая сводка по сетке дня
func FormatDaySummary(grid []model.Slot) string {
	available, booked := slots.Counts(grid)
	return fmt.Sprintf("🟢 %s disponíveis • 🔴 %s agendados",
		CountSlots(available), CountSlots(booked))
}

// FormatSlotButton подпись кнопки слота: "🟢 10:00"
func FormatSlotButton(slot model.Slot) string {
	return GetSlotStatusDisplay(slot).Emoji + " " + slot.Time
}

// FormatAppointmentLine строка встречи для списка
func FormatAppointmentLine(a model.Appointment, admin bool) string {
	var who string
	switch {
	case admin && a.TeamName != "":
		who = "👥 " + html.EscapeString(a.TeamName)
	case admin && a.StudentName != "":
		who = "👤 " + html.EscapeString(a.StudentName)
	case a.TeamID != nil:
		who = "👥 Equipe"
	default:
		who = "👤 Individual"
	}
	return fmt.Sprintf("🗓 %s às %s • %s", FormatAPIDate(a.Date), FormatClock(a.Time), who)
}

// FormatAppointments нумерованный список встреч
func FormatAppointments(list []model.Appointment, offset int, admin bool) string {
	var sb strings.Builder
	for i, a := range list {
		fmt.Fprintf(&sb, "%d. %s\n", offset+i+1, FormatAppointmentLine(a, admin))
	}
	return sb.String()
}
