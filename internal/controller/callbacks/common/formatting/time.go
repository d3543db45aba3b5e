package formatting

import (
	"fmt"
	"strings"
	"time"

	"github.com/pratihub/pratihub_bot/internal/slots"
)

// FormatDateTime форматирует дату и время
func FormatDateTime(t time.Time) string {
	return t.Format("02/01/2006 15:04")
}

// FormatDate форматирует только дату
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// FormatDateWithWeekday "Quarta, 15/01/2025"
func FormatDateWithWeekday(t time.Time) string {
	return fmt.Sprintf("%s, %s", GetWeekdayName(int(t.Weekday())), FormatDate(t))
}

// FormatAPIDate переводит дату API (YYYY-MM-DD) в вид для пользователя
func FormatAPIDate(date string) string {
	t, err := time.Parse(slots.DateLayout, date)
	if err != nil {
		return date
	}
	return FormatDate(t)
}

// FormatClock обрезает секунды: "10:00:00" -> "10:00"
func FormatClock(clock string) string {
	if len(clock) >= 5 {
		return clock[:5]
	}
	return clock
}

// FormatDayButton подпись дня в календаре; today и tomorrow получают метку
func FormatDayButton(day, today time.Time) string {
	label := fmt.Sprintf("%s, %s", GetWeekdayShort(int(day.Weekday())), day.Format("02/01"))
	switch int(day.Sub(today).Hours() / 24) {
	case 0:
		return "Hoje • " + label
	case 1:
		return "Amanhã • " + label
	}
	return label
}

// GetWeekdayName возвращает название дня недели на португальском
func GetWeekdayName(weekday int) string {
	names := []string{
		"Domingo",
		"Segunda",
		"Terça",
		"Quarta",
		"Quinta",
		"Sexta",
		"Sábado",
	}
	if weekday >= 0 && weekday < len(names) {
		return names[weekday]
	}
	return "Desconhecido"
}

// GetWeekdayShort возвращает короткое название дня недели
func GetWeekdayShort(weekday int) string {
	names := []string{"Dom", "Seg", "Ter", "Qua", "Qui", "Sex", "Sáb"}
	if weekday >= 0 && weekday < len(names) {
		return names[weekday]
	}
	return "?"
}

// GetMonthName возвращает название месяца на португальском
func GetMonthName(month time.Month) string {
	names := map[time.Month]string{
		time.January:   "Janeiro",
		time.February:  "Fevereiro",
		time.March:     "Março",
		time.April:     "Abril",
		time.May:       "Maio",
		time.June:      "Junho",
		time.July:      "Julho",
		time.August:    "Agosto",
		time.September: "Setembro",
		time.October:   "Outubro",
		time.November:  "Novembro",
		time.December:  "Dezembro",
	}
	return names[month]
}

// Truncate обрезает текст до max рун с многоточием
func Truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return string(r[:max])
	}
	return string(r[:max-1]) + "…"
}
