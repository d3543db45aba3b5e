package formatting

import "fmt"

// Pluralize выбирает форму слова: в португальском единственное число только для 1
func Pluralize(count int, singular, plural string) string {
	if count == 1 || count == -1 {
		return singular
	}
	return plural
}

// CountMeetings "1 reunião", "3 reuniões"
func CountMeetings(count int) string {
	return fmt.Sprintf("%d %s", count, Pluralize(count, "reunião", "reuniões"))
}

// CountSlots "1 horário", "5 horários"
func CountSlots(count int) string {
	return fmt.Sprintf("%d %s", count, Pluralize(count, "horário", "horários"))
}

// CountNotifications "0 notificações", "1 notificação"
func CountNotifications(count int) string {
	return fmt.Sprintf("%d %s", count, Pluralize(count, "notificação", "notificações"))
}

// CountComments "1 comentário", "2 comentários"
func CountComments(count int) string {
	return fmt.Sprintf("%d %s", count, Pluralize(count, "comentário", "comentários"))
}
