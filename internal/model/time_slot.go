package model

// Slot один 30-минутный интервал дня.
// Отдельно не хранится, существует только внутри DaySlots.
type Slot struct {
	Time      string `json:"time"` // HH:MM
	Available bool   `json:"available"`
	Booked    bool   `json:"booked"`
	IsPast    bool   `json:"isPast,omitempty"`
}

// Bookable проверяет можно ли записаться на слот
func (s Slot) Bookable() bool {
	return s.Available && !s.Booked && !s.IsPast
}

// DaySlots набор слотов администратора на одну дату (ресурс /timeSlots)
type DaySlots struct {
	ID        ID     `json:"id,omitempty"`
	AdminID   ID     `json:"adminId"`
	TeacherID ID     `json:"teacherId,omitempty"`
	Date      string `json:"date"` // YYYY-MM-DD
	Slots     []Slot `json:"slots"`
}

// Owner возвращает id администратора, бэкенд использует оба имени поля
func (d *DaySlots) Owner() ID {
	if !d.AdminID.IsZero() {
		return d.AdminID
	}
	return d.TeacherID
}
