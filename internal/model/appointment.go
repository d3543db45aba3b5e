package model

import "time"

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "SCHEDULED"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
	AppointmentStatusCanceled  AppointmentStatus = "CANCELED" // Бэкенд встречается с обоими написаниями
	AppointmentStatusCompleted AppointmentStatus = "COMPLETED"
)

// IsCancelled учитывает оба написания статуса
func (s AppointmentStatus) IsCancelled() bool {
	return s == AppointmentStatusCancelled || s == AppointmentStatusCanceled
}

// Appointment запись студента на встречу с администратором
type Appointment struct {
	ID        ID                `json:"id"`
	StudentID ID                `json:"studentId"`
	AdminID   ID                `json:"adminId"`
	TeacherID ID                `json:"teacherId,omitempty"`
	TeamID    *ID               `json:"teamId"`
	Date      string            `json:"date"` // YYYY-MM-DD
	Time      string            `json:"time"` // HH:MM:SS
	Status    AppointmentStatus `json:"status"`

	// Дополнительные поля для отображения (если бэкенд их отдаёт)
	StudentName string `json:"studentName,omitempty"`
	TeamName    string `json:"teamName,omitempty"`
}

// Owner возвращает id администратора встречи
func (a *Appointment) Owner() ID {
	if !a.AdminID.IsZero() {
		return a.AdminID
	}
	return a.TeacherID
}

// StartsAt возвращает момент начала встречи в указанной зоне
func (a *Appointment) StartsAt(loc *time.Location) (time.Time, error) {
	clock := a.Time
	if len(clock) == len("15:04") {
		clock += ":00"
	}
	return time.ParseInLocation("2006-01-02 15:04:05", a.Date+" "+clock, loc)
}

// NewAppointment тело запроса POST /appointments
type NewAppointment struct {
	AdminID   ID                `json:"adminId"`
	StudentID ID                `json:"studentId"`
	TeamID    *ID               `json:"teamId"`
	Date      string            `json:"date"`
	Time      string            `json:"time"`
	Status    AppointmentStatus `json:"status"`
}
