package model

// UserType роль пользователя на платформе
type UserType string

const (
	UserTypeAdmin   UserType = "admin"   // Администратор / преподаватель
	UserTypeStudent UserType = "student" // Студент
)

// Emotional statuses a student can report from the profile screen.
const (
	EmotionalStatusGreat    = "OTIMO"
	EmotionalStatusGood     = "BEM"
	EmotionalStatusNeutral  = "NEUTRO"
	EmotionalStatusTired    = "CANSADO"
	EmotionalStatusStressed = "ESTRESSADO"
)

// EmotionalStatuses список допустимых статусов в порядке отображения
var EmotionalStatuses = []string{
	EmotionalStatusGreat,
	EmotionalStatusGood,
	EmotionalStatusNeutral,
	EmotionalStatusTired,
	EmotionalStatusStressed,
}

type User struct {
	ID              ID       `json:"id"`
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Type            UserType `json:"type"`
	Active          bool     `json:"active"`
	EmotionalStatus string   `json:"emotionalStatus,omitempty"`
	CreatedAt       string   `json:"createdAt,omitempty"`
}

// IsAdmin проверяет является ли пользователь администратором
func (u *User) IsAdmin() bool {
	return u != nil && u.Type == UserTypeAdmin
}

// UserUpdate частичное обновление профиля (PATCH /users/:id)
type UserUpdate struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}
