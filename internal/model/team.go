package model

type TeamMember struct {
	UserID ID     `json:"userId"`
	Name   string `json:"name,omitempty"`
	Role   string `json:"role,omitempty"`
}

type Team struct {
	ID        ID           `json:"id"`
	Name      string       `json:"name"`
	Members   []TeamMember `json:"members"`
	CreatedAt string       `json:"createdAt,omitempty"`
}

// HasMember проверяет входит ли пользователь в команду
func (t *Team) HasMember(userID ID) bool {
	for _, m := range t.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}
