package model

type Notification struct {
	ID        ID     `json:"id"`
	UserID    ID     `json:"userId"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"createdAt,omitempty"`
}

type NewNotification struct {
	UserID  ID     `json:"userId"`
	Title   string `json:"title" validate:"required,min=3,max=120"`
	Message string `json:"message" validate:"required,min=1,max=2000"`
}
