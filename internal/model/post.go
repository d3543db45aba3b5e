package model

type Post struct {
	ID         ID     `json:"id"`
	AuthorID   ID     `json:"authorId"`
	AuthorName string `json:"authorName,omitempty"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	CreatedAt  string `json:"createdAt,omitempty"`
}

type Comment struct {
	ID         ID     `json:"id"`
	PostID     ID     `json:"postId"`
	AuthorID   ID     `json:"authorId"`
	AuthorName string `json:"authorName,omitempty"`
	Content    string `json:"content"`
	CreatedAt  string `json:"createdAt,omitempty"`
}

type NewPost struct {
	AuthorID ID     `json:"authorId"`
	Title    string `json:"title" validate:"required,min=3,max=120"`
	Content  string `json:"content" validate:"required,min=1,max=2000"`
}

type NewComment struct {
	PostID   ID     `json:"postId"`
	AuthorID ID     `json:"authorId"`
	Content  string `json:"content" validate:"required,min=1,max=2000"`
}
