package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment belongs to a post; only its author may delete it.
type Comment struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Content   string    `db:"content" json:"content"`
	AuthorID  uuid.UUID `db:"author_id" json:"author_id"`
	PostID    uuid.UUID `db:"post_id" json:"post_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CommentView is a comment annotated for a specific viewer.
type CommentView struct {
	ID             uuid.UUID `json:"id"`
	Content        string    `json:"content"`
	AuthorID       uuid.UUID `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	PostID         uuid.UUID `json:"post_id"`
	IsOwner        bool      `json:"is_owner"`
	CreatedAt      time.Time `json:"created_at"`
}
