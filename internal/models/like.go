package models

import (
	"time"

	"github.com/google/uuid"
)

// Like marks that a user liked a post; (user, post) is unique.
type Like struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	PostID    uuid.UUID `db:"post_id" json:"post_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
