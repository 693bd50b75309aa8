package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationTypeNewPost is the only notification type today; it is
// emitted once per follower when an author publishes a post.
const NotificationTypeNewPost = "NEW_POST"

// Notification is a per-recipient record created by the fan-out path.
// Only the recipient may mark it read.
type Notification struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Message     string    `db:"message" json:"message"`
	Type        string    `db:"type" json:"type"`
	RecipientID uuid.UUID `db:"recipient_id" json:"recipient_id"`
	ActorID     uuid.UUID `db:"actor_id" json:"actor_id"`
	PostID      uuid.UUID `db:"post_id" json:"post_id"`
	Read        bool      `db:"read" json:"read"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// NotificationView resolves actor and post for display.
type NotificationView struct {
	ID            uuid.UUID `json:"id"`
	Message       string    `json:"message"`
	Type          string    `json:"type"`
	Read          bool      `json:"read"`
	ActorID       uuid.UUID `json:"actor_id"`
	ActorUsername string    `json:"actor_username"`
	PostID        uuid.UUID `json:"post_id"`
	PostTitle     string    `json:"post_title"`
	CreatedAt     time.Time `json:"created_at"`
}
