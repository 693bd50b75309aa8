package models

import (
	"time"

	"github.com/google/uuid"
)

// Subscription is a directed follow edge. The pair is unique and
// self-edges are rejected before they reach the database.
type Subscription struct {
	ID          uuid.UUID `db:"id" json:"id"`
	FollowerID  uuid.UUID `db:"follower_id" json:"follower_id"`
	FollowingID uuid.UUID `db:"following_id" json:"following_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
