package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// Post is a published entry. Hidden posts stay in storage but are
// excluded from every non-admin read path.
type Post struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Title        string     `db:"title" json:"title"`
	Content      string     `db:"content" json:"content"`
	MediaURL     *string    `db:"media_url" json:"media_url,omitempty"`
	MediaType    *string    `db:"media_type" json:"media_type,omitempty"`
	AuthorID     uuid.UUID  `db:"author_id" json:"author_id"`
	Hidden       bool       `db:"hidden" json:"-"`
	HiddenReason *string    `db:"hidden_reason" json:"-"`
	HiddenAt     *time.Time `db:"hidden_at" json:"-"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// PostView is a post annotated for a specific viewer.
type PostView struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	MediaURL       *string   `json:"media_url,omitempty"`
	MediaType      *string   `json:"media_type,omitempty"`
	AuthorID       uuid.UUID `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	LikesCount     int64     `json:"likes_count"`
	IsLiked        bool      `json:"is_liked"`
	CommentsCount  int64     `json:"comments_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// AdminPost is the moderation view of a post, hidden metadata included.
type AdminPost struct {
	ID             uuid.UUID  `json:"id"`
	Title          string     `json:"title"`
	Content        string     `json:"content"`
	MediaURL       *string    `json:"media_url,omitempty"`
	MediaType      *string    `json:"media_type,omitempty"`
	AuthorID       uuid.UUID  `json:"author_id"`
	AuthorUsername string     `json:"author_username"`
	AuthorBanned   bool       `json:"author_banned"`
	LikesCount     int64      `json:"likes_count"`
	CommentsCount  int64      `json:"comments_count"`
	Hidden         bool       `json:"hidden"`
	HiddenReason   *string    `json:"hidden_reason,omitempty"`
	HiddenAt       *time.Time `json:"hidden_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
