package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User describes a registered account. Ban fields are owned by the
// moderation flow; banning blocks login but does not touch content.
type User struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Username     string     `db:"username" json:"username"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Role         string     `db:"role" json:"role"`
	Banned       bool       `db:"banned" json:"banned"`
	BanReason    *string    `db:"ban_reason" json:"ban_reason,omitempty"`
	BannedAt     *time.Time `db:"banned_at" json:"banned_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// UserProfile is the public view of a user with social stats.
// Email is only populated when the viewer looks at their own profile.
type UserProfile struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Email          *string   `json:"email,omitempty"`
	Role           string    `json:"role"`
	FollowersCount int64     `json:"followers_count"`
	FollowingCount int64     `json:"following_count"`
	PostsCount     int64     `json:"posts_count"`
	IsFollowing    bool      `json:"is_following"`
	IsOwnProfile   bool      `json:"is_own_profile"`
	CreatedAt      time.Time `json:"created_at"`
}

// AdminUser is the moderation view of a user, including ban metadata
// and the aggregate counts the admin screens display.
type AdminUser struct {
	ID             uuid.UUID  `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	Role           string     `json:"role"`
	Banned         bool       `json:"banned"`
	BanReason      *string    `json:"ban_reason,omitempty"`
	BannedAt       *time.Time `json:"banned_at,omitempty"`
	PostsCount     int64      `json:"posts_count"`
	FollowersCount int64      `json:"followers_count"`
	FollowingCount int64      `json:"following_count"`
	ReportsCount   int64      `json:"reports_count"`
	CreatedAt      time.Time  `json:"created_at"`
}
