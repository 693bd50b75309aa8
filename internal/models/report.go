package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ReportStatusPending   = "PENDING"
	ReportStatusResolved  = "RESOLVED"
	ReportStatusDismissed = "DISMISSED"
)

// Report is an abuse report against a user. A reporter may hold at most
// one PENDING report against a given user; resolved and dismissed are
// terminal states.
type Report struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	Reason         string     `db:"reason" json:"reason"`
	Status         string     `db:"status" json:"status"`
	ReporterID     uuid.UUID  `db:"reporter_id" json:"reporter_id"`
	ReportedUserID uuid.UUID  `db:"reported_user_id" json:"reported_user_id"`
	ResolvedByID   *uuid.UUID `db:"resolved_by_id" json:"resolved_by_id,omitempty"`
	ResolvedAt     *time.Time `db:"resolved_at" json:"resolved_at,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

// ReportView resolves the users involved for the admin screens.
type ReportView struct {
	ID                 uuid.UUID  `json:"id"`
	Reason             string     `json:"reason"`
	Status             string     `json:"status"`
	ReporterID         uuid.UUID  `json:"reporter_id"`
	ReporterUsername   string     `json:"reporter_username"`
	ReportedUserID     uuid.UUID  `json:"reported_user_id"`
	ReportedUsername   string     `json:"reported_username"`
	ReportedUserBanned bool       `json:"reported_user_banned"`
	ResolvedByID       *uuid.UUID `json:"resolved_by_id,omitempty"`
	ResolvedByUsername *string    `json:"resolved_by_username,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	ResolvedAt         *time.Time `json:"resolved_at,omitempty"`
}
