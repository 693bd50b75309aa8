package auth

import (
	"github.com/google/uuid"

	"github.com/rachnit/blog-backend/internal/models"
)

// Principal is the authenticated caller. It is passed explicitly to
// every service operation instead of living in ambient request state,
// so authorization decisions are visible at the call site.
type Principal struct {
	ID       uuid.UUID
	Username string
	Role     string
}

// IsAdmin reports whether the principal holds the ADMIN role.
func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}
