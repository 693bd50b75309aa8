package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rachnit/blog-backend/internal/pkg/apperror"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 30
	MinPasswordLength = 8
	MaxPasswordLength = 72 // bcrypt input limit
	MinTitleLength    = 1
	MaxTitleLength    = 200
	MinContentLength  = 1
	MaxContentLength  = 10000
	MinCommentLength  = 1
	MaxCommentLength  = 2000
	MinReportReason   = 10
	MaxReportReason   = 1000
)

// ValidateLength checks the rune length of a string field.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("%s must be at least %d characters", fieldName, min))
	}
	if max > 0 && length > max {
		return apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("%s must be at most %d characters", fieldName, max))
	}
	return nil
}

// ValidateUsername checks username length and allowed characters.
func ValidateUsername(username string) error {
	if err := ValidateLength("username", username, MinUsernameLength, MaxUsernameLength); err != nil {
		return err
	}

	for _, r := range username {
		if !isUsernameRune(r) {
			return apperror.New(apperror.ErrCodeValidation, "username may only contain letters, digits, '.', '_' and '-'")
		}
	}

	return nil
}

func isUsernameRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '.' || r == '_' || r == '-':
		return true
	}
	return false
}

// ValidateEmail checks the basic shape of an email address.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return apperror.New(apperror.ErrCodeValidation, "email is required")
	}

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return apperror.New(apperror.ErrCodeValidation, "invalid email format")
	}

	local, domain := parts[0], parts[1]
	if len(local) == 0 || len(local) > 64 {
		return apperror.New(apperror.ErrCodeValidation, "email local part must be 1 to 64 characters")
	}
	if len(domain) == 0 || len(domain) > 255 || !strings.Contains(domain, ".") {
		return apperror.New(apperror.ErrCodeValidation, "invalid email domain")
	}

	return nil
}

// ValidatePassword checks password length bounds.
func ValidatePassword(password string) error {
	return ValidateLength("password", password, MinPasswordLength, MaxPasswordLength)
}

// ValidateReportReason requires a meaningful reason, not a throwaway.
func ValidateReportReason(reason string) error {
	return ValidateLength("reason", strings.TrimSpace(reason), MinReportReason, MaxReportReason)
}
