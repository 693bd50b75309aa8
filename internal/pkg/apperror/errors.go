package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound        ErrorCode = "NOT_FOUND"
	ErrCodeUnauthenticated ErrorCode = "UNAUTHENTICATED"
	ErrCodeForbidden       ErrorCode = "FORBIDDEN"
	ErrCodeConflict        ErrorCode = "CONFLICT"
	ErrCodeInvalidState    ErrorCode = "INVALID_STATE"
	ErrCodeValidation      ErrorCode = "VALIDATION_ERROR"
	ErrCodeMediaUpload     ErrorCode = "MEDIA_UPLOAD_FAILED"
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
)

// AppError carries a machine-checkable code, a short human-readable
// reason and the HTTP status the outer layer should answer with. The
// services never format anything beyond code plus reason.
type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthenticated:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeInvalidState:
		return http.StatusUnprocessableEntity
	case ErrCodeValidation, ErrCodeMediaUpload:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

func IsNotFound(err error) bool     { return Is(err, ErrCodeNotFound) }
func IsForbidden(err error) bool    { return Is(err, ErrCodeForbidden) }
func IsConflict(err error) bool     { return Is(err, ErrCodeConflict) }
func IsInvalidState(err error) bool { return Is(err, ErrCodeInvalidState) }

var (
	ErrUserNotFound         = New(ErrCodeNotFound, "user not found")
	ErrPostNotFound         = New(ErrCodeNotFound, "post not found")
	ErrCommentNotFound      = New(ErrCodeNotFound, "comment not found")
	ErrNotificationNotFound = New(ErrCodeNotFound, "notification not found")
	ErrReportNotFound       = New(ErrCodeNotFound, "report not found")
	ErrUnauthenticated      = New(ErrCodeUnauthenticated, "authentication required")
	ErrForbidden            = New(ErrCodeForbidden, "insufficient permissions")
	ErrInvalidCredentials   = New(ErrCodeUnauthenticated, "invalid credentials")
)
