package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rachnit/blog-backend/internal/auth"
	"github.com/rachnit/blog-backend/internal/http/middleware"
	"github.com/rachnit/blog-backend/internal/pkg/apperror"
)

// currentPrincipal extracts the authenticated principal set by the
// auth middleware. Routes without the middleware have no principal.
func currentPrincipal(c *gin.Context) (auth.Principal, bool) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "authentication required",
			"code":  apperror.ErrCodeUnauthenticated,
		})
		return auth.Principal{}, false
	}
	return principal, true
}

// uuidParam parses a path parameter already vetted by UUIDValidator.
func uuidParam(c *gin.Context, name string) uuid.UUID {
	id, _ := uuid.Parse(c.Param(name))
	return id
}

// fail hands the error to the ErrorHandler middleware, which maps it
// to a status code and a client-safe body.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
}

// badRequest responds to malformed request bodies directly; binding
// errors never reach the service layer.
func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error": message,
		"code":  apperror.ErrCodeValidation,
	})
}
