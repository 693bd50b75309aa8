package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rachnit/blog-backend/internal/auth"
	"github.com/rachnit/blog-backend/internal/pkg/apperror"
	"github.com/rachnit/blog-backend/internal/service"
)

// ContextPrincipalKey is the gin.Context key the authenticated
// principal is stored under.
const ContextPrincipalKey = "principal"

// AuthMiddleware validates the Bearer token and stores the resulting
// principal in the request context. Services receive the principal
// explicitly; nothing below this middleware reads the token again.
func AuthMiddleware(tokens *service.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
				"code":  apperror.ErrCodeUnauthenticated,
			})
			return
		}

		raw := strings.TrimPrefix(header, "Bearer ")
		principal, err := tokens.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid or expired token",
				"code":  apperror.ErrCodeUnauthenticated,
			})
			return
		}

		c.Set(ContextPrincipalKey, principal)
		c.Next()
	}
}

// PrincipalFromContext returns the principal set by AuthMiddleware.
func PrincipalFromContext(c *gin.Context) (auth.Principal, bool) {
	raw, exists := c.Get(ContextPrincipalKey)
	if !exists {
		return auth.Principal{}, false
	}

	principal, ok := raw.(auth.Principal)
	return principal, ok
}
