package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rachnit/blog-backend/internal/logger"
	"github.com/rachnit/blog-backend/internal/pkg/apperror"
)

// ErrorHandler turns errors attached to the context into JSON
// responses. Typed application errors carry their own status and
// client-safe message; everything else is masked as an internal error
// and logged with the request path.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Code == apperror.ErrCodeInternal && logger.Log != nil {
				logger.Log.WithFields(logrus.Fields{
					"error":  err.Error(),
					"path":   c.Request.URL.Path,
					"method": c.Request.Method,
				}).Error("request failed")
			}
			c.JSON(appErr.HTTPStatus, gin.H{
				"error": appErr.Message,
				"code":  appErr.Code,
			})
			return
		}

		if logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"error":  err.Error(),
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			}).Error("request failed")
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "internal server error",
			"code":  apperror.ErrCodeInternal,
		})
	}
}
