package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rachnit/blog-backend/internal/service"
)

// NotificationHandler serves the recipient's notification inbox.
type NotificationHandler struct {
	notifications *service.NotificationService
}

func NewNotificationHandler(notifications *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// ListUnread handles GET /notifications.
func (h *NotificationHandler) ListUnread(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	views, err := h.notifications.ListUnread(c.Request.Context(), principal)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

// UnreadCount handles GET /notifications/unread/count.
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	count, err := h.notifications.UnreadCount(c.Request.Context(), principal)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// MarkRead handles PUT /notifications/:id/read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	if err := h.notifications.MarkRead(c.Request.Context(), principal, uuidParam(c, "id")); err != nil {
		fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
