package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rachnit/blog-backend/internal/service"
)

// CommentHandler is the HTTP layer for post comments.
type CommentHandler struct {
	comments *service.CommentService
}

func NewCommentHandler(comments *service.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// Create handles POST /posts/:id/comments.
func (h *CommentHandler) Create(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	view, err := h.comments.Create(c.Request.Context(), principal, uuidParam(c, "id"), req.Content)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

// List handles GET /posts/:id/comments.
func (h *CommentHandler) List(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	views, err := h.comments.ListByPost(c.Request.Context(), principal, uuidParam(c, "id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

// Delete handles DELETE /comments/:id.
func (h *CommentHandler) Delete(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	if err := h.comments.Delete(c.Request.Context(), principal, uuidParam(c, "id")); err != nil {
		fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
