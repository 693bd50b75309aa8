package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rachnit/blog-backend/internal/service"
)

// LikeHandler toggles likes on posts.
type LikeHandler struct {
	likes *service.LikeService
}

func NewLikeHandler(likes *service.LikeService) *LikeHandler {
	return &LikeHandler{likes: likes}
}

// Like handles POST /posts/:id/like.
func (h *LikeHandler) Like(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	result, err := h.likes.Like(c.Request.Context(), principal, uuidParam(c, "id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Info handles GET /posts/:id/like.
func (h *LikeHandler) Info(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	result, err := h.likes.Info(c.Request.Context(), principal, uuidParam(c, "id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Unlike handles DELETE /posts/:id/like.
func (h *LikeHandler) Unlike(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	result, err := h.likes.Unlike(c.Request.Context(), principal, uuidParam(c, "id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
