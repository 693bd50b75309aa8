package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rachnit/blog-backend/internal/service"
)

// FeedHandler serves the global and personal feeds.
type FeedHandler struct {
	feed *service.FeedService
}

func NewFeedHandler(feed *service.FeedService) *FeedHandler {
	return &FeedHandler{feed: feed}
}

// Global handles GET /posts: every visible post, newest first.
func (h *FeedHandler) Global(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	views, err := h.feed.GlobalFeed(c.Request.Context(), principal)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

// Personal handles GET /posts/feed: followed authors plus the viewer.
func (h *FeedHandler) Personal(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	views, err := h.feed.PersonalFeed(c.Request.Context(), principal)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}
