package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rachnit/blog-backend/internal/service"
)

// ProfileHandler serves user profiles and the follow graph.
type ProfileHandler struct {
	subscriptions *service.SubscriptionService
}

func NewProfileHandler(subscriptions *service.SubscriptionService) *ProfileHandler {
	return &ProfileHandler{subscriptions: subscriptions}
}

// Me handles GET /profile.
func (h *ProfileHandler) Me(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	profile, err := h.subscriptions.MyProfile(c.Request.Context(), principal)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// List handles GET /users.
func (h *ProfileHandler) List(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	profiles, err := h.subscriptions.ListUsers(c.Request.Context(), principal)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, profiles)
}

// Profile handles GET /users/:id/profile.
func (h *ProfileHandler) Profile(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	profile, err := h.subscriptions.Profile(c.Request.Context(), principal, uuidParam(c, "id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// Follow handles POST /users/:id/follow.
func (h *ProfileHandler) Follow(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	sub, err := h.subscriptions.Follow(c.Request.Context(), principal, uuidParam(c, "id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, sub)
}

// Unfollow handles DELETE /users/:id/follow.
func (h *ProfileHandler) Unfollow(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	if err := h.subscriptions.Unfollow(c.Request.Context(), principal, uuidParam(c, "id")); err != nil {
		fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
