package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rachnit/blog-backend/internal/service"
)

// AdminHandler is the HTTP layer for moderation. Authorization is not
// checked here: every service call verifies the admin role itself, so
// the check cannot be bypassed by a new route forgetting a middleware.
type AdminHandler struct {
	admin   *service.AdminService
	reports *service.ReportService
}

func NewAdminHandler(admin *service.AdminService, reports *service.ReportService) *AdminHandler {
	return &AdminHandler{admin: admin, reports: reports}
}

// ListUsers handles GET /admin/users.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	users, err := h.admin.ListUsers(c.Request.Context(), principal)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

// GetUser handles GET /admin/users/:id.
func (h *AdminHandler) GetUser(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	user, err := h.admin.GetUser(c.Request.Context(), principal, uuidParam(c, "id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// BanUser handles POST /admin/users/:id/ban.
func (h *AdminHandler) BanUser(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	user, err := h.admin.BanUser(c.Request.Context(), principal, uuidParam(c, "id"), req.Reason)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UnbanUser handles POST /admin/users/:id/unban.
func (h *AdminHandler) UnbanUser(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	user, err := h.admin.UnbanUser(c.Request.Context(), principal, uuidParam(c, "id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteUser handles DELETE /admin/users/:id.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	if err := h.admin.DeleteUser(c.Request.Context(), principal, uuidParam(c, "id")); err != nil {
		fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListPosts handles GET /admin/posts.
func (h *AdminHandler) ListPosts(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	posts, err := h.admin.ListPosts(c.Request.Context(), principal)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

// GetPost handles GET /admin/posts/:id.
func (h *AdminHandler) GetPost(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	post, err := h.admin.GetPost(c.Request.Context(), principal, uuidParam(c, "id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// HidePost handles POST /admin/posts/:id/hide.
func (h *AdminHandler) HidePost(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	post, err := h.admin.HidePost(c.Request.Context(), principal, uuidParam(c, "id"), req.Reason)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// UnhidePost handles POST /admin/posts/:id/unhide.
func (h *AdminHandler) UnhidePost(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	post, err := h.admin.UnhidePost(c.Request.Context(), principal, uuidParam(c, "id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// DeletePost handles DELETE /admin/posts/:id.
func (h *AdminHandler) DeletePost(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	if err := h.admin.DeletePost(c.Request.Context(), principal, uuidParam(c, "id")); err != nil {
		fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListReports handles GET /admin/reports with an optional ?status=.
func (h *AdminHandler) ListReports(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	if status := c.Query("status"); status != "" {
		result, err := h.reports.ListByStatus(c.Request.Context(), principal, status)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
		return
	}

	result, err := h.reports.List(c.Request.Context(), principal)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetReport handles GET /admin/reports/:id.
func (h *AdminHandler) GetReport(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	report, err := h.reports.Get(c.Request.Context(), principal, uuidParam(c, "id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// UserReports handles GET /admin/users/:id/reports.
func (h *AdminHandler) UserReports(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	reports, err := h.reports.ForUser(c.Request.Context(), principal, uuidParam(c, "id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, reports)
}

// ResolveReport handles PUT /admin/reports/:id/resolve.
func (h *AdminHandler) ResolveReport(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var req struct {
		Action string `json:"action" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	report, err := h.admin.ResolveReport(c.Request.Context(), principal, uuidParam(c, "id"), req.Action)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// ReportStats handles GET /admin/reports/stats.
func (h *AdminHandler) ReportStats(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	stats, err := h.reports.Stats(c.Request.Context(), principal)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Stats handles GET /admin/stats.
func (h *AdminHandler) Stats(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	stats, err := h.admin.Stats(c.Request.Context(), principal)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
