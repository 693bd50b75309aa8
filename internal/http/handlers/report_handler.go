package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rachnit/blog-backend/internal/service"
)

// ReportHandler lets authenticated users file abuse reports.
// Reading and resolving the queue lives on the admin routes.
type ReportHandler struct {
	reports *service.ReportService
}

func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Submit handles POST /reports.
func (h *ReportHandler) Submit(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var req struct {
		ReportedUserID string `json:"reported_user_id" binding:"required,uuid"`
		Reason         string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	reportedUserID, _ := uuid.Parse(req.ReportedUserID)
	report, err := h.reports.Submit(c.Request.Context(), principal, reportedUserID, req.Reason)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, report)
}
