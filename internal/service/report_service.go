package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/rachnit/blog-backend/internal/auth"
	"github.com/rachnit/blog-backend/internal/models"
	"github.com/rachnit/blog-backend/internal/pkg/apperror"
	"github.com/rachnit/blog-backend/internal/validation"
)

// ReportStats summarizes the report queue for the admin dashboard.
type ReportStats struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Resolved  int64 `json:"resolved"`
	Dismissed int64 `json:"dismissed"`
}

// ReportService lets users file abuse reports and lets admins read the
// report queue. Resolution lives in AdminService since it is a
// moderation decision.
type ReportService struct {
	reports ReportRepository
	users   UserRepository
}

func NewReportService(reports ReportRepository, users UserRepository) *ReportService {
	return &ReportService{reports: reports, users: users}
}

// Submit files a report against another user. One PENDING report per
// reporter/reported pair; a new report is allowed once the previous one
// is resolved or dismissed.
func (s *ReportService) Submit(ctx context.Context, principal auth.Principal, reportedUserID uuid.UUID, reason string) (*models.Report, error) {
	if principal.ID == reportedUserID {
		return nil, apperror.New(apperror.ErrCodeInvalidState, "you cannot report yourself")
	}
	if err := validation.ValidateReportReason(reason); err != nil {
		return nil, err
	}

	reported, err := s.users.GetByID(ctx, reportedUserID)
	if err != nil {
		return nil, err
	}

	pending, err := s.reports.ExistsPending(ctx, principal.ID, reported.ID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, apperror.New(apperror.ErrCodeConflict, "you already have a pending report against this user")
	}

	report := &models.Report{
		Reason:         strings.TrimSpace(reason),
		Status:         models.ReportStatusPending,
		ReporterID:     principal.ID,
		ReportedUserID: reported.ID,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// List returns all reports, newest first.
func (s *ReportService) List(ctx context.Context, principal auth.Principal) ([]models.ReportView, error) {
	if !principal.IsAdmin() {
		return nil, apperror.ErrForbidden
	}

	reports, err := s.reports.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.buildViews(ctx, reports)
}

// ListByStatus returns the reports in the given status.
func (s *ReportService) ListByStatus(ctx context.Context, principal auth.Principal, status string) ([]models.ReportView, error) {
	if !principal.IsAdmin() {
		return nil, apperror.ErrForbidden
	}

	status = strings.ToUpper(strings.TrimSpace(status))
	switch status {
	case models.ReportStatusPending, models.ReportStatusResolved, models.ReportStatusDismissed:
	default:
		return nil, apperror.New(apperror.ErrCodeValidation, "status must be PENDING, RESOLVED or DISMISSED")
	}

	reports, err := s.reports.ListByStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	return s.buildViews(ctx, reports)
}

// Get returns a single report.
func (s *ReportService) Get(ctx context.Context, principal auth.Principal, reportID uuid.UUID) (*models.ReportView, error) {
	if !principal.IsAdmin() {
		return nil, apperror.ErrForbidden
	}

	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}

	views, err := s.buildViews(ctx, []models.Report{*report})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ForUser returns every report ever filed against one user.
func (s *ReportService) ForUser(ctx context.Context, principal auth.Principal, reportedUserID uuid.UUID) ([]models.ReportView, error) {
	if !principal.IsAdmin() {
		return nil, apperror.ErrForbidden
	}

	if _, err := s.users.GetByID(ctx, reportedUserID); err != nil {
		return nil, err
	}

	reports, err := s.reports.ListByReportedUser(ctx, reportedUserID)
	if err != nil {
		return nil, err
	}
	return s.buildViews(ctx, reports)
}

// Stats returns queue counts by status.
func (s *ReportService) Stats(ctx context.Context, principal auth.Principal) (*ReportStats, error) {
	if !principal.IsAdmin() {
		return nil, apperror.ErrForbidden
	}

	stats := &ReportStats{}
	var err error
	if stats.Total, err = s.reports.CountAll(ctx); err != nil {
		return nil, err
	}
	if stats.Pending, err = s.reports.CountByStatus(ctx, models.ReportStatusPending); err != nil {
		return nil, err
	}
	if stats.Resolved, err = s.reports.CountByStatus(ctx, models.ReportStatusResolved); err != nil {
		return nil, err
	}
	if stats.Dismissed, err = s.reports.CountByStatus(ctx, models.ReportStatusDismissed); err != nil {
		return nil, err
	}
	return stats, nil
}

// buildViews resolves the reporter, the reported user and the resolving
// admin for each report with one batched user lookup.
func (s *ReportService) buildViews(ctx context.Context, reports []models.Report) ([]models.ReportView, error) {
	if len(reports) == 0 {
		return []models.ReportView{}, nil
	}

	idSet := make(map[uuid.UUID]struct{}, len(reports)*2)
	for _, r := range reports {
		idSet[r.ReporterID] = struct{}{}
		idSet[r.ReportedUserID] = struct{}{}
		if r.ResolvedByID != nil {
			idSet[*r.ResolvedByID] = struct{}{}
		}
	}
	ids := make([]uuid.UUID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	users, err := s.users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	views := make([]models.ReportView, 0, len(reports))
	for _, r := range reports {
		view := models.ReportView{
			ID:                 r.ID,
			Reason:             r.Reason,
			Status:             r.Status,
			ReporterID:         r.ReporterID,
			ReporterUsername:   byID[r.ReporterID].Username,
			ReportedUserID:     r.ReportedUserID,
			ReportedUsername:   byID[r.ReportedUserID].Username,
			ReportedUserBanned: byID[r.ReportedUserID].Banned,
			ResolvedByID:       r.ResolvedByID,
			CreatedAt:          r.CreatedAt,
			ResolvedAt:         r.ResolvedAt,
		}
		if r.ResolvedByID != nil {
			if resolver, ok := byID[*r.ResolvedByID]; ok {
				view.ResolvedByUsername = &resolver.Username
			}
		}
		views = append(views, view)
	}

	return views, nil
}
