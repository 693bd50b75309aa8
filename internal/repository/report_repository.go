package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/rachnit/blog-backend/internal/models"
	"github.com/rachnit/blog-backend/internal/pkg/apperror"
	"github.com/rachnit/blog-backend/internal/repository/common"
)

// ReportRepository persists abuse reports.
type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create inserts a PENDING report. The partial unique index on
// (reporter, reported, PENDING) turns a duplicate-submission race into
// a conflict.
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	query := `
		INSERT INTO reports (reason, reporter_id, reported_user_id)
		VALUES ($1, $2, $3)
		RETURNING id, status, created_at
	`

	err := r.db.QueryRowxContext(ctx, query, report.Reason, report.ReporterID, report.ReportedUserID).
		Scan(&report.ID, &report.Status, &report.CreatedAt)
	if err != nil {
		if common.IsUniqueViolation(err) {
			return apperror.New(apperror.ErrCodeConflict, "you already have a pending report against this user")
		}
		return fmt.Errorf("report repository: create: %w", err)
	}

	return nil
}

func (r *ReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	return common.GetByID[models.Report](ctx, r.db, "reports", id, apperror.ErrReportNotFound)
}

func (r *ReportRepository) ExistsPending(ctx context.Context, reporterID, reportedUserID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM reports
			WHERE reporter_id = $1 AND reported_user_id = $2 AND status = $3
		)
	`, reporterID, reportedUserID, models.ReportStatusPending)
	if err != nil {
		return false, fmt.Errorf("report repository: exists pending: %w", err)
	}
	return exists, nil
}

func (r *ReportRepository) ListAll(ctx context.Context) ([]models.Report, error) {
	var reports []models.Report
	if err := r.db.SelectContext(ctx, &reports, `SELECT * FROM reports ORDER BY created_at DESC`); err != nil {
		return nil, fmt.Errorf("report repository: list all: %w", err)
	}
	return reports, nil
}

func (r *ReportRepository) ListByStatus(ctx context.Context, status string) ([]models.Report, error) {
	var reports []models.Report
	err := r.db.SelectContext(ctx, &reports, `
		SELECT * FROM reports WHERE status = $1 ORDER BY created_at DESC
	`, status)
	if err != nil {
		return nil, fmt.Errorf("report repository: list by status: %w", err)
	}
	return reports, nil
}

func (r *ReportRepository) ListByReportedUser(ctx context.Context, reportedUserID uuid.UUID) ([]models.Report, error) {
	var reports []models.Report
	err := r.db.SelectContext(ctx, &reports, `
		SELECT * FROM reports WHERE reported_user_id = $1 ORDER BY created_at DESC
	`, reportedUserID)
	if err != nil {
		return nil, fmt.Errorf("report repository: list by reported user: %w", err)
	}
	return reports, nil
}

// UpdateResolution writes the terminal status of a report. The guard
// on the current status keeps two concurrent resolutions from both
// succeeding.
func (r *ReportRepository) UpdateResolution(ctx context.Context, report *models.Report) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE reports
		SET status = $2, resolved_by_id = $3, resolved_at = $4
		WHERE id = $1 AND status = $5
	`, report.ID, report.Status, report.ResolvedByID, report.ResolvedAt, models.ReportStatusPending)
	if err != nil {
		return fmt.Errorf("report repository: update resolution: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("report repository: update resolution rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.New(apperror.ErrCodeInvalidState, "report is no longer pending")
	}

	return nil
}

func (r *ReportRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM reports`); err != nil {
		return 0, fmt.Errorf("report repository: count all: %w", err)
	}
	return count, nil
}

func (r *ReportRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM reports WHERE status = $1`, status); err != nil {
		return 0, fmt.Errorf("report repository: count by status: %w", err)
	}
	return count, nil
}

func (r *ReportRepository) CountByReportedUser(ctx context.Context, reportedUserID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM reports WHERE reported_user_id = $1`, reportedUserID); err != nil {
		return 0, fmt.Errorf("report repository: count by reported user: %w", err)
	}
	return count, nil
}

// DeleteByUserTx removes the reports filed by or against the user.
// Part of the user deletion cascade.
func (r *ReportRepository) DeleteByUserTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID) error {
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM reports WHERE reporter_id = $1 OR reported_user_id = $1
	`, userID); err != nil {
		return fmt.Errorf("report repository: delete by user: %w", err)
	}
	return nil
}
