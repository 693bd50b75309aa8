package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/rachnit/blog-backend/internal/models"
	"github.com/rachnit/blog-backend/internal/pkg/apperror"
	"github.com/rachnit/blog-backend/internal/repository/common"
)

// NotificationRepository persists notifications.
type NotificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// CreateBatchTx inserts a batch of notifications inside the caller's
// transaction. The fan-out path uses it so that either the post and
// all its notifications commit, or none of them do.
func (r *NotificationRepository) CreateBatchTx(ctx context.Context, tx *sqlx.Tx, notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	inserter := common.NewBatchInserter(tx, `
		INSERT INTO notifications (message, type, recipient_id, actor_id, post_id)
	`, 5, 100)

	for _, n := range notifications {
		if err := inserter.Add(ctx, n.Message, n.Type, n.RecipientID, n.ActorID, n.PostID); err != nil {
			return fmt.Errorf("notification repository: create batch: %w", err)
		}
	}

	if err := inserter.Flush(ctx); err != nil {
		return fmt.Errorf("notification repository: create batch: %w", err)
	}

	return nil
}

func (r *NotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	return common.GetByID[models.Notification](ctx, r.db, "notifications", id, apperror.ErrNotificationNotFound)
}

// ListUnreadByRecipient returns the recipient's unread notifications,
// newest first.
func (r *NotificationRepository) ListUnreadByRecipient(ctx context.Context, recipientID uuid.UUID) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.SelectContext(ctx, &notifications, `
		SELECT * FROM notifications WHERE recipient_id = $1 AND NOT read ORDER BY created_at DESC, id ASC
	`, recipientID)
	if err != nil {
		return nil, fmt.Errorf("notification repository: list unread: %w", err)
	}
	return notifications, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND NOT read
	`, recipientID)
	if err != nil {
		return 0, fmt.Errorf("notification repository: count unread: %w", err)
	}
	return count, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("notification repository: mark read: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("notification repository: mark read rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.ErrNotificationNotFound
	}

	return nil
}

func (r *NotificationRepository) DeleteByPostTx(ctx context.Context, tx *sqlx.Tx, postID uuid.UUID) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM notifications WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("notification repository: delete by post: %w", err)
	}
	return nil
}

// DeleteByUserTx removes notifications the user received or caused,
// plus those attached to the given posts (the user's posts).
func (r *NotificationRepository) DeleteByUserTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, postIDs []uuid.UUID) error {
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM notifications WHERE recipient_id = $1 OR actor_id = $1 OR post_id = ANY($2)
	`, userID, pq.Array(postIDs)); err != nil {
		return fmt.Errorf("notification repository: delete by user: %w", err)
	}
	return nil
}
