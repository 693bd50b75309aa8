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

// SubscriptionRepository persists follow edges.
type SubscriptionRepository struct {
	db *sqlx.DB
}

func NewSubscriptionRepository(db *sqlx.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Create inserts a follow edge. A concurrent duplicate loses the race
// against the unique index and comes back as a conflict.
func (r *SubscriptionRepository) Create(ctx context.Context, sub *models.Subscription) error {
	query := `
		INSERT INTO subscriptions (follower_id, following_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err := r.db.QueryRowxContext(ctx, query, sub.FollowerID, sub.FollowingID).
		Scan(&sub.ID, &sub.CreatedAt)
	if err != nil {
		if common.IsUniqueViolation(err) {
			return apperror.New(apperror.ErrCodeConflict, "already following this user")
		}
		return fmt.Errorf("subscription repository: create: %w", err)
	}

	return nil
}

// Delete removes a follow edge; a missing edge is a conflict so a
// double unfollow fails loudly instead of passing silently.
func (r *SubscriptionRepository) Delete(ctx context.Context, followerID, followingID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM subscriptions WHERE follower_id = $1 AND following_id = $2
	`, followerID, followingID)
	if err != nil {
		return fmt.Errorf("subscription repository: delete: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("subscription repository: delete rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.New(apperror.ErrCodeConflict, "not following this user")
	}

	return nil
}

func (r *SubscriptionRepository) Exists(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS (SELECT 1 FROM subscriptions WHERE follower_id = $1 AND following_id = $2)
	`, followerID, followingID)
	if err != nil {
		return false, fmt.Errorf("subscription repository: exists: %w", err)
	}
	return exists, nil
}

// FollowerIDsTx lists the ids of everyone following the user, inside
// the caller's transaction. The fan-out reads the follower set through
// this so the notification batch matches the edges at commit time.
func (r *SubscriptionRepository) FollowerIDsTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := tx.SelectContext(ctx, &ids, `SELECT follower_id FROM subscriptions WHERE following_id = $1`, userID); err != nil {
		return nil, fmt.Errorf("subscription repository: follower ids: %w", err)
	}
	return ids, nil
}

// FollowingIDs lists the ids of everyone the user follows. Order is
// unspecified; only set membership matters downstream.
func (r *SubscriptionRepository) FollowingIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.SelectContext(ctx, &ids, `SELECT following_id FROM subscriptions WHERE follower_id = $1`, userID); err != nil {
		return nil, fmt.Errorf("subscription repository: following ids: %w", err)
	}
	return ids, nil
}

func (r *SubscriptionRepository) CountFollowers(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM subscriptions WHERE following_id = $1`, userID); err != nil {
		return 0, fmt.Errorf("subscription repository: count followers: %w", err)
	}
	return count, nil
}

func (r *SubscriptionRepository) CountFollowing(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM subscriptions WHERE follower_id = $1`, userID); err != nil {
		return 0, fmt.Errorf("subscription repository: count following: %w", err)
	}
	return count, nil
}

// DeleteByUserTx removes every edge the user participates in, on
// either side. Part of the user deletion cascade.
func (r *SubscriptionRepository) DeleteByUserTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID) error {
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM subscriptions WHERE follower_id = $1 OR following_id = $1
	`, userID); err != nil {
		return fmt.Errorf("subscription repository: delete by user: %w", err)
	}
	return nil
}
