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

// LikeRepository persists likes.
type LikeRepository struct {
	db *sqlx.DB
}

func NewLikeRepository(db *sqlx.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

// Create inserts a like; a duplicate surfaces as a conflict via the
// (user_id, post_id) unique constraint.
func (r *LikeRepository) Create(ctx context.Context, like *models.Like) error {
	query := `
		INSERT INTO likes (user_id, post_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err := r.db.QueryRowxContext(ctx, query, like.UserID, like.PostID).
		Scan(&like.ID, &like.CreatedAt)
	if err != nil {
		if common.IsUniqueViolation(err) {
			return apperror.New(apperror.ErrCodeConflict, "post already liked")
		}
		return fmt.Errorf("like repository: create: %w", err)
	}

	return nil
}

func (r *LikeRepository) Delete(ctx context.Context, userID, postID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM likes WHERE user_id = $1 AND post_id = $2
	`, userID, postID)
	if err != nil {
		return fmt.Errorf("like repository: delete: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("like repository: delete rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.New(apperror.ErrCodeConflict, "post not liked")
	}

	return nil
}

func (r *LikeRepository) Exists(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS (SELECT 1 FROM likes WHERE user_id = $1 AND post_id = $2)
	`, userID, postID)
	if err != nil {
		return false, fmt.Errorf("like repository: exists: %w", err)
	}
	return exists, nil
}

func (r *LikeRepository) CountByPost(ctx context.Context, postID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM likes WHERE post_id = $1`, postID); err != nil {
		return 0, fmt.Errorf("like repository: count by post: %w", err)
	}
	return count, nil
}

// CountByPosts returns like counts keyed by post id for a batch of
// posts; missing keys mean zero.
func (r *LikeRepository) CountByPosts(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}

	rows := []struct {
		PostID uuid.UUID `db:"post_id"`
		Count  int64     `db:"count"`
	}{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT post_id, COUNT(*) AS count FROM likes WHERE post_id = ANY($1) GROUP BY post_id
	`, pq.Array(postIDs))
	if err != nil {
		return nil, fmt.Errorf("like repository: count by posts: %w", err)
	}

	for _, row := range rows {
		counts[row.PostID] = row.Count
	}
	return counts, nil
}

// LikedPostIDs reports which of the given posts the user has liked.
func (r *LikeRepository) LikedPostIDs(ctx context.Context, userID uuid.UUID, postIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	liked := make(map[uuid.UUID]bool, len(postIDs))
	if len(postIDs) == 0 {
		return liked, nil
	}

	var ids []uuid.UUID
	err := r.db.SelectContext(ctx, &ids, `
		SELECT post_id FROM likes WHERE user_id = $1 AND post_id = ANY($2)
	`, userID, pq.Array(postIDs))
	if err != nil {
		return nil, fmt.Errorf("like repository: liked post ids: %w", err)
	}

	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

func (r *LikeRepository) DeleteByPostTx(ctx context.Context, tx *sqlx.Tx, postID uuid.UUID) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM likes WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("like repository: delete by post: %w", err)
	}
	return nil
}

// DeleteByUserTx removes the user's own likes and the likes on the
// given posts (the user's posts) in one pass of the cascade.
func (r *LikeRepository) DeleteByUserTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, postIDs []uuid.UUID) error {
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM likes WHERE user_id = $1 OR post_id = ANY($2)
	`, userID, pq.Array(postIDs)); err != nil {
		return fmt.Errorf("like repository: delete by user: %w", err)
	}
	return nil
}
