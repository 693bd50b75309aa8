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

// CommentRepository persists comments.
type CommentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (content, author_id, post_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.db.QueryRowxContext(ctx, query, comment.Content, comment.AuthorID, comment.PostID).
		Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		return fmt.Errorf("comment repository: create: %w", err)
	}

	return nil
}

func (r *CommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	return common.GetByID[models.Comment](ctx, r.db, "comments", id, apperror.ErrCommentNotFound)
}

// ListByPost returns a post's comments, newest first.
func (r *CommentRepository) ListByPost(ctx context.Context, postID uuid.UUID) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.SelectContext(ctx, &comments, `
		SELECT * FROM comments WHERE post_id = $1 ORDER BY created_at DESC, id ASC
	`, postID)
	if err != nil {
		return nil, fmt.Errorf("comment repository: list by post: %w", err)
	}
	return comments, nil
}

func (r *CommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("comment repository: delete: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("comment repository: delete rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.ErrCommentNotFound
	}

	return nil
}

func (r *CommentRepository) CountByPost(ctx context.Context, postID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM comments WHERE post_id = $1`, postID); err != nil {
		return 0, fmt.Errorf("comment repository: count by post: %w", err)
	}
	return count, nil
}

// CountByPosts returns comment counts keyed by post id for a batch of
// posts; missing keys mean zero.
func (r *CommentRepository) CountByPosts(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}

	rows := []struct {
		PostID uuid.UUID `db:"post_id"`
		Count  int64     `db:"count"`
	}{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT post_id, COUNT(*) AS count FROM comments WHERE post_id = ANY($1) GROUP BY post_id
	`, pq.Array(postIDs))
	if err != nil {
		return nil, fmt.Errorf("comment repository: count by posts: %w", err)
	}

	for _, row := range rows {
		counts[row.PostID] = row.Count
	}
	return counts, nil
}

func (r *CommentRepository) DeleteByPostTx(ctx context.Context, tx *sqlx.Tx, postID uuid.UUID) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("comment repository: delete by post: %w", err)
	}
	return nil
}

// DeleteByUserTx removes the user's own comments and the comments on
// the given posts (the user's posts) in one pass of the cascade.
func (r *CommentRepository) DeleteByUserTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, postIDs []uuid.UUID) error {
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM comments WHERE author_id = $1 OR post_id = ANY($2)
	`, userID, pq.Array(postIDs)); err != nil {
		return fmt.Errorf("comment repository: delete by user: %w", err)
	}
	return nil
}
