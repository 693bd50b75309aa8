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

// PostRepository persists posts. List queries order by createdAt
// descending with ascending id as the tie-break, so feeds page
// deterministically when timestamps collide.
type PostRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) *PostRepository {
	return &PostRepository{db: db}
}

// CreateTx inserts a post inside the caller's transaction so the
// notification fan-out commits or rolls back together with it.
func (r *PostRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, post *models.Post) error {
	query := `
		INSERT INTO posts (title, content, media_url, media_type, author_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, hidden, created_at, updated_at
	`

	err := tx.QueryRowxContext(ctx, query, post.Title, post.Content, post.MediaURL, post.MediaType, post.AuthorID).
		Scan(&post.ID, &post.Hidden, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return fmt.Errorf("post repository: create: %w", err)
	}

	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	return common.GetByID[models.Post](ctx, r.db, "posts", id, apperror.ErrPostNotFound)
}

// Update writes the mutable content fields of a post.
func (r *PostRepository) Update(ctx context.Context, post *models.Post) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE posts
		SET title = $2, content = $3, media_url = $4, media_type = $5, updated_at = NOW()
		WHERE id = $1
	`, post.ID, post.Title, post.Content, post.MediaURL, post.MediaType)
	if err != nil {
		return fmt.Errorf("post repository: update: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("post repository: update rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.ErrPostNotFound
	}

	return nil
}

// UpdateHiddenStatus writes the moderation fields of a post.
func (r *PostRepository) UpdateHiddenStatus(ctx context.Context, post *models.Post) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE posts
		SET hidden = $2, hidden_reason = $3, hidden_at = $4
		WHERE id = $1
	`, post.ID, post.Hidden, post.HiddenReason, post.HiddenAt)
	if err != nil {
		return fmt.Errorf("post repository: update hidden status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("post repository: update hidden status rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.ErrPostNotFound
	}

	return nil
}

// ListAll returns every post, hidden ones included; visibility is the
// caller's concern.
func (r *PostRepository) ListAll(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.SelectContext(ctx, &posts, `SELECT * FROM posts ORDER BY created_at DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("post repository: list all: %w", err)
	}
	return posts, nil
}

func (r *PostRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.SelectContext(ctx, &posts, `
		SELECT * FROM posts WHERE author_id = $1 ORDER BY created_at DESC, id ASC
	`, authorID)
	if err != nil {
		return nil, fmt.Errorf("post repository: list by author: %w", err)
	}
	return posts, nil
}

// ListByIDs returns the posts for the given ids, order unspecified.
func (r *PostRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var posts []models.Post
	if err := r.db.SelectContext(ctx, &posts, `SELECT * FROM posts WHERE id = ANY($1)`, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("post repository: list by ids: %w", err)
	}
	return posts, nil
}

// ListByAuthors returns the posts of all the given authors.
func (r *PostRepository) ListByAuthors(ctx context.Context, authorIDs []uuid.UUID) ([]models.Post, error) {
	if len(authorIDs) == 0 {
		return nil, nil
	}

	var posts []models.Post
	err := r.db.SelectContext(ctx, &posts, `
		SELECT * FROM posts WHERE author_id = ANY($1) ORDER BY created_at DESC, id ASC
	`, pq.Array(authorIDs))
	if err != nil {
		return nil, fmt.Errorf("post repository: list by authors: %w", err)
	}
	return posts, nil
}

func (r *PostRepository) CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM posts WHERE author_id = $1`, authorID); err != nil {
		return 0, fmt.Errorf("post repository: count by author: %w", err)
	}
	return count, nil
}

func (r *PostRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM posts`); err != nil {
		return 0, fmt.Errorf("post repository: count all: %w", err)
	}
	return count, nil
}

func (r *PostRepository) CountHidden(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM posts WHERE hidden`); err != nil {
		return 0, fmt.Errorf("post repository: count hidden: %w", err)
	}
	return count, nil
}

// IDsByAuthorTx lists the post ids of an author inside a transaction;
// the user cascade uses it to find dependent rows before deletion.
func (r *PostRepository) IDsByAuthorTx(ctx context.Context, tx *sqlx.Tx, authorID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := tx.SelectContext(ctx, &ids, `SELECT id FROM posts WHERE author_id = $1`, authorID); err != nil {
		return nil, fmt.Errorf("post repository: ids by author: %w", err)
	}
	return ids, nil
}

func (r *PostRepository) DeleteTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	result, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("post repository: delete: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("post repository: delete rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.ErrPostNotFound
	}

	return nil
}

func (r *PostRepository) DeleteByAuthorTx(ctx context.Context, tx *sqlx.Tx, authorID uuid.UUID) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE author_id = $1`, authorID); err != nil {
		return fmt.Errorf("post repository: delete by author: %w", err)
	}
	return nil
}
