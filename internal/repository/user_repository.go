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

// UserRepository persists users.
type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user and fills in the generated fields.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, banned, created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query, user.Username, user.Email, user.PasswordHash, user.Role).
		Scan(&user.ID, &user.Banned, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if common.IsUniqueViolation(err) {
			return apperror.New(apperror.ErrCodeConflict, "username or email already exists")
		}
		return fmt.Errorf("user repository: create: %w", err)
	}

	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return common.GetByID[models.User](ctx, r.db, "users", id, apperror.ErrUserNotFound)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return common.GetByField[models.User](ctx, r.db, "users", "username", username, apperror.ErrUserNotFound)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return common.GetByField[models.User](ctx, r.db, "users", "email", email, apperror.ErrUserNotFound)
}

// ListByIDs returns the users for the given ids, order unspecified.
// Used by the view assembly steps to batch author/actor lookups.
func (r *UserRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var users []models.User
	if err := r.db.SelectContext(ctx, &users, `SELECT * FROM users WHERE id = ANY($1)`, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("user repository: list by ids: %w", err)
	}

	return users, nil
}

// List returns all users, newest first.
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, `SELECT * FROM users ORDER BY created_at DESC`); err != nil {
		return nil, fmt.Errorf("user repository: list: %w", err)
	}

	return users, nil
}

// UpdateBanStatus writes the ban fields of a user.
func (r *UserRepository) UpdateBanStatus(ctx context.Context, user *models.User) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET banned = $2, ban_reason = $3, banned_at = $4, updated_at = NOW()
		WHERE id = $1
	`, user.ID, user.Banned, user.BanReason, user.BannedAt)
	if err != nil {
		return fmt.Errorf("user repository: update ban status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("user repository: update ban status rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.ErrUserNotFound
	}

	return nil
}

func (r *UserRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("user repository: count all: %w", err)
	}
	return count, nil
}

func (r *UserRepository) CountBanned(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users WHERE banned`); err != nil {
		return 0, fmt.Errorf("user repository: count banned: %w", err)
	}
	return count, nil
}

// DeleteTx removes a user row inside the caller's transaction. The
// caller is responsible for deleting dependent rows first.
func (r *UserRepository) DeleteTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	result, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("user repository: delete: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("user repository: delete rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.ErrUserNotFound
	}

	return nil
}
