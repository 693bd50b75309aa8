package service

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/rachnit/blog-backend/internal/models"
)

// TxRunner groups repository calls into one transaction. The fan-out
// on post creation and the deletion cascades must be all-or-nothing.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

// UserRepository is what the services need from user storage.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateBanStatus(ctx context.Context, user *models.User) error
	CountAll(ctx context.Context) (int64, error)
	CountBanned(ctx context.Context) (int64, error)
	DeleteTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error
}

// PostRepository is what the services need from post storage.
type PostRepository interface {
	CreateTx(ctx context.Context, tx *sqlx.Tx, post *models.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	UpdateHiddenStatus(ctx context.Context, post *models.Post) error
	ListAll(ctx context.Context) ([]models.Post, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Post, error)
	ListByAuthors(ctx context.Context, authorIDs []uuid.UUID) ([]models.Post, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Post, error)
	CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error)
	CountAll(ctx context.Context) (int64, error)
	CountHidden(ctx context.Context) (int64, error)
	IDsByAuthorTx(ctx context.Context, tx *sqlx.Tx, authorID uuid.UUID) ([]uuid.UUID, error)
	DeleteTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error
	DeleteByAuthorTx(ctx context.Context, tx *sqlx.Tx, authorID uuid.UUID) error
}

// SubscriptionRepository is what the services need from the follow graph.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *models.Subscription) error
	Delete(ctx context.Context, followerID, followingID uuid.UUID) error
	Exists(ctx context.Context, followerID, followingID uuid.UUID) (bool, error)
	FollowerIDsTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID) ([]uuid.UUID, error)
	FollowingIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	CountFollowers(ctx context.Context, userID uuid.UUID) (int64, error)
	CountFollowing(ctx context.Context, userID uuid.UUID) (int64, error)
	DeleteByUserTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID) error
}

// LikeRepository is what the services need from like storage.
type LikeRepository interface {
	Create(ctx context.Context, like *models.Like) error
	Delete(ctx context.Context, userID, postID uuid.UUID) error
	Exists(ctx context.Context, userID, postID uuid.UUID) (bool, error)
	CountByPost(ctx context.Context, postID uuid.UUID) (int64, error)
	CountByPosts(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	LikedPostIDs(ctx context.Context, userID uuid.UUID, postIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	DeleteByPostTx(ctx context.Context, tx *sqlx.Tx, postID uuid.UUID) error
	DeleteByUserTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, postIDs []uuid.UUID) error
}

// CommentRepository is what the services need from comment storage.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	ListByPost(ctx context.Context, postID uuid.UUID) ([]models.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountByPost(ctx context.Context, postID uuid.UUID) (int64, error)
	CountByPosts(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	DeleteByPostTx(ctx context.Context, tx *sqlx.Tx, postID uuid.UUID) error
	DeleteByUserTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, postIDs []uuid.UUID) error
}

// NotificationRepository is what the services need from notification storage.
type NotificationRepository interface {
	CreateBatchTx(ctx context.Context, tx *sqlx.Tx, notifications []models.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	ListUnreadByRecipient(ctx context.Context, recipientID uuid.UUID) ([]models.Notification, error)
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	DeleteByPostTx(ctx context.Context, tx *sqlx.Tx, postID uuid.UUID) error
	DeleteByUserTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, postIDs []uuid.UUID) error
}

// ReportRepository is what the services need from report storage.
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error)
	ExistsPending(ctx context.Context, reporterID, reportedUserID uuid.UUID) (bool, error)
	ListAll(ctx context.Context) ([]models.Report, error)
	ListByStatus(ctx context.Context, status string) ([]models.Report, error)
	ListByReportedUser(ctx context.Context, reportedUserID uuid.UUID) ([]models.Report, error)
	UpdateResolution(ctx context.Context, report *models.Report) error
	CountAll(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	CountByReportedUser(ctx context.Context, reportedUserID uuid.UUID) (int64, error)
	DeleteByUserTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID) error
}

// MediaStore is the opaque media storage capability; the services only
// see stable relative URLs.
type MediaStore interface {
	Save(ctx context.Context, ownerID uuid.UUID, originalName string, r io.Reader) (string, string, error)
	Delete(ctx context.Context, relativePath string) error
}
