package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/rachnit/blog-backend/internal/auth"
	"github.com/rachnit/blog-backend/internal/logger"
	"github.com/rachnit/blog-backend/internal/models"
	"github.com/rachnit/blog-backend/internal/pkg/apperror"
	"github.com/rachnit/blog-backend/internal/validation"
)

// PostService owns the post lifecycle, including the notification
// fan-out on creation: inserting the post and materializing one
// NEW_POST notification per follower happen in a single transaction,
// so notifications never exist without their post and a post never
// commits with a partial fan-out.
type PostService struct {
	tx            TxRunner
	posts         PostRepository
	users         UserRepository
	subscriptions SubscriptionRepository
	notifications NotificationRepository
	likes         LikeRepository
	comments      CommentRepository
	media         MediaStore
	views         *postViewBuilder
}

func NewPostService(
	tx TxRunner,
	posts PostRepository,
	users UserRepository,
	subscriptions SubscriptionRepository,
	notifications NotificationRepository,
	likes LikeRepository,
	comments CommentRepository,
	media MediaStore,
) *PostService {
	return &PostService{
		tx:            tx,
		posts:         posts,
		users:         users,
		subscriptions: subscriptions,
		notifications: notifications,
		likes:         likes,
		comments:      comments,
		media:         media,
		views:         newPostViewBuilder(users, likes, comments),
	}
}

// Create publishes a post and fans out notifications to the author's
// followers. Media, when present, has already been uploaded by the
// handler; the upload sits outside the transaction boundary.
func (s *PostService) Create(ctx context.Context, principal auth.Principal, title, content string, mediaURL, mediaType *string) (*models.PostView, error) {
	if err := validation.ValidateLength("title", title, validation.MinTitleLength, validation.MaxTitleLength); err != nil {
		return nil, err
	}
	if err := validation.ValidateLength("content", content, validation.MinContentLength, validation.MaxContentLength); err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:     title,
		Content:   content,
		MediaURL:  mediaURL,
		MediaType: mediaType,
		AuthorID:  principal.ID,
	}

	err := s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.posts.CreateTx(ctx, tx, post); err != nil {
			return err
		}
		return s.fanOut(ctx, tx, post, principal)
	})
	if err != nil {
		return nil, err
	}

	return s.views.BuildOne(ctx, principal, post)
}

// fanOut creates exactly one notification per follower. The follow
// relation is a set, so no dedup is needed: the notification count
// equals the follower count at call time.
func (s *PostService) fanOut(ctx context.Context, tx *sqlx.Tx, post *models.Post, author auth.Principal) error {
	followerIDs, err := s.subscriptions.FollowerIDsTx(ctx, tx, author.ID)
	if err != nil {
		return err
	}

	if len(followerIDs) == 0 {
		return nil
	}

	message := fmt.Sprintf("%s published a new post", author.Username)
	notifications := make([]models.Notification, 0, len(followerIDs))
	for _, followerID := range followerIDs {
		notifications = append(notifications, models.Notification{
			Message:     message,
			Type:        models.NotificationTypeNewPost,
			RecipientID: followerID,
			ActorID:     author.ID,
			PostID:      post.ID,
		})
	}

	return s.notifications.CreateBatchTx(ctx, tx, notifications)
}

// Get returns a single post annotated for the viewer. Hidden posts are
// not found for everyone here, the author included; admins use the
// moderation read path instead.
func (s *PostService) Get(ctx context.Context, viewer auth.Principal, postID uuid.UUID) (*models.PostView, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if post.Hidden {
		return nil, apperror.ErrPostNotFound
	}

	return s.views.BuildOne(ctx, viewer, post)
}

// Update edits a post's fields; nil pointers leave fields unchanged.
// Replacing media deletes the previous file after the row is updated.
func (s *PostService) Update(ctx context.Context, principal auth.Principal, postID uuid.UUID, title, content, mediaURL, mediaType *string) (*models.PostView, error) {
	post, err := s.ownedPost(ctx, principal, postID)
	if err != nil {
		return nil, err
	}

	oldMediaURL := post.MediaURL

	if title != nil {
		if err := validation.ValidateLength("title", *title, validation.MinTitleLength, validation.MaxTitleLength); err != nil {
			return nil, err
		}
		post.Title = *title
	}
	if content != nil {
		if err := validation.ValidateLength("content", *content, validation.MinContentLength, validation.MaxContentLength); err != nil {
			return nil, err
		}
		post.Content = *content
	}
	if mediaURL != nil {
		post.MediaURL = mediaURL
		post.MediaType = mediaType
	}

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}

	if mediaURL != nil && oldMediaURL != nil && *oldMediaURL != *mediaURL {
		s.deleteMedia(ctx, *oldMediaURL)
	}

	return s.views.BuildOne(ctx, principal, post)
}

// Delete removes the author's own post with an explicit cascade:
// notifications, likes and comments referencing the post go in the
// same transaction, then the stored media file.
func (s *PostService) Delete(ctx context.Context, principal auth.Principal, postID uuid.UUID) error {
	post, err := s.ownedPost(ctx, principal, postID)
	if err != nil {
		return err
	}

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.notifications.DeleteByPostTx(ctx, tx, post.ID); err != nil {
			return err
		}
		if err := s.likes.DeleteByPostTx(ctx, tx, post.ID); err != nil {
			return err
		}
		if err := s.comments.DeleteByPostTx(ctx, tx, post.ID); err != nil {
			return err
		}
		return s.posts.DeleteTx(ctx, tx, post.ID)
	})
	if err != nil {
		return err
	}

	if post.MediaURL != nil {
		s.deleteMedia(ctx, *post.MediaURL)
	}

	return nil
}

// UserPosts lists a user's visible posts, newest first.
func (s *PostService) UserPosts(ctx context.Context, viewer auth.Principal, userID uuid.UUID) ([]models.PostView, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	posts, err := s.posts.ListByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.views.Build(ctx, viewer, visibleOnly(posts))
}

// MyPosts lists the caller's own visible posts.
func (s *PostService) MyPosts(ctx context.Context, principal auth.Principal) ([]models.PostView, error) {
	return s.UserPosts(ctx, principal, principal.ID)
}

// ownedPost loads a post and verifies the caller authored it. A hidden
// post is not found even for its author; a foreign post is forbidden.
func (s *PostService) ownedPost(ctx context.Context, principal auth.Principal, postID uuid.UUID) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if post.Hidden {
		return nil, apperror.ErrPostNotFound
	}
	if post.AuthorID != principal.ID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "you do not own this post")
	}

	return post, nil
}

// deleteMedia is best-effort; a leaked file is logged, not fatal.
func (s *PostService) deleteMedia(ctx context.Context, mediaURL string) {
	if err := s.media.Delete(ctx, mediaURL); err != nil && logger.Log != nil {
		logger.Log.WithError(err).WithField("media_url", mediaURL).Warn("failed to delete media file")
	}
}
