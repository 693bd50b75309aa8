package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/rachnit/blog-backend/internal/auth"
	"github.com/rachnit/blog-backend/internal/models"
	"github.com/rachnit/blog-backend/internal/pkg/apperror"
)

// LikeResult reports the post's like count after a like or unlike.
type LikeResult struct {
	PostID     uuid.UUID `json:"post_id"`
	LikesCount int64     `json:"likes_count"`
	IsLiked    bool      `json:"is_liked"`
}

// LikeService manages likes. Hidden posts cannot be liked or unliked;
// they are not found on this path like on every other non-admin path.
type LikeService struct {
	likes LikeRepository
	posts PostRepository
}

func NewLikeService(likes LikeRepository, posts PostRepository) *LikeService {
	return &LikeService{likes: likes, posts: posts}
}

// Like records that the principal liked the post. A duplicate like is
// a conflict; the unique constraint backs up the existence check.
func (s *LikeService) Like(ctx context.Context, principal auth.Principal, postID uuid.UUID) (*LikeResult, error) {
	post, err := s.visiblePost(ctx, postID)
	if err != nil {
		return nil, err
	}

	exists, err := s.likes.Exists(ctx, principal.ID, post.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.New(apperror.ErrCodeConflict, "post already liked")
	}

	like := &models.Like{UserID: principal.ID, PostID: post.ID}
	if err := s.likes.Create(ctx, like); err != nil {
		return nil, err
	}

	count, err := s.likes.CountByPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	return &LikeResult{PostID: post.ID, LikesCount: count, IsLiked: true}, nil
}

// Unlike removes the principal's like; a missing like is a conflict.
func (s *LikeService) Unlike(ctx context.Context, principal auth.Principal, postID uuid.UUID) (*LikeResult, error) {
	post, err := s.visiblePost(ctx, postID)
	if err != nil {
		return nil, err
	}

	if err := s.likes.Delete(ctx, principal.ID, post.ID); err != nil {
		return nil, err
	}

	count, err := s.likes.CountByPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	return &LikeResult{PostID: post.ID, LikesCount: count, IsLiked: false}, nil
}

// Info reports the post's like count and whether the principal has
// liked it, without changing anything.
func (s *LikeService) Info(ctx context.Context, principal auth.Principal, postID uuid.UUID) (*LikeResult, error) {
	post, err := s.visiblePost(ctx, postID)
	if err != nil {
		return nil, err
	}

	liked, err := s.likes.Exists(ctx, principal.ID, post.ID)
	if err != nil {
		return nil, err
	}

	count, err := s.likes.CountByPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	return &LikeResult{PostID: post.ID, LikesCount: count, IsLiked: liked}, nil
}

func (s *LikeService) visiblePost(ctx context.Context, postID uuid.UUID) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.Hidden {
		return nil, apperror.ErrPostNotFound
	}
	return post, nil
}
