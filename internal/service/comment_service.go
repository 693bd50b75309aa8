package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/rachnit/blog-backend/internal/auth"
	"github.com/rachnit/blog-backend/internal/models"
	"github.com/rachnit/blog-backend/internal/pkg/apperror"
	"github.com/rachnit/blog-backend/internal/validation"
)

// CommentService manages comments on visible posts.
type CommentService struct {
	comments CommentRepository
	posts    PostRepository
	users    UserRepository
}

func NewCommentService(comments CommentRepository, posts PostRepository, users UserRepository) *CommentService {
	return &CommentService{comments: comments, posts: posts, users: users}
}

// Create adds a comment to a visible post.
func (s *CommentService) Create(ctx context.Context, principal auth.Principal, postID uuid.UUID, content string) (*models.CommentView, error) {
	if err := validation.ValidateLength("comment", content, validation.MinCommentLength, validation.MaxCommentLength); err != nil {
		return nil, err
	}

	post, err := s.visiblePost(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Content:  content,
		AuthorID: principal.ID,
		PostID:   post.ID,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	return &models.CommentView{
		ID:             comment.ID,
		Content:        comment.Content,
		AuthorID:       comment.AuthorID,
		AuthorUsername: principal.Username,
		PostID:         comment.PostID,
		IsOwner:        true,
		CreatedAt:      comment.CreatedAt,
	}, nil
}

// ListByPost returns a post's comments, newest first, with author
// usernames resolved in one batched lookup.
func (s *CommentService) ListByPost(ctx context.Context, viewer auth.Principal, postID uuid.UUID) ([]models.CommentView, error) {
	post, err := s.visiblePost(ctx, postID)
	if err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	if len(comments) == 0 {
		return []models.CommentView{}, nil
	}

	authorIDSet := make(map[uuid.UUID]struct{}, len(comments))
	for _, comment := range comments {
		authorIDSet[comment.AuthorID] = struct{}{}
	}
	authorIDs := make([]uuid.UUID, 0, len(authorIDSet))
	for id := range authorIDSet {
		authorIDs = append(authorIDs, id)
	}

	authors, err := s.users.ListByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	usernames := make(map[uuid.UUID]string, len(authors))
	for _, author := range authors {
		usernames[author.ID] = author.Username
	}

	views := make([]models.CommentView, 0, len(comments))
	for _, comment := range comments {
		views = append(views, models.CommentView{
			ID:             comment.ID,
			Content:        comment.Content,
			AuthorID:       comment.AuthorID,
			AuthorUsername: usernames[comment.AuthorID],
			PostID:         comment.PostID,
			IsOwner:        comment.AuthorID == viewer.ID,
			CreatedAt:      comment.CreatedAt,
		})
	}

	return views, nil
}

// Delete removes the principal's own comment; anyone else is forbidden.
func (s *CommentService) Delete(ctx context.Context, principal auth.Principal, commentID uuid.UUID) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}

	if comment.AuthorID != principal.ID {
		return apperror.New(apperror.ErrCodeForbidden, "you do not own this comment")
	}

	return s.comments.Delete(ctx, comment.ID)
}

func (s *CommentService) visiblePost(ctx context.Context, postID uuid.UUID) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.Hidden {
		return nil, apperror.ErrPostNotFound
	}
	return post, nil
}
