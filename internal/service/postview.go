package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/rachnit/blog-backend/internal/auth"
	"github.com/rachnit/blog-backend/internal/models"
)

// postViewBuilder annotates posts for a viewer. It batches the
// like-count, is-liked, comment-count and author lookups so a feed of
// N posts costs four queries, not 4N.
type postViewBuilder struct {
	users    UserRepository
	likes    LikeRepository
	comments CommentRepository
}

func newPostViewBuilder(users UserRepository, likes LikeRepository, comments CommentRepository) *postViewBuilder {
	return &postViewBuilder{users: users, likes: likes, comments: comments}
}

// Build annotates the given posts for the viewer, preserving order.
func (b *postViewBuilder) Build(ctx context.Context, viewer auth.Principal, posts []models.Post) ([]models.PostView, error) {
	if len(posts) == 0 {
		return []models.PostView{}, nil
	}

	postIDs := make([]uuid.UUID, 0, len(posts))
	authorIDSet := make(map[uuid.UUID]struct{}, len(posts))
	for _, post := range posts {
		postIDs = append(postIDs, post.ID)
		authorIDSet[post.AuthorID] = struct{}{}
	}

	authorIDs := make([]uuid.UUID, 0, len(authorIDSet))
	for id := range authorIDSet {
		authorIDs = append(authorIDs, id)
	}

	likeCounts, err := b.likes.CountByPosts(ctx, postIDs)
	if err != nil {
		return nil, err
	}

	liked, err := b.likes.LikedPostIDs(ctx, viewer.ID, postIDs)
	if err != nil {
		return nil, err
	}

	commentCounts, err := b.comments.CountByPosts(ctx, postIDs)
	if err != nil {
		return nil, err
	}

	authors, err := b.users.ListByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	usernames := make(map[uuid.UUID]string, len(authors))
	for _, author := range authors {
		usernames[author.ID] = author.Username
	}

	views := make([]models.PostView, 0, len(posts))
	for _, post := range posts {
		views = append(views, models.PostView{
			ID:             post.ID,
			Title:          post.Title,
			Content:        post.Content,
			MediaURL:       post.MediaURL,
			MediaType:      post.MediaType,
			AuthorID:       post.AuthorID,
			AuthorUsername: usernames[post.AuthorID],
			LikesCount:     likeCounts[post.ID],
			IsLiked:        liked[post.ID],
			CommentsCount:  commentCounts[post.ID],
			CreatedAt:      post.CreatedAt,
			UpdatedAt:      post.UpdatedAt,
		})
	}

	return views, nil
}

// BuildOne annotates a single post for the viewer.
func (b *postViewBuilder) BuildOne(ctx context.Context, viewer auth.Principal, post *models.Post) (*models.PostView, error) {
	views, err := b.Build(ctx, viewer, []models.Post{*post})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// visibleOnly filters out hidden posts; every non-admin read path goes
// through this, the author of a hidden post included.
func visibleOnly(posts []models.Post) []models.Post {
	visible := make([]models.Post, 0, len(posts))
	for _, post := range posts {
		if !post.Hidden {
			visible = append(visible, post)
		}
	}
	return visible
}
