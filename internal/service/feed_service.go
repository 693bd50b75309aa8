package service

import (
	"context"

	"github.com/rachnit/blog-backend/internal/auth"
	"github.com/rachnit/blog-backend/internal/models"
)

// FeedService composes the two feeds. Both are strictly
// reverse-chronological (ascending id on timestamp ties, so pagination
// stays deterministic) and both apply the same visibility rule: a post
// is feed-eligible iff it is not hidden. A ban on the author does not
// remove their posts; hide and ban are independent moderation actions.
type FeedService struct {
	posts         PostRepository
	subscriptions SubscriptionRepository
	views         *postViewBuilder
}

func NewFeedService(posts PostRepository, subscriptions SubscriptionRepository, users UserRepository, likes LikeRepository, comments CommentRepository) *FeedService {
	return &FeedService{
		posts:         posts,
		subscriptions: subscriptions,
		views:         newPostViewBuilder(users, likes, comments),
	}
}

// GlobalFeed returns every visible post, annotated for the viewer.
func (s *FeedService) GlobalFeed(ctx context.Context, viewer auth.Principal) ([]models.PostView, error) {
	posts, err := s.posts.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	return s.views.Build(ctx, viewer, visibleOnly(posts))
}

// PersonalFeed returns the visible posts of everyone the viewer
// follows, plus the viewer's own. Self-inclusion means a user with no
// follows still sees their own posts; the feed is only empty when they
// follow nobody and have published nothing.
func (s *FeedService) PersonalFeed(ctx context.Context, viewer auth.Principal) ([]models.PostView, error) {
	followingIDs, err := s.subscriptions.FollowingIDs(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}

	authorIDs := append(followingIDs, viewer.ID)

	posts, err := s.posts.ListByAuthors(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	return s.views.Build(ctx, viewer, visibleOnly(posts))
}
