package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rachnit/blog-backend/internal/auth"
	"github.com/rachnit/blog-backend/internal/models"
)

type feedFixture struct {
	users *fakeUserRepo
	posts *fakePostRepo
	subs  *fakeSubscriptionRepo
	likes *fakeLikeRepo
	feed  *FeedService
}

func newFeedFixture() *feedFixture {
	users := newFakeUserRepo()
	posts := newFakePostRepo()
	subs := newFakeSubscriptionRepo()
	likes := newFakeLikeRepo()
	comments := newFakeCommentRepo()
	return &feedFixture{
		users: users,
		posts: posts,
		subs:  subs,
		likes: likes,
		feed:  NewFeedService(posts, subs, users, likes, comments),
	}
}

func principalOf(user *models.User) auth.Principal {
	return auth.Principal{ID: user.ID, Username: user.Username, Role: user.Role}
}

func titles(views []models.PostView) []string {
	out := make([]string, 0, len(views))
	for _, v := range views {
		out = append(out, v.Title)
	}
	return out
}

func TestGlobalFeed_ExcludesHiddenPosts(t *testing.T) {
	f := newFeedFixture()
	alice := f.users.add("alice", models.RoleUser)
	bob := f.users.add("bob", models.RoleUser)

	f.posts.add(alice.ID, "first", false)
	f.posts.add(bob.ID, "moderated", true)
	f.posts.add(bob.ID, "second", false)

	views, err := f.feed.GlobalFeed(context.Background(), principalOf(alice))
	require.NoError(t, err)

	assert.Equal(t, []string{"second", "first"}, titles(views))
}

func TestGlobalFeed_HiddenPostInvisibleToItsAuthor(t *testing.T) {
	f := newFeedFixture()
	alice := f.users.add("alice", models.RoleUser)
	f.posts.add(alice.ID, "moderated", true)

	views, err := f.feed.GlobalFeed(context.Background(), principalOf(alice))
	require.NoError(t, err)

	assert.Empty(t, views)
}

func TestPersonalFeed_FollowedAuthorsAndSelf(t *testing.T) {
	f := newFeedFixture()
	alice := f.users.add("alice", models.RoleUser)
	bob := f.users.add("bob", models.RoleUser)
	carol := f.users.add("carol", models.RoleUser)

	f.subs.add(alice.ID, bob.ID)

	f.posts.add(bob.ID, "from bob", false)
	f.posts.add(carol.ID, "from carol", false)
	f.posts.add(alice.ID, "from alice", false)

	views, err := f.feed.PersonalFeed(context.Background(), principalOf(alice))
	require.NoError(t, err)

	// Carol is not followed; alice sees bob and herself, newest first.
	assert.Equal(t, []string{"from alice", "from bob"}, titles(views))
}

func TestPersonalFeed_ExcludesHiddenPosts(t *testing.T) {
	f := newFeedFixture()
	alice := f.users.add("alice", models.RoleUser)
	bob := f.users.add("bob", models.RoleUser)

	f.subs.add(alice.ID, bob.ID)

	f.posts.add(bob.ID, "visible", false)
	f.posts.add(bob.ID, "moderated", true)
	f.posts.add(alice.ID, "mine hidden", true)

	views, err := f.feed.PersonalFeed(context.Background(), principalOf(alice))
	require.NoError(t, err)

	assert.Equal(t, []string{"visible"}, titles(views))
}

func TestPersonalFeed_EmptyWithoutFollowsOrPosts(t *testing.T) {
	f := newFeedFixture()
	alice := f.users.add("alice", models.RoleUser)
	bob := f.users.add("bob", models.RoleUser)
	f.posts.add(bob.ID, "unseen", false)

	views, err := f.feed.PersonalFeed(context.Background(), principalOf(alice))
	require.NoError(t, err)

	assert.Empty(t, views)
}

func TestFeed_ViewsCarryLikeAndAuthorData(t *testing.T) {
	f := newFeedFixture()
	alice := f.users.add("alice", models.RoleUser)
	bob := f.users.add("bob", models.RoleUser)

	post := f.posts.add(bob.ID, "liked post", false)
	require.NoError(t, f.likes.Create(context.Background(), &models.Like{UserID: alice.ID, PostID: post.ID}))

	views, err := f.feed.GlobalFeed(context.Background(), principalOf(alice))
	require.NoError(t, err)
	require.Len(t, views, 1)

	assert.Equal(t, "bob", views[0].AuthorUsername)
	assert.Equal(t, int64(1), views[0].LikesCount)
	assert.True(t, views[0].IsLiked)
	assert.NotEqual(t, uuid.Nil, views[0].ID)
}

func TestFeeds_EqualTimestampsOrderByIDAscending(t *testing.T) {
	f := newFeedFixture()
	alice := f.users.add("alice", models.RoleUser)

	first := f.posts.add(alice.ID, "one", false)
	second := f.posts.add(alice.ID, "two", false)
	second.CreatedAt = first.CreatedAt
	second.UpdatedAt = first.CreatedAt

	lower, higher := first, second
	if second.ID.String() < first.ID.String() {
		lower, higher = second, first
	}

	views, err := f.feed.GlobalFeed(context.Background(), principalOf(alice))
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, lower.ID, views[0].ID)
	assert.Equal(t, higher.ID, views[1].ID)

	views, err = f.feed.PersonalFeed(context.Background(), principalOf(alice))
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, lower.ID, views[0].ID)
	assert.Equal(t, higher.ID, views[1].ID)
}
