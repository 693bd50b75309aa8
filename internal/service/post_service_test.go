package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rachnit/blog-backend/internal/models"
	"github.com/rachnit/blog-backend/internal/pkg/apperror"
)

type postFixture struct {
	tx            *fakeTxRunner
	users         *fakeUserRepo
	posts         *fakePostRepo
	subs          *fakeSubscriptionRepo
	notifications *fakeNotificationRepo
	likes         *fakeLikeRepo
	comments      *fakeCommentRepo
	media         *fakeMediaStore
	svc           *PostService
}

func newPostFixture() *postFixture {
	f := &postFixture{
		tx:            &fakeTxRunner{},
		users:         newFakeUserRepo(),
		posts:         newFakePostRepo(),
		subs:          newFakeSubscriptionRepo(),
		notifications: newFakeNotificationRepo(),
		likes:         newFakeLikeRepo(),
		comments:      newFakeCommentRepo(),
		media:         &fakeMediaStore{},
	}
	f.svc = NewPostService(f.tx, f.posts, f.users, f.subs, f.notifications, f.likes, f.comments, f.media)
	return f
}

func TestPostCreate_FansOutToEveryFollower(t *testing.T) {
	f := newPostFixture()
	alice := f.users.add("alice", models.RoleUser)
	f1 := f.users.add("f1", models.RoleUser)
	f2 := f.users.add("f2", models.RoleUser)
	f3 := f.users.add("f3", models.RoleUser)

	f.subs.add(f1.ID, alice.ID)
	f.subs.add(f2.ID, alice.ID)
	f.subs.add(f3.ID, alice.ID)

	view, err := f.svc.Create(context.Background(), principalOf(alice), "hello", "first post", nil, nil)
	require.NoError(t, err)
	require.Equal(t, "hello", view.Title)

	require.Len(t, f.notifications.notifications, 3)
	recipients := make(map[string]bool)
	for _, n := range f.notifications.notifications {
		assert.Equal(t, models.NotificationTypeNewPost, n.Type)
		assert.Equal(t, "alice published a new post", n.Message)
		assert.Equal(t, alice.ID, n.ActorID)
		assert.Equal(t, view.ID, n.PostID)
		assert.False(t, n.Read)
		recipients[n.RecipientID.String()] = true
	}
	assert.Len(t, recipients, 3, "each follower gets exactly one notification")
}

func TestPostCreate_NoFollowersNoNotifications(t *testing.T) {
	f := newPostFixture()
	alice := f.users.add("alice", models.RoleUser)

	_, err := f.svc.Create(context.Background(), principalOf(alice), "hello", "no audience", nil, nil)
	require.NoError(t, err)

	assert.Empty(t, f.notifications.notifications)
	assert.Equal(t, 1, f.tx.calls)
}

func TestPostCreate_FanOutFailureRollsBackPost(t *testing.T) {
	f := newPostFixture()
	alice := f.users.add("alice", models.RoleUser)
	follower := f.users.add("bob", models.RoleUser)
	f.subs.add(follower.ID, alice.ID)

	f.notifications.failBatch = errors.New("insert failed")

	_, err := f.svc.Create(context.Background(), principalOf(alice), "hello", "doomed", nil, nil)
	require.Error(t, err)
	assert.True(t, f.tx.failed, "transaction callback must propagate the fan-out error")
}

func TestPostCreate_RejectsBlankAndOversizedFields(t *testing.T) {
	f := newPostFixture()
	alice := f.users.add("alice", models.RoleUser)

	_, err := f.svc.Create(context.Background(), principalOf(alice), "", "content", nil, nil)
	assert.True(t, apperror.Is(err, apperror.ErrCodeValidation))

	_, err = f.svc.Create(context.Background(), principalOf(alice), strings.Repeat("x", 201), "content", nil, nil)
	assert.True(t, apperror.Is(err, apperror.ErrCodeValidation))

	_, err = f.svc.Create(context.Background(), principalOf(alice), "title", "", nil, nil)
	assert.True(t, apperror.Is(err, apperror.ErrCodeValidation))
}

func TestPostGet_HiddenIsNotFound(t *testing.T) {
	f := newPostFixture()
	alice := f.users.add("alice", models.RoleUser)
	post := f.posts.add(alice.ID, "moderated", true)

	_, err := f.svc.Get(context.Background(), principalOf(alice), post.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestPostUpdate_OnlyAuthorMayEdit(t *testing.T) {
	f := newPostFixture()
	alice := f.users.add("alice", models.RoleUser)
	bob := f.users.add("bob", models.RoleUser)
	post := f.posts.add(alice.ID, "original", false)

	newTitle := "edited"
	_, err := f.svc.Update(context.Background(), principalOf(bob), post.ID, &newTitle, nil, nil, nil)
	assert.True(t, apperror.IsForbidden(err))

	view, err := f.svc.Update(context.Background(), principalOf(alice), post.ID, &newTitle, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "edited", view.Title)
	assert.Equal(t, "content of original", view.Content, "absent fields stay unchanged")
}

func TestPostUpdate_ReplacingMediaDeletesOldFile(t *testing.T) {
	f := newPostFixture()
	alice := f.users.add("alice", models.RoleUser)
	post := f.posts.add(alice.ID, "with media", false)

	oldURL := "/media/old.jpg"
	post.MediaURL = &oldURL

	newURL := "/media/new.jpg"
	mediaType := models.MediaTypeImage
	_, err := f.svc.Update(context.Background(), principalOf(alice), post.ID, nil, nil, &newURL, &mediaType)
	require.NoError(t, err)

	assert.Equal(t, []string{oldURL}, f.media.deleted)
}

func TestPostDelete_CascadesAndRemovesMedia(t *testing.T) {
	f := newPostFixture()
	alice := f.users.add("alice", models.RoleUser)
	bob := f.users.add("bob", models.RoleUser)

	post := f.posts.add(alice.ID, "doomed", false)
	mediaURL := "/media/doomed.jpg"
	post.MediaURL = &mediaURL

	ctx := context.Background()
	require.NoError(t, f.likes.Create(ctx, &models.Like{UserID: bob.ID, PostID: post.ID}))
	require.NoError(t, f.comments.Create(ctx, &models.Comment{AuthorID: bob.ID, PostID: post.ID, Content: "nice"}))
	require.NoError(t, f.notifications.CreateBatchTx(ctx, nil, []models.Notification{{
		Message: "alice published a new post", Type: models.NotificationTypeNewPost,
		RecipientID: bob.ID, ActorID: alice.ID, PostID: post.ID,
	}}))

	require.NoError(t, f.svc.Delete(ctx, principalOf(alice), post.ID))

	assert.Empty(t, f.posts.posts)
	assert.Empty(t, f.likes.likes)
	assert.Empty(t, f.comments.comments)
	assert.Empty(t, f.notifications.notifications)
	assert.Equal(t, []string{mediaURL}, f.media.deleted)
}

func TestPostDelete_ForeignPostForbidden(t *testing.T) {
	f := newPostFixture()
	alice := f.users.add("alice", models.RoleUser)
	bob := f.users.add("bob", models.RoleUser)
	post := f.posts.add(alice.ID, "not yours", false)

	err := f.svc.Delete(context.Background(), principalOf(bob), post.ID)
	assert.True(t, apperror.IsForbidden(err))
	assert.Len(t, f.posts.posts, 1)
}

func TestUserPosts_SkipsHidden(t *testing.T) {
	f := newPostFixture()
	alice := f.users.add("alice", models.RoleUser)
	f.posts.add(alice.ID, "visible", false)
	f.posts.add(alice.ID, "moderated", true)

	views, err := f.svc.UserPosts(context.Background(), principalOf(alice), alice.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "visible", views[0].Title)
}
