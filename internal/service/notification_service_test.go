package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rachnit/blog-backend/internal/models"
	"github.com/rachnit/blog-backend/internal/pkg/apperror"
)

func newNotificationFixture() (*fakeUserRepo, *fakePostRepo, *fakeNotificationRepo, *NotificationService) {
	users := newFakeUserRepo()
	posts := newFakePostRepo()
	notifications := newFakeNotificationRepo()
	return users, posts, notifications, NewNotificationService(notifications, users, posts)
}

func seedNotification(t *testing.T, repo *fakeNotificationRepo, recipient, actor *models.User, post *models.Post) models.Notification {
	t.Helper()
	require.NoError(t, repo.CreateBatchTx(context.Background(), nil, []models.Notification{{
		Message:     actor.Username + " published a new post",
		Type:        models.NotificationTypeNewPost,
		RecipientID: recipient.ID,
		ActorID:     actor.ID,
		PostID:      post.ID,
	}}))
	for _, n := range repo.notifications {
		if n.RecipientID == recipient.ID && n.PostID == post.ID {
			return *n
		}
	}
	t.Fatal("notification was not stored")
	return models.Notification{}
}

func TestNotificationList_ResolvesActorAndPost(t *testing.T) {
	users, posts, notifications, svc := newNotificationFixture()
	alice := users.add("alice", models.RoleUser)
	bob := users.add("bob", models.RoleUser)
	post := posts.add(bob.ID, "fresh post", false)

	seedNotification(t, notifications, alice, bob, post)

	views, err := svc.ListUnread(context.Background(), principalOf(alice))
	require.NoError(t, err)
	require.Len(t, views, 1)

	assert.Equal(t, "bob published a new post", views[0].Message)
	assert.Equal(t, "bob", views[0].ActorUsername)
	assert.Equal(t, "fresh post", views[0].PostTitle)
	assert.False(t, views[0].Read)
}

func TestNotificationMarkRead_RecipientOnly(t *testing.T) {
	users, posts, notifications, svc := newNotificationFixture()
	alice := users.add("alice", models.RoleUser)
	bob := users.add("bob", models.RoleUser)
	post := posts.add(bob.ID, "post", false)
	ctx := context.Background()

	n := seedNotification(t, notifications, alice, bob, post)

	err := svc.MarkRead(ctx, principalOf(bob), n.ID)
	assert.True(t, apperror.IsForbidden(err))

	require.NoError(t, svc.MarkRead(ctx, principalOf(alice), n.ID))

	count, err := svc.UnreadCount(ctx, principalOf(alice))
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	views, err := svc.ListUnread(ctx, principalOf(alice))
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestNotificationUnreadCount_PerRecipient(t *testing.T) {
	users, posts, notifications, svc := newNotificationFixture()
	alice := users.add("alice", models.RoleUser)
	bob := users.add("bob", models.RoleUser)
	carol := users.add("carol", models.RoleUser)
	post := posts.add(bob.ID, "post", false)

	seedNotification(t, notifications, alice, bob, post)
	seedNotification(t, notifications, carol, bob, post)

	count, err := svc.UnreadCount(context.Background(), principalOf(alice))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
