package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rachnit/blog-backend/internal/models"
	"github.com/rachnit/blog-backend/internal/pkg/apperror"
)

type subscriptionFixture struct {
	users *fakeUserRepo
	posts *fakePostRepo
	subs  *fakeSubscriptionRepo
	svc   *SubscriptionService
}

func newSubscriptionFixture() *subscriptionFixture {
	f := &subscriptionFixture{
		users: newFakeUserRepo(),
		posts: newFakePostRepo(),
		subs:  newFakeSubscriptionRepo(),
	}
	f.svc = NewSubscriptionService(f.subs, f.users, f.posts)
	return f
}

func TestFollow_CreatesEdge(t *testing.T) {
	f := newSubscriptionFixture()
	alice := f.users.add("alice", models.RoleUser)
	bob := f.users.add("bob", models.RoleUser)

	sub, err := f.svc.Follow(context.Background(), principalOf(alice), bob.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, sub.FollowerID)
	assert.Equal(t, bob.ID, sub.FollowingID)

	following, err := f.svc.IsFollowing(context.Background(), principalOf(alice), bob.ID)
	require.NoError(t, err)
	assert.True(t, following)
}

func TestFollow_SelfIsRejected(t *testing.T) {
	f := newSubscriptionFixture()
	alice := f.users.add("alice", models.RoleUser)

	_, err := f.svc.Follow(context.Background(), principalOf(alice), alice.ID)
	assert.True(t, apperror.IsInvalidState(err))
	assert.Empty(t, f.subs.subs)
}

func TestFollow_UnknownTargetNotFound(t *testing.T) {
	f := newSubscriptionFixture()
	alice := f.users.add("alice", models.RoleUser)

	_, err := f.svc.Follow(context.Background(), principalOf(alice), uuid.New())
	assert.True(t, apperror.IsNotFound(err))
}

func TestFollow_DuplicateIsConflict(t *testing.T) {
	f := newSubscriptionFixture()
	alice := f.users.add("alice", models.RoleUser)
	bob := f.users.add("bob", models.RoleUser)

	_, err := f.svc.Follow(context.Background(), principalOf(alice), bob.ID)
	require.NoError(t, err)

	_, err = f.svc.Follow(context.Background(), principalOf(alice), bob.ID)
	assert.True(t, apperror.IsConflict(err))
	assert.Len(t, f.subs.subs, 1)
}

func TestUnfollow_RemovesEdgeOnce(t *testing.T) {
	f := newSubscriptionFixture()
	alice := f.users.add("alice", models.RoleUser)
	bob := f.users.add("bob", models.RoleUser)
	f.subs.add(alice.ID, bob.ID)

	require.NoError(t, f.svc.Unfollow(context.Background(), principalOf(alice), bob.ID))
	assert.Empty(t, f.subs.subs)

	// Without an edge the unfollow is a conflict, not a silent no-op.
	err := f.svc.Unfollow(context.Background(), principalOf(alice), bob.ID)
	assert.True(t, apperror.IsConflict(err))
}

func TestProfile_CountsAndFollowFlag(t *testing.T) {
	f := newSubscriptionFixture()
	alice := f.users.add("alice", models.RoleUser)
	bob := f.users.add("bob", models.RoleUser)
	carol := f.users.add("carol", models.RoleUser)

	f.subs.add(alice.ID, bob.ID)
	f.subs.add(carol.ID, bob.ID)
	f.subs.add(bob.ID, carol.ID)
	f.posts.add(bob.ID, "post", false)

	profile, err := f.svc.Profile(context.Background(), principalOf(alice), bob.ID)
	require.NoError(t, err)

	assert.Equal(t, "bob", profile.Username)
	assert.Equal(t, int64(2), profile.FollowersCount)
	assert.Equal(t, int64(1), profile.FollowingCount)
	assert.Equal(t, int64(1), profile.PostsCount)
	assert.True(t, profile.IsFollowing)
	assert.False(t, profile.IsOwnProfile)
	assert.Nil(t, profile.Email, "email is private to the owner")
}

func TestMyProfile_IncludesEmail(t *testing.T) {
	f := newSubscriptionFixture()
	alice := f.users.add("alice", models.RoleUser)

	profile, err := f.svc.MyProfile(context.Background(), principalOf(alice))
	require.NoError(t, err)

	assert.True(t, profile.IsOwnProfile)
	require.NotNil(t, profile.Email)
	assert.Equal(t, "alice@example.com", *profile.Email)
}

func TestListUsers_ReturnsProfilesForViewer(t *testing.T) {
	f := newSubscriptionFixture()
	alice := f.users.add("alice", models.RoleUser)
	bob := f.users.add("bob", models.RoleUser)
	carol := f.users.add("carol", models.RoleUser)
	f.subs.add(alice.ID, bob.ID)

	profiles, err := f.svc.ListUsers(context.Background(), principalOf(alice))
	require.NoError(t, err)
	require.Len(t, profiles, 3)

	// Newest first.
	assert.Equal(t, carol.ID, profiles[0].ID)
	assert.Equal(t, bob.ID, profiles[1].ID)
	assert.Equal(t, alice.ID, profiles[2].ID)

	byID := make(map[uuid.UUID]models.UserProfile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	assert.True(t, byID[bob.ID].IsFollowing)
	assert.False(t, byID[carol.ID].IsFollowing)
	assert.Equal(t, int64(1), byID[bob.ID].FollowersCount)

	// Email stays private except on the viewer's own entry.
	assert.Nil(t, byID[bob.ID].Email)
	require.NotNil(t, byID[alice.ID].Email)
	assert.Equal(t, "alice@example.com", *byID[alice.ID].Email)
	assert.True(t, byID[alice.ID].IsOwnProfile)
}
