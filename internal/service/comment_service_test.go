package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rachnit/blog-backend/internal/models"
	"github.com/rachnit/blog-backend/internal/pkg/apperror"
)

func newCommentFixture() (*fakeUserRepo, *fakePostRepo, *fakeCommentRepo, *CommentService) {
	users := newFakeUserRepo()
	posts := newFakePostRepo()
	comments := newFakeCommentRepo()
	return users, posts, comments, NewCommentService(comments, posts, users)
}

func TestCommentCreate_OnVisiblePost(t *testing.T) {
	users, posts, _, svc := newCommentFixture()
	alice := users.add("alice", models.RoleUser)
	bob := users.add("bob", models.RoleUser)
	post := posts.add(bob.ID, "discussable", false)

	view, err := svc.Create(context.Background(), principalOf(alice), post.ID, "great post")
	require.NoError(t, err)
	assert.Equal(t, "great post", view.Content)
	assert.Equal(t, "alice", view.AuthorUsername)
	assert.True(t, view.IsOwner)
}

func TestCommentCreate_HiddenPostIsNotFound(t *testing.T) {
	users, posts, _, svc := newCommentFixture()
	alice := users.add("alice", models.RoleUser)
	post := posts.add(alice.ID, "moderated", true)

	_, err := svc.Create(context.Background(), principalOf(alice), post.ID, "anyone there?")
	assert.True(t, apperror.IsNotFound(err))
}

func TestCommentCreate_RejectsEmptyContent(t *testing.T) {
	users, posts, _, svc := newCommentFixture()
	alice := users.add("alice", models.RoleUser)
	post := posts.add(alice.ID, "post", false)

	_, err := svc.Create(context.Background(), principalOf(alice), post.ID, "")
	assert.True(t, apperror.Is(err, apperror.ErrCodeValidation))
}

func TestCommentList_ResolvesAuthorsAndOwnership(t *testing.T) {
	users, posts, comments, svc := newCommentFixture()
	alice := users.add("alice", models.RoleUser)
	bob := users.add("bob", models.RoleUser)
	post := posts.add(bob.ID, "post", false)
	ctx := context.Background()

	require.NoError(t, comments.Create(ctx, &models.Comment{AuthorID: alice.ID, PostID: post.ID, Content: "first"}))
	require.NoError(t, comments.Create(ctx, &models.Comment{AuthorID: bob.ID, PostID: post.ID, Content: "second"}))

	views, err := svc.ListByPost(ctx, principalOf(alice), post.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)

	// Newest first.
	assert.Equal(t, "second", views[0].Content)
	assert.Equal(t, "bob", views[0].AuthorUsername)
	assert.False(t, views[0].IsOwner)
	assert.Equal(t, "first", views[1].Content)
	assert.True(t, views[1].IsOwner)
}

func TestCommentDelete_OnlyAuthor(t *testing.T) {
	users, posts, comments, svc := newCommentFixture()
	alice := users.add("alice", models.RoleUser)
	bob := users.add("bob", models.RoleUser)
	post := posts.add(bob.ID, "post", false)
	ctx := context.Background()

	comment := &models.Comment{AuthorID: alice.ID, PostID: post.ID, Content: "mine"}
	require.NoError(t, comments.Create(ctx, comment))

	err := svc.Delete(ctx, principalOf(bob), comment.ID)
	assert.True(t, apperror.IsForbidden(err))

	require.NoError(t, svc.Delete(ctx, principalOf(alice), comment.ID))
	assert.Empty(t, comments.comments)
}
