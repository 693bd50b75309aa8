package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rachnit/blog-backend/internal/models"
	"github.com/rachnit/blog-backend/internal/pkg/apperror"
)

type adminFixture struct {
	tx            *fakeTxRunner
	users         *fakeUserRepo
	posts         *fakePostRepo
	subs          *fakeSubscriptionRepo
	likes         *fakeLikeRepo
	comments      *fakeCommentRepo
	notifications *fakeNotificationRepo
	reports       *fakeReportRepo
	media         *fakeMediaStore
	svc           *AdminService
}

func newAdminFixture() *adminFixture {
	f := &adminFixture{
		tx:            &fakeTxRunner{},
		users:         newFakeUserRepo(),
		posts:         newFakePostRepo(),
		subs:          newFakeSubscriptionRepo(),
		likes:         newFakeLikeRepo(),
		comments:      newFakeCommentRepo(),
		notifications: newFakeNotificationRepo(),
		reports:       newFakeReportRepo(),
		media:         &fakeMediaStore{},
	}
	f.svc = NewAdminService(f.tx, f.users, f.posts, f.subs, f.likes, f.comments, f.notifications, f.reports, f.media)
	return f
}

func TestAdmin_NonAdminIsForbiddenEverywhere(t *testing.T) {
	f := newAdminFixture()
	user := f.users.add("mallory", models.RoleUser)
	target := f.users.add("victim", models.RoleUser)
	post := f.posts.add(target.ID, "post", false)

	p := principalOf(user)
	ctx := context.Background()

	_, err := f.svc.BanUser(ctx, p, target.ID, "spam")
	assert.True(t, apperror.IsForbidden(err))
	_, err = f.svc.UnbanUser(ctx, p, target.ID)
	assert.True(t, apperror.IsForbidden(err))
	_, err = f.svc.HidePost(ctx, p, post.ID, "spam")
	assert.True(t, apperror.IsForbidden(err))
	_, err = f.svc.UnhidePost(ctx, p, post.ID)
	assert.True(t, apperror.IsForbidden(err))
	assert.True(t, apperror.IsForbidden(f.svc.DeleteUser(ctx, p, target.ID)))
	assert.True(t, apperror.IsForbidden(f.svc.DeletePost(ctx, p, post.ID)))
	_, err = f.svc.ListUsers(ctx, p)
	assert.True(t, apperror.IsForbidden(err))
	_, err = f.svc.ListPosts(ctx, p)
	assert.True(t, apperror.IsForbidden(err))
	_, err = f.svc.Stats(ctx, p)
	assert.True(t, apperror.IsForbidden(err))
}

func TestBanUser_Lifecycle(t *testing.T) {
	f := newAdminFixture()
	admin := f.users.add("admin", models.RoleAdmin)
	bob := f.users.add("bob", models.RoleUser)
	ctx := context.Background()

	view, err := f.svc.BanUser(ctx, principalOf(admin), bob.ID, "harassment")
	require.NoError(t, err)
	assert.True(t, view.Banned)
	require.NotNil(t, view.BanReason)
	assert.Equal(t, "harassment", *view.BanReason)
	assert.NotNil(t, view.BannedAt)

	// A second ban must not overwrite the first reason.
	_, err = f.svc.BanUser(ctx, principalOf(admin), bob.ID, "other reason")
	assert.True(t, apperror.IsInvalidState(err))
	stored, _ := f.users.GetByID(ctx, bob.ID)
	assert.Equal(t, "harassment", *stored.BanReason)

	view, err = f.svc.UnbanUser(ctx, principalOf(admin), bob.ID)
	require.NoError(t, err)
	assert.False(t, view.Banned)
	assert.Nil(t, view.BanReason)

	_, err = f.svc.UnbanUser(ctx, principalOf(admin), bob.ID)
	assert.True(t, apperror.IsInvalidState(err))
}

func TestBanUser_AdminTargetRejected(t *testing.T) {
	f := newAdminFixture()
	admin := f.users.add("admin", models.RoleAdmin)
	other := f.users.add("admin2", models.RoleAdmin)

	_, err := f.svc.BanUser(context.Background(), principalOf(admin), other.ID, "power struggle")
	assert.True(t, apperror.IsInvalidState(err))
}

func TestBanUser_RequiresReason(t *testing.T) {
	f := newAdminFixture()
	admin := f.users.add("admin", models.RoleAdmin)
	bob := f.users.add("bob", models.RoleUser)

	_, err := f.svc.BanUser(context.Background(), principalOf(admin), bob.ID, "   ")
	assert.True(t, apperror.Is(err, apperror.ErrCodeValidation))
}

func TestBanUser_DoesNotHideContent(t *testing.T) {
	f := newAdminFixture()
	admin := f.users.add("admin", models.RoleAdmin)
	bob := f.users.add("bob", models.RoleUser)
	post := f.posts.add(bob.ID, "still visible", false)

	_, err := f.svc.BanUser(context.Background(), principalOf(admin), bob.ID, "spam")
	require.NoError(t, err)

	stored, err := f.posts.GetByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.False(t, stored.Hidden, "banning is independent of hiding")
}

func TestHidePost_Lifecycle(t *testing.T) {
	f := newAdminFixture()
	admin := f.users.add("admin", models.RoleAdmin)
	bob := f.users.add("bob", models.RoleUser)
	post := f.posts.add(bob.ID, "borderline", false)
	ctx := context.Background()

	view, err := f.svc.HidePost(ctx, principalOf(admin), post.ID, "reported content")
	require.NoError(t, err)
	assert.True(t, view.Hidden)
	require.NotNil(t, view.HiddenReason)
	assert.Equal(t, "reported content", *view.HiddenReason)

	_, err = f.svc.HidePost(ctx, principalOf(admin), post.ID, "again")
	assert.True(t, apperror.IsInvalidState(err))

	view, err = f.svc.UnhidePost(ctx, principalOf(admin), post.ID)
	require.NoError(t, err)
	assert.False(t, view.Hidden)
	assert.Nil(t, view.HiddenReason)

	_, err = f.svc.UnhidePost(ctx, principalOf(admin), post.ID)
	assert.True(t, apperror.IsInvalidState(err))
}

func TestResolveReport_Lifecycle(t *testing.T) {
	f := newAdminFixture()
	admin := f.users.add("admin", models.RoleAdmin)
	alice := f.users.add("alice", models.RoleUser)
	bob := f.users.add("bob", models.RoleUser)
	ctx := context.Background()

	report := &models.Report{
		Reason:         "persistent harassment",
		Status:         models.ReportStatusPending,
		ReporterID:     alice.ID,
		ReportedUserID: bob.ID,
	}
	require.NoError(t, f.reports.Create(ctx, report))

	_, err := f.svc.ResolveReport(ctx, principalOf(admin), report.ID, "escalate")
	assert.True(t, apperror.Is(err, apperror.ErrCodeValidation))

	resolved, err := f.svc.ResolveReport(ctx, principalOf(admin), report.ID, "resolved")
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusResolved, resolved.Status)
	require.NotNil(t, resolved.ResolvedByID)
	assert.Equal(t, admin.ID, *resolved.ResolvedByID)
	assert.NotNil(t, resolved.ResolvedAt)

	// Terminal states stay terminal.
	_, err = f.svc.ResolveReport(ctx, principalOf(admin), report.ID, "DISMISSED")
	assert.True(t, apperror.IsInvalidState(err))
}

func TestDeleteUser_CascadesEverything(t *testing.T) {
	f := newAdminFixture()
	admin := f.users.add("admin", models.RoleAdmin)
	bob := f.users.add("bob", models.RoleUser)
	carol := f.users.add("carol", models.RoleUser)
	ctx := context.Background()

	bobPost := f.posts.add(bob.ID, "bobs post", false)
	mediaURL := "/media/bob.jpg"
	bobPost.MediaURL = &mediaURL
	carolPost := f.posts.add(carol.ID, "carols post", false)

	f.subs.add(bob.ID, carol.ID)
	f.subs.add(carol.ID, bob.ID)

	require.NoError(t, f.likes.Create(ctx, &models.Like{UserID: bob.ID, PostID: carolPost.ID}))
	require.NoError(t, f.likes.Create(ctx, &models.Like{UserID: carol.ID, PostID: bobPost.ID}))
	require.NoError(t, f.comments.Create(ctx, &models.Comment{AuthorID: bob.ID, PostID: carolPost.ID, Content: "hi"}))
	require.NoError(t, f.notifications.CreateBatchTx(ctx, nil, []models.Notification{{
		Message: "bob published a new post", Type: models.NotificationTypeNewPost,
		RecipientID: carol.ID, ActorID: bob.ID, PostID: bobPost.ID,
	}}))
	require.NoError(t, f.reports.Create(ctx, &models.Report{
		Reason: "spamming my feed", Status: models.ReportStatusPending,
		ReporterID: carol.ID, ReportedUserID: bob.ID,
	}))

	require.NoError(t, f.svc.DeleteUser(ctx, principalOf(admin), bob.ID))

	_, err := f.users.GetByID(ctx, bob.ID)
	assert.True(t, apperror.IsNotFound(err))
	assert.Empty(t, f.subs.subs)
	assert.Empty(t, f.likes.likes)
	assert.Empty(t, f.comments.comments)
	assert.Empty(t, f.notifications.notifications)
	assert.Empty(t, f.reports.reports)
	assert.Equal(t, []string{mediaURL}, f.media.deleted)

	// Carol's own post survives.
	_, err = f.posts.GetByID(ctx, carolPost.ID)
	assert.NoError(t, err)
}

func TestDeleteUser_AdminTargetRejected(t *testing.T) {
	f := newAdminFixture()
	admin := f.users.add("admin", models.RoleAdmin)
	other := f.users.add("admin2", models.RoleAdmin)

	err := f.svc.DeleteUser(context.Background(), principalOf(admin), other.ID)
	assert.True(t, apperror.IsInvalidState(err))
}

func TestAdminGetPost_SeesHidden(t *testing.T) {
	f := newAdminFixture()
	admin := f.users.add("admin", models.RoleAdmin)
	bob := f.users.add("bob", models.RoleUser)
	post := f.posts.add(bob.ID, "moderated", true)

	view, err := f.svc.GetPost(context.Background(), principalOf(admin), post.ID)
	require.NoError(t, err)
	assert.True(t, view.Hidden)
	assert.Equal(t, "bob", view.AuthorUsername)
}

func TestAdminStats_Aggregates(t *testing.T) {
	f := newAdminFixture()
	admin := f.users.add("admin", models.RoleAdmin)
	bob := f.users.add("bob", models.RoleUser)
	carol := f.users.add("carol", models.RoleUser)
	ctx := context.Background()

	f.posts.add(bob.ID, "visible", false)
	f.posts.add(bob.ID, "hidden", true)
	require.NoError(t, f.reports.Create(ctx, &models.Report{
		Reason: "abusive comments", Status: models.ReportStatusPending,
		ReporterID: carol.ID, ReportedUserID: bob.ID,
	}))

	_, err := f.svc.BanUser(ctx, principalOf(admin), carol.ID, "spam")
	require.NoError(t, err)

	stats, err := f.svc.Stats(ctx, principalOf(admin))
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.BannedUsers)
	assert.Equal(t, int64(2), stats.TotalPosts)
	assert.Equal(t, int64(1), stats.HiddenPosts)
	assert.Equal(t, int64(1), stats.TotalReports)
	assert.Equal(t, int64(1), stats.PendingReports)
}
