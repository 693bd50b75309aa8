package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/rachnit/blog-backend/internal/auth"
	"github.com/rachnit/blog-backend/internal/logger"
	"github.com/rachnit/blog-backend/internal/models"
	"github.com/rachnit/blog-backend/internal/pkg/apperror"
)

// DashboardStats is the aggregate view on the admin dashboard.
type DashboardStats struct {
	TotalUsers     int64 `json:"total_users"`
	BannedUsers    int64 `json:"banned_users"`
	TotalPosts     int64 `json:"total_posts"`
	HiddenPosts    int64 `json:"hidden_posts"`
	TotalReports   int64 `json:"total_reports"`
	PendingReports int64 `json:"pending_reports"`
}

// AdminService is the moderation surface: banning users, hiding posts,
// resolving reports and hard deletion. Every method checks the admin
// role before touching any entity, so a non-admin learns nothing about
// whether the target exists. Bans and hides are independent: banning a
// user leaves their posts visible, hiding a post does not ban its
// author.
type AdminService struct {
	tx            TxRunner
	users         UserRepository
	posts         PostRepository
	subscriptions SubscriptionRepository
	likes         LikeRepository
	comments      CommentRepository
	notifications NotificationRepository
	reports       ReportRepository
	media         MediaStore
}

func NewAdminService(
	tx TxRunner,
	users UserRepository,
	posts PostRepository,
	subscriptions SubscriptionRepository,
	likes LikeRepository,
	comments CommentRepository,
	notifications NotificationRepository,
	reports ReportRepository,
	media MediaStore,
) *AdminService {
	return &AdminService{
		tx:            tx,
		users:         users,
		posts:         posts,
		subscriptions: subscriptions,
		likes:         likes,
		comments:      comments,
		notifications: notifications,
		reports:       reports,
		media:         media,
	}
}

// BanUser bans a user with a mandatory reason. Admins cannot be banned
// and banning an already banned user is rejected so two moderators
// cannot silently overwrite each other's reason.
func (s *AdminService) BanUser(ctx context.Context, principal auth.Principal, userID uuid.UUID, reason string) (*models.AdminUser, error) {
	if !principal.IsAdmin() {
		return nil, apperror.ErrForbidden
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "ban reason is required")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role == models.RoleAdmin {
		return nil, apperror.New(apperror.ErrCodeInvalidState, "admins cannot be banned")
	}
	if user.Banned {
		return nil, apperror.New(apperror.ErrCodeInvalidState, "user is already banned")
	}

	now := time.Now().UTC()
	user.Banned = true
	user.BanReason = &reason
	user.BannedAt = &now
	if err := s.users.UpdateBanStatus(ctx, user); err != nil {
		return nil, err
	}

	logger.Log.WithFields(map[string]interface{}{
		"admin_id": principal.ID,
		"user_id":  user.ID,
	}).Info("user banned")

	return s.adminUser(ctx, user)
}

// UnbanUser lifts a ban and clears the ban metadata.
func (s *AdminService) UnbanUser(ctx context.Context, principal auth.Principal, userID uuid.UUID) (*models.AdminUser, error) {
	if !principal.IsAdmin() {
		return nil, apperror.ErrForbidden
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.Banned {
		return nil, apperror.New(apperror.ErrCodeInvalidState, "user is not banned")
	}

	user.Banned = false
	user.BanReason = nil
	user.BannedAt = nil
	if err := s.users.UpdateBanStatus(ctx, user); err != nil {
		return nil, err
	}

	logger.Log.WithFields(map[string]interface{}{
		"admin_id": principal.ID,
		"user_id":  user.ID,
	}).Info("user unbanned")

	return s.adminUser(ctx, user)
}

// HidePost removes a post from every non-admin read path without
// deleting it. The reason is mandatory.
func (s *AdminService) HidePost(ctx context.Context, principal auth.Principal, postID uuid.UUID, reason string) (*models.AdminPost, error) {
	if !principal.IsAdmin() {
		return nil, apperror.ErrForbidden
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "hide reason is required")
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.Hidden {
		return nil, apperror.New(apperror.ErrCodeInvalidState, "post is already hidden")
	}

	now := time.Now().UTC()
	post.Hidden = true
	post.HiddenReason = &reason
	post.HiddenAt = &now
	if err := s.posts.UpdateHiddenStatus(ctx, post); err != nil {
		return nil, err
	}

	logger.Log.WithFields(map[string]interface{}{
		"admin_id": principal.ID,
		"post_id":  post.ID,
	}).Info("post hidden")

	return s.adminPost(ctx, post)
}

// UnhidePost restores a hidden post to the public read paths.
func (s *AdminService) UnhidePost(ctx context.Context, principal auth.Principal, postID uuid.UUID) (*models.AdminPost, error) {
	if !principal.IsAdmin() {
		return nil, apperror.ErrForbidden
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !post.Hidden {
		return nil, apperror.New(apperror.ErrCodeInvalidState, "post is not hidden")
	}

	post.Hidden = false
	post.HiddenReason = nil
	post.HiddenAt = nil
	if err := s.posts.UpdateHiddenStatus(ctx, post); err != nil {
		return nil, err
	}

	logger.Log.WithFields(map[string]interface{}{
		"admin_id": principal.ID,
		"post_id":  post.ID,
	}).Info("post unhidden")

	return s.adminPost(ctx, post)
}

// ResolveReport moves a PENDING report to RESOLVED or DISMISSED and
// records which admin decided. Resolution itself takes no action on
// the reported user; banning is a separate call.
func (s *AdminService) ResolveReport(ctx context.Context, principal auth.Principal, reportID uuid.UUID, action string) (*models.Report, error) {
	if !principal.IsAdmin() {
		return nil, apperror.ErrForbidden
	}

	action = strings.ToUpper(strings.TrimSpace(action))
	if action != models.ReportStatusResolved && action != models.ReportStatusDismissed {
		return nil, apperror.New(apperror.ErrCodeValidation, "action must be RESOLVED or DISMISSED")
	}

	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.Status != models.ReportStatusPending {
		return nil, apperror.New(apperror.ErrCodeInvalidState, "report is no longer pending")
	}

	now := time.Now().UTC()
	adminID := principal.ID
	report.Status = action
	report.ResolvedByID = &adminID
	report.ResolvedAt = &now

	// UpdateResolution is guarded on status=PENDING, so a concurrent
	// resolution loses with an invalid-state error instead of
	// clobbering the first decision.
	if err := s.reports.UpdateResolution(ctx, report); err != nil {
		return nil, err
	}

	logger.Log.WithFields(map[string]interface{}{
		"admin_id":  principal.ID,
		"report_id": report.ID,
		"action":    action,
	}).Info("report resolved")

	return report, nil
}

// DeleteUser removes a user and everything attached to them in one
// transaction: their posts with those posts' likes, comments and
// notifications, their own likes and comments on other posts, the
// follow edges on either side and their reports. Admin accounts cannot
// be deleted. Media files are removed after commit, best-effort.
func (s *AdminService) DeleteUser(ctx context.Context, principal auth.Principal, userID uuid.UUID) error {
	if !principal.IsAdmin() {
		return apperror.ErrForbidden
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Role == models.RoleAdmin {
		return apperror.New(apperror.ErrCodeInvalidState, "admin accounts cannot be deleted")
	}

	// Media URLs must be captured before the rows go.
	posts, err := s.posts.ListByAuthor(ctx, user.ID)
	if err != nil {
		return err
	}

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		postIDs, err := s.posts.IDsByAuthorTx(ctx, tx, user.ID)
		if err != nil {
			return err
		}
		if err := s.notifications.DeleteByUserTx(ctx, tx, user.ID, postIDs); err != nil {
			return err
		}
		if err := s.likes.DeleteByUserTx(ctx, tx, user.ID, postIDs); err != nil {
			return err
		}
		if err := s.comments.DeleteByUserTx(ctx, tx, user.ID, postIDs); err != nil {
			return err
		}
		if err := s.posts.DeleteByAuthorTx(ctx, tx, user.ID); err != nil {
			return err
		}
		if err := s.subscriptions.DeleteByUserTx(ctx, tx, user.ID); err != nil {
			return err
		}
		if err := s.reports.DeleteByUserTx(ctx, tx, user.ID); err != nil {
			return err
		}
		return s.users.DeleteTx(ctx, tx, user.ID)
	})
	if err != nil {
		return err
	}

	for _, post := range posts {
		if post.MediaURL != nil {
			s.deleteMedia(ctx, *post.MediaURL)
		}
	}

	logger.Log.WithFields(map[string]interface{}{
		"admin_id": principal.ID,
		"user_id":  user.ID,
	}).Info("user deleted")

	return nil
}

// DeletePost hard-deletes any post, hidden or not, with the same
// cascade the author's own delete uses.
func (s *AdminService) DeletePost(ctx context.Context, principal auth.Principal, postID uuid.UUID) error {
	if !principal.IsAdmin() {
		return apperror.ErrForbidden
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.notifications.DeleteByPostTx(ctx, tx, post.ID); err != nil {
			return err
		}
		if err := s.likes.DeleteByPostTx(ctx, tx, post.ID); err != nil {
			return err
		}
		if err := s.comments.DeleteByPostTx(ctx, tx, post.ID); err != nil {
			return err
		}
		return s.posts.DeleteTx(ctx, tx, post.ID)
	})
	if err != nil {
		return err
	}

	if post.MediaURL != nil {
		s.deleteMedia(ctx, *post.MediaURL)
	}

	logger.Log.WithFields(map[string]interface{}{
		"admin_id": principal.ID,
		"post_id":  post.ID,
	}).Info("post deleted")

	return nil
}

// ListUsers returns every account with moderation metadata.
func (s *AdminService) ListUsers(ctx context.Context, principal auth.Principal) ([]models.AdminUser, error) {
	if !principal.IsAdmin() {
		return nil, apperror.ErrForbidden
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]models.AdminUser, 0, len(users))
	for i := range users {
		view, err := s.adminUser(ctx, &users[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

// GetUser returns one account with moderation metadata.
func (s *AdminService) GetUser(ctx context.Context, principal auth.Principal, userID uuid.UUID) (*models.AdminUser, error) {
	if !principal.IsAdmin() {
		return nil, apperror.ErrForbidden
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.adminUser(ctx, user)
}

// ListPosts returns every post, hidden ones included.
func (s *AdminService) ListPosts(ctx context.Context, principal auth.Principal) ([]models.AdminPost, error) {
	if !principal.IsAdmin() {
		return nil, apperror.ErrForbidden
	}

	posts, err := s.posts.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]models.AdminPost, 0, len(posts))
	for i := range posts {
		view, err := s.adminPost(ctx, &posts[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

// GetPost returns one post, hidden or not.
func (s *AdminService) GetPost(ctx context.Context, principal auth.Principal, postID uuid.UUID) (*models.AdminPost, error) {
	if !principal.IsAdmin() {
		return nil, apperror.ErrForbidden
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	return s.adminPost(ctx, post)
}

// Stats returns the dashboard aggregates.
func (s *AdminService) Stats(ctx context.Context, principal auth.Principal) (*DashboardStats, error) {
	if !principal.IsAdmin() {
		return nil, apperror.ErrForbidden
	}

	stats := &DashboardStats{}
	var err error
	if stats.TotalUsers, err = s.users.CountAll(ctx); err != nil {
		return nil, err
	}
	if stats.BannedUsers, err = s.users.CountBanned(ctx); err != nil {
		return nil, err
	}
	if stats.TotalPosts, err = s.posts.CountAll(ctx); err != nil {
		return nil, err
	}
	if stats.HiddenPosts, err = s.posts.CountHidden(ctx); err != nil {
		return nil, err
	}
	if stats.TotalReports, err = s.reports.CountAll(ctx); err != nil {
		return nil, err
	}
	if stats.PendingReports, err = s.reports.CountByStatus(ctx, models.ReportStatusPending); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *AdminService) adminUser(ctx context.Context, user *models.User) (*models.AdminUser, error) {
	view := &models.AdminUser{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		Banned:    user.Banned,
		BanReason: user.BanReason,
		BannedAt:  user.BannedAt,
		CreatedAt: user.CreatedAt,
	}

	var err error
	if view.PostsCount, err = s.posts.CountByAuthor(ctx, user.ID); err != nil {
		return nil, err
	}
	if view.FollowersCount, err = s.subscriptions.CountFollowers(ctx, user.ID); err != nil {
		return nil, err
	}
	if view.FollowingCount, err = s.subscriptions.CountFollowing(ctx, user.ID); err != nil {
		return nil, err
	}
	if view.ReportsCount, err = s.reports.CountByReportedUser(ctx, user.ID); err != nil {
		return nil, err
	}
	return view, nil
}

func (s *AdminService) adminPost(ctx context.Context, post *models.Post) (*models.AdminPost, error) {
	author, err := s.users.GetByID(ctx, post.AuthorID)
	if err != nil {
		return nil, err
	}

	view := &models.AdminPost{
		ID:             post.ID,
		Title:          post.Title,
		Content:        post.Content,
		MediaURL:       post.MediaURL,
		MediaType:      post.MediaType,
		AuthorID:       post.AuthorID,
		AuthorUsername: author.Username,
		AuthorBanned:   author.Banned,
		Hidden:         post.Hidden,
		HiddenReason:   post.HiddenReason,
		HiddenAt:       post.HiddenAt,
		CreatedAt:      post.CreatedAt,
		UpdatedAt:      post.UpdatedAt,
	}

	if view.LikesCount, err = s.likes.CountByPost(ctx, post.ID); err != nil {
		return nil, err
	}
	if view.CommentsCount, err = s.comments.CountByPost(ctx, post.ID); err != nil {
		return nil, err
	}
	return view, nil
}

func (s *AdminService) deleteMedia(ctx context.Context, mediaURL string) {
	if err := s.media.Delete(ctx, mediaURL); err != nil && logger.Log != nil {
		logger.Log.WithError(err).WithField("media_url", mediaURL).Warn("failed to delete media file")
	}
}
