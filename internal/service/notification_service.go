package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/rachnit/blog-backend/internal/auth"
	"github.com/rachnit/blog-backend/internal/models"
	"github.com/rachnit/blog-backend/internal/pkg/apperror"
)

// NotificationService serves a recipient's notifications. Creation
// happens only on the post fan-out path; the recipient can only mark
// their own notifications read.
type NotificationService struct {
	notifications NotificationRepository
	users         UserRepository
	posts         PostRepository
}

func NewNotificationService(notifications NotificationRepository, users UserRepository, posts PostRepository) *NotificationService {
	return &NotificationService{notifications: notifications, users: users, posts: posts}
}

// ListUnread returns the principal's unread notifications, newest
// first, with actors and posts resolved through batched lookups.
func (s *NotificationService) ListUnread(ctx context.Context, principal auth.Principal) ([]models.NotificationView, error) {
	notifications, err := s.notifications.ListUnreadByRecipient(ctx, principal.ID)
	if err != nil {
		return nil, err
	}
	if len(notifications) == 0 {
		return []models.NotificationView{}, nil
	}

	actorIDSet := make(map[uuid.UUID]struct{}, len(notifications))
	for _, n := range notifications {
		actorIDSet[n.ActorID] = struct{}{}
	}
	actorIDs := make([]uuid.UUID, 0, len(actorIDSet))
	for id := range actorIDSet {
		actorIDs = append(actorIDs, id)
	}

	actors, err := s.users.ListByIDs(ctx, actorIDs)
	if err != nil {
		return nil, err
	}
	usernames := make(map[uuid.UUID]string, len(actors))
	for _, actor := range actors {
		usernames[actor.ID] = actor.Username
	}

	postIDSet := make(map[uuid.UUID]struct{}, len(notifications))
	for _, n := range notifications {
		postIDSet[n.PostID] = struct{}{}
	}
	postIDs := make([]uuid.UUID, 0, len(postIDSet))
	for id := range postIDSet {
		postIDs = append(postIDs, id)
	}

	// Notifications are cascade-deleted with their post, so a missing
	// title means the lookup raced a deletion.
	posts, err := s.posts.ListByIDs(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	titles := make(map[uuid.UUID]string, len(posts))
	for _, post := range posts {
		titles[post.ID] = post.Title
	}

	views := make([]models.NotificationView, 0, len(notifications))
	for _, n := range notifications {
		views = append(views, models.NotificationView{
			ID:            n.ID,
			Message:       n.Message,
			Type:          n.Type,
			Read:          n.Read,
			ActorID:       n.ActorID,
			ActorUsername: usernames[n.ActorID],
			PostID:        n.PostID,
			PostTitle:     titles[n.PostID],
			CreatedAt:     n.CreatedAt,
		})
	}

	return views, nil
}

// UnreadCount returns the badge count for the principal.
func (s *NotificationService) UnreadCount(ctx context.Context, principal auth.Principal) (int64, error) {
	return s.notifications.CountUnread(ctx, principal.ID)
}

// MarkRead marks one of the principal's notifications as read; anyone
// but the recipient is forbidden.
func (s *NotificationService) MarkRead(ctx context.Context, principal auth.Principal, notificationID uuid.UUID) error {
	notification, err := s.notifications.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}

	if notification.RecipientID != principal.ID {
		return apperror.New(apperror.ErrCodeForbidden, "this notification is not yours")
	}

	return s.notifications.MarkRead(ctx, notification.ID)
}
