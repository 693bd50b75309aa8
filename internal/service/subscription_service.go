package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/rachnit/blog-backend/internal/auth"
	"github.com/rachnit/blog-backend/internal/models"
	"github.com/rachnit/blog-backend/internal/pkg/apperror"
)

// SubscriptionService manages follow edges and the profile views built
// on top of them.
type SubscriptionService struct {
	subscriptions SubscriptionRepository
	users         UserRepository
	posts         PostRepository
}

func NewSubscriptionService(subscriptions SubscriptionRepository, users UserRepository, posts PostRepository) *SubscriptionService {
	return &SubscriptionService{subscriptions: subscriptions, users: users, posts: posts}
}

// Follow creates a follow edge from the principal to the target.
// Following yourself is an illegal state; a duplicate edge is a
// conflict, and the unique constraint turns a concurrent duplicate
// into the same conflict instead of a second edge.
func (s *SubscriptionService) Follow(ctx context.Context, principal auth.Principal, targetID uuid.UUID) (*models.Subscription, error) {
	if principal.ID == targetID {
		return nil, apperror.New(apperror.ErrCodeInvalidState, "you cannot follow yourself")
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	exists, err := s.subscriptions.Exists(ctx, principal.ID, target.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.New(apperror.ErrCodeConflict, "already following this user")
	}

	sub := &models.Subscription{
		FollowerID:  principal.ID,
		FollowingID: target.ID,
	}
	if err := s.subscriptions.Create(ctx, sub); err != nil {
		return nil, err
	}

	return sub, nil
}

// Unfollow removes the follow edge. A second unfollow in a row fails
// with a conflict and leaves the edge count unchanged.
func (s *SubscriptionService) Unfollow(ctx context.Context, principal auth.Principal, targetID uuid.UUID) error {
	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		return err
	}

	return s.subscriptions.Delete(ctx, principal.ID, targetID)
}

// IsFollowing reports whether the principal follows the target.
func (s *SubscriptionService) IsFollowing(ctx context.Context, principal auth.Principal, targetID uuid.UUID) (bool, error) {
	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		return false, err
	}

	return s.subscriptions.Exists(ctx, principal.ID, targetID)
}

// Profile builds the public profile of a user for the viewer. Email is
// only included on the viewer's own profile.
func (s *SubscriptionService) Profile(ctx context.Context, viewer auth.Principal, userID uuid.UUID) (*models.UserProfile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.profileOf(ctx, viewer, user)
}

// MyProfile is Profile for the caller themselves.
func (s *SubscriptionService) MyProfile(ctx context.Context, principal auth.Principal) (*models.UserProfile, error) {
	return s.Profile(ctx, principal, principal.ID)
}

// ListUsers returns every account as a profile for the viewer, newest
// first.
func (s *SubscriptionService) ListUsers(ctx context.Context, viewer auth.Principal) ([]models.UserProfile, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	profiles := make([]models.UserProfile, 0, len(users))
	for i := range users {
		profile, err := s.profileOf(ctx, viewer, &users[i])
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *profile)
	}

	return profiles, nil
}

func (s *SubscriptionService) profileOf(ctx context.Context, viewer auth.Principal, user *models.User) (*models.UserProfile, error) {
	followersCount, err := s.subscriptions.CountFollowers(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	followingCount, err := s.subscriptions.CountFollowing(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	postsCount, err := s.posts.CountByAuthor(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	isFollowing, err := s.subscriptions.Exists(ctx, viewer.ID, user.ID)
	if err != nil {
		return nil, err
	}

	isOwnProfile := viewer.ID == user.ID

	profile := &models.UserProfile{
		ID:             user.ID,
		Username:       user.Username,
		Role:           user.Role,
		FollowersCount: followersCount,
		FollowingCount: followingCount,
		PostsCount:     postsCount,
		IsFollowing:    isFollowing,
		IsOwnProfile:   isOwnProfile,
		CreatedAt:      user.CreatedAt,
	}
	if isOwnProfile {
		profile.Email = &user.Email
	}

	return profile, nil
}
