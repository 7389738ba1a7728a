package services

import (
	"context"

	"github.com/anonto42/circles/backend/internal/models"
	"github.com/anonto42/circles/backend/internal/policy"
	"github.com/anonto42/circles/backend/internal/repositories"
)

// FollowService maintains the directed follow graph.
type FollowService struct {
	follows  repositories.FollowRepository
	users    repositories.UserRepository
	resolver *policy.Resolver
	notifier *NotificationService
}

func NewFollowService(follows repositories.FollowRepository, users repositories.UserRepository, resolver *policy.Resolver, notifier *NotificationService) *FollowService {
	return &FollowService{follows: follows, users: users, resolver: resolver, notifier: notifier}
}

// Follow creates the edge followerID -> followingID. Self-follows are
// rejected; a repeated follow fails with ErrDuplicateFollow.
func (s *FollowService) Follow(ctx context.Context, followerID, followingID uint) (*models.Follow, error) {
	if followerID == followingID {
		return nil, ErrSelfFollow
	}
	actor, err := s.users.GetUserByID(ctx, followerID)
	if err != nil {
		return nil, storageError(err, ErrUserNotFound, nil)
	}
	if _, err := s.users.GetUserByID(ctx, followingID); err != nil {
		return nil, storageError(err, ErrUserNotFound, nil)
	}

	follow := &models.Follow{FollowerID: followerID, FollowingID: followingID}
	if err := s.follows.CreateFollow(ctx, follow); err != nil {
		return nil, storageError(err, nil, ErrDuplicateFollow)
	}

	s.notifier.Notify(ctx, &models.Notification{
		Type:        models.NotificationFollow,
		ActorID:     followerID,
		RecipientID: followingID,
		TargetID:    followerID,
		TargetType:  "user",
		Message:     actor.DisplayName + " started following you",
	}, false)
	return follow, nil
}

// Unfollow removes the edge if present. Removing an absent edge succeeds.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followingID uint) error {
	return s.follows.DeleteFollow(ctx, followerID, followingID)
}

func (s *FollowService) IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error) {
	return s.follows.IsFollowing(ctx, followerID, followingID)
}

// visibleGraph checks that viewerID may see userID's profile, and with it
// the user's followers and following lists.
func (s *FollowService) visibleGraph(ctx context.Context, viewerID, userID uint) error {
	owner, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return storageError(err, ErrUserNotFound, nil)
	}
	ok, err := s.resolver.CanViewProfile(ctx, viewerID, owner)
	if err != nil {
		return err
	}
	if !ok {
		return forbidden("view this user's connections")
	}
	return nil
}

func (s *FollowService) Followers(ctx context.Context, viewerID, userID uint) ([]models.UserCompact, error) {
	if err := s.visibleGraph(ctx, viewerID, userID); err != nil {
		return nil, err
	}
	users, err := s.follows.GetFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	return compactUsers(users), nil
}

func (s *FollowService) Following(ctx context.Context, viewerID, userID uint) ([]models.UserCompact, error) {
	if err := s.visibleGraph(ctx, viewerID, userID); err != nil {
		return nil, err
	}
	users, err := s.follows.GetFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	return compactUsers(users), nil
}

func compactUsers(users []models.User) []models.UserCompact {
	out := make([]models.UserCompact, 0, len(users))
	for i := range users {
		out = append(out, users[i].Compact())
	}
	return out
}
