package service

import (
	"context"
	"errors"

	"warbler/internal/models"
	"warbler/internal/repository"
)

type FollowService struct {
	follows repository.FollowRepo
	users   repository.UserRepo
}

func NewFollowService(follows repository.FollowRepo, users repository.UserRepo) *FollowService {
	return &FollowService{follows: follows, users: users}
}

// IsFollowing reports whether userID follows otherID.
func (s *FollowService) IsFollowing(ctx context.Context, userID, otherID int) (bool, error) {
	return s.follows.Exists(ctx, userID, otherID)
}

// IsFollowedBy reports whether otherID follows userID.
func (s *FollowService) IsFollowedBy(ctx context.Context, userID, otherID int) (bool, error) {
	return s.follows.Exists(ctx, otherID, userID)
}

// Follow adds the edge followerID -> followedID. Following twice is a no-op.
func (s *FollowService) Follow(ctx context.Context, followerID, followedID int) error {
	if followerID == followedID {
		return ErrCannotFollowSelf
	}
	u, err := s.users.GetByID(ctx, followedID)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrUserNotFound
	}
	if err := s.follows.Add(ctx, followerID, followedID); err != nil {
		if errors.Is(err, repository.ErrForeignKey) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *FollowService) Unfollow(ctx context.Context, followerID, followedID int) error {
	return s.follows.Remove(ctx, followerID, followedID)
}

func (s *FollowService) Following(ctx context.Context, userID int) ([]models.User, error) {
	return s.follows.ListFollowing(ctx, userID)
}

func (s *FollowService) Followers(ctx context.Context, userID int) ([]models.User, error) {
	return s.follows.ListFollowers(ctx, userID)
}
