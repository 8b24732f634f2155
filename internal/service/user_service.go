package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"warbler/internal/models"
	"warbler/internal/repository"
)

// upper bound for a user search page
const searchLimit = 1000

// ProfileInput is the edit-profile form. Password must be the current one;
// a blank email keeps the stored address.
type ProfileInput struct {
	Username       string `json:"username" form:"username" validate:"required"`
	Email          string `json:"email" form:"email" validate:"omitempty,email"`
	ImageURL       string `json:"image_url" form:"image_url" validate:"omitempty,uri"`
	HeaderImageURL string `json:"header_image_url" form:"header_image_url" validate:"omitempty,uri"`
	Bio            string `json:"bio" form:"bio"`
	Location       string `json:"location" form:"location"`
	Password       string `json:"password" form:"password" validate:"required"`
}

type UserService struct {
	users    repository.UserRepo
	messages repository.MessageRepo
	follows  repository.FollowRepo
}

func NewUserService(users repository.UserRepo, messages repository.MessageRepo, follows repository.FollowRepo) *UserService {
	return &UserService{users: users, messages: messages, follows: follows}
}

// GetUser returns (nil, nil) when the id is unknown.
func (s *UserService) GetUser(ctx context.Context, id int) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// Profile loads the user with their latest messages and follow counts.
func (s *UserService) Profile(ctx context.Context, id, limit int) (*models.UserProfile, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	msgs, err := s.messages.ListByUser(ctx, id, limit)
	if err != nil {
		return nil, err
	}
	count, err := s.messages.CountByUser(ctx, id)
	if err != nil {
		return nil, err
	}
	following, err := s.follows.ListFollowing(ctx, id)
	if err != nil {
		return nil, err
	}
	followers, err := s.follows.ListFollowers(ctx, id)
	if err != nil {
		return nil, err
	}

	return &models.UserProfile{
		User:           *u,
		Messages:       msgs,
		MessageCount:   count,
		FollowingCount: len(following),
		FollowersCount: len(followers),
	}, nil
}

// SearchUsers matches query as a username substring; an empty query lists everyone.
func (s *UserService) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	return s.users.Search(ctx, strings.TrimSpace(query), searchLimit)
}

func (s *UserService) UpdateProfile(ctx context.Context, id int, in ProfileInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	in.HeaderImageURL = strings.TrimSpace(in.HeaderImageURL)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	if err := verifyPassword(u.PasswordHash, in.Password); err != nil {
		return nil, ErrIncorrectPassword
	}
	if in.Email == "" {
		in.Email = u.Email
	}

	updated := models.User{
		ID:             u.ID,
		Username:       in.Username,
		Email:          in.Email,
		PasswordHash:   u.PasswordHash,
		ImageURL:       in.ImageURL,
		HeaderImageURL: in.HeaderImageURL,
		Bio:            in.Bio,
		Location:       in.Location,
	}.WithDefaults()

	if err := s.users.Update(ctx, updated); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &updated, nil
}

// DeleteAccount removes the user together with their messages and follow edges.
func (s *UserService) DeleteAccount(ctx context.Context, id int) error {
	return s.users.Delete(ctx, id)
}
