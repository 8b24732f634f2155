package service

import (
	"context"
	"time"

	"warbler/internal/models"
	"warbler/internal/repository"
)

// Authorization covers sign-up, credential checks and API tokens.
type Authorization interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Users exposes account reads and profile maintenance.
type Users interface {
	GetUser(ctx context.Context, id int) (*models.User, error)
	Profile(ctx context.Context, id, limit int) (*models.UserProfile, error)
	SearchUsers(ctx context.Context, query string) ([]models.User, error)
	UpdateProfile(ctx context.Context, id int, in ProfileInput) (*models.User, error)
	DeleteAccount(ctx context.Context, id int) error
}

// Follows manages the directed follow graph.
type Follows interface {
	IsFollowing(ctx context.Context, userID, otherID int) (bool, error)
	IsFollowedBy(ctx context.Context, userID, otherID int) (bool, error)
	Follow(ctx context.Context, followerID, followedID int) error
	Unfollow(ctx context.Context, followerID, followedID int) error
	Following(ctx context.Context, userID int) ([]models.User, error)
	Followers(ctx context.Context, userID int) ([]models.User, error)
}

// Messages handles posting, reading and deleting warbles.
type Messages interface {
	PostMessage(ctx context.Context, userID int, text string) (*models.Message, error)
	GetMessage(ctx context.Context, id int) (*models.Message, error)
	DeleteMessage(ctx context.Context, actorID, id int) error
	UserMessages(ctx context.Context, userID, limit int) ([]models.Message, error)
	HomeTimeline(ctx context.Context, userID, limit int) ([]models.Message, error)
}

type Service struct {
	Authorization
	Users
	Follows
	Messages
}

// AuthConfig carries the token settings read from configuration.
type AuthConfig struct {
	SigningKey string
	TokenTTL   time.Duration
}

func NewService(repos *repository.Repository, auth AuthConfig) *Service {
	return &Service{
		Authorization: NewAuthService(repos.Users, auth),
		Users:         NewUserService(repos.Users, repos.Messages, repos.Follows),
		Follows:       NewFollowService(repos.Follows, repos.Users),
		Messages:      NewMessageService(repos.Messages),
	}
}
