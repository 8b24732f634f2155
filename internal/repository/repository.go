package repository

import (
	"context"
	"database/sql"

	"warbler/internal/models"
	"warbler/internal/repository/db"
)

type UserRepo interface {
	Create(ctx context.Context, u models.User) (int, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Search(ctx context.Context, query string, limit int) ([]models.User, error)
	Update(ctx context.Context, u models.User) error
	Delete(ctx context.Context, id int) error
}

type MessageRepo interface {
	Create(ctx context.Context, m models.Message) (int, error)
	GetByID(ctx context.Context, id int) (*models.Message, error)
	Delete(ctx context.Context, id int) error
	ListByUser(ctx context.Context, userID, limit int) ([]models.Message, error)
	ListTimeline(ctx context.Context, userID, limit int) ([]models.Message, error)
	CountByUser(ctx context.Context, userID int) (int, error)
}

type FollowRepo interface {
	Add(ctx context.Context, followerID, followedID int) error
	Remove(ctx context.Context, followerID, followedID int) error
	Exists(ctx context.Context, followerID, followedID int) (bool, error)
	ListFollowing(ctx context.Context, userID int) ([]models.User, error)
	ListFollowers(ctx context.Context, userID int) ([]models.User, error)
}

type Repository struct {
	Users    UserRepo
	Messages MessageRepo
	Follows  FollowRepo
}

func NewRepository(conn *sql.DB, dialect db.Dialect) *Repository {
	return &Repository{
		Users:    NewUserRepository(conn, dialect),
		Messages: NewMessageRepository(conn, dialect),
		Follows:  NewFollowRepository(conn, dialect),
	}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
