package repository

import (
	"context"
	"database/sql"
	"fmt"

	"warbler/internal/models"
	"warbler/internal/repository/db"
)

type FollowRepository struct {
	db      *sql.DB
	dialect db.Dialect
}

func NewFollowRepository(conn *sql.DB, dialect db.Dialect) *FollowRepository {
	return &FollowRepository{db: conn, dialect: dialect}
}

var _ FollowRepo = (*FollowRepository)(nil)

const (
	insertFollowSQL = `INSERT INTO follows (follower_id, followed_id) VALUES (?, ?)
		ON CONFLICT (follower_id, followed_id) DO NOTHING`
	deleteFollowSQL = `DELETE FROM follows WHERE follower_id = ? AND followed_id = ?`
	existsFollowSQL = `SELECT EXISTS (SELECT 1 FROM follows WHERE follower_id = ? AND followed_id = ?)`

	listFollowingSQL = `SELECT u.id, u.username, u.email, u.password, u.image_url, u.header_image_url, u.bio, u.location
		FROM users u JOIN follows f ON f.followed_id = u.id
		WHERE f.follower_id = ? ORDER BY u.username`
	listFollowersSQL = `SELECT u.id, u.username, u.email, u.password, u.image_url, u.header_image_url, u.bio, u.location
		FROM users u JOIN follows f ON f.follower_id = u.id
		WHERE f.followed_id = ? ORDER BY u.username`
)

// Add records that followerID follows followedID. Adding an existing edge is
// a no-op; an unknown user is reported as ErrForeignKey.
func (r *FollowRepository) Add(ctx context.Context, followerID, followedID int) error {
	if _, err := r.db.ExecContext(ctx, r.dialect.Rebind(insertFollowSQL), followerID, followedID); err != nil {
		return fmt.Errorf("insert follow %d->%d: %w", followerID, followedID, classify(err))
	}
	return nil
}

func (r *FollowRepository) Remove(ctx context.Context, followerID, followedID int) error {
	if _, err := r.db.ExecContext(ctx, r.dialect.Rebind(deleteFollowSQL), followerID, followedID); err != nil {
		return fmt.Errorf("delete follow %d->%d: %w", followerID, followedID, err)
	}
	return nil
}

// Exists reports whether the edge (followerID -> followedID) is present.
func (r *FollowRepository) Exists(ctx context.Context, followerID, followedID int) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(existsFollowSQL), followerID, followedID).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check follow %d->%d: %w", followerID, followedID, err)
	}
	return ok, nil
}

// ListFollowing returns the users userID follows.
func (r *FollowRepository) ListFollowing(ctx context.Context, userID int) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(listFollowingSQL), userID)
	if err != nil {
		return nil, fmt.Errorf("list following of user %d: %w", userID, err)
	}
	return collectUsers(rows)
}

// ListFollowers returns the users following userID.
func (r *FollowRepository) ListFollowers(ctx context.Context, userID int) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(listFollowersSQL), userID)
	if err != nil {
		return nil, fmt.Errorf("list followers of user %d: %w", userID, err)
	}
	return collectUsers(rows)
}
