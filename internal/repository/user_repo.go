package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"warbler/internal/models"
	"warbler/internal/repository/db"
)

type UserRepository struct {
	db      *sql.DB
	dialect db.Dialect
}

func NewUserRepository(conn *sql.DB, dialect db.Dialect) *UserRepository {
	return &UserRepository{db: conn, dialect: dialect}
}

// Ensure implementation of UserRepo interface at compile time.
var _ UserRepo = (*UserRepository)(nil)

const userColumns = `id, username, email, password, image_url, header_image_url, bio, location`

const (
	insertUserSQL = `INSERT INTO users (username, email, password, image_url, header_image_url, bio, location)
		VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`
	selectUserByIDSQL       = `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	selectUserByUsernameSQL = `SELECT ` + userColumns + ` FROM users WHERE username = ?`
	searchUsersSQL          = `SELECT ` + userColumns + ` FROM users WHERE LOWER(username) LIKE LOWER(?) ESCAPE '\' ORDER BY username LIMIT ?`
	updateUserSQL           = `UPDATE users SET username = ?, email = ?, image_url = ?, header_image_url = ?, bio = ?, location = ?
		WHERE id = ?`

	// account deletion, in order
	deleteUserFollowsSQL  = `DELETE FROM follows WHERE follower_id = ? OR followed_id = ?`
	deleteUserMessagesSQL = `DELETE FROM messages WHERE user_id = ?`
	deleteUserSQL         = `DELETE FROM users WHERE id = ?`
)

func scanUser(s rowScanner) (models.User, error) {
	var u models.User
	err := s.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.ImageURL, &u.HeaderImageURL, &u.Bio, &u.Location)
	return u, err
}

// Create inserts a new user and returns its ID. Unique violations on
// username or email are reported as ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, u models.User) (int, error) {
	u = u.WithDefaults()
	var id int
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(insertUserSQL),
		u.Username, u.Email, u.PasswordHash, u.ImageURL, u.HeaderImageURL, u.Bio, u.Location,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert user %q: %w", u.Username, classify(err))
	}
	return id, nil
}

// GetByID fetches a user by id. Returns (nil, nil) if not found.
func (r *UserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, r.dialect.Rebind(selectUserByIDSQL), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user %d: %w", id, err)
	}
	return &u, nil
}

// GetByUsername fetches a user by username. Returns (nil, nil) if not found.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, r.dialect.Rebind(selectUserByUsernameSQL), username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user %q: %w", username, err)
	}
	return &u, nil
}

// likeEscaper makes LIKE wildcards in user input match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search lists users whose username contains query, ignoring case, alphabetically.
func (r *UserRepository) Search(ctx context.Context, query string, limit int) ([]models.User, error) {
	pattern := "%" + likeEscaper.Replace(query) + "%"
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(searchUsersSQL), pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("search users %q: %w", query, err)
	}
	return collectUsers(rows)
}

// Update writes the profile fields of u. The password hash is left alone.
func (r *UserRepository) Update(ctx context.Context, u models.User) error {
	u = u.WithDefaults()
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(updateUserSQL),
		u.Username, u.Email, u.ImageURL, u.HeaderImageURL, u.Bio, u.Location, u.ID,
	)
	if err != nil {
		return fmt.Errorf("update user %d: %w", u.ID, classify(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for user %d: %w", u.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("update user %d: %w", u.ID, sql.ErrNoRows)
	}
	return nil
}

// Delete removes the user, its follows edges and its messages in one
// transaction. Deleting a missing user is not an error.
func (r *UserRepository) Delete(ctx context.Context, id int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete user %d: %w", id, err)
	}
	defer func() {
		// no-op after commit
		_ = tx.Rollback()
	}()

	steps := []struct {
		name  string
		query string
		args  []any
	}{
		{"follows", deleteUserFollowsSQL, []any{id, id}},
		{"messages", deleteUserMessagesSQL, []any{id}},
		{"user", deleteUserSQL, []any{id}},
	}
	for _, st := range steps {
		if _, err := tx.ExecContext(ctx, r.dialect.Rebind(st.query), st.args...); err != nil {
			return fmt.Errorf("delete %s of user %d: %w", st.name, id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete user %d: %w", id, err)
	}
	return nil
}

func collectUsers(rows *sql.Rows) ([]models.User, error) {
	defer func() { _ = rows.Close() }()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}
