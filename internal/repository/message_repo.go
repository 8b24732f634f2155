package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"warbler/internal/models"
	"warbler/internal/repository/db"
)

type MessageRepository struct {
	db      *sql.DB
	dialect db.Dialect
}

func NewMessageRepository(conn *sql.DB, dialect db.Dialect) *MessageRepository {
	return &MessageRepository{db: conn, dialect: dialect}
}

var _ MessageRepo = (*MessageRepository)(nil)

const messageSelect = `SELECT m.id, m.text, m.created_at, m.user_id, u.username, u.image_url
		FROM messages m JOIN users u ON u.id = m.user_id`

const (
	insertMessageSQL = `INSERT INTO messages (text, created_at, user_id) VALUES (?, ?, ?) RETURNING id`
	selectMessageSQL = messageSelect + ` WHERE m.id = ?`
	deleteMessageSQL = `DELETE FROM messages WHERE id = ?`
	countByUserSQL   = `SELECT COUNT(*) FROM messages WHERE user_id = ?`
	listByUserSQL    = messageSelect + ` WHERE m.user_id = ? ORDER BY m.created_at DESC, m.id DESC LIMIT ?`
	listTimelineSQL  = messageSelect + `
		WHERE m.user_id = ? OR m.user_id IN (SELECT followed_id FROM follows WHERE follower_id = ?)
		ORDER BY m.created_at DESC, m.id DESC LIMIT ?`
)

func scanMessage(s rowScanner) (models.Message, error) {
	var m models.Message
	err := s.Scan(&m.ID, &m.Text, &m.Timestamp, &m.UserID, &m.Username, &m.UserImageURL)
	if err == nil {
		m.Timestamp = m.Timestamp.UTC()
	}
	return m, err
}

// Create inserts a message and returns its ID. A zero Timestamp means now.
// An unknown owner is reported as ErrForeignKey.
func (r *MessageRepository) Create(ctx context.Context, m models.Message) (int, error) {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	var id int
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(insertMessageSQL), m.Text, ts.UTC(), m.UserID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert message for user %d: %w", m.UserID, classify(err))
	}
	return id, nil
}

// GetByID fetches a message with its owner. Returns (nil, nil) if not found.
func (r *MessageRepository) GetByID(ctx context.Context, id int) (*models.Message, error) {
	m, err := scanMessage(r.db.QueryRowContext(ctx, r.dialect.Rebind(selectMessageSQL), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select message %d: %w", id, err)
	}
	return &m, nil
}

func (r *MessageRepository) Delete(ctx context.Context, id int) error {
	if _, err := r.db.ExecContext(ctx, r.dialect.Rebind(deleteMessageSQL), id); err != nil {
		return fmt.Errorf("delete message %d: %w", id, err)
	}
	return nil
}

// ListByUser returns the user's newest messages first.
func (r *MessageRepository) ListByUser(ctx context.Context, userID, limit int) ([]models.Message, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(listByUserSQL), userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list messages of user %d: %w", userID, err)
	}
	return collectMessages(rows)
}

// ListTimeline returns the user's own messages and those of everyone they
// follow, newest first.
func (r *MessageRepository) ListTimeline(ctx context.Context, userID, limit int) ([]models.Message, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(listTimelineSQL), userID, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list timeline of user %d: %w", userID, err)
	}
	return collectMessages(rows)
}

func (r *MessageRepository) CountByUser(ctx context.Context, userID int) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, r.dialect.Rebind(countByUserSQL), userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count messages of user %d: %w", userID, err)
	}
	return n, nil
}

func collectMessages(rows *sql.Rows) ([]models.Message, error) {
	defer func() { _ = rows.Close() }()

	msgs := []models.Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return msgs, nil
}
