package models

import "time"

// MaxMessageLength is the longest message text accepted, in runes.
const MaxMessageLength = 140

// Message is a short post owned by exactly one user.
type Message struct {
	ID        int       `json:"id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	UserID    int       `json:"user_id"`

	// Filled by queries that join the owner.
	Username     string `json:"username,omitempty"`
	UserImageURL string `json:"user_image_url,omitempty"`
}

// OwnedBy reports whether userID owns the message.
func (m Message) OwnedBy(userID int) bool {
	return userID != 0 && m.UserID == userID
}
