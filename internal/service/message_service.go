package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"warbler/internal/models"
	"warbler/internal/repository"
)

type messageInput struct {
	Text string `json:"text" validate:"required,max=140"`
}

type MessageService struct {
	messages repository.MessageRepo
	now      func() time.Time
}

func NewMessageService(messages repository.MessageRepo) *MessageService {
	return &MessageService{messages: messages, now: time.Now}
}

// PostMessage stores a warble of at most models.MaxMessageLength characters.
func (s *MessageService) PostMessage(ctx context.Context, userID int, text string) (*models.Message, error) {
	in := messageInput{Text: strings.TrimSpace(text)}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	m := models.Message{Text: in.Text, UserID: userID, Timestamp: s.now().UTC()}
	id, err := s.messages.Create(ctx, m)
	if err != nil {
		if errors.Is(err, repository.ErrForeignKey) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	m.ID = id
	return &m, nil
}

func (s *MessageService) GetMessage(ctx context.Context, id int) (*models.Message, error) {
	m, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMessageNotFound
	}
	return m, nil
}

// DeleteMessage removes the message if actorID owns it.
func (s *MessageService) DeleteMessage(ctx context.Context, actorID, id int) error {
	m, err := s.GetMessage(ctx, id)
	if err != nil {
		return err
	}
	if !m.OwnedBy(actorID) {
		return ErrForbidden
	}
	return s.messages.Delete(ctx, id)
}

func (s *MessageService) UserMessages(ctx context.Context, userID, limit int) ([]models.Message, error) {
	return s.messages.ListByUser(ctx, userID, limit)
}

// HomeTimeline merges the user's own messages with those of everyone they follow.
func (s *MessageService) HomeTimeline(ctx context.Context, userID, limit int) ([]models.Message, error) {
	return s.messages.ListTimeline(ctx, userID, limit)
}
