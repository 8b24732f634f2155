package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"warbler/internal/models"
	"warbler/internal/repository"
)

func TestUserService_Profile(t *testing.T) {
	users := &mockUserRepo{
		GetByIDFn: func(id int) (*models.User, error) {
			if id == 1 {
				return &models.User{ID: 1, Username: "testuser"}, nil
			}
			return nil, nil
		},
	}
	messages := &mockMessageRepo{
		ListByUserFn: func(userID, limit int) ([]models.Message, error) {
			if limit != 100 {
				t.Fatalf("expected limit 100, got %d", limit)
			}
			return []models.Message{{ID: 1, Text: "hi", UserID: userID}}, nil
		},
		CountByUserFn: func(userID int) (int, error) { return 1, nil },
	}
	follows := newMockFollowRepo()
	follows.ListFollowingFn = func(userID int) ([]models.User, error) {
		return []models.User{{ID: 2}, {ID: 3}}, nil
	}
	follows.ListFollowersFn = func(userID int) ([]models.User, error) {
		return []models.User{}, nil
	}
	svc := NewUserService(users, messages, follows)

	p, err := svc.Profile(context.Background(), 1, 100)
	if err != nil {
		t.Fatalf("Profile returned error: %v", err)
	}
	if p.User.Username != "testuser" || p.MessageCount != 1 || len(p.Messages) != 1 ||
		p.FollowingCount != 2 || p.FollowersCount != 0 {
		t.Fatalf("unexpected profile: %+v", p)
	}

	if _, err := svc.Profile(context.Background(), 404, 100); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_SearchUsers_TrimsQuery(t *testing.T) {
	var gotQuery string
	users := &mockUserRepo{
		SearchFn: func(query string, limit int) ([]models.User, error) {
			gotQuery = query
			return []models.User{{ID: 1, Username: "alice"}}, nil
		},
	}
	res, err := NewUserService(users, &mockMessageRepo{}, newMockFollowRepo()).SearchUsers(context.Background(), "  ali ")
	if err != nil || len(res) != 1 {
		t.Fatalf("unexpected result: %v (%v)", res, err)
	}
	if gotQuery != "ali" {
		t.Fatalf("expected trimmed query, got %q", gotQuery)
	}
}

func TestUserService_UpdateProfile(t *testing.T) {
	hash, err := hashPassword("password")
	if err != nil {
		t.Fatalf("hashPassword failed: %v", err)
	}
	current := &models.User{ID: 1, Username: "testuser", Email: "test@test.com", PasswordHash: hash, ImageURL: "/old.png"}

	valid := ProfileInput{Username: "renamed", Email: "new@test.com", Bio: "hello", Password: "password"}

	tests := []struct {
		name       string
		in         ProfileInput
		updateErr  error
		wantErr    error
		wantUpdate bool
		wantEmail  string
	}{
		{name: "success", in: valid, wantUpdate: true, wantEmail: "new@test.com"},
		{name: "wrong password", in: ProfileInput{Username: "x", Email: "x@test.com", Password: "nope"}, wantErr: ErrIncorrectPassword},
		{name: "missing password", in: ProfileInput{Username: "x", Email: "x@test.com"}, wantErr: ErrValidation},
		{name: "bad email", in: ProfileInput{Username: "x", Email: "x", Password: "password"}, wantErr: ErrValidation},
		{name: "blank email keeps current", in: ProfileInput{Username: "renamed", Bio: "hello", Password: "password"}, wantUpdate: true, wantEmail: "test@test.com"},
		{name: "name taken", in: valid, updateErr: fmt.Errorf("update: %w", repository.ErrDuplicate), wantErr: ErrUserExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &mockUserRepo{
				GetByIDFn: func(id int) (*models.User, error) { c := *current; return &c, nil },
				UpdateFn:  func(u models.User) error { return tt.updateErr },
			}
			svc := NewUserService(users, &mockMessageRepo{}, newMockFollowRepo())

			u, err := svc.UpdateProfile(context.Background(), 1, tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if tt.wantErr != ErrUserExists && len(users.updated) != 0 {
					t.Fatalf("Update must not be called, got %d calls", len(users.updated))
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.wantUpdate || len(users.updated) != 1 {
				t.Fatalf("expected one Update call, got %d", len(users.updated))
			}
			if u.Username != "renamed" || u.Bio != "hello" || u.PasswordHash != hash {
				t.Fatalf("unexpected updated user: %+v", u)
			}
			if u.Email != tt.wantEmail || users.updated[0].Email != tt.wantEmail {
				t.Fatalf("email = %q, want %q", u.Email, tt.wantEmail)
			}
			// blank image falls back to the default
			if u.ImageURL != models.DefaultImageURL {
				t.Fatalf("expected default image, got %q", u.ImageURL)
			}
		})
	}
}

func TestUserService_UpdateProfile_UnknownUser(t *testing.T) {
	users := &mockUserRepo{
		GetByIDFn: func(id int) (*models.User, error) { return nil, nil },
	}
	_, err := NewUserService(users, &mockMessageRepo{}, newMockFollowRepo()).UpdateProfile(context.Background(), 9,
		ProfileInput{Username: "x", Email: "x@test.com", Password: "password"})
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_DeleteAccount(t *testing.T) {
	users := &mockUserRepo{DeleteFn: func(id int) error { return nil }}
	if err := NewUserService(users, &mockMessageRepo{}, newMockFollowRepo()).DeleteAccount(context.Background(), 3); err != nil {
		t.Fatalf("DeleteAccount returned error: %v", err)
	}
	if len(users.deleted) != 1 || users.deleted[0] != 3 {
		t.Fatalf("expected Delete(3), got %v", users.deleted)
	}
}
