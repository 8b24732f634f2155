package service

import (
	"context"

	"warbler/internal/models"
)

// mockUserRepo is a lightweight in-test mock for repository.UserRepo.
type mockUserRepo struct {
	CreateFn        func(u models.User) (int, error)
	GetByIDFn       func(id int) (*models.User, error)
	GetByUsernameFn func(username string) (*models.User, error)
	SearchFn        func(query string, limit int) ([]models.User, error)
	UpdateFn        func(u models.User) error
	DeleteFn        func(id int) error

	created []models.User
	updated []models.User
	deleted []int
}

func (m *mockUserRepo) Create(_ context.Context, u models.User) (int, error) {
	m.created = append(m.created, u)
	return m.CreateFn(u)
}

func (m *mockUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	return m.GetByIDFn(id)
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	return m.GetByUsernameFn(username)
}

func (m *mockUserRepo) Search(_ context.Context, query string, limit int) ([]models.User, error) {
	return m.SearchFn(query, limit)
}

func (m *mockUserRepo) Update(_ context.Context, u models.User) error {
	m.updated = append(m.updated, u)
	return m.UpdateFn(u)
}

func (m *mockUserRepo) Delete(_ context.Context, id int) error {
	m.deleted = append(m.deleted, id)
	return m.DeleteFn(id)
}

// mockMessageRepo is a lightweight in-test mock for repository.MessageRepo.
type mockMessageRepo struct {
	CreateFn       func(msg models.Message) (int, error)
	GetByIDFn      func(id int) (*models.Message, error)
	DeleteFn       func(id int) error
	ListByUserFn   func(userID, limit int) ([]models.Message, error)
	ListTimelineFn func(userID, limit int) ([]models.Message, error)
	CountByUserFn  func(userID int) (int, error)

	deleted []int
}

func (m *mockMessageRepo) Create(_ context.Context, msg models.Message) (int, error) {
	return m.CreateFn(msg)
}

func (m *mockMessageRepo) GetByID(_ context.Context, id int) (*models.Message, error) {
	return m.GetByIDFn(id)
}

func (m *mockMessageRepo) Delete(_ context.Context, id int) error {
	m.deleted = append(m.deleted, id)
	return m.DeleteFn(id)
}

func (m *mockMessageRepo) ListByUser(_ context.Context, userID, limit int) ([]models.Message, error) {
	return m.ListByUserFn(userID, limit)
}

func (m *mockMessageRepo) ListTimeline(_ context.Context, userID, limit int) ([]models.Message, error) {
	return m.ListTimelineFn(userID, limit)
}

func (m *mockMessageRepo) CountByUser(_ context.Context, userID int) (int, error) {
	return m.CountByUserFn(userID)
}

type edge struct{ follower, followed int }

// mockFollowRepo keeps edges in memory.
type mockFollowRepo struct {
	edges map[edge]bool
	err   error

	ListFollowingFn func(userID int) ([]models.User, error)
	ListFollowersFn func(userID int) ([]models.User, error)
}

func newMockFollowRepo() *mockFollowRepo {
	return &mockFollowRepo{edges: map[edge]bool{}}
}

func (m *mockFollowRepo) Add(_ context.Context, followerID, followedID int) error {
	if m.err != nil {
		return m.err
	}
	m.edges[edge{followerID, followedID}] = true
	return nil
}

func (m *mockFollowRepo) Remove(_ context.Context, followerID, followedID int) error {
	if m.err != nil {
		return m.err
	}
	delete(m.edges, edge{followerID, followedID})
	return nil
}

func (m *mockFollowRepo) Exists(_ context.Context, followerID, followedID int) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.edges[edge{followerID, followedID}], nil
}

func (m *mockFollowRepo) ListFollowing(_ context.Context, userID int) ([]models.User, error) {
	return m.ListFollowingFn(userID)
}

func (m *mockFollowRepo) ListFollowers(_ context.Context, userID int) ([]models.User, error) {
	return m.ListFollowersFn(userID)
}
