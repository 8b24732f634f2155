package handlers

import (
	"context"
	"net/http"
	"strconv"
	"testing"

	"warbler/internal/models"
	"warbler/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/securecookie"
)

// ---- Service Mocks ----

type mockAuth struct {
	registerUser *models.User
	registerErr  error
	authUser     *models.User
	authErr      error
	token        string
	tokenErr     error
	parseID      int
	parseErr     error

	lastRegister   service.RegisterInput
	lastAuthUser   string
	lastParseToken string
}

func (m *mockAuth) Register(_ context.Context, in service.RegisterInput) (*models.User, error) {
	m.lastRegister = in
	return m.registerUser, m.registerErr
}

func (m *mockAuth) Authenticate(_ context.Context, username, password string) (*models.User, error) {
	m.lastAuthUser = username
	return m.authUser, m.authErr
}

func (m *mockAuth) GenerateToken(_ context.Context, username, password string) (string, error) {
	m.lastAuthUser = username
	return m.token, m.tokenErr
}

func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockUsers struct {
	users     map[int]*models.User
	getErr    error
	updateErr error
	deleteErr error

	lastSearch  string
	lastUpdate  service.ProfileInput
	deletedIDs  []int
	updateCalls int
}

func newMockUsers(users ...*models.User) *mockUsers {
	m := &mockUsers{users: map[int]*models.User{}}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockUsers) GetUser(_ context.Context, id int) (*models.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.users[id], nil
}

func (m *mockUsers) Profile(_ context.Context, id, limit int) (*models.UserProfile, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, service.ErrUserNotFound
	}
	return &models.UserProfile{User: *u, Messages: []models.Message{}}, nil
}

func (m *mockUsers) SearchUsers(_ context.Context, query string) ([]models.User, error) {
	m.lastSearch = query
	out := []models.User{}
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *mockUsers) UpdateProfile(_ context.Context, id int, in service.ProfileInput) (*models.User, error) {
	m.updateCalls++
	m.lastUpdate = in
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	u := *m.users[id]
	u.Username = in.Username
	return &u, nil
}

func (m *mockUsers) DeleteAccount(_ context.Context, id int) error {
	m.deletedIDs = append(m.deletedIDs, id)
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.users, id)
	return nil
}

type followEdge struct{ follower, followed int }

type mockFollows struct {
	edges     map[followEdge]bool
	followErr error
}

func newMockFollows() *mockFollows {
	return &mockFollows{edges: map[followEdge]bool{}}
}

func (m *mockFollows) IsFollowing(_ context.Context, userID, otherID int) (bool, error) {
	return m.edges[followEdge{userID, otherID}], nil
}

func (m *mockFollows) IsFollowedBy(_ context.Context, userID, otherID int) (bool, error) {
	return m.edges[followEdge{otherID, userID}], nil
}

func (m *mockFollows) Follow(_ context.Context, followerID, followedID int) error {
	if m.followErr != nil {
		return m.followErr
	}
	m.edges[followEdge{followerID, followedID}] = true
	return nil
}

func (m *mockFollows) Unfollow(_ context.Context, followerID, followedID int) error {
	delete(m.edges, followEdge{followerID, followedID})
	return nil
}

func (m *mockFollows) Following(_ context.Context, userID int) ([]models.User, error) {
	out := []models.User{}
	for e := range m.edges {
		if e.follower == userID {
			out = append(out, models.User{ID: e.followed})
		}
	}
	return out, nil
}

func (m *mockFollows) Followers(_ context.Context, userID int) ([]models.User, error) {
	out := []models.User{}
	for e := range m.edges {
		if e.followed == userID {
			out = append(out, models.User{ID: e.follower})
		}
	}
	return out, nil
}

type mockMessages struct {
	messages    map[int]*models.Message
	nextID      int
	timeline    []models.Message
	timelineErr error
	postErr     error

	lastLimit int
}

func newMockMessages(msgs ...*models.Message) *mockMessages {
	m := &mockMessages{messages: map[int]*models.Message{}, nextID: 100}
	for _, msg := range msgs {
		m.messages[msg.ID] = msg
	}
	return m
}

func (m *mockMessages) PostMessage(_ context.Context, userID int, text string) (*models.Message, error) {
	if m.postErr != nil {
		return nil, m.postErr
	}
	m.nextID++
	msg := &models.Message{ID: m.nextID, Text: text, UserID: userID}
	m.messages[msg.ID] = msg
	return msg, nil
}

func (m *mockMessages) GetMessage(_ context.Context, id int) (*models.Message, error) {
	msg, ok := m.messages[id]
	if !ok {
		return nil, service.ErrMessageNotFound
	}
	return msg, nil
}

func (m *mockMessages) DeleteMessage(_ context.Context, actorID, id int) error {
	msg, ok := m.messages[id]
	if !ok {
		return service.ErrMessageNotFound
	}
	if !msg.OwnedBy(actorID) {
		return service.ErrForbidden
	}
	delete(m.messages, id)
	return nil
}

func (m *mockMessages) UserMessages(_ context.Context, userID, limit int) ([]models.Message, error) {
	return []models.Message{}, nil
}

func (m *mockMessages) HomeTimeline(_ context.Context, userID, limit int) ([]models.Message, error) {
	m.lastLimit = limit
	return m.timeline, m.timelineErr
}

// ---- Shared Test Helpers ----

const testSessionSecret = "test-session-secret"

type testDeps struct {
	auth     *mockAuth
	users    *mockUsers
	follows  *mockFollows
	messages *mockMessages
}

func newTestDeps(users ...*models.User) *testDeps {
	return &testDeps{
		auth:     &mockAuth{},
		users:    newMockUsers(users...),
		follows:  newMockFollows(),
		messages: newMockMessages(),
	}
}

func (d *testDeps) service() *service.Service {
	return &service.Service{
		Authorization: d.auth,
		Users:         d.users,
		Follows:       d.follows,
		Messages:      d.messages,
	}
}

func newTestHandler(s *service.Service) *Handler {
	return NewHandler(s, nil, Options{SessionSecret: testSessionSecret})
}

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return newTestHandler(s).InitRoutes()
}

// sessionCookie forges a signed session cookie holding userID.
func sessionCookie(t *testing.T, userID int) *http.Cookie {
	t.Helper()
	codecs := securecookie.CodecsFromPairs([]byte(testSessionSecret))
	values := map[interface{}]interface{}{currUserKey: userID}
	encoded, err := securecookie.EncodeMulti(sessionName, values, codecs...)
	if err != nil {
		t.Fatalf("encode session: %v", err)
	}
	return &http.Cookie{Name: sessionName, Value: encoded, Path: "/"}
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

func userPath(id int, suffix string) string {
	return "/users/" + strconv.Itoa(id) + suffix
}
