package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"likes_service/internal/models"
	"likes_service/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	parseID  service.Identity
	parseErr error

	lastParseToken string
}

func (m *mockAuth) IssueToken(id service.Identity, ttl time.Duration) (string, error) {
	return "issued-" + id.ID, nil
}

func (m *mockAuth) ParseToken(token string) (service.Identity, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockAccount struct {
	user     *models.User
	token    string
	err      error
	meErr    error
	pwdErr   error
	lastID   string
	lastUser string
	lastPass string
	lastCur  string
	lastNew  string
}

func (m *mockAccount) SignUp(ctx context.Context, username, password string) (*models.User, string, error) {
	m.lastUser, m.lastPass = username, password
	return m.user, m.token, m.err
}

func (m *mockAccount) SignIn(ctx context.Context, username, password string) (*models.User, string, error) {
	m.lastUser, m.lastPass = username, password
	return m.user, m.token, m.err
}

func (m *mockAccount) Me(ctx context.Context, id string) (*models.User, error) {
	m.lastID = id
	if m.meErr != nil {
		return nil, m.meErr
	}
	return m.user, nil
}

func (m *mockAccount) ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error {
	m.lastID, m.lastCur, m.lastNew = id, currentPassword, newPassword
	return m.pwdErr
}

type mockRelationship struct {
	user      *models.User
	fetchErr  error
	likeErr   error
	users     []models.User
	listErr   error
	lastActor string
	lastID    string
	likes     int
	unlikes   int
	fetches   int

	// guards users and listCalls, which the websocket stream reads
	// from the server goroutine
	mu        sync.Mutex
	listCalls int
}

func (m *mockRelationship) FetchUser(ctx context.Context, id string) (*models.User, error) {
	m.fetches++
	m.lastID = id
	return m.user, m.fetchErr
}

func (m *mockRelationship) Like(ctx context.Context, actorID, targetID string) (*models.User, error) {
	m.likes++
	m.lastActor, m.lastID = actorID, targetID
	if m.likeErr != nil {
		return nil, m.likeErr
	}
	return m.user, nil
}

func (m *mockRelationship) Unlike(ctx context.Context, actorID, targetID string) (*models.User, error) {
	m.unlikes++
	m.lastActor, m.lastID = actorID, targetID
	if m.likeErr != nil {
		return nil, m.likeErr
	}
	return m.user, nil
}

func (m *mockRelationship) MostLiked(ctx context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	return m.users, m.listErr
}

func (m *mockRelationship) setUsers(users []models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = users
}

func (m *mockRelationship) mostLikedCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listCalls
}

type mockActivity struct {
	resp     []models.AccountEvent
	err      error
	lastUser string
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockActivity) Record(ctx context.Context, e models.AccountEvent) {}

func (m *mockActivity) List(ctx context.Context, userID string, f service.LogFilter) ([]models.AccountEvent, error) {
	m.lastUser = userID
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

func tokenCookieHeader(token string) http.Header {
	h := http.Header{}
	h.Set("Cookie", tokenCookie+"="+token)
	return h
}
