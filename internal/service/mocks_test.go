package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"likes_service/internal/models"

	"github.com/google/uuid"
)

// memUserRepo is an in-memory repository.UserRepo for service tests.
type memUserRepo struct {
	users map[string]*models.User

	// injected failures
	getErr    error
	createErr error
	likeErr   error

	createCalls int
	updateCalls int
	likeCalls   int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*models.User{}}
}

func (m *memUserRepo) add(username, hash string) *models.User {
	u := &models.User{ID: uuid.NewString(), Username: username, PasswordHash: hash, LikedBy: []string{}, CreatedAt: time.Now().UTC()}
	m.users[u.ID] = u
	return u
}

func clone(u *models.User) *models.User {
	c := *u
	c.LikedBy = append([]string{}, u.LikedBy...)
	return &c
}

func (m *memUserRepo) Create(ctx context.Context, u *models.User) error {
	m.createCalls++
	if m.createErr != nil {
		return m.createErr
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now().UTC()
	u.LikedBy = []string{}
	m.users[u.ID] = clone(u)
	return nil
}

func (m *memUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return clone(u), nil
}

func (m *memUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, u := range m.users {
		if u.Username == username {
			return clone(u), nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) UpdatePasswordHash(ctx context.Context, id, hash string) (bool, error) {
	m.updateCalls++
	u, ok := m.users[id]
	if !ok {
		return false, nil
	}
	u.PasswordHash = hash
	return true, nil
}

func (m *memUserRepo) AddLike(ctx context.Context, userID, likerID string) (bool, error) {
	m.likeCalls++
	if m.likeErr != nil {
		return false, m.likeErr
	}
	u := m.users[userID]
	if u.HasLiker(likerID) {
		return false, nil
	}
	u.LikedBy = append(u.LikedBy, likerID)
	u.Likes++
	return true, nil
}

func (m *memUserRepo) RemoveLike(ctx context.Context, userID, likerID string) (bool, error) {
	m.likeCalls++
	if m.likeErr != nil {
		return false, m.likeErr
	}
	u := m.users[userID]
	for i, l := range u.LikedBy {
		if l == likerID {
			u.LikedBy = append(u.LikedBy[:i], u.LikedBy[i+1:]...)
			u.Likes--
			return true, nil
		}
	}
	return false, nil
}

func (m *memUserRepo) ListByLikes(ctx context.Context) ([]models.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *clone(u))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Likes > out[j].Likes })
	return out, nil
}

// fakeEventRepo captures List inputs and Append calls.
type fakeEventRepo struct {
	gotUserID string
	gotFrom   time.Time
	gotTo     time.Time
	gotType   string

	appended  []models.AccountEvent
	events    []models.AccountEvent
	err       error
	appendErr error

	calls int
}

func (f *fakeEventRepo) List(ctx context.Context, userID string, from, to time.Time, typ string) ([]models.AccountEvent, error) {
	f.calls++
	f.gotUserID = userID
	f.gotFrom = from
	f.gotTo = to
	f.gotType = typ
	return f.events, f.err
}

func (f *fakeEventRepo) Append(ctx context.Context, e models.AccountEvent) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, e)
	return nil
}

// stubHasher makes hashes readable and fast in tests.
type stubHasher struct {
	err error
}

func (h stubHasher) Hash(password string) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	return "hashed:" + password, nil
}

func (h stubHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

func (f *fakeEventRepo) types() []string {
	out := make([]string, 0, len(f.appended))
	for _, e := range f.appended {
		out = append(out, e.Type)
	}
	return out
}
