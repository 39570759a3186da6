package users

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memStore struct {
	mu    sync.Mutex
	users map[string]*User
}

func newMemStore() *memStore { return &memStore{users: map[string]*User{}} }

func (m *memStore) Create(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memStore) GetByID(_ context.Context, id string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) GetByEmail(_ context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *memStore) EmailExists(_ context.Context, email, exceptID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email && u.ID != exceptID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) UsernameExists(_ context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) Update(_ context.Context, id string, fullName, email *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return ErrUserNotFound
	}
	if fullName != nil {
		u.FullName = *fullName
	}
	if email != nil {
		u.Email = *email
	}
	return nil
}

func newTestService() *Service {
	return &Service{Store: newMemStore(), Cost: bcrypt.MinCost}
}

func register(t *testing.T, s *Service, username, email string) *User {
	t.Helper()
	u, err := s.Register(context.Background(), RegisterRequest{
		Username: username, Email: email, Password: "s3cret", FullName: "Test " + username,
	})
	require.NoError(t, err)
	return u
}

func TestRegisterHashesPassword(t *testing.T) {
	s := newTestService()
	u := register(t, s, "asha", "asha@example.com")

	assert.NotEmpty(t, u.ID)
	assert.NotEqual(t, "s3cret", u.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("s3cret")))
}

func TestRegisterRejects(t *testing.T) {
	s := newTestService()
	register(t, s, "asha", "asha@example.com")

	cases := []struct {
		name string
		req  RegisterRequest
		want error
	}{
		{"missing password", RegisterRequest{Username: "x", Email: "x@example.com"}, ErrMissingFields},
		{"missing email", RegisterRequest{Username: "x", Password: "p"}, ErrMissingFields},
		{"email exists", RegisterRequest{Username: "other", Email: "asha@example.com", Password: "p"}, ErrEmailTaken},
		{"username taken", RegisterRequest{Username: "asha", Email: "new@example.com", Password: "p"}, ErrUsernameTaken},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Register(context.Background(), tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestLogin(t *testing.T) {
	s := newTestService()
	want := register(t, s, "asha", "asha@example.com")
	ctx := context.Background()

	got, err := s.Login(ctx, LoginRequest{Email: "asha@example.com", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)

	_, err = s.Login(ctx, LoginRequest{Email: "asha@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "s3cret"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.Login(ctx, LoginRequest{Email: "asha@example.com"})
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestUpdateProfile(t *testing.T) {
	s := newTestService()
	asha := register(t, s, "asha", "asha@example.com")
	register(t, s, "ravi", "ravi@example.com")
	ctx := context.Background()

	name := "Asha K"
	u, err := s.UpdateProfile(ctx, asha.ID, UpdateProfileRequest{FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Asha K", u.FullName)
	assert.Equal(t, "asha@example.com", u.Email)

	taken := "ravi@example.com"
	_, err = s.UpdateProfile(ctx, asha.ID, UpdateProfileRequest{Email: &taken})
	assert.ErrorIs(t, err, ErrEmailInUse)

	own := "asha@example.com"
	_, err = s.UpdateProfile(ctx, asha.ID, UpdateProfileRequest{Email: &own})
	assert.NoError(t, err)

	_, err = s.Profile(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
