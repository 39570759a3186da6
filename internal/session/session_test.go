package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ariefcatur/go-storefront/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubStore struct {
	sessions map[string]Session
	err      error
}

func (s *stubStore) Create(context.Context, string, string) (Session, error) { return Session{}, nil }
func (s *stubStore) Destroy(context.Context, string) error                  { return nil }

func (s *stubStore) Get(_ context.Context, id string) (Session, bool, error) {
	if s.err != nil {
		return Session{}, false, s.err
	}
	sess, ok := s.sessions[id]
	return sess, ok, nil
}

func TestMiddleware(t *testing.T) {
	store := &stubStore{sessions: map[string]Session{
		"abc": {ID: "abc", UserID: "u1", Username: "asha"},
	}}

	cases := []struct {
		name     string
		cookie   string
		err      error
		wantCode int
		wantUser string
		wantNext bool
	}{
		{"no cookie", "", nil, http.StatusOK, "", true},
		{"valid session", "abc", nil, http.StatusOK, "u1", true},
		{"unknown session", "zzz", nil, http.StatusOK, "", true},
		{"store error", "abc", errors.New("redis down"), http.StatusInternalServerError, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store.err = tc.err
			var (
				got    string
				called bool
			)
			h := Middleware(store, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				got = UserID(r.Context())
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: CookieName, Value: tc.cookie})
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantCode, rec.Code)
			assert.Equal(t, tc.wantNext, called)
			assert.Equal(t, tc.wantUser, got)
			if !tc.wantNext {
				assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
			}
		})
	}
}

func TestCookies(t *testing.T) {
	rec := httptest.NewRecorder()
	SetCookie(rec, Session{ID: "abc"}, 24*time.Hour)
	c := rec.Result().Cookies()
	require.Len(t, c, 1)
	assert.Equal(t, "abc", c[0].Value)
	assert.True(t, c[0].HttpOnly)
	assert.Equal(t, 86400, c[0].MaxAge)

	rec = httptest.NewRecorder()
	ClearCookie(rec)
	c = rec.Result().Cookies()
	require.Len(t, c, 1)
	assert.Equal(t, -1, c[0].MaxAge)
}

func TestRedisStore(t *testing.T) {
	rdb := testutil.Redis(t)
	ctx := context.Background()
	store := &RedisStore{RDB: rdb, TTL: time.Hour}

	sess, err := store.Create(ctx, "u1", "asha")
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)

	got, ok, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sess, got)

	ttl, err := rdb.TTL(ctx, "session:"+sess.ID).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 59*time.Minute)

	require.NoError(t, store.Destroy(ctx, sess.ID))
	_, ok, err = store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
