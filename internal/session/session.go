package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ariefcatur/go-storefront/internal/redisx"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const CookieName = "session_id"

type Session struct {
	ID       string
	UserID   string
	Username string
}

type Store interface {
	Create(ctx context.Context, userID, username string) (Session, error)
	Get(ctx context.Context, id string) (Session, bool, error)
	Destroy(ctx context.Context, id string) error
}

// RedisStore keeps sessions as hashes under session:{id}.
type RedisStore struct {
	RDB *redis.Client
	TTL time.Duration
}

func (s *RedisStore) Create(ctx context.Context, userID, username string) (Session, error) {
	sess := Session{ID: uuid.NewString(), UserID: userID, Username: username}
	key := fmt.Sprintf(redisx.KeySession, sess.ID)

	_, err := s.RDB.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, key, "user_id", userID, "username", username)
		p.Expire(ctx, key, s.ttl())
		return nil
	})
	if err != nil {
		return Session{}, err
	}
	return sess, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (Session, bool, error) {
	vals, err := s.RDB.HGetAll(ctx, fmt.Sprintf(redisx.KeySession, id)).Result()
	if err != nil {
		return Session{}, false, err
	}
	if vals["user_id"] == "" {
		return Session{}, false, nil
	}
	return Session{ID: id, UserID: vals["user_id"], Username: vals["username"]}, true, nil
}

func (s *RedisStore) Destroy(ctx context.Context, id string) error {
	return s.RDB.Del(ctx, fmt.Sprintf(redisx.KeySession, id)).Err()
}

func (s *RedisStore) ttl() time.Duration {
	if s.TTL <= 0 {
		return redisx.TTLSession
	}
	return s.TTL
}

type ctxKey struct{}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}

// UserID returns the caller's user id, or "" for an anonymous request.
func UserID(ctx context.Context) string {
	s, _ := FromContext(ctx)
	return s.UserID
}

// Middleware resolves the session cookie into the request context. Requests
// without a valid session continue anonymously. A failing store ends the
// request with a 500 rather than downgrading the caller to anonymous.
func Middleware(store Store, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(CookieName)
			if err != nil || c.Value == "" {
				next.ServeHTTP(w, r)
				return
			}
			sess, ok, err := store.Get(r.Context(), c.Value)
			if err != nil {
				log.Error("session lookup failed", zap.String("path", r.URL.Path), zap.Error(err))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "Internal server error"})
				return
			}
			if ok {
				r = r.WithContext(WithSession(r.Context(), sess))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func SetCookie(w http.ResponseWriter, s Session, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    s.ID,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
