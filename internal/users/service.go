package users

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Store interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	EmailExists(ctx context.Context, email, exceptID string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	Update(ctx context.Context, id string, fullName, email *string) error
}

type Service struct {
	Store  Store
	Logger *zap.Logger
	Cost   int // bcrypt cost; bcrypt.DefaultCost when zero
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, ErrMissingFields
	}
	if taken, err := s.Store.EmailExists(ctx, req.Email, ""); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrEmailTaken
	}
	if taken, err := s.Store.UsernameExists(ctx, req.Username); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost())
	if err != nil {
		return nil, err
	}
	u := &User{
		ID:        uuid.NewString(),
		Username:  req.Username,
		Email:     req.Email,
		Password:  string(hash),
		FullName:  req.FullName,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	if err := s.Store.Create(ctx, u); err != nil {
		return nil, err
	}
	s.logger().Info("user registered", zap.String("user_id", u.ID), zap.String("username", u.Username))
	return u, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*User, error) {
	if req.Email == "" || req.Password == "" {
		return nil, ErrMissingFields
	}
	u, err := s.Store.GetByEmail(ctx, req.Email)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) Profile(ctx context.Context, userID string) (*User, error) {
	return s.Store.GetByID(ctx, userID)
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*User, error) {
	if req.Email != nil {
		taken, err := s.Store.EmailExists(ctx, *req.Email, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrEmailInUse
		}
	}
	if req.FullName != nil || req.Email != nil {
		err := s.Store.Update(ctx, userID, req.FullName, req.Email)
		if errors.Is(err, ErrEmailTaken) {
			return nil, ErrEmailInUse
		}
		if err != nil {
			return nil, err
		}
	}
	return s.Store.GetByID(ctx, userID)
}

func (s *Service) cost() int {
	if s.Cost == 0 {
		return bcrypt.DefaultCost
	}
	return s.Cost
}

func (s *Service) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
