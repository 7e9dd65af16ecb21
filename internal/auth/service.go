package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookcatalog/internal/platform/crypto"
	"bookcatalog/internal/user"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// UserFinder looks up accounts by email.
type UserFinder interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

type Service struct {
	secret string
	ttl    time.Duration
	users  UserFinder
}

func NewService(secret string, ttl time.Duration, users UserFinder) *Service {
	return &Service{secret: secret, ttl: ttl, users: users}
}

// Login verifies the credentials and issues a signed bearer token.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}
	if !crypto.VerifyPassword(u.PasswordHash, password) {
		return "", ErrInvalidCredentials
	}

	token, err := crypto.GenerateToken(s.secret, u.ID, u.Email, u.Roles, s.ttl)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return token, nil
}
