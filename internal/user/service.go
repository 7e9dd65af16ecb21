package user

import (
	"context"
	"fmt"

	"bookcatalog/internal/platform/crypto"
)

type Service struct {
	repo Repository
	hash func(string) (string, error)
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, hash: crypto.HashPassword}
}

// Register hashes password and stores a new account. Email uniqueness is
// left to the store so concurrent registrations of one address cannot both
// succeed.
func (s *Service) Register(ctx context.Context, email, password string) (User, error) {
	hashed, err := s.hash(password)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		Email:        email,
		PasswordHash: hashed,
		Roles:        DefaultRoles,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}
	return *u, nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return s.repo.GetByEmail(ctx, email)
}
