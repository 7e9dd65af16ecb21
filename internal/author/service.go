package author

import (
	"context"
)

// Service provides author-related business logic.
type Service struct {
	repo Repository
}

// NewService creates a new author service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, q Query) ([]Author, int, error) {
	return s.repo.List(ctx, q)
}

func (s *Service) Get(ctx context.Context, id int64) (Author, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, name string) (Author, error) {
	a := &Author{Name: name, BookIDs: []int64{}}
	if err := s.repo.Create(ctx, a); err != nil {
		return Author{}, err
	}
	return *a, nil
}

// Patch applies the supplied fields to an existing author. A nil name leaves
// the current one in place.
func (s *Service) Patch(ctx context.Context, id int64, name *string) (Author, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Author{}, err
	}
	if name != nil {
		a.Name = *name
	}
	if err := s.repo.Update(ctx, &a); err != nil {
		return Author{}, err
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
