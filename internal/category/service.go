package category

import (
	"context"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, q Query) ([]Category, int, error) {
	return s.repo.List(ctx, q)
}

func (s *Service) Get(ctx context.Context, id int64) (Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, name string) (Category, error) {
	c := &Category{Name: name, BookIDs: []int64{}}
	if err := s.repo.Create(ctx, c); err != nil {
		return Category{}, err
	}
	return *c, nil
}

func (s *Service) Patch(ctx context.Context, id int64, name *string) (Category, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Category{}, err
	}
	if name != nil {
		c.Name = *name
	}
	if err := s.repo.Update(ctx, &c); err != nil {
		return Category{}, err
	}
	return c, nil
}

// Delete removes the category. Books that carried it keep their other
// categories.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
