package book

import (
	"context"
)

// Service provides book-related business logic.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns a list of books matching the query.
func (s *Service) List(ctx context.Context, q Query) ([]Book, int, error) {
	return s.repo.List(ctx, q)
}

// Get returns a book by its id.
func (s *Service) Get(ctx context.Context, id int64) (Book, error) {
	return s.repo.GetByID(ctx, id)
}

// Create stores a new book and returns it with its author and categories
// resolved.
func (s *Service) Create(ctx context.Context, name string, authorID int64, categoryIDs []int64) (Book, error) {
	b := &Book{
		Name:       name,
		Author:     Ref{ID: authorID},
		Categories: refs(categoryIDs),
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return Book{}, err
	}
	return s.repo.GetByID(ctx, b.ID)
}

// Patch applies ch to the stored book. Fields not present in ch keep their
// current values.
func (s *Service) Patch(ctx context.Context, id int64, ch Changes) (Book, error) {
	if err := s.repo.Update(ctx, id, ch); err != nil {
		return Book{}, err
	}
	return s.repo.GetByID(ctx, id)
}

// Delete removes a book by its id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func refs(ids []int64) []Ref {
	out := make([]Ref, 0, len(ids))
	for _, id := range ids {
		out = append(out, Ref{ID: id})
	}
	return out
}
