package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=book

// Repository defines the contract for book data storage.
type Repository interface {
	List(ctx context.Context, q Query) ([]Book, int, error)
	GetByID(ctx context.Context, id int64) (Book, error)
	// Create inserts the book and its category links. Only the ids of
	// Author and Categories are read.
	Create(ctx context.Context, b *Book) error
	// Update applies the non-nil fields of ch in one transaction. The
	// category set is replaced only when ch.Categories is set.
	Update(ctx context.Context, id int64, ch Changes) error
	Delete(ctx context.Context, id int64) error
}
