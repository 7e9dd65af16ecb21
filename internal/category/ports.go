package category

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=category

// Repository defines the contract for category data storage.
type Repository interface {
	List(ctx context.Context, q Query) ([]Category, int, error)
	GetByID(ctx context.Context, id int64) (Category, error)
	Create(ctx context.Context, c *Category) error
	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id int64) error
}
