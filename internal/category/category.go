package category

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a category is not found.
var ErrNotFound = errors.New("category not found")

// Category represents a category entity.
type Category struct {
	ID        int64
	Name      string
	BookIDs   []int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Query defines filters and pagination for listing categories.
type Query struct {
	Name   string
	Limit  int
	Offset int
}
