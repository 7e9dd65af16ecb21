package author

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when an author is not found.
	ErrNotFound = errors.New("author not found")
	// ErrInUse is returned when deleting an author that books still reference.
	ErrInUse = errors.New("author is still referenced by books")
)

// Author represents an author entity. BookIDs is derived from the books
// table and never written through this package.
type Author struct {
	ID        int64
	Name      string
	BookIDs   []int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Query defines filters and pagination for listing authors.
type Query struct {
	Name   string
	Limit  int
	Offset int
}
