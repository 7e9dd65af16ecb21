package book

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when a book is not found.
	ErrNotFound = errors.New("book not found")
	// ErrInvalidReference is returned when a book points at an author or
	// category that does not exist.
	ErrInvalidReference = errors.New("invalid reference")

	ErrUnknownAuthor   = fmt.Errorf("%w: author", ErrInvalidReference)
	ErrUnknownCategory = fmt.Errorf("%w: categories", ErrInvalidReference)
)

// Ref is a related author or category as embedded in a book.
type Ref struct {
	ID   int64
	Name string
}

// Book represents a book entity.
type Book struct {
	ID         int64
	Name       string
	Author     Ref
	Categories []Ref
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CategoryIDs returns the ids of the book's categories in order.
func (b Book) CategoryIDs() []int64 {
	ids := make([]int64, 0, len(b.Categories))
	for _, c := range b.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}

// Changes is a partial update. Nil fields are left untouched; a non-nil
// empty Categories clears the book's categories.
type Changes struct {
	Name       *string
	AuthorID   *int64
	Categories *[]int64
}

// Query defines filters and pagination for listing books.
type Query struct {
	Name         string
	AuthorID     int64
	CategoryID   int64
	CategoryName string
	Limit        int
	Offset       int
}
