package category

import (
	"context"
	"testing"
	"time"

	"bookcatalog/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresRepo_DeleteDetachesBooks(t *testing.T) {
	db := testutil.OpenTestPool(t)
	testutil.TruncateCatalog(t, db)
	repo := NewPostgresRepo(db, 3*time.Second)
	ctx := context.Background()

	fiction := &Category{Name: "Fiction"}
	classics := &Category{Name: "Classics"}
	require.NoError(t, repo.Create(ctx, fiction))
	require.NoError(t, repo.Create(ctx, classics))

	var authorID, bookID int64
	require.NoError(t, db.QueryRow(ctx, "INSERT INTO authors (name) VALUES ('Tolstoy') RETURNING id").Scan(&authorID))
	require.NoError(t, db.QueryRow(ctx, "INSERT INTO books (name, author_id) VALUES ('War and Peace', $1) RETURNING id", authorID).Scan(&bookID))
	_, err := db.Exec(ctx, "INSERT INTO book_categories (book_id, category_id) VALUES ($1, $2), ($1, $3)", bookID, fiction.ID, classics.ID)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, fiction.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{bookID}, got.BookIDs)

	require.NoError(t, repo.Delete(ctx, fiction.ID))
	assert.ErrorIs(t, repo.Delete(ctx, fiction.ID), ErrNotFound)

	var remaining int
	require.NoError(t, db.QueryRow(ctx, "SELECT COUNT(*) FROM book_categories WHERE book_id = $1", bookID).Scan(&remaining))
	assert.Equal(t, 1, remaining)

	list, total, err := repo.List(ctx, Query{Name: "class", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Classics", list[0].Name)
}
