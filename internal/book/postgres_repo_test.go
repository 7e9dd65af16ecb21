package book

import (
	"context"
	"testing"
	"time"

	"bookcatalog/internal/testutil"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedRefs(t *testing.T, db *pgxpool.Pool) (authorID, fiction, poetry int64) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, db.QueryRow(ctx, "INSERT INTO authors (name) VALUES ('Jorge Luis Borges') RETURNING id").Scan(&authorID))
	require.NoError(t, db.QueryRow(ctx, "INSERT INTO categories (name) VALUES ('Fiction') RETURNING id").Scan(&fiction))
	require.NoError(t, db.QueryRow(ctx, "INSERT INTO categories (name) VALUES ('Poetry') RETURNING id").Scan(&poetry))
	return authorID, fiction, poetry
}

func TestPostgresRepo_CreateAndFilter(t *testing.T) {
	db := testutil.OpenTestPool(t)
	testutil.TruncateCatalog(t, db)
	repo := NewPostgresRepo(db, 3*time.Second)
	ctx := context.Background()
	authorID, fiction, poetry := seedRefs(t, db)

	b := &Book{Name: "Ficciones", Author: Ref{ID: authorID}, Categories: []Ref{{ID: fiction}, {ID: poetry}}}
	require.NoError(t, repo.Create(ctx, b))
	require.NotZero(t, b.ID)

	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jorge Luis Borges", got.Author.Name)
	assert.Equal(t, []Ref{{ID: fiction, Name: "Fiction"}, {ID: poetry, Name: "Poetry"}}, got.Categories)

	list, total, err := repo.List(ctx, Query{CategoryName: "FICTION", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)
	assert.Len(t, list[0].Categories, 2)

	_, total, err = repo.List(ctx, Query{AuthorID: authorID + 100, Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestPostgresRepo_UnknownReferences(t *testing.T) {
	db := testutil.OpenTestPool(t)
	testutil.TruncateCatalog(t, db)
	repo := NewPostgresRepo(db, 3*time.Second)
	ctx := context.Background()
	authorID, _, _ := seedRefs(t, db)

	err := repo.Create(ctx, &Book{Name: "Orphan", Author: Ref{ID: 9999}})
	assert.ErrorIs(t, err, ErrUnknownAuthor)
	assert.ErrorIs(t, err, ErrInvalidReference)

	err = repo.Create(ctx, &Book{Name: "Lost", Author: Ref{ID: authorID}, Categories: []Ref{{ID: 9999}}})
	assert.ErrorIs(t, err, ErrUnknownCategory)

	var count int
	require.NoError(t, db.QueryRow(ctx, "SELECT COUNT(*) FROM books").Scan(&count))
	assert.Zero(t, count)
}

func TestPostgresRepo_UpdateAndDelete(t *testing.T) {
	db := testutil.OpenTestPool(t)
	testutil.TruncateCatalog(t, db)
	repo := NewPostgresRepo(db, 3*time.Second)
	ctx := context.Background()
	authorID, fiction, poetry := seedRefs(t, db)

	b := &Book{Name: "El Aleph", Author: Ref{ID: authorID}, Categories: []Ref{{ID: fiction}}}
	require.NoError(t, repo.Create(ctx, b))

	require.NoError(t, repo.Update(ctx, b.ID, Changes{Categories: &[]int64{poetry}}))

	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "El Aleph", got.Name)
	assert.Equal(t, authorID, got.Author.ID)
	assert.Equal(t, []Ref{{ID: poetry, Name: "Poetry"}}, got.Categories)

	require.NoError(t, repo.Delete(ctx, b.ID))
	assert.ErrorIs(t, repo.Delete(ctx, b.ID), ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, b.ID, Changes{}), ErrNotFound)
}

func TestPostgresRepo_UpdateKeepsUntouchedFields(t *testing.T) {
	db := testutil.OpenTestPool(t)
	testutil.TruncateCatalog(t, db)
	repo := NewPostgresRepo(db, 3*time.Second)
	ctx := context.Background()
	authorID, fiction, poetry := seedRefs(t, db)

	b := &Book{Name: "Labyrinths", Author: Ref{ID: authorID}, Categories: []Ref{{ID: fiction}}}
	require.NoError(t, repo.Create(ctx, b))

	// Two writers, each touching one field, must not undo each other.
	renamed := "Labyrinths: Selected Stories"
	require.NoError(t, repo.Update(ctx, b.ID, Changes{Name: &renamed}))
	require.NoError(t, repo.Update(ctx, b.ID, Changes{Categories: &[]int64{poetry}}))

	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, renamed, got.Name)
	assert.Equal(t, []Ref{{ID: poetry, Name: "Poetry"}}, got.Categories)

	require.NoError(t, repo.Update(ctx, b.ID, Changes{Name: &renamed}))
	got, err = repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []Ref{{ID: poetry, Name: "Poetry"}}, got.Categories)

	assert.ErrorIs(t, repo.Update(ctx, b.ID, Changes{AuthorID: ptr(int64(9999))}), ErrUnknownAuthor)
}

func ptr[T any](v T) *T { return &v }
