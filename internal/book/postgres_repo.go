package book

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgForeignKeyViolation = "23503"

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

const selectBook = `
	SELECT b.id, b.name, b.created_at, b.updated_at, a.id, a.name,
	       COALESCE(array_agg(c.id ORDER BY c.id) FILTER (WHERE c.id IS NOT NULL), '{}') AS category_ids,
	       COALESCE(array_agg(c.name ORDER BY c.id) FILTER (WHERE c.id IS NOT NULL), '{}') AS category_names
	FROM books b
	JOIN authors a ON a.id = b.author_id
	LEFT JOIN book_categories bc ON bc.book_id = b.id
	LEFT JOIN categories c ON c.id = bc.category_id`

func scanBook(row pgx.Row) (Book, error) {
	var (
		b     Book
		ids   []int64
		names []string
	)
	if err := row.Scan(&b.ID, &b.Name, &b.CreatedAt, &b.UpdatedAt, &b.Author.ID, &b.Author.Name, &ids, &names); err != nil {
		return Book{}, err
	}
	b.Categories = make([]Ref, 0, len(ids))
	for i, id := range ids {
		b.Categories = append(b.Categories, Ref{ID: id, Name: names[i]})
	}
	return b, nil
}

func (r *PostgresRepo) List(ctx context.Context, q Query) ([]Book, int, error) {
	clauses := []string{"1=1"}
	args := []any{}
	argn := 1

	if q.Name != "" {
		clauses = append(clauses, fmt.Sprintf("b.name ILIKE $%d", argn))
		args = append(args, "%"+q.Name+"%")
		argn++
	}

	if q.AuthorID != 0 {
		clauses = append(clauses, fmt.Sprintf("b.author_id = $%d", argn))
		args = append(args, q.AuthorID)
		argn++
	}

	if q.CategoryID != 0 {
		clauses = append(clauses, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM book_categories f WHERE f.book_id = b.id AND f.category_id = $%d)", argn))
		args = append(args, q.CategoryID)
		argn++
	} else if q.CategoryName != "" {
		clauses = append(clauses, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM book_categories f JOIN categories fc ON fc.id = f.category_id WHERE f.book_id = b.id AND lower(fc.name) = lower($%d))", argn))
		args = append(args, q.CategoryName)
		argn++
	}

	where := "WHERE " + strings.Join(clauses, " AND ")

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var total int
	if err := r.db.QueryRow(timeoutCtx, "SELECT COUNT(*) FROM books b "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL := fmt.Sprintf(`%s
		%s
		GROUP BY b.id, a.id
		ORDER BY b.id
		LIMIT $%d OFFSET $%d`, selectBook, where, argn, argn+1)

	args = append(args, q.Limit, q.Offset)
	rows, err := r.db.Query(timeoutCtx, dataSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	b, err := scanBook(r.db.QueryRow(timeoutCtx, selectBook+" WHERE b.id = $1 GROUP BY b.id, a.id", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func (r *PostgresRepo) Create(ctx context.Context, b *Book) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	return pgx.BeginFunc(timeoutCtx, r.db, func(tx pgx.Tx) error {
		const insertBook = `
		INSERT INTO books (name, author_id)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
		`
		err := tx.QueryRow(timeoutCtx, insertBook, b.Name, b.Author.ID).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
		if err != nil {
			return mapForeignKey(err, ErrUnknownAuthor)
		}
		return linkCategories(timeoutCtx, tx, b.ID, b.CategoryIDs())
	})
}

func (r *PostgresRepo) Update(ctx context.Context, id int64, ch Changes) error {
	sets := []string{"updated_at = now()"}
	args := []any{id}
	if ch.Name != nil {
		args = append(args, *ch.Name)
		sets = append(sets, fmt.Sprintf("name = $%d", len(args)))
	}
	if ch.AuthorID != nil {
		args = append(args, *ch.AuthorID)
		sets = append(sets, fmt.Sprintf("author_id = $%d", len(args)))
	}
	updateBook := "UPDATE books SET " + strings.Join(sets, ", ") + " WHERE id = $1 RETURNING id"

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	return pgx.BeginFunc(timeoutCtx, r.db, func(tx pgx.Tx) error {
		var updated int64
		if err := tx.QueryRow(timeoutCtx, updateBook, args...).Scan(&updated); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return mapForeignKey(err, ErrUnknownAuthor)
		}

		if ch.Categories == nil {
			return nil
		}
		if _, err := tx.Exec(timeoutCtx, "DELETE FROM book_categories WHERE book_id = $1", id); err != nil {
			return err
		}
		return linkCategories(timeoutCtx, tx, id, *ch.Categories)
	})
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(timeoutCtx, "DELETE FROM books WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func linkCategories(ctx context.Context, tx pgx.Tx, bookID int64, categoryIDs []int64) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	const query = `
	INSERT INTO book_categories (book_id, category_id)
	SELECT $1, unnest($2::bigint[])
	ON CONFLICT DO NOTHING
	`
	_, err := tx.Exec(ctx, query, bookID, categoryIDs)
	return mapForeignKey(err, ErrUnknownCategory)
}

func mapForeignKey(err error, mapped error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
		return mapped
	}
	return err
}
