package category

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

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

const selectCategory = `
	SELECT c.id, c.name, c.created_at, c.updated_at,
	       COALESCE(array_agg(bc.book_id ORDER BY bc.book_id) FILTER (WHERE bc.book_id IS NOT NULL), '{}') AS book_ids
	FROM categories c
	LEFT JOIN book_categories bc ON bc.category_id = c.id`

func (r *PostgresRepo) List(ctx context.Context, q Query) ([]Category, int, error) {
	clauses := []string{"1=1"}
	args := []any{}
	argn := 1

	if q.Name != "" {
		clauses = append(clauses, fmt.Sprintf("c.name ILIKE $%d", argn))
		args = append(args, "%"+q.Name+"%")
		argn++
	}

	where := "WHERE " + strings.Join(clauses, " AND ")

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var total int
	if err := r.db.QueryRow(timeoutCtx, "SELECT COUNT(*) FROM categories c "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL := fmt.Sprintf(`%s
		%s
		GROUP BY c.id
		ORDER BY c.id
		LIMIT $%d OFFSET $%d`, selectCategory, where, argn, argn+1)

	args = append(args, q.Limit, q.Offset)
	rows, err := r.db.Query(timeoutCtx, dataSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt, &c.BookIDs); err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (Category, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var c Category
	err := r.db.QueryRow(timeoutCtx, selectCategory+" WHERE c.id = $1 GROUP BY c.id", id).
		Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt, &c.BookIDs)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, ErrNotFound
		}
		return Category{}, err
	}
	return c, nil
}

func (r *PostgresRepo) Create(ctx context.Context, c *Category) error {
	const query = `
	INSERT INTO categories (name)
	VALUES ($1)
	RETURNING id, created_at, updated_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.QueryRow(timeoutCtx, query, c.Name).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *PostgresRepo) Update(ctx context.Context, c *Category) error {
	const query = `
	UPDATE categories SET name = $2, updated_at = now()
	WHERE id = $1
	RETURNING updated_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, c.ID, c.Name).Scan(&c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// Delete removes the category; book_categories rows go with it through the
// ON DELETE CASCADE foreign key.
func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(timeoutCtx, "DELETE FROM categories WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
