package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/library-catalog/internal/domain"
)

// BookRepository defines persistence access for catalog entries.
type BookRepository interface {
	Create(ctx context.Context, book *domain.Book) error
	Update(ctx context.Context, book *domain.Book) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Book, error)
	List(ctx context.Context) ([]*domain.Book, error)
}

type bookRepository struct {
	pool *pgxpool.Pool
}

// NewBookRepository returns a Postgres-backed implementation.
func NewBookRepository(pool *pgxpool.Pool) BookRepository {
	return &bookRepository{pool: pool}
}

func (r *bookRepository) Create(ctx context.Context, book *domain.Book) error {
	const query = `
        INSERT INTO books (title, author, isbn, publisher, published_year, total_copies, available_copies, category_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		book.Title,
		book.Author,
		book.ISBN,
		book.Publisher,
		book.PublishedYear,
		book.TotalCopies,
		book.AvailableCopies,
		nullIfEmpty(book.CategoryID),
	).Scan(&book.ID, &book.CreatedAt, &book.UpdatedAt)
}

func (r *bookRepository) Update(ctx context.Context, book *domain.Book) error {
	const query = `
        UPDATE books SET title=$1, author=$2, isbn=$3, publisher=$4, published_year=$5,
            total_copies=$6, available_copies=$7, category_id=$8, updated_at=NOW()
        WHERE id=$9`

	cmd, err := r.pool.Exec(ctx, query,
		book.Title,
		book.Author,
		book.ISBN,
		book.Publisher,
		book.PublishedYear,
		book.TotalCopies,
		book.AvailableCopies,
		nullIfEmpty(book.CategoryID),
		book.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *bookRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *bookRepository) GetByID(ctx context.Context, id string) (*domain.Book, error) {
	const query = `
        SELECT id, title, author, isbn, publisher, published_year, total_copies, available_copies, category_id, created_at, updated_at
        FROM books WHERE id=$1`

	return scanBook(r.pool.QueryRow(ctx, query, id))
}

func (r *bookRepository) List(ctx context.Context) ([]*domain.Book, error) {
	const query = `
        SELECT id, title, author, isbn, publisher, published_year, total_copies, available_copies, category_id, created_at, updated_at
        FROM books ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*domain.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, rows.Err()
}

func scanBook(row pgx.Row) (*domain.Book, error) {
	var book domain.Book
	var categoryID *string
	if err := row.Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.ISBN,
		&book.Publisher,
		&book.PublishedYear,
		&book.TotalCopies,
		&book.AvailableCopies,
		&categoryID,
		&book.CreatedAt,
		&book.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if categoryID != nil {
		book.CategoryID = *categoryID
	}
	return &book, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
