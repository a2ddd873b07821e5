package db

import (
	"context"

	"github.com/billeasy/backend/internal/model"
)

func (db *Postgres) CreateBook(ctx context.Context, req model.CreateBookRequest) (*model.Book, error) {
	query := `
		INSERT INTO books (title, author, genre, description, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, title, author, genre, description, created_at
	`
	var book model.Book
	err := db.Pool.QueryRow(ctx, query, req.Title, req.Author, req.Genre, req.Description).Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.Genre,
		&book.Description,
		&book.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// SearchBooks applies case-insensitive substring filters with offset
// pagination. Empty filter fields match every row.
func (db *Postgres) SearchBooks(ctx context.Context, filter model.BookFilter) ([]model.Book, error) {
	query := `
		SELECT id, title, author, genre, description, created_at
		FROM books
		WHERE title ILIKE '%' || $1 || '%'
		  AND author ILIKE '%' || $2 || '%'
		  AND genre ILIKE '%' || $3 || '%'
		ORDER BY id
		LIMIT $4 OFFSET $5
	`
	offset := (filter.Page - 1) * filter.Limit
	rows, err := db.Pool.Query(ctx, query, filter.Title, filter.Author, filter.Genre, filter.Limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []model.Book
	for rows.Next() {
		var b model.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Genre, &b.Description, &b.CreatedAt); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	if books == nil {
		books = []model.Book{}
	}
	return books, rows.Err()
}

func (db *Postgres) GetBookByID(ctx context.Context, bookID int64) (*model.Book, error) {
	query := `
		SELECT id, title, author, genre, description, created_at
		FROM books
		WHERE id = $1
	`
	var book model.Book
	err := db.Pool.QueryRow(ctx, query, bookID).Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.Genre,
		&book.Description,
		&book.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &book, nil
}
