package db

import (
	"context"

	"github.com/pgvector/pgvector-go"

	"github.com/billeasy/backend/internal/model"
)

// EnsureEmbeddingSchema is only run when the embedding client is
// configured; it requires the pgvector extension.
func (db *Postgres) EnsureEmbeddingSchema(ctx context.Context) error {
	queries := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		`
		CREATE TABLE IF NOT EXISTS book_embeddings (
			book_id BIGINT PRIMARY KEY REFERENCES books(id) ON DELETE CASCADE,
			embedding vector(768) NOT NULL,
			model TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
		`,
	}

	for _, query := range queries {
		if _, err := db.Pool.Exec(ctx, query); err != nil {
			return err
		}
	}
	return nil
}

func (db *Postgres) UpsertBookEmbedding(ctx context.Context, bookID int64, vector []float32, embeddingModel string) error {
	query := `
		INSERT INTO book_embeddings (book_id, embedding, model, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (book_id) DO UPDATE SET
			embedding = EXCLUDED.embedding,
			model = EXCLUDED.model
	`
	_, err := db.Pool.Exec(ctx, query, bookID, pgvector.NewVector(vector), embeddingModel)
	return err
}

// NearestBooks returns up to limit books closest to the given book by
// cosine distance, excluding the book itself.
func (db *Postgres) NearestBooks(ctx context.Context, bookID int64, limit int) ([]model.SimilarBook, error) {
	query := `
		SELECT b.id, b.title, b.author, b.genre, b.description, b.created_at,
			e.embedding <=> (SELECT embedding FROM book_embeddings WHERE book_id = $1) AS distance
		FROM book_embeddings e
		JOIN books b ON b.id = e.book_id
		WHERE e.book_id != $1
		ORDER BY distance
		LIMIT $2
	`
	rows, err := db.Pool.Query(ctx, query, bookID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []model.SimilarBook
	for rows.Next() {
		var b model.SimilarBook
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Genre, &b.Description, &b.CreatedAt, &b.Distance); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	if books == nil {
		books = []model.SimilarBook{}
	}
	return books, rows.Err()
}
