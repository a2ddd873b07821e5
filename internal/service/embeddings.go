package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/billeasy/backend/internal/model"
)

type EmbeddingRepo interface {
	UpsertBookEmbedding(ctx context.Context, bookID int64, vector []float32, embeddingModel string) error
	NearestBooks(ctx context.Context, bookID int64, limit int) ([]model.SimilarBook, error)
}

type EmbeddingClient interface {
	EmbedText(ctx context.Context, text string) ([]float32, string, error)
}

type EmbeddingService struct {
	repo   EmbeddingRepo
	client EmbeddingClient
}

func NewEmbeddingService(repo EmbeddingRepo, client EmbeddingClient) *EmbeddingService {
	return &EmbeddingService{repo: repo, client: client}
}

// EmbedBook embeds the book's descriptive text and stores the vector.
func (s *EmbeddingService) EmbedBook(ctx context.Context, book *model.Book) error {
	text := embeddingText(book)
	vector, embeddingModel, err := s.client.EmbedText(ctx, text)
	if err != nil {
		return err
	}
	return s.repo.UpsertBookEmbedding(ctx, book.ID, vector, embeddingModel)
}

func (s *EmbeddingService) NearestBooks(ctx context.Context, bookID int64, limit int) ([]model.SimilarBook, error) {
	return s.repo.NearestBooks(ctx, bookID, limit)
}

func embeddingText(book *model.Book) string {
	parts := []string{book.Title, book.Author, book.Genre}
	if strings.TrimSpace(book.Description) != "" {
		parts = append(parts, book.Description)
	}
	return fmt.Sprintf("%s.", strings.Join(parts, ". "))
}
