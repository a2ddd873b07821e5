package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/billeasy/backend/internal/db"
	"github.com/billeasy/backend/internal/model"
)

type BookRepo interface {
	CreateBook(ctx context.Context, req model.CreateBookRequest) (*model.Book, error)
	SearchBooks(ctx context.Context, filter model.BookFilter) ([]model.Book, error)
	GetBookByID(ctx context.Context, bookID int64) (*model.Book, error)
}

type BookReviewReader interface {
	ListReviewsByBook(ctx context.Context, bookID int64, page, limit int) ([]model.Review, error)
	AverageRating(ctx context.Context, bookID int64) (float64, int64, error)
}

type BookService struct {
	books    BookRepo
	reviews  BookReviewReader
	embedder *EmbeddingService
}

// NewBookService wires the catalog. embedder may be nil; the catalog
// works without it and similar-book lookups report unavailable.
func NewBookService(books BookRepo, reviews BookReviewReader, embedder *EmbeddingService) *BookService {
	return &BookService{books: books, reviews: reviews, embedder: embedder}
}

func (s *BookService) AddBook(ctx context.Context, req model.CreateBookRequest) (*model.Book, error) {
	if strings.TrimSpace(req.Title) == "" ||
		strings.TrimSpace(req.Author) == "" ||
		strings.TrimSpace(req.Genre) == "" {
		return nil, ErrInvalidInput
	}

	book, err := s.books.CreateBook(ctx, req)
	if err != nil {
		return nil, err
	}

	// Embedding is best-effort: a failed upsert never fails book creation.
	if s.embedder != nil {
		if err := s.embedder.EmbedBook(ctx, book); err != nil {
			log.Printf("Failed to embed book %d: %v", book.ID, err)
		}
	}

	return book, nil
}

func (s *BookService) GetBooks(ctx context.Context, filter model.BookFilter) ([]model.Book, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}
	filter.Title = strings.TrimSpace(filter.Title)
	filter.Author = strings.TrimSpace(filter.Author)
	filter.Genre = strings.TrimSpace(filter.Genre)

	return s.books.SearchBooks(ctx, filter)
}

// GetBookDetail returns the book with a page of its reviews and the
// average rating formatted to one decimal (nil when unreviewed).
func (s *BookService) GetBookDetail(ctx context.Context, bookID int64, page, limit int) (*model.BookDetailResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 5
	}

	book, err := s.books.GetBookByID(ctx, bookID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	reviews, err := s.reviews.ListReviewsByBook(ctx, bookID, page, limit)
	if err != nil {
		return nil, err
	}

	avg, count, err := s.reviews.AverageRating(ctx, bookID)
	if err != nil {
		return nil, err
	}

	detail := &model.BookDetailResponse{
		Book:    *book,
		Reviews: reviews,
	}
	if count > 0 {
		formatted := fmt.Sprintf("%.1f", avg)
		detail.AverageRating = &formatted
	}
	return detail, nil
}

func (s *BookService) GetSimilarBooks(ctx context.Context, bookID int64, limit int) ([]model.SimilarBook, error) {
	if s.embedder == nil {
		return nil, ErrUnavailable
	}
	if limit < 1 {
		limit = 5
	}

	if _, err := s.books.GetBookByID(ctx, bookID); err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return s.embedder.NearestBooks(ctx, bookID, limit)
}
