package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/billeasy/backend/internal/model"
)

type fakeBookRepo struct {
	books      map[int64]*model.Book
	nextID     int64
	lastFilter model.BookFilter
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{books: map[int64]*model.Book{}, nextID: 1}
}

func (f *fakeBookRepo) CreateBook(ctx context.Context, req model.CreateBookRequest) (*model.Book, error) {
	book := &model.Book{ID: f.nextID, Title: req.Title, Author: req.Author, Genre: req.Genre, Description: req.Description}
	f.nextID++
	f.books[book.ID] = book
	return book, nil
}

func (f *fakeBookRepo) SearchBooks(ctx context.Context, filter model.BookFilter) ([]model.Book, error) {
	f.lastFilter = filter
	var out []model.Book
	for _, b := range f.books {
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeBookRepo) GetBookByID(ctx context.Context, bookID int64) (*model.Book, error) {
	if book, ok := f.books[bookID]; ok {
		return book, nil
	}
	return nil, pgx.ErrNoRows
}

type fakeBookReviews struct {
	reviews []model.Review
	avg     float64
	count   int64
}

func (f *fakeBookReviews) ListReviewsByBook(ctx context.Context, bookID int64, page, limit int) ([]model.Review, error) {
	return f.reviews, nil
}

func (f *fakeBookReviews) AverageRating(ctx context.Context, bookID int64) (float64, int64, error) {
	return f.avg, f.count, nil
}

func TestAddBookValidation(t *testing.T) {
	svc := NewBookService(newFakeBookRepo(), &fakeBookReviews{}, nil)

	if _, err := svc.AddBook(context.Background(), model.CreateBookRequest{Title: "x", Author: " "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestGetBooksNormalizesPaging(t *testing.T) {
	repo := newFakeBookRepo()
	svc := NewBookService(repo, &fakeBookReviews{}, nil)

	if _, err := svc.GetBooks(context.Background(), model.BookFilter{Title: "  gatsby ", Page: 0, Limit: -3}); err != nil {
		t.Fatalf("get books: %v", err)
	}
	if repo.lastFilter.Page != 1 || repo.lastFilter.Limit != 10 {
		t.Fatalf("paging not normalized: %+v", repo.lastFilter)
	}
	if repo.lastFilter.Title != "gatsby" {
		t.Fatalf("filter not trimmed: %q", repo.lastFilter.Title)
	}
}

func TestGetBookDetailAverageRating(t *testing.T) {
	repo := newFakeBookRepo()
	book, err := repo.CreateBook(context.Background(), model.CreateBookRequest{Title: "t", Author: "a", Genre: "g"})
	if err != nil {
		t.Fatalf("create book: %v", err)
	}

	reviews := &fakeBookReviews{
		reviews: []model.Review{{ID: 1, Rating: 4, Comment: "good"}},
		avg:     4.26,
		count:   2,
	}
	svc := NewBookService(repo, reviews, nil)

	detail, err := svc.GetBookDetail(context.Background(), book.ID, 1, 5)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if detail.AverageRating == nil || *detail.AverageRating != "4.3" {
		t.Fatalf("average rating = %v", detail.AverageRating)
	}
	if len(detail.Reviews) != 1 {
		t.Fatalf("reviews = %+v", detail.Reviews)
	}
}

func TestGetBookDetailNoReviews(t *testing.T) {
	repo := newFakeBookRepo()
	book, err := repo.CreateBook(context.Background(), model.CreateBookRequest{Title: "t", Author: "a", Genre: "g"})
	if err != nil {
		t.Fatalf("create book: %v", err)
	}

	svc := NewBookService(repo, &fakeBookReviews{}, nil)
	detail, err := svc.GetBookDetail(context.Background(), book.ID, 1, 5)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if detail.AverageRating != nil {
		t.Fatalf("expected nil average for unreviewed book, got %q", *detail.AverageRating)
	}
}

func TestGetBookDetailNotFound(t *testing.T) {
	svc := NewBookService(newFakeBookRepo(), &fakeBookReviews{}, nil)
	if _, err := svc.GetBookDetail(context.Background(), 42, 1, 5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetSimilarBooksWithoutEmbedder(t *testing.T) {
	svc := NewBookService(newFakeBookRepo(), &fakeBookReviews{}, nil)
	if _, err := svc.GetSimilarBooks(context.Background(), 1, 5); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

type fakeEmbeddingRepo struct {
	upserts int
	nearest []model.SimilarBook
}

func (f *fakeEmbeddingRepo) UpsertBookEmbedding(ctx context.Context, bookID int64, vector []float32, embeddingModel string) error {
	f.upserts++
	return nil
}

func (f *fakeEmbeddingRepo) NearestBooks(ctx context.Context, bookID int64, limit int) ([]model.SimilarBook, error) {
	return f.nearest, nil
}

type fakeEmbeddingClient struct{}

func (f *fakeEmbeddingClient) EmbedText(ctx context.Context, text string) ([]float32, string, error) {
	return []float32{0.1, 0.2}, "text-embedding-004", nil
}

func TestAddBookEmbedsWhenConfigured(t *testing.T) {
	embRepo := &fakeEmbeddingRepo{}
	embedder := NewEmbeddingService(embRepo, &fakeEmbeddingClient{})
	svc := NewBookService(newFakeBookRepo(), &fakeBookReviews{}, embedder)

	if _, err := svc.AddBook(context.Background(), model.CreateBookRequest{Title: "t", Author: "a", Genre: "g"}); err != nil {
		t.Fatalf("add book: %v", err)
	}
	if embRepo.upserts != 1 {
		t.Fatalf("expected one embedding upsert, got %d", embRepo.upserts)
	}
}

func TestGetSimilarBooks(t *testing.T) {
	repo := newFakeBookRepo()
	book, err := repo.CreateBook(context.Background(), model.CreateBookRequest{Title: "t", Author: "a", Genre: "g"})
	if err != nil {
		t.Fatalf("create book: %v", err)
	}

	embRepo := &fakeEmbeddingRepo{nearest: []model.SimilarBook{{Book: model.Book{ID: 2, Title: "other"}, Distance: 0.1}}}
	svc := NewBookService(repo, &fakeBookReviews{}, NewEmbeddingService(embRepo, &fakeEmbeddingClient{}))

	similar, err := svc.GetSimilarBooks(context.Background(), book.ID, 5)
	if err != nil {
		t.Fatalf("similar: %v", err)
	}
	if len(similar) != 1 || similar[0].ID != 2 {
		t.Fatalf("unexpected result: %+v", similar)
	}
}
