package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/billeasy/backend/internal/model"
)

type fakeReviewRepo struct {
	reviews map[int64]*model.Review
	nextID  int64
	deleted []int64
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: map[int64]*model.Review{}, nextID: 1}
}

func (f *fakeReviewRepo) CreateReview(ctx context.Context, bookID, userID int64, rating int, comment string) (*model.Review, error) {
	for _, r := range f.reviews {
		if r.BookID == bookID && r.UserID == userID {
			return nil, &pgconn.PgError{Code: "23505"}
		}
	}
	review := &model.Review{ID: f.nextID, BookID: bookID, UserID: userID, Rating: rating, Comment: comment, CreatedAt: time.Now()}
	f.nextID++
	f.reviews[review.ID] = review
	return review, nil
}

func (f *fakeReviewRepo) GetReviewByID(ctx context.Context, reviewID int64) (*model.Review, error) {
	if review, ok := f.reviews[reviewID]; ok {
		return review, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeReviewRepo) UpdateReview(ctx context.Context, reviewID int64, rating int, comment string) (*model.Review, error) {
	review, ok := f.reviews[reviewID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	review.Rating = rating
	review.Comment = comment
	return review, nil
}

func (f *fakeReviewRepo) DeleteReview(ctx context.Context, reviewID int64) error {
	delete(f.reviews, reviewID)
	f.deleted = append(f.deleted, reviewID)
	return nil
}

type fakeBookGetter struct {
	books map[int64]*model.Book
}

func (f *fakeBookGetter) GetBookByID(ctx context.Context, bookID int64) (*model.Book, error) {
	if book, ok := f.books[bookID]; ok {
		return book, nil
	}
	return nil, pgx.ErrNoRows
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func newReviewFixture() (*ReviewService, *fakeReviewRepo) {
	repo := newFakeReviewRepo()
	books := &fakeBookGetter{books: map[int64]*model.Book{
		1: {ID: 1, Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", Genre: "Classic"},
	}}
	return NewReviewService(repo, books), repo
}

func TestAddReview(t *testing.T) {
	svc, _ := newReviewFixture()
	ctx := context.Background()

	review, err := svc.AddReview(ctx, 7, 1, model.CreateReviewRequest{Rating: intPtr(5), Comment: "Really insightful."})
	if err != nil {
		t.Fatalf("add review: %v", err)
	}
	if review.UserID != 7 || review.BookID != 1 || review.Rating != 5 {
		t.Fatalf("unexpected review: %+v", review)
	}
}

func TestAddReviewValidation(t *testing.T) {
	svc, _ := newReviewFixture()
	ctx := context.Background()

	if _, err := svc.AddReview(ctx, 7, 1, model.CreateReviewRequest{Comment: "no rating"}); !errors.Is(err, ErrInvalidRating) {
		t.Fatalf("missing rating: expected ErrInvalidRating, got %v", err)
	}
	if _, err := svc.AddReview(ctx, 7, 1, model.CreateReviewRequest{Rating: intPtr(6), Comment: "x"}); !errors.Is(err, ErrInvalidRating) {
		t.Fatalf("rating 6: expected ErrInvalidRating, got %v", err)
	}
	if _, err := svc.AddReview(ctx, 7, 1, model.CreateReviewRequest{Rating: intPtr(0), Comment: "x"}); !errors.Is(err, ErrInvalidRating) {
		t.Fatalf("rating 0: expected ErrInvalidRating, got %v", err)
	}
	if _, err := svc.AddReview(ctx, 7, 1, model.CreateReviewRequest{Rating: intPtr(3), Comment: "   "}); !errors.Is(err, ErrCommentRequired) {
		t.Fatalf("blank comment: expected ErrCommentRequired, got %v", err)
	}
}

func TestAddReviewUnknownBook(t *testing.T) {
	svc, _ := newReviewFixture()
	if _, err := svc.AddReview(context.Background(), 7, 99, model.CreateReviewRequest{Rating: intPtr(3), Comment: "x"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAddReviewDuplicate(t *testing.T) {
	svc, _ := newReviewFixture()
	ctx := context.Background()

	if _, err := svc.AddReview(ctx, 7, 1, model.CreateReviewRequest{Rating: intPtr(4), Comment: "first"}); err != nil {
		t.Fatalf("first review: %v", err)
	}
	if _, err := svc.AddReview(ctx, 7, 1, model.CreateReviewRequest{Rating: intPtr(2), Comment: "second"}); !errors.Is(err, ErrDuplicateReview) {
		t.Fatalf("expected ErrDuplicateReview, got %v", err)
	}
}

func TestUpdateReviewOwnership(t *testing.T) {
	svc, _ := newReviewFixture()
	ctx := context.Background()

	review, err := svc.AddReview(ctx, 7, 1, model.CreateReviewRequest{Rating: intPtr(4), Comment: "fine"})
	if err != nil {
		t.Fatalf("add review: %v", err)
	}

	if _, err := svc.UpdateReview(ctx, 8, review.ID, model.UpdateReviewRequest{Rating: intPtr(1)}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("foreign update: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.UpdateReview(ctx, 8, 999, model.UpdateReviewRequest{Rating: intPtr(1)}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing review: expected ErrNotFound, got %v", err)
	}

	updated, err := svc.UpdateReview(ctx, 7, review.ID, model.UpdateReviewRequest{Rating: intPtr(2)})
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if updated.Rating != 2 || updated.Comment != "fine" {
		t.Fatalf("partial update mismatch: %+v", updated)
	}
}

func TestUpdateReviewPartialFields(t *testing.T) {
	svc, _ := newReviewFixture()
	ctx := context.Background()

	review, err := svc.AddReview(ctx, 7, 1, model.CreateReviewRequest{Rating: intPtr(4), Comment: "old"})
	if err != nil {
		t.Fatalf("add review: %v", err)
	}

	updated, err := svc.UpdateReview(ctx, 7, review.ID, model.UpdateReviewRequest{Comment: strPtr("new")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Rating != 4 || updated.Comment != "new" {
		t.Fatalf("expected rating kept and comment changed, got %+v", updated)
	}

	if _, err := svc.UpdateReview(ctx, 7, review.ID, model.UpdateReviewRequest{Comment: strPtr("  ")}); !errors.Is(err, ErrCommentRequired) {
		t.Fatalf("blank comment: expected ErrCommentRequired, got %v", err)
	}
}

func TestDeleteReviewOwnership(t *testing.T) {
	svc, repo := newReviewFixture()
	ctx := context.Background()

	review, err := svc.AddReview(ctx, 7, 1, model.CreateReviewRequest{Rating: intPtr(4), Comment: "fine"})
	if err != nil {
		t.Fatalf("add review: %v", err)
	}

	if err := svc.DeleteReview(ctx, 8, review.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("foreign delete: expected ErrForbidden, got %v", err)
	}
	if len(repo.deleted) != 0 {
		t.Fatalf("forbidden delete reached the store")
	}

	if err := svc.DeleteReview(ctx, 7, review.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if err := svc.DeleteReview(ctx, 7, review.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
}
