package service

import (
	"context"
	"strings"

	"github.com/billeasy/backend/internal/db"
	"github.com/billeasy/backend/internal/model"
)

type ReviewRepo interface {
	CreateReview(ctx context.Context, bookID, userID int64, rating int, comment string) (*model.Review, error)
	GetReviewByID(ctx context.Context, reviewID int64) (*model.Review, error)
	UpdateReview(ctx context.Context, reviewID int64, rating int, comment string) (*model.Review, error)
	DeleteReview(ctx context.Context, reviewID int64) error
}

type BookGetter interface {
	GetBookByID(ctx context.Context, bookID int64) (*model.Book, error)
}

type ReviewService struct {
	repo  ReviewRepo
	books BookGetter
}

func NewReviewService(repo ReviewRepo, books BookGetter) *ReviewService {
	return &ReviewService{repo: repo, books: books}
}

// AddReview creates one review per user per book. The unique index on
// (book_id, user_id) is the race guard; a violation surfaces as
// ErrDuplicateReview.
func (s *ReviewService) AddReview(ctx context.Context, userID, bookID int64, req model.CreateReviewRequest) (*model.Review, error) {
	if req.Rating == nil || *req.Rating < 1 || *req.Rating > 5 {
		return nil, ErrInvalidRating
	}
	if strings.TrimSpace(req.Comment) == "" {
		return nil, ErrCommentRequired
	}

	if _, err := s.books.GetBookByID(ctx, bookID); err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	review, err := s.repo.CreateReview(ctx, bookID, userID, *req.Rating, req.Comment)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateReview
		}
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) UpdateReview(ctx context.Context, userID, reviewID int64, req model.UpdateReviewRequest) (*model.Review, error) {
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		return nil, ErrInvalidRating
	}
	if req.Comment != nil && strings.TrimSpace(*req.Comment) == "" {
		return nil, ErrCommentRequired
	}

	review, err := s.getOwned(ctx, userID, reviewID)
	if err != nil {
		return nil, err
	}

	rating := review.Rating
	comment := review.Comment
	if req.Rating != nil {
		rating = *req.Rating
	}
	if req.Comment != nil {
		comment = *req.Comment
	}

	return s.repo.UpdateReview(ctx, reviewID, rating, comment)
}

func (s *ReviewService) DeleteReview(ctx context.Context, userID, reviewID int64) error {
	if _, err := s.getOwned(ctx, userID, reviewID); err != nil {
		return err
	}
	return s.repo.DeleteReview(ctx, reviewID)
}

// getOwned is the ownership guard shared by all review mutations: the
// review must exist (ErrNotFound) and belong to the acting user
// (ErrForbidden). The two cases are deliberately distinct statuses.
func (s *ReviewService) getOwned(ctx context.Context, userID, reviewID int64) (*model.Review, error) {
	review, err := s.repo.GetReviewByID(ctx, reviewID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if review.UserID != userID {
		return nil, ErrForbidden
	}
	return review, nil
}
