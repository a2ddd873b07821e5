package db

import (
	"context"

	"github.com/billeasy/backend/internal/model"
)

func (db *Postgres) CreateReview(ctx context.Context, bookID, userID int64, rating int, comment string) (*model.Review, error) {
	query := `
		INSERT INTO reviews (book_id, user_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, book_id, user_id, rating, comment, created_at
	`
	var review model.Review
	err := db.Pool.QueryRow(ctx, query, bookID, userID, rating, comment).Scan(
		&review.ID,
		&review.BookID,
		&review.UserID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (db *Postgres) GetReviewByID(ctx context.Context, reviewID int64) (*model.Review, error) {
	query := `
		SELECT id, book_id, user_id, rating, comment, created_at
		FROM reviews
		WHERE id = $1
	`
	var review model.Review
	err := db.Pool.QueryRow(ctx, query, reviewID).Scan(
		&review.ID,
		&review.BookID,
		&review.UserID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (db *Postgres) UpdateReview(ctx context.Context, reviewID int64, rating int, comment string) (*model.Review, error) {
	query := `
		UPDATE reviews
		SET rating = $2, comment = $3
		WHERE id = $1
		RETURNING id, book_id, user_id, rating, comment, created_at
	`
	var review model.Review
	err := db.Pool.QueryRow(ctx, query, reviewID, rating, comment).Scan(
		&review.ID,
		&review.BookID,
		&review.UserID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (db *Postgres) DeleteReview(ctx context.Context, reviewID int64) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, reviewID)
	return err
}

// ListReviewsByBook returns a page of reviews joined with the reviewer's
// email, oldest first.
func (db *Postgres) ListReviewsByBook(ctx context.Context, bookID int64, page, limit int) ([]model.Review, error) {
	query := `
		SELECT r.id, r.rating, r.comment, r.created_at, u.email
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.book_id = $1
		ORDER BY r.id
		LIMIT $2 OFFSET $3
	`
	offset := (page - 1) * limit
	rows, err := db.Pool.Query(ctx, query, bookID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []model.Review
	for rows.Next() {
		var r model.Review
		if err := rows.Scan(&r.ID, &r.Rating, &r.Comment, &r.CreatedAt, &r.UserEmail); err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	if reviews == nil {
		reviews = []model.Review{}
	}
	return reviews, rows.Err()
}

// AverageRating returns (avg, count) over all reviews of a book. avg is
// meaningless when count is zero.
func (db *Postgres) AverageRating(ctx context.Context, bookID int64) (float64, int64, error) {
	query := `
		SELECT COALESCE(AVG(rating), 0), COUNT(*)
		FROM reviews
		WHERE book_id = $1
	`
	var avg float64
	var count int64
	if err := db.Pool.QueryRow(ctx, query, bookID).Scan(&avg, &count); err != nil {
		return 0, 0, err
	}
	return avg, count, nil
}
