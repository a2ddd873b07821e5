package model

import "time"

type Review struct {
	ID        int64     `json:"id"`
	BookID    int64     `json:"bookId,omitempty"`
	UserID    int64     `json:"-"`
	UserEmail string    `json:"userEmail,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreateReviewRequest struct {
	Rating  *int   `json:"rating"`
	Comment string `json:"comment"`
}

// UpdateReviewRequest uses pointers so that absent fields are left
// untouched while present-but-invalid ones are rejected.
type UpdateReviewRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

type ReviewResponse struct {
	Message string  `json:"message"`
	Review  *Review `json:"review,omitempty"`
}
