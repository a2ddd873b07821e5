package model

import "time"

type Book struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Genre       string    `json:"genre"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type CreateBookRequest struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Genre       string `json:"genre"`
	Description string `json:"description"`
}

type CreateBookResponse struct {
	Message string `json:"message"`
	Data    *Book  `json:"data"`
}

// BookFilter carries the list-endpoint query parameters. Empty fields
// match everything; Page/Limit are already normalized by the handler.
type BookFilter struct {
	Title  string
	Author string
	Genre  string
	Page   int
	Limit  int
}

type BookDetailResponse struct {
	Book
	AverageRating *string  `json:"averageRating"`
	Reviews       []Review `json:"reviews"`
}

type SimilarBook struct {
	Book
	Distance float64 `json:"distance"`
}
