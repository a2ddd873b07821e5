package model

import "time"

type AuthRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"userId"`
}

type LoginResponse struct {
	Message string `json:"message"`
}

type AuthMeResponse struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
}

type AuthLogoutResponse struct {
	Status string `json:"status"`
}

// AuthUser is the request-scoped identity resolved from a verified token.
type AuthUser struct {
	ID    int64
	Email string
}

type User struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
