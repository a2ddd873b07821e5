package service

import "errors"

// Sentinel errors shared by the services. Handlers translate these to
// HTTP statuses; anything not in this list is treated as an internal
// error and hidden from the client.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrConflict           = errors.New("conflict")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrInvalidRating      = errors.New("invalid rating")
	ErrCommentRequired    = errors.New("comment required")
	ErrDuplicateReview    = errors.New("duplicate review")
	ErrUnavailable        = errors.New("feature unavailable")
	ErrMisconfigured      = errors.New("auth config invalid")
)
