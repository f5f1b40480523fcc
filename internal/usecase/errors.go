package usecase

import "errors"

// Sentinel errors the HTTP layer maps onto status codes. Services wrap
// these with %w and a caller-facing detail message.
var (
	ErrInvalidInput          = errors.New("invalid request input")
	ErrNotFound              = errors.New("not found")
	ErrUnauthorized          = errors.New("caller identity missing")
	ErrDependencyUnavailable = errors.New("upstream dependency unavailable")
)
