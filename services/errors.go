package services

import "errors"

// Service-level errors; engine errors pass through unchanged. Controllers
// map both onto HTTP status codes.
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("state changed concurrently, reload and retry")
	ErrQuotaExceeded   = errors.New("daily limit reached")
	ErrInvalidCategory = errors.New("unknown category")
	ErrAlreadyPromoted = errors.New("thought was already promoted")
	ErrNotAuthor       = errors.New("only the author can do this")
)
