package service

import "errors"

var (
	// ErrNotFound covers missing path-scoped resources (unknown title,
	// review, user, slug).
	ErrNotFound = errors.New("not found")
	// ErrConflict is the one-review-per-author rule, whether caught by
	// the pre-write check or by the database unique index.
	ErrConflict = errors.New("already exists")
	// ErrInvalidCode is a confirmation code mismatch during token issue.
	ErrInvalidCode = errors.New("invalid confirmation code")
	// ErrInvalidToken covers malformed, forged or expired access tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrMailDelivery signals the SMTP collaborator failed; the request
	// maps to 503 rather than propagating an unhandled fault.
	ErrMailDelivery = errors.New("could not deliver confirmation email")
)
