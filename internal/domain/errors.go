package domain

import "errors"

// Common domain errors
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidInput  = errors.New("invalid input")

	// Transfer errors
	ErrRemoteUnavailable = errors.New("remote unavailable")

	// Dataset file errors
	ErrBadHeader     = errors.New("malformed dataset header")
	ErrTruncatedData = errors.New("truncated dataset data")
	ErrNotCompressed = errors.New("file is not gzip compressed")
)
