// Package common defines shared sentinel errors and small helpers used
// across the secure banking components. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// Ingestion errors.
	ErrDuplicateFile   = errors.New("duplicate file")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrEmptyFile       = errors.New("empty file")

	// Crypto errors.
	ErrCrypto    = errors.New("crypto error")
	ErrIntegrity = errors.New("integrity check failed")

	// Auth errors.
	ErrInvalidToken  = errors.New("invalid token")
	ErrAccountLocked = errors.New("account locked")
)
