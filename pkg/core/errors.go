package core

import "errors"

// Common errors.
var (
	// ErrNotFound is returned by Get when a key has never been written.
	ErrNotFound = errors.New("key not found")

	// ErrQuotaExceeded is returned by Set when a write would push the
	// profile past its byte budget, or when the backing medium reports
	// an out-of-space condition.
	ErrQuotaExceeded = errors.New("storage quota exceeded")

	// ErrUnavailable is returned by Probe when the store cannot
	// complete a write/delete round trip.
	ErrUnavailable = errors.New("storage unavailable")

	// ErrInvalidKey is returned for keys the adapter cannot represent.
	ErrInvalidKey = errors.New("invalid key")

	// ErrWatchUnsupported is returned when the configured store has no
	// change feed.
	ErrWatchUnsupported = errors.New("store does not support watching")

	// ErrSessionClosed is returned by session operations after Close.
	ErrSessionClosed = errors.New("session is closed")
)
