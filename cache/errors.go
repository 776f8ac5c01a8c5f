package cache

import "errors"

// Sentinel errors returned by Cache operations. Match them with errors.Is.
var (
	// ErrStopped is returned by data operations while the cache is stopped.
	ErrStopped = errors.New("cache: stopped")

	// ErrNotFound is returned when a key is absent or already expired.
	ErrNotFound = errors.New("cache: key not found")

	// ErrInvalidTTL is returned for a negative TTL.
	ErrInvalidTTL = errors.New("cache: invalid ttl")

	// ErrExists is returned by Add when the key already holds a live entry.
	ErrExists = errors.New("cache: key already exists")

	// ErrNoLoader is returned by Fetch when no loader is available.
	ErrNoLoader = errors.New("cache: no loader provided")

	// ErrAlreadyRunning is returned by Start on a running cache.
	ErrAlreadyRunning = errors.New("cache: already running")

	// ErrTooManyFaults is returned by Start after the critical fault limit
	// was exceeded; the instance refuses to run again.
	ErrTooManyFaults = errors.New("cache: too many critical faults")

	// ErrInternal is returned when an operation was aborted by an internal
	// fault. The store has been flushed; see the log for the cause.
	ErrInternal = errors.New("cache: internal fault")
)
