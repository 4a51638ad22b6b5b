package resource

import "errors"

// Sentinel errors for resource fetching.
var (
	// ErrNotFound is returned when a resource does not exist for the locale.
	ErrNotFound = errors.New("resource: not found")

	// ErrAccessDenied is returned when the backend refuses to serve the resource.
	ErrAccessDenied = errors.New("resource: access denied")

	// ErrInvalidPath is returned for resource ids or locales that would
	// escape the resource root.
	ErrInvalidPath = errors.New("resource: invalid path")

	// ErrTooLarge is returned when a resource exceeds the configured size limit.
	ErrTooLarge = errors.New("resource: exceeds size limit")

	// ErrInvalidConfig is returned by constructors given an incomplete configuration.
	ErrInvalidConfig = errors.New("resource: invalid configuration")

	// ErrFetchFailed wraps backend failures that map to no other sentinel.
	ErrFetchFailed = errors.New("resource: fetch failed")

	// ErrClosed is returned when a store is used after Close.
	ErrClosed = errors.New("resource: store closed")

	// ErrCacheMiss is returned by a Store that holds no entry for a key.
	ErrCacheMiss = errors.New("resource: cache miss")

	// Redis connection errors.
	ErrEmptyConnectionURL = errors.New("resource: empty redis connection URL")
	ErrFailedToParseURL   = errors.New("resource: failed to parse redis connection URL")
	ErrConnectionFailed   = errors.New("resource: failed to establish redis connection")
)
