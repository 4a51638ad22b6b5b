package localization

import "errors"

var (
	ErrEmptyLocale        = errors.New("localization: locale cannot be empty")
	ErrInvalidLocale      = errors.New("localization: invalid locale")
	ErrNilFetcher         = errors.New("localization: fetcher cannot be nil")
	ErrNoResources        = errors.New("localization: at least one resource id is required")
	ErrInvalidConcurrency = errors.New("localization: fetch concurrency must be positive")

	// ErrMissingMessage is reported for a key absent from a bundle.
	ErrMissingMessage = errors.New("localization: missing message")
)
