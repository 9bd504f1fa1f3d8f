package pipeline

import "errors"

// Common pipeline errors
var (
	// ErrInvalidConfig indicates missing or malformed processor configuration.
	ErrInvalidConfig = errors.New("invalid pipeline configuration")

	// ErrEmptyURL indicates a processing request without a video URL.
	ErrEmptyURL = errors.New("video URL cannot be empty")

	// ErrInvalidResponse indicates the model returned an unusable response.
	ErrInvalidResponse = errors.New("invalid model response")

	// ErrTransientFailure indicates a failure that exhausted its retries.
	ErrTransientFailure = errors.New("transient failure")
)
