// Package service provides application-level services for managing goals,
// tasks and video processing jobs.
package service

import "errors"

// Common service errors. Service methods return sentinel errors for
// expected conditions; the API layer maps them to HTTP status codes with
// errors.Is.
var (
	// ErrNotOwned indicates a resource is owned by a different user than
	// the one making the request. Maps to HTTP 403.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrGoalNotFound indicates the requested goal does not exist.
	// Maps to HTTP 404.
	ErrGoalNotFound = errors.New("goal not found")

	// ErrTaskNotFound indicates the requested task does not exist under
	// the given goal. Maps to HTTP 404.
	ErrTaskNotFound = errors.New("task not found")

	// ErrJobNotFound indicates the requested processing job does not
	// exist. Maps to HTTP 404.
	ErrJobNotFound = errors.New("job not found")

	// ErrEmptyBatch indicates a processing request without any items.
	// Maps to HTTP 400.
	ErrEmptyBatch = errors.New("no video URLs provided")

	// ErrBatchTooLarge indicates a processing request above the
	// configured batch cap. Maps to HTTP 400.
	ErrBatchTooLarge = errors.New("too many video URLs in one request")
)
