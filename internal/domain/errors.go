package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when task input fails validation.
	// It is usually wrapped by a ValidationError carrying the client message.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyContent is returned when a task has no content.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrInvalidStatus is returned when a status is not pending or completed.
	ErrInvalidStatus = errors.New("invalid task status")

	// ErrInvalidPriority is returned when a priority is outside 1..4.
	ErrInvalidPriority = errors.New("invalid task priority")

	// ErrInvalidDueDate is returned when a due date is not a real YYYY-MM-DD date.
	ErrInvalidDueDate = errors.New("invalid due date")

	// ErrInvalidBucket is returned when an explicit year/month pair is malformed.
	ErrInvalidBucket = errors.New("invalid year/month bucket")

	// ErrIncompleteBucket is returned when only one of year or month is given in a query.
	ErrIncompleteBucket = errors.New("incomplete year/month bucket")

	// ErrInvalidView is returned when a list view is not recognised.
	ErrInvalidView = errors.New("invalid view")

	// ErrNoUpdatableFields is returned when an update payload changes nothing.
	ErrNoUpdatableFields = errors.New("no updatable fields")
)

// ValidationError describes a rejected input. Message is safe to show to
// clients; Err is the sentinel used for errors.Is checks.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Unwrap returns the wrapped sentinel.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError. When err is nil the error
// wraps ErrValidation.
func NewValidationError(field, message string, err error) *ValidationError {
	if err == nil {
		err = ErrValidation
	}
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}

// Client-facing validation messages.
const (
	MsgContentRequired   = "Task content is required"
	MsgContentEmpty      = "Task content cannot be empty"
	MsgInvalidStatus     = "Status must be pending or completed"
	MsgInvalidDueDate    = "Due date must be in YYYY-MM-DD format"
	MsgInvalidPriority   = "Priority must be between 1 and 4"
	MsgInvalidBucket     = "Provide valid year (YYYY) and month (01-12)"
	MsgIncompleteBucket  = "Provide both year (YYYY) and month (01-12) together"
	MsgInvalidView       = "Invalid view. Use inbox, today, upcoming, completed, or month"
	MsgNoUpdatableFields = "No updatable fields provided"
)
