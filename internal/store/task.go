package store

import (
	"context"

	"github.com/phrazzld/taskdeck/internal/domain"
)

// UpdateFn mutates a task in place. Returning an error aborts the update and
// leaves the stored task untouched.
type UpdateFn func(task *domain.Task) error

// TaskStore defines the interface for task persistence.
//
// Implementations store each task under the year/month bucket recorded in
// task.Bucket, and must move the record when an update changes that bucket.
type TaskStore interface {
	// List returns every stored task in bucket order. Records that cannot be
	// normalized into a listable task are skipped.
	List(ctx context.Context) ([]domain.Task, error)

	// Create stores a new task in its bucket.
	// Returns ErrTaskExists if a task with the same id already exists.
	Create(ctx context.Context, task *domain.Task) error

	// Update loads the task with the given id, applies fn and writes the result
	// back, relocating it if its bucket changed. The read and the write happen
	// under one lock or transaction.
	// Returns ErrTaskNotFound if no task has the id.
	Update(ctx context.Context, id string, fn UpdateFn) (*domain.Task, error)

	// Delete removes the task with the given id and any bucket left empty.
	// Returns ErrTaskNotFound if no task has the id.
	Delete(ctx context.Context, id string) error

	// Close releases resources held by the store.
	Close() error
}
