package mocks

import (
	"context"

	"github.com/phrazzld/taskdeck/internal/domain"
	"github.com/phrazzld/taskdeck/internal/store"
	"github.com/stretchr/testify/mock"
)

// TestifyMockTaskStore is a mock of store.TaskStore for use with testify/mock.
type TestifyMockTaskStore struct {
	mock.Mock
}

// Ensure TestifyMockTaskStore implements store.TaskStore
var _ store.TaskStore = (*TestifyMockTaskStore)(nil)

// List is a mock implementation of store.TaskStore.List
func (m *TestifyMockTaskStore) List(ctx context.Context) ([]domain.Task, error) {
	args := m.Called(ctx)
	if tasks, ok := args.Get(0).([]domain.Task); ok {
		return tasks, args.Error(1)
	}
	return nil, args.Error(1)
}

// Create is a mock implementation of store.TaskStore.Create
func (m *TestifyMockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

// Update is a mock implementation of store.TaskStore.Update.
// The expectation returns the currently stored task (or an error); the mock
// applies fn to a copy of it and returns the result, as a real store would.
func (m *TestifyMockTaskStore) Update(
	ctx context.Context,
	id string,
	fn store.UpdateFn,
) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if err := args.Error(1); err != nil {
		return nil, err
	}

	current, ok := args.Get(0).(*domain.Task)
	if !ok || current == nil {
		return nil, store.ErrTaskNotFound
	}

	next := *current
	if err := fn(&next); err != nil {
		return nil, err
	}
	return &next, nil
}

// Delete is a mock implementation of store.TaskStore.Delete
func (m *TestifyMockTaskStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Close is a mock implementation of store.TaskStore.Close
func (m *TestifyMockTaskStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
