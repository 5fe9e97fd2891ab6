package mocks

import (
	"context"

	"github.com/phrazzld/taskdeck/internal/domain"
	"github.com/phrazzld/taskdeck/internal/service"
)

// MockTaskService implements service.TaskService for handler tests.
// Each method calls its function field when set and otherwise returns the
// zero value along with Err.
type MockTaskService struct {
	ListTasksFn    func(ctx context.Context, query domain.TaskQuery) (*domain.TaskList, error)
	CreateTaskFn   func(ctx context.Context, payload domain.Payload) (*domain.Task, error)
	UpdateTaskFn   func(ctx context.Context, id string, payload domain.Payload) (*domain.Task, error)
	DeleteTaskFn   func(ctx context.Context, id string) error
	ListProjectsFn func(ctx context.Context) ([]domain.ProjectSummary, error)
	AllTasksFn     func(ctx context.Context) ([]domain.Task, error)

	// Err is the default error for methods without a function field
	Err error
}

// Ensure MockTaskService implements service.TaskService
var _ service.TaskService = (*MockTaskService)(nil)

// ListTasks implements service.TaskService.
func (m *MockTaskService) ListTasks(ctx context.Context, query domain.TaskQuery) (*domain.TaskList, error) {
	if m.ListTasksFn != nil {
		return m.ListTasksFn(ctx, query)
	}
	return nil, m.Err
}

// CreateTask implements service.TaskService.
func (m *MockTaskService) CreateTask(ctx context.Context, payload domain.Payload) (*domain.Task, error) {
	if m.CreateTaskFn != nil {
		return m.CreateTaskFn(ctx, payload)
	}
	return nil, m.Err
}

// UpdateTask implements service.TaskService.
func (m *MockTaskService) UpdateTask(
	ctx context.Context,
	id string,
	payload domain.Payload,
) (*domain.Task, error) {
	if m.UpdateTaskFn != nil {
		return m.UpdateTaskFn(ctx, id, payload)
	}
	return nil, m.Err
}

// DeleteTask implements service.TaskService.
func (m *MockTaskService) DeleteTask(ctx context.Context, id string) error {
	if m.DeleteTaskFn != nil {
		return m.DeleteTaskFn(ctx, id)
	}
	return m.Err
}

// ListProjects implements service.TaskService.
func (m *MockTaskService) ListProjects(ctx context.Context) ([]domain.ProjectSummary, error) {
	if m.ListProjectsFn != nil {
		return m.ListProjectsFn(ctx)
	}
	return nil, m.Err
}

// AllTasks implements service.TaskService.
func (m *MockTaskService) AllTasks(ctx context.Context) ([]domain.Task, error) {
	if m.AllTasksFn != nil {
		return m.AllTasksFn(ctx)
	}
	return nil, m.Err
}
