package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskdeck/internal/domain"
	"github.com/phrazzld/taskdeck/internal/events"
	"github.com/phrazzld/taskdeck/internal/platform/logger"
	"github.com/phrazzld/taskdeck/internal/store"
)

// TaskService provides task-related operations
type TaskService interface {
	// ListTasks returns the listable tasks matching the query, sorted.
	ListTasks(ctx context.Context, query domain.TaskQuery) (*domain.TaskList, error)

	// CreateTask validates the payload and stores a new task.
	CreateTask(ctx context.Context, payload domain.Payload) (*domain.Task, error)

	// UpdateTask applies a partial update to the task with the given id.
	UpdateTask(ctx context.Context, id string, payload domain.Payload) (*domain.Task, error)

	// DeleteTask removes the task with the given id.
	DeleteTask(ctx context.Context, id string) error

	// ListProjects summarizes tasks per project.
	ListProjects(ctx context.Context) ([]domain.ProjectSummary, error)

	// AllTasks returns every listable task in bucket order.
	AllTasks(ctx context.Context) ([]domain.Task, error)
}

// TaskServiceOption configures a task service.
type TaskServiceOption func(*taskServiceImpl)

// WithClock replaces the time source used to derive "today".
func WithClock(now func() time.Time) TaskServiceOption {
	return func(s *taskServiceImpl) {
		s.now = now
	}
}

// WithIDGenerator replaces the generator used for new task ids.
func WithIDGenerator(newID func() string) TaskServiceOption {
	return func(s *taskServiceImpl) {
		s.newID = newID
	}
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	tasks        store.TaskStore
	eventEmitter events.EventEmitter
	logger       *slog.Logger
	now          func() time.Time
	newID        func() string
}

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(
	tasks store.TaskStore,
	eventEmitter events.EventEmitter,
	logger *slog.Logger,
	opts ...TaskServiceOption,
) (TaskService, error) {
	if tasks == nil {
		return nil, &TaskServiceError{
			Operation: "create_service",
			Message:   "tasks cannot be nil",
		}
	}
	if eventEmitter == nil {
		return nil, &TaskServiceError{
			Operation: "create_service",
			Message:   "eventEmitter cannot be nil",
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	s := &taskServiceImpl{
		tasks:        tasks,
		eventEmitter: eventEmitter,
		logger:       logger.With("component", "task_service"),
		now:          time.Now,
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

func (s *taskServiceImpl) today() string {
	return domain.Today(s.now())
}

// ListTasks returns the tasks visible in the requested view.
func (s *taskServiceImpl) ListTasks(
	ctx context.Context,
	query domain.TaskQuery,
) (*domain.TaskList, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	all, err := s.tasks.List(ctx)
	if err != nil {
		log.Error("failed to load tasks", "error", err)
		return nil, NewTaskServiceError("list_tasks", "failed to load tasks", err)
	}

	list, err := domain.FilterTasks(all, query, s.today())
	if err != nil {
		return nil, err
	}

	log.Debug("listed tasks",
		"view", list.View,
		"count", len(list.Tasks))

	return list, nil
}

// CreateTask builds a task from the payload and stores it.
func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	payload domain.Payload,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(s.newID(), payload, s.today())
	if err != nil {
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		log.Error("failed to store task",
			"error", err,
			"task_id", task.ID)
		return nil, NewTaskServiceError("create_task", "failed to store task", err)
	}

	log.Info("task created",
		"task_id", task.ID,
		"bucket", task.Bucket.String())

	s.emit(ctx, events.TypeTaskCreated, task.ID, task.Bucket.String(), events.TaskChange{
		Content:     task.Content,
		Status:      string(task.Status),
		ProjectName: task.ProjectName,
	})

	return task, nil
}

// UpdateTask applies the payload to the stored task. Existence is checked
// before the payload is validated.
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	id string,
	payload domain.Payload,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	today := s.today()

	var fromBucket domain.Bucket
	updated, err := s.tasks.Update(ctx, id, func(task *domain.Task) error {
		fromBucket = task.Bucket
		next, err := domain.ApplyUpdate(*task, payload, today)
		if err != nil {
			return err
		}
		*task = *next
		return nil
	})
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			return nil, vErr
		}
		if errors.Is(err, store.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		log.Error("failed to update task",
			"error", err,
			"task_id", id)
		return nil, NewTaskServiceError("update_task", "failed to update task", err)
	}

	log.Info("task updated",
		"task_id", updated.ID,
		"bucket", updated.Bucket.String())

	change := events.TaskChange{
		Content:     updated.Content,
		Status:      string(updated.Status),
		ProjectName: updated.ProjectName,
	}
	if fromBucket != updated.Bucket {
		change.FromBucket = fromBucket.String()
	}
	s.emit(ctx, events.TypeTaskUpdated, updated.ID, updated.Bucket.String(), change)

	return updated, nil
}

// DeleteTask removes the task with the given id.
func (s *taskServiceImpl) DeleteTask(ctx context.Context, id string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.tasks.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return ErrTaskNotFound
		}
		log.Error("failed to delete task",
			"error", err,
			"task_id", id)
		return NewTaskServiceError("delete_task", "failed to delete task", err)
	}

	log.Info("task deleted", "task_id", id)

	s.emit(ctx, events.TypeTaskDeleted, id, "", nil)

	return nil
}

// ListProjects summarizes every listable task by project name.
func (s *taskServiceImpl) ListProjects(ctx context.Context) ([]domain.ProjectSummary, error) {
	all, err := s.tasks.List(ctx)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to load tasks", "error", err)
		return nil, NewTaskServiceError("list_projects", "failed to load tasks", err)
	}

	return domain.SummarizeProjects(all), nil
}

// AllTasks returns the listable tasks without filtering or sorting.
func (s *taskServiceImpl) AllTasks(ctx context.Context) ([]domain.Task, error) {
	all, err := s.tasks.List(ctx)
	if err != nil {
		return nil, NewTaskServiceError("all_tasks", "failed to load tasks", err)
	}

	out := make([]domain.Task, 0, len(all))
	for _, t := range all {
		if t.Listable() {
			out = append(out, t)
		}
	}
	return out, nil
}

// emit publishes a task event. The change is already persisted, so failures
// are logged and not returned.
func (s *taskServiceImpl) emit(ctx context.Context, eventType, taskID, bucket string, payload any) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	event, err := events.NewTaskEvent(eventType, taskID, bucket, payload)
	if err != nil {
		log.Error("failed to create task event",
			"error", err,
			"event_type", eventType,
			"task_id", taskID)
		return
	}

	if err := s.eventEmitter.EmitEvent(ctx, event); err != nil {
		log.Warn("failed to emit task event",
			"error", err,
			"event_id", event.ID,
			"event_type", eventType,
			"task_id", taskID)
	}
}
