package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/taskdeck/internal/api/shared"
	"github.com/phrazzld/taskdeck/internal/service"
)

// TaskHandler serves the task collection and individual tasks.
type TaskHandler struct {
	tasks        service.TaskService
	maxBodyBytes int64
	logger       *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks service.TaskService, maxBodyBytes int64, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{
		tasks:        tasks,
		maxBodyBytes: maxBodyBytes,
		logger:       logger.With("component", "task_handler"),
	}
}

// ListTasks handles GET /tasks.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	list, err := h.tasks.ListTasks(r.Context(), taskQueryFromRequest(r))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskListResponse(list))
}

// CreateTask handles POST /tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	payload, err := shared.DecodePayload(r, h.maxBodyBytes)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.tasks.CreateTask(r.Context(), payload)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, TaskEnvelope{Task: NewTaskResponse(*task)})
}

// UpdateTask handles PUT /tasks/{id} and PUT /tasks?id=.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id := taskIDFromRequest(r)
	if id == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Task id is required")
		return
	}

	payload, err := shared.DecodePayload(r, h.maxBodyBytes)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.tasks.UpdateTask(r.Context(), id, payload)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TaskEnvelope{Task: NewTaskResponse(*task)})
}

// DeleteTask handles DELETE /tasks/{id} and DELETE /tasks?id=.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id := taskIDFromRequest(r)
	if id == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Task id is required")
		return
	}

	if err := h.tasks.DeleteTask(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, shared.MessageResponse{Message: "Task deleted"})
}

// ListProjects handles GET /projects.
func (h *TaskHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.tasks.ListProjects(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewProjectListResponse(projects))
}
