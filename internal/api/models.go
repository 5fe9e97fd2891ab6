package api

import (
	"github.com/phrazzld/taskdeck/internal/domain"
)

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	Token string `json:"token"`
}

// TaskResponse is the client view of a task. The title and description
// fields mirror content and comments for older clients.
type TaskResponse struct {
	ID          string  `json:"id"`
	Content     string  `json:"content"`
	ProjectName string  `json:"projectName"`
	Comments    string  `json:"comments"`
	Status      string  `json:"status"`
	DueDate     *string `json:"dueDate"`
	Priority    int     `json:"priority"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   *string `json:"updatedAt"`
	Year        string  `json:"year"`
	Month       string  `json:"month"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
}

// TaskEnvelope wraps a single task.
type TaskEnvelope struct {
	Task TaskResponse `json:"task"`
}

// TaskListResponse is the body of GET /tasks.
type TaskListResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	View  string         `json:"view"`
	Year  *string        `json:"year"`
	Month *string        `json:"month"`
}

// ProjectResponse summarizes one project.
type ProjectResponse struct {
	Name      string `json:"name"`
	Total     int    `json:"total"`
	Pending   int    `json:"pending"`
	Completed int    `json:"completed"`
}

// ProjectListResponse is the body of GET /projects.
type ProjectListResponse struct {
	Projects []ProjectResponse `json:"projects"`
}

// NewTaskResponse converts a domain task to its client representation.
func NewTaskResponse(t domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Content:     t.Content,
		ProjectName: t.ProjectName,
		Comments:    t.Comments,
		Status:      string(t.Status),
		DueDate:     optional(t.DueDate),
		Priority:    t.Priority,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   optional(t.UpdatedAt),
		Year:        t.Bucket.Year,
		Month:       t.Bucket.Month,
		Title:       t.Content,
		Description: t.Comments,
	}
}

// NewTaskListResponse converts a query result. The tasks array is never null.
func NewTaskListResponse(list *domain.TaskList) TaskListResponse {
	tasks := make([]TaskResponse, 0, len(list.Tasks))
	for _, t := range list.Tasks {
		tasks = append(tasks, NewTaskResponse(t))
	}

	return TaskListResponse{
		Tasks: tasks,
		View:  string(list.View),
		Year:  optional(list.Year),
		Month: optional(list.Month),
	}
}

// NewProjectListResponse converts project summaries.
func NewProjectListResponse(summaries []domain.ProjectSummary) ProjectListResponse {
	projects := make([]ProjectResponse, 0, len(summaries))
	for _, s := range summaries {
		projects = append(projects, ProjectResponse{
			Name:      s.Name,
			Total:     s.Total,
			Pending:   s.Pending,
			Completed: s.Completed,
		})
	}
	return ProjectListResponse{Projects: projects}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
