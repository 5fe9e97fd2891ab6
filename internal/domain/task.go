package domain

import (
	"time"
)

// Status is the lifecycle state of a task.
type Status string

const (
	// StatusPending marks a task that still needs doing.
	StatusPending Status = "pending"
	// StatusCompleted marks a finished task.
	StatusCompleted Status = "completed"
)

// Priority bounds. 1 is the most urgent.
const (
	MinPriority     = 1
	MaxPriority     = 4
	DefaultPriority = 4
)

// DefaultProject is the project assigned to tasks without one.
const DefaultProject = "General"

// Task is a normalized task record together with the bucket it is stored in.
// Optional dates use the empty string for "not set".
type Task struct {
	ID          string
	Content     string
	ProjectName string
	Comments    string
	Status      Status
	DueDate     string
	Priority    int
	CreatedAt   string
	UpdatedAt   string
	Bucket      Bucket
}

// Listable reports whether the task can appear in views and summaries.
// Stored records without an id or content are skipped.
func (t Task) Listable() bool {
	return t.ID != "" && t.Content != ""
}

// IsPending reports whether the task is still open.
func (t Task) IsPending() bool {
	return t.Status == StatusPending
}

// Payload is a decoded JSON object from a request or a stored record.
// A key that was absent from the source is absent from the map.
type Payload map[string]any

// Has reports whether key was present, even if its value is null.
func (p Payload) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// Get returns the value for key, or nil.
func (p Payload) Get(key string) any {
	return p[key]
}

// Today returns the UTC calendar date of now.
func Today(now time.Time) string {
	return now.UTC().Format(DateLayout)
}

// NormalizeRecord reads a stored record leniently. Invalid status and
// priority fall back to defaults, invalid dates are dropped, and a missing
// createdAt becomes today. Callers decide via Listable whether to keep it.
func NormalizeRecord(rec Payload, bucket Bucket, today string) Task {
	status, ok := NormalizeStatus(rec.Get("status"))
	if !ok {
		status = StatusPending
	}

	priority, ok := NormalizePriority(rec.Get("priority"))
	if !ok {
		priority = DefaultPriority
	}

	dueDate, _ := NormalizeISODate(rec.Get("dueDate"))
	updatedAt, _ := NormalizeISODate(rec.Get("updatedAt"))
	createdAt, ok := NormalizeISODate(rec.Get("createdAt"))
	if !ok {
		createdAt = today
	}

	return Task{
		ID:          Text(rec.Get("id")),
		Content:     Text(firstTruthy(rec.Get("content"), rec.Get("title"))),
		ProjectName: NormalizeProjectName(rec.Get("projectName")),
		Comments:    Text(firstTruthy(rec.Get("comments"), rec.Get("description"))),
		Status:      status,
		DueDate:     dueDate,
		Priority:    priority,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
		Bucket:      bucket,
	}
}

// NewTask validates a create payload and builds the task it describes.
// The legacy keys title and description are accepted for content and
// comments, and projectName doubles as content when nothing else is given.
func NewTask(id string, p Payload, today string) (*Task, error) {
	content := Text(firstTruthy(p.Get("content"), p.Get("title"), p.Get("projectName")))
	if content == "" {
		return nil, NewValidationError("content", MsgContentRequired, ErrEmptyContent)
	}

	status := StatusPending
	if truthy(p.Get("status")) {
		normalized, ok := NormalizeStatus(p.Get("status"))
		if !ok {
			return nil, NewValidationError("status", MsgInvalidStatus, ErrInvalidStatus)
		}
		status = normalized
	}

	var dueDate string
	if raw := p.Get("dueDate"); truthy(raw) {
		normalized, ok := NormalizeISODate(raw)
		if !ok {
			return nil, NewValidationError("dueDate", MsgInvalidDueDate, ErrInvalidDueDate)
		}
		dueDate = normalized
	}

	priority, ok := NormalizePriority(p.Get("priority"))
	if !ok {
		return nil, NewValidationError("priority", MsgInvalidPriority, ErrInvalidPriority)
	}

	bucket, err := ResolveBucket(p.Get("year"), p.Get("month"), dueDate, nil, today)
	if err != nil {
		return nil, err
	}

	var comments any
	if p.Has("comments") {
		comments = p.Get("comments")
	} else {
		comments = p.Get("description")
	}

	return &Task{
		ID:          id,
		Content:     content,
		ProjectName: NormalizeProjectName(p.Get("projectName")),
		Comments:    Text(comments),
		Status:      status,
		DueDate:     dueDate,
		Priority:    priority,
		CreatedAt:   today,
		UpdatedAt:   today,
		Bucket:      bucket,
	}, nil
}

// ApplyUpdate returns a copy of current with the keys present in p applied.
// Only keys present in the payload change; year and month on their own do
// not count as a change. The bucket is re-resolved from the explicit
// year/month, then the resulting due date, then the current bucket.
func ApplyUpdate(current Task, p Payload, today string) (*Task, error) {
	next := current
	changed := false

	if p.Has("content") || p.Has("title") {
		content := Text(firstTruthy(p.Get("content"), p.Get("title")))
		if content == "" {
			return nil, NewValidationError("content", MsgContentEmpty, ErrEmptyContent)
		}
		next.Content = content
		changed = true
	}

	if p.Has("projectName") {
		next.ProjectName = NormalizeProjectName(p.Get("projectName"))
		changed = true
	}

	if p.Has("comments") || p.Has("description") {
		if p.Has("comments") {
			next.Comments = Text(p.Get("comments"))
		} else {
			next.Comments = Text(p.Get("description"))
		}
		changed = true
	}

	if p.Has("status") {
		status, ok := NormalizeStatus(p.Get("status"))
		if !ok {
			return nil, NewValidationError("status", MsgInvalidStatus, ErrInvalidStatus)
		}
		next.Status = status
		changed = true
	}

	if p.Has("priority") {
		priority, ok := NormalizePriority(p.Get("priority"))
		if !ok {
			return nil, NewValidationError("priority", MsgInvalidPriority, ErrInvalidPriority)
		}
		next.Priority = priority
		changed = true
	}

	if p.Has("dueDate") {
		raw := p.Get("dueDate")
		if isBlank(raw) {
			next.DueDate = ""
		} else {
			dueDate, ok := NormalizeISODate(raw)
			if !ok {
				return nil, NewValidationError("dueDate", MsgInvalidDueDate, ErrInvalidDueDate)
			}
			next.DueDate = dueDate
		}
		changed = true
	}

	if !changed {
		return nil, NewValidationError("", MsgNoUpdatableFields, ErrNoUpdatableFields)
	}

	fallback := current.Bucket
	bucket, err := ResolveBucket(p.Get("year"), p.Get("month"), next.DueDate, &fallback, today)
	if err != nil {
		return nil, err
	}

	next.Bucket = bucket
	next.UpdatedAt = today
	return &next, nil
}
