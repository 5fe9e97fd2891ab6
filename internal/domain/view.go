package domain

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// View names a filtered perspective over all tasks.
type View string

const (
	ViewInbox     View = "inbox"
	ViewToday     View = "today"
	ViewUpcoming  View = "upcoming"
	ViewCompleted View = "completed"
	ViewMonth     View = "month"
)

// ParseView maps a case-insensitive name to a View.
func ParseView(name string) (View, bool) {
	switch v := View(strings.ToLower(strings.TrimSpace(name))); v {
	case ViewInbox, ViewToday, ViewUpcoming, ViewCompleted, ViewMonth:
		return v, true
	default:
		return "", false
	}
}

// TaskQuery holds raw list parameters as they arrive in a query string.
type TaskQuery struct {
	View        string
	Year        string
	Month       string
	ProjectName string
}

// TaskList is the outcome of a query. Year and Month are empty when the
// query did not involve a bucket.
type TaskList struct {
	Tasks []Task
	View  View
	Year  string
	Month string
}

// FilterTasks validates q and returns the matching listable tasks, sorted.
func FilterTasks(tasks []Task, q TaskQuery, today string) (*TaskList, error) {
	hasYear := strings.TrimSpace(q.Year) != ""
	hasMonth := strings.TrimSpace(q.Month) != ""
	year := strings.TrimSpace(q.Year)
	month, monthOK := NormalizeMonth(q.Month)

	if hasYear != hasMonth {
		return nil, NewValidationError("year", MsgIncompleteBucket, ErrIncompleteBucket)
	}
	if hasYear && (!IsValidYear(year) || !monthOK) {
		return nil, NewValidationError("year", MsgInvalidBucket, ErrInvalidBucket)
	}

	view := ViewInbox
	if strings.TrimSpace(q.View) != "" {
		parsed, ok := ParseView(q.View)
		if !ok {
			return nil, NewValidationError("view", MsgInvalidView, ErrInvalidView)
		}
		view = parsed
	} else if hasYear {
		view = ViewMonth
	}

	if view == ViewMonth && !hasYear {
		current := BucketOf(today)
		year, month = current.Year, current.Month
	}

	fold := cases.Fold()
	project := fold.String(strings.TrimSpace(q.ProjectName))

	filtered := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.Listable() || !matchesView(t, view, Bucket{Year: year, Month: month}, today) {
			continue
		}
		if project != "" && fold.String(t.ProjectName) != project {
			continue
		}
		filtered = append(filtered, t)
	}

	SortTasks(filtered)

	return &TaskList{
		Tasks: filtered,
		View:  view,
		Year:  year,
		Month: month,
	}, nil
}

func matchesView(t Task, view View, bucket Bucket, today string) bool {
	switch view {
	case ViewMonth:
		return t.Bucket == bucket
	case ViewToday:
		return t.IsPending() && t.DueDate == today
	case ViewUpcoming:
		return t.IsPending() && t.DueDate != "" && t.DueDate > today
	case ViewCompleted:
		return t.Status == StatusCompleted
	default:
		return t.IsPending()
	}
}

// SortTasks orders tasks in place: pending first, then by due date with
// undated tasks last, then by priority, then by creation date.
func SortTasks(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return lessTask(tasks[i], tasks[j])
	})
}

func lessTask(a, b Task) bool {
	if a.Status != b.Status {
		return a.IsPending()
	}

	switch {
	case a.DueDate != "" && b.DueDate != "" && a.DueDate != b.DueDate:
		return a.DueDate < b.DueDate
	case a.DueDate != "" && b.DueDate == "":
		return true
	case a.DueDate == "" && b.DueDate != "":
		return false
	}

	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}

	return a.CreatedAt < b.CreatedAt
}
