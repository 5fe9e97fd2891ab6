package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureTasks() []Task {
	return []Task{
		{ID: "a", Content: "overdue", ProjectName: "Work", Status: StatusPending, DueDate: "2024-06-10", Priority: 2, CreatedAt: "2024-06-01", Bucket: Bucket{"2024", "06"}},
		{ID: "b", Content: "due today", ProjectName: "Home", Status: StatusPending, DueDate: testToday, Priority: 1, CreatedAt: "2024-06-02", Bucket: Bucket{"2024", "06"}},
		{ID: "c", Content: "next month", ProjectName: "work", Status: StatusPending, DueDate: "2024-07-04", Priority: 3, CreatedAt: "2024-06-03", Bucket: Bucket{"2024", "07"}},
		{ID: "d", Content: "undated", ProjectName: "General", Status: StatusPending, Priority: 1, CreatedAt: "2024-06-04", Bucket: Bucket{"2024", "06"}},
		{ID: "e", Content: "done", ProjectName: "Work", Status: StatusCompleted, DueDate: "2024-06-01", Priority: 4, CreatedAt: "2024-05-20", Bucket: Bucket{"2024", "06"}},
		{ID: "", Content: "broken", Status: StatusPending, Bucket: Bucket{"2024", "06"}},
	}
}

func ids(tasks []Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestFilterTasks_Views(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		query     TaskQuery
		wantView  View
		wantIDs   []string
		wantYear  string
		wantMonth string
	}{
		{
			name:     "default inbox",
			query:    TaskQuery{},
			wantView: ViewInbox,
			wantIDs:  []string{"a", "b", "c", "d"},
		},
		{
			name:     "today",
			query:    TaskQuery{View: "today"},
			wantView: ViewToday,
			wantIDs:  []string{"b"},
		},
		{
			name:     "upcoming",
			query:    TaskQuery{View: "Upcoming"},
			wantView: ViewUpcoming,
			wantIDs:  []string{"c"},
		},
		{
			name:     "completed",
			query:    TaskQuery{View: "completed"},
			wantView: ViewCompleted,
			wantIDs:  []string{"e"},
		},
		{
			name:      "bucket implies month view",
			query:     TaskQuery{Year: "2024", Month: "7"},
			wantView:  ViewMonth,
			wantIDs:   []string{"c"},
			wantYear:  "2024",
			wantMonth: "07",
		},
		{
			name:      "month view defaults to current month",
			query:     TaskQuery{View: "month"},
			wantView:  ViewMonth,
			wantIDs:   []string{"a", "b", "d", "e"},
			wantYear:  "2024",
			wantMonth: "06",
		},
		{
			name:      "explicit view with bucket keeps bucket in result",
			query:     TaskQuery{View: "inbox", Year: "2024", Month: "06"},
			wantView:  ViewInbox,
			wantIDs:   []string{"a", "b", "c", "d"},
			wantYear:  "2024",
			wantMonth: "06",
		},
		{
			name:     "project filter is case-insensitive",
			query:    TaskQuery{ProjectName: "WORK"},
			wantView: ViewInbox,
			wantIDs:  []string{"a", "c"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			list, err := FilterTasks(fixtureTasks(), tc.query, testToday)
			require.NoError(t, err)

			assert.Equal(t, tc.wantView, list.View)
			assert.Equal(t, tc.wantIDs, ids(list.Tasks))
			assert.Equal(t, tc.wantYear, list.Year)
			assert.Equal(t, tc.wantMonth, list.Month)
		})
	}
}

func TestFilterTasks_ProjectFolding(t *testing.T) {
	tasks := []Task{
		{ID: "s1", Content: "street", ProjectName: "Straße", Status: StatusCompleted, Bucket: Bucket{"2024", "06"}},
		{ID: "s2", Content: "other", ProjectName: "Strasse Nord", Status: StatusCompleted, Bucket: Bucket{"2024", "06"}},
	}

	list, err := FilterTasks(tasks, TaskQuery{View: "completed", ProjectName: " STRASSE "}, testToday)
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, ids(list.Tasks))
}

func TestFilterTasks_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		query   TaskQuery
		message string
	}{
		{"year without month", TaskQuery{Year: "2024"}, MsgIncompleteBucket},
		{"month without year", TaskQuery{Month: "02"}, MsgIncompleteBucket},
		{"bad year", TaskQuery{Year: "24", Month: "02"}, MsgInvalidBucket},
		{"bad month", TaskQuery{Year: "2024", Month: "00"}, MsgInvalidBucket},
		{"unknown view", TaskQuery{View: "someday"}, MsgInvalidView},
		{"incomplete bucket checked before view", TaskQuery{View: "someday", Year: "2024"}, MsgIncompleteBucket},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			list, err := FilterTasks(fixtureTasks(), tc.query, testToday)
			assert.Nil(t, list)

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.message, vErr.Message)
		})
	}
}

func TestSortTasks(t *testing.T) {
	t.Parallel()

	tasks := []Task{
		{ID: "done", Status: StatusCompleted, DueDate: "2024-01-01", Priority: 1, CreatedAt: "2024-01-01"},
		{ID: "undated-p1", Status: StatusPending, Priority: 1, CreatedAt: "2024-01-01"},
		{ID: "late", Status: StatusPending, DueDate: "2024-03-01", Priority: 4, CreatedAt: "2024-01-01"},
		{ID: "early", Status: StatusPending, DueDate: "2024-02-01", Priority: 4, CreatedAt: "2024-01-01"},
		{ID: "same-day-p2", Status: StatusPending, DueDate: "2024-02-01", Priority: 2, CreatedAt: "2024-01-05"},
		{ID: "undated-p1-newer", Status: StatusPending, Priority: 1, CreatedAt: "2024-01-09"},
		{ID: "undated-p1-tie", Status: StatusPending, Priority: 1, CreatedAt: "2024-01-01"},
	}

	SortTasks(tasks)

	assert.Equal(t, []string{
		"same-day-p2",
		"early",
		"late",
		"undated-p1",
		"undated-p1-tie",
		"undated-p1-newer",
		"done",
	}, ids(tasks))
}

func TestParseView(t *testing.T) {
	t.Parallel()

	v, ok := ParseView(" TODAY ")
	assert.True(t, ok)
	assert.Equal(t, ViewToday, v)

	_, ok = ParseView("later")
	assert.False(t, ok)
}

func TestSummarizeProjects(t *testing.T) {
	t.Parallel()

	tasks := append(fixtureTasks(),
		Task{ID: "f", Content: "zeta", ProjectName: "Zeta", Status: StatusPending},
		Task{ID: "g", Content: "apple", ProjectName: "apple", Status: StatusCompleted},
	)

	summaries := SummarizeProjects(tasks)

	assert.Equal(t, []ProjectSummary{
		{Name: "apple", Total: 1, Pending: 0, Completed: 1},
		{Name: "General", Total: 1, Pending: 1, Completed: 0},
		{Name: "Home", Total: 1, Pending: 1, Completed: 0},
		{Name: "work", Total: 1, Pending: 1, Completed: 0},
		{Name: "Work", Total: 2, Pending: 1, Completed: 1},
		{Name: "Zeta", Total: 1, Pending: 1, Completed: 0},
	}, summaries)
}

func TestSummarizeProjects_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, SummarizeProjects(nil))
}
