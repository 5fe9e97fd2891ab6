package jsonfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/phrazzld/taskdeck/internal/domain"
	"github.com/phrazzld/taskdeck/internal/store"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "data", "tasks.json")
	s, err := New(path,
		WithClock(func() time.Time { return fixedNow }),
		WithLockTimeout(500*time.Millisecond),
	)
	require.NoError(t, err)
	return s
}

func writeDocument(t *testing.T, s *Store, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(s.Path(), []byte(content), 0o644))
}

func readDocument(t *testing.T, s *Store) string {
	t.Helper()
	raw, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	return string(raw)
}

func reportTask() *domain.Task {
	return &domain.Task{
		ID:          "a1",
		Content:     "Write report",
		ProjectName: "Work",
		Status:      domain.StatusPending,
		DueDate:     "2024-06-20",
		Priority:    2,
		CreatedAt:   "2024-06-01",
		UpdatedAt:   "2024-06-01",
		Bucket:      domain.Bucket{Year: "2024", Month: "06"},
	}
}

func milkTask() *domain.Task {
	return &domain.Task{
		ID:          "b2",
		Content:     "Buy milk",
		ProjectName: "General",
		Comments:    "milk & eggs",
		Status:      domain.StatusCompleted,
		Priority:    4,
		CreatedAt:   "2024-06-02",
		Bucket:      domain.Bucket{Year: "2024", Month: "07"},
	}
}

func TestNew_CreatesEmptyDocument(t *testing.T) {
	s := newTestStore(t)

	assert.Equal(t, "{}\n", readDocument(t, s))

	tasks, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestNew_KeepsExistingDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"2024":{}}`), 0o644))

	_, err := New(path)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"2024":{}}`, string(raw))
}

func TestStore_GoldenDocument(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, reportTask()))
	require.NoError(t, s.Create(ctx, milkTask()))

	g := goldie.New(t)
	g.Assert(t, "document", []byte(readDocument(t, s)))
}

func TestStore_CreateAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, milkTask()))
	require.NoError(t, s.Create(ctx, reportTask()))

	tasks, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	// Bucket order, not insertion order.
	assert.Equal(t, "a1", tasks[0].ID)
	assert.Equal(t, "b2", tasks[1].ID)
	assert.Equal(t, *reportTask(), tasks[0])
	assert.Equal(t, *milkTask(), tasks[1])
}

func TestStore_CreateDuplicate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, reportTask()))
	err := s.Create(ctx, reportTask())

	assert.ErrorIs(t, err, store.ErrTaskExists)
}

func TestStore_UpdateInPlace(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, reportTask()))

	updated, err := s.Update(ctx, "a1", func(task *domain.Task) error {
		task.Status = domain.StatusCompleted
		task.UpdatedAt = "2024-06-15"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, updated.Status)

	tasks, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, domain.StatusCompleted, tasks[0].Status)
	assert.Equal(t, "2024-06-15", tasks[0].UpdatedAt)
}

func TestStore_UpdateRelocatesAndCleansUp(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, reportTask()))

	_, err := s.Update(ctx, "a1", func(task *domain.Task) error {
		task.DueDate = "2025-01-10"
		task.Bucket = domain.Bucket{Year: "2025", Month: "01"}
		return nil
	})
	require.NoError(t, err)

	doc, ok := decodeDocument([]byte(readDocument(t, s)))
	require.True(t, ok)
	assert.NotContains(t, doc, "2024", "empty year must be removed")
	require.Contains(t, doc, "2025")

	months := doc["2025"].(map[string]any)
	require.Len(t, months["01"], 1)
}

func TestStore_UpdatePreservesUnknownFields(t *testing.T) {
	s := newTestStore(t)
	writeDocument(t, s, `{
  "notes": "keep me",
  "2024": {"6": [{"id": "x1", "title": "Legacy", "color": "red", "priority": "2"}]}
}`)

	updated, err := s.Update(context.Background(), "x1", func(task *domain.Task) error {
		task.Content = "Renamed"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, domain.Bucket{Year: "2024", Month: "06"}, updated.Bucket)
	assert.Equal(t, 2, updated.Priority)

	doc, ok := decodeDocument([]byte(readDocument(t, s)))
	require.True(t, ok)
	assert.Equal(t, "keep me", doc["notes"])

	record := doc["2024"].(map[string]any)["6"].([]any)[0].(map[string]any)
	assert.Equal(t, "red", record["color"])
	assert.Equal(t, "Renamed", record["content"])
	assert.Equal(t, "Renamed", record["title"])
}

func TestStore_UpdateKeepsUnparseableCreatedAt(t *testing.T) {
	s := newTestStore(t)
	writeDocument(t, s, `{
  "2024": {"06": [
    {"id": "x1", "content": "Odd date", "createdAt": "last tuesday"},
    {"id": "x2", "content": "No date"}
  ]}
}`)
	ctx := context.Background()

	for _, id := range []string{"x1", "x2"} {
		_, err := s.Update(ctx, id, func(task *domain.Task) error {
			task.Status = domain.StatusCompleted
			return nil
		})
		require.NoError(t, err)
	}

	doc, ok := decodeDocument([]byte(readDocument(t, s)))
	require.True(t, ok)
	records := doc["2024"].(map[string]any)["06"].([]any)
	assert.Equal(t, "last tuesday", records[0].(map[string]any)["createdAt"])
	assert.NotContains(t, records[1].(map[string]any), "createdAt")
	assert.Equal(t, "completed", records[1].(map[string]any)["status"])

	_, err := s.Update(ctx, "x1", func(task *domain.Task) error {
		task.CreatedAt = "2024-06-01"
		return nil
	})
	require.NoError(t, err)
	doc, ok = decodeDocument([]byte(readDocument(t, s)))
	require.True(t, ok)
	records = doc["2024"].(map[string]any)["06"].([]any)
	assert.Equal(t, "2024-06-01", records[0].(map[string]any)["createdAt"])
}

func TestStore_WriteFailure(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.Remove(s.Path()))
	require.NoError(t, os.Mkdir(s.Path(), 0o755))

	err := s.Create(context.Background(), reportTask())
	require.Error(t, err)

	var storeErr *store.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "create", storeErr.Operation)
	assert.Equal(t, "task", storeErr.Entity)
	assert.NotErrorIs(t, err, store.ErrUpdateFailed)
}

func TestStore_UpdateErrors(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, reportTask()))
	before := readDocument(t, s)

	_, err := s.Update(ctx, "missing", func(task *domain.Task) error { return nil })
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	fnErr := errors.New("rejected")
	_, err = s.Update(ctx, "a1", func(task *domain.Task) error {
		task.Content = "should not persist"
		return fnErr
	})
	assert.ErrorIs(t, err, fnErr)
	assert.Equal(t, before, readDocument(t, s))
}

func TestStore_Delete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, reportTask()))
	require.NoError(t, s.Create(ctx, milkTask()))

	require.NoError(t, s.Delete(ctx, "b2"))

	doc, ok := decodeDocument([]byte(readDocument(t, s)))
	require.True(t, ok)
	months := doc["2024"].(map[string]any)
	assert.NotContains(t, months, "07", "empty month must be removed")
	assert.Contains(t, months, "06")

	require.NoError(t, s.Delete(ctx, "a1"))
	assert.Equal(t, "{}\n", readDocument(t, s))

	assert.ErrorIs(t, s.Delete(ctx, "a1"), store.ErrTaskNotFound)
}

func TestStore_LenientRead(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantIDs []string
	}{
		{"invalid json", `{not json`, nil},
		{"array document", `[1, 2]`, nil},
		{"empty file", ``, nil},
		{"trailing data", `{"2024": {"01": [{"id": "a", "content": "x"}]}} {"2025": {}}`, nil},
		{
			name: "skips invalid keys and records",
			content: `{
  "20x4": {"01": [{"id": "bad-year", "content": "x"}]},
  "2024": {
    "13": [{"id": "bad-month", "content": "x"}],
    "02": [{"id": "", "content": "no id"}, "not an object", {"id": "ok", "content": "kept"}],
    "1": [{"id": "early", "content": "unpadded month"}]
  },
  "2023": "not an object"
}`,
			wantIDs: []string{"early", "ok"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestStore(t)
			writeDocument(t, s, tc.content)

			tasks, err := s.List(context.Background())
			require.NoError(t, err)

			var ids []string
			for _, task := range tasks {
				ids = append(ids, task.ID)
			}
			assert.Equal(t, tc.wantIDs, ids)
		})
	}
}

func TestStore_CreateOverCorruptFile(t *testing.T) {
	s := newTestStore(t)
	writeDocument(t, s, `garbage`)

	require.NoError(t, s.Create(context.Background(), reportTask()))

	tasks, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
}

func TestStore_LockTimeout(t *testing.T) {
	s := newTestStore(t)
	s.lockTimeout = 50 * time.Millisecond

	other := flock.New(s.lockPath)
	locked, err := other.TryLock()
	require.NoError(t, err)
	require.True(t, locked)
	defer func() { _ = other.Unlock() }()

	err = s.Create(context.Background(), reportTask())
	assert.ErrorIs(t, err, store.ErrLocked)
}

func TestStore_ConcurrentCreates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			task := reportTask()
			task.ID = "t" + string(rune('a'+i))
			assert.NoError(t, s.Create(ctx, task))
		}(i)
	}
	wg.Wait()

	tasks, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 20)
}
