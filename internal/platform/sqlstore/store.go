package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskdeck/internal/domain"
	"github.com/phrazzld/taskdeck/internal/platform/logger"
	"github.com/phrazzld/taskdeck/internal/store"
)

const taskColumns = `id, content, project_name, comments, status, due_date, priority,
	created_at, updated_at, bucket_year, bucket_month`

// Store is a store.TaskStore backed by PostgreSQL or SQLite.
type Store struct {
	db      *sql.DB
	dialect Dialect
	logger  *slog.Logger
}

var _ store.TaskStore = (*Store)(nil)

// New wraps an open database. The schema must already be migrated.
func New(db *sql.DB, dialect Dialect, l *slog.Logger) *Store {
	if l == nil {
		l = slog.Default()
	}
	return &Store{
		db:      db,
		dialect: dialect,
		logger:  l.With("component", "sql_task_store", "dialect", string(dialect)),
	}
}

// DB returns the underlying connection pool.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// List implements store.TaskStore.
func (s *Store) List(ctx context.Context) ([]domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + taskColumns + ` FROM tasks
		ORDER BY bucket_year, bucket_month, created_at, id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list tasks: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", MapError(err))
	}

	return tasks, nil
}

// Create implements store.TaskStore.
func (s *Store) Create(ctx context.Context, task *domain.Task) error {
	query := s.dialect.rebind(`INSERT INTO tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := s.db.ExecContext(ctx, query,
		task.ID,
		task.Content,
		task.ProjectName,
		task.Comments,
		string(task.Status),
		nullString(task.DueDate),
		task.Priority,
		task.CreatedAt,
		nullString(task.UpdatedAt),
		task.Bucket.Year,
		task.Bucket.Month,
	)
	if err != nil {
		mapped := MapError(err)
		if store.IsDuplicateError(mapped) {
			return store.ErrTaskExists
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create task",
			slog.String("task_id", task.ID),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create task: %w", mapped)
	}

	return nil
}

// Update implements store.TaskStore. The row is read and written in one
// transaction; on PostgreSQL it is locked with FOR UPDATE.
func (s *Store) Update(ctx context.Context, id string, fn store.UpdateFn) (*domain.Task, error) {
	selectQuery := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	if s.dialect == DialectPostgres {
		selectQuery += ` FOR UPDATE`
	}
	selectQuery = s.dialect.rebind(selectQuery)

	updateQuery := s.dialect.rebind(`UPDATE tasks SET
		content = ?, project_name = ?, comments = ?, status = ?, due_date = ?,
		priority = ?, updated_at = ?, bucket_year = ?, bucket_month = ?
		WHERE id = ?`)

	var updated *domain.Task
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		current, err := loadTask(ctx, tx, selectQuery, id)
		if err != nil {
			return err
		}

		next := *current
		if err := fn(&next); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, updateQuery,
			next.Content,
			next.ProjectName,
			next.Comments,
			string(next.Status),
			nullString(next.DueDate),
			next.Priority,
			nullString(next.UpdatedAt),
			next.Bucket.Year,
			next.Bucket.Month,
			id,
		)
		if err != nil {
			return store.NewStoreError("task", "update", "failed to write task",
				fmt.Errorf("%w: %w", store.ErrUpdateFailed, MapError(err)))
		}
		if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
			return err
		}

		updated = &next
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete implements store.TaskStore.
func (s *Store) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, s.dialect.rebind(`DELETE FROM tasks WHERE id = ?`), id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete task",
			slog.String("task_id", id),
			slog.String("error", err.Error()))
		return store.NewStoreError("task", "delete", "failed to remove task",
			fmt.Errorf("%w: %w", store.ErrDeleteFailed, MapError(err)))
	}
	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// loadTask reads one task by id through q, which may be a transaction.
func loadTask(ctx context.Context, q store.DBTX, query, id string) (*domain.Task, error) {
	task, err := scanTask(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load task: %w", MapError(err))
	}
	return task, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task      domain.Task
		status    string
		dueDate   sql.NullString
		updatedAt sql.NullString
	)

	err := row.Scan(
		&task.ID,
		&task.Content,
		&task.ProjectName,
		&task.Comments,
		&status,
		&dueDate,
		&task.Priority,
		&task.CreatedAt,
		&updatedAt,
		&task.Bucket.Year,
		&task.Bucket.Month,
	)
	if err != nil {
		return nil, err
	}

	task.Status = domain.Status(status)
	task.DueDate = dueDate.String
	task.UpdatedAt = updatedAt.String
	return &task, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
