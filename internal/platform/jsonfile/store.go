package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/phrazzld/taskdeck/internal/domain"
	"github.com/phrazzld/taskdeck/internal/platform/logger"
	"github.com/phrazzld/taskdeck/internal/store"
)

const (
	defaultLockTimeout = 5 * time.Second
	lockRetryDelay     = 10 * time.Millisecond
	emptyDocument      = "{}\n"
)

// Store is a store.TaskStore backed by a JSON file.
type Store struct {
	path        string
	lockPath    string
	lockTimeout time.Duration
	now         func() time.Time
	logger      *slog.Logger

	// mu serializes access within the process; the file lock covers other
	// processes.
	mu sync.RWMutex
}

var _ store.TaskStore = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithLockTimeout bounds how long an operation waits for the file lock.
func WithLockTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.lockTimeout = d
		}
	}
}

// WithClock sets the clock used for defaults when reading records.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the store's logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Store for the document at path, creating the file and its
// directory if they do not exist.
func New(path string, opts ...Option) (*Store, error) {
	s := &Store{
		path:        path,
		lockPath:    path + ".lock",
		lockTimeout: defaultLockTimeout,
		now:         time.Now,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "jsonfile_store")

	if err := s.EnsureFile(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the location of the document.
func (s *Store) Path() string {
	return s.path
}

// EnsureFile creates the document with an empty object if it is missing.
func (s *Store) EnsureFile() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	_, err := os.Stat(s.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to stat task file: %w", err)
	}

	if err := os.WriteFile(s.path, []byte(emptyDocument), 0o644); err != nil {
		return fmt.Errorf("failed to create task file: %w", err)
	}
	s.logger.Info("created task file", slog.String("path", s.path))
	return nil
}

// Close is a no-op; the file is opened per operation.
func (s *Store) Close() error {
	return nil
}

// List implements store.TaskStore.
func (s *Store) List(ctx context.Context) ([]domain.Task, error) {
	var tasks []domain.Task
	err := s.query(ctx, func(doc document) error {
		tasks = doc.tasks(domain.Today(s.now()))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// Create implements store.TaskStore.
func (s *Store) Create(ctx context.Context, task *domain.Task) error {
	return s.mutate(ctx, "create", nil, func(doc document) error {
		if _, exists := doc.find(task.ID); exists {
			return store.ErrTaskExists
		}
		doc.append(task.Bucket, recordFromTask(*task, nil))
		return nil
	})
}

// Update implements store.TaskStore.
func (s *Store) Update(ctx context.Context, id string, fn store.UpdateFn) (*domain.Task, error) {
	var updated domain.Task
	err := s.mutate(ctx, "update", store.ErrUpdateFailed, func(doc document) error {
		loc, ok := doc.find(id)
		if !ok {
			return store.ErrTaskNotFound
		}

		current := domain.NormalizeRecord(domain.Payload(loc.record), loc.bucket, domain.Today(s.now()))
		next := current
		if err := fn(&next); err != nil {
			return err
		}

		record := recordFromTask(next, loc.record)
		if next.CreatedAt == current.CreatedAt {
			keepStoredCreatedAt(record, loc.record)
		}
		if next.Bucket == loc.bucket {
			doc.replace(loc, record)
		} else {
			doc.remove(loc)
			doc.append(next.Bucket, record)
		}

		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete implements store.TaskStore.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.mutate(ctx, "delete", store.ErrDeleteFailed, func(doc document) error {
		loc, ok := doc.find(id)
		if !ok {
			return store.ErrTaskNotFound
		}
		doc.remove(loc)
		return nil
	})
}

// query runs fn against the current document under a shared lock.
func (s *Store) query(ctx context.Context, fn func(doc document) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	unlock, err := s.lock(ctx, false)
	if err != nil {
		return err
	}
	defer unlock()

	return fn(s.read(ctx))
}

// mutate runs fn against the current document under an exclusive lock and
// writes the result back when fn succeeds. A failed write is reported as a
// store.StoreError for op, wrapping failed when it is set.
func (s *Store) mutate(ctx context.Context, op string, failed error, fn func(doc document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.lock(ctx, true)
	if err != nil {
		return err
	}
	defer unlock()

	doc := s.read(ctx)
	if err := fn(doc); err != nil {
		return err
	}
	if err := s.write(doc); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to write task file",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		if failed != nil {
			err = fmt.Errorf("%w: %w", failed, err)
		}
		return store.NewStoreError("task", op, "failed to write task file", err)
	}
	return nil
}

func (s *Store) lock(ctx context.Context, exclusive bool) (func(), error) {
	fl := flock.New(s.lockPath)

	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	var (
		locked bool
		err    error
	)
	if exclusive {
		locked, err = fl.TryLockContext(lockCtx, lockRetryDelay)
	} else {
		locked, err = fl.TryRLockContext(lockCtx, lockRetryDelay)
	}
	if err != nil || !locked {
		if err == nil {
			err = lockCtx.Err()
		}
		return nil, fmt.Errorf("%w: could not lock %s: %v", store.ErrLocked, filepath.Base(s.path), err)
	}

	return func() {
		if err := fl.Unlock(); err != nil {
			s.logger.Warn("failed to release task file lock", slog.String("error", err.Error()))
		}
	}, nil
}

// read loads the document. A missing, unreadable or malformed file reads as
// an empty document.
func (s *Store) read(ctx context.Context) document {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.FromContextOrDefault(ctx, s.logger).Warn("failed to read task file, treating as empty",
				slog.String("error", err.Error()))
		}
		return document{}
	}

	doc, ok := decodeDocument(raw)
	if !ok {
		logger.FromContextOrDefault(ctx, s.logger).Warn("task file is not a JSON object, treating as empty")
	}
	return doc
}

// write replaces the document atomically: temp file, fsync, rename.
func (s *Store) write(doc document) error {
	data, err := doc.encode()
	if err != nil {
		return fmt.Errorf("failed to encode task file: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".tasks-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if err := tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("failed to set temp file mode: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to replace task file: %w", err)
	}

	success = true
	return nil
}
