package gorm

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/bornholm/go-x/slogx"
	"github.com/bornholm/taskmanager/internal/core/model"
	"github.com/bornholm/taskmanager/internal/core/port"
	"github.com/ncruces/go-sqlite3"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type TaskStore struct {
	getDatabase func(ctx context.Context) (*gorm.DB, error)
}

// QueryTasks implements [port.TaskStore].
func (s *TaskStore) QueryTasks(ctx context.Context, opts port.QueryTasksOptions) ([]model.PersistedTask, error) {
	if err := opts.Validate(); err != nil {
		return nil, errors.WithStack(err)
	}

	var tasks []*Task

	err := s.withRetry(ctx, func(ctx context.Context, db *gorm.DB) error {
		query := db.Model(&Task{}).Order("id asc")

		if opts.Completed != nil {
			query = query.Where("completed = ?", *opts.Completed)
		}

		if opts.Limit != nil {
			query = query.Limit(*opts.Limit).Offset(opts.Offset())
		}

		if err := query.Find(&tasks).Error; err != nil {
			return errors.WithStack(err)
		}

		return nil
	}, sqlite3.LOCKED, sqlite3.BUSY)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	persisted := make([]model.PersistedTask, 0, len(tasks))
	for _, t := range tasks {
		persisted = append(persisted, &wrappedTask{t})
	}

	return persisted, nil
}

// GetTaskByID implements [port.TaskStore].
func (s *TaskStore) GetTaskByID(ctx context.Context, id model.TaskID) (model.PersistedTask, error) {
	var task Task

	err := s.withRetry(ctx, func(ctx context.Context, db *gorm.DB) error {
		if err := db.First(&task, "id = ?", int64(id)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.WithStack(port.ErrNotFound)
			}

			return errors.WithStack(err)
		}

		return nil
	}, sqlite3.LOCKED, sqlite3.BUSY)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &wrappedTask{&task}, nil
}

// CreateTask implements [port.TaskStore].
func (s *TaskStore) CreateTask(ctx context.Context, task model.Task) (model.PersistedTask, error) {
	var created Task
	applyTask(&created, task)

	err := s.withRetry(ctx, func(ctx context.Context, db *gorm.DB) error {
		// Reset on retry so the database assigns a fresh identifier
		created.ID = 0

		if err := db.Create(&created).Error; err != nil {
			return errors.WithStack(err)
		}

		return nil
	}, sqlite3.LOCKED, sqlite3.BUSY)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &wrappedTask{&created}, nil
}

// UpdateTask implements [port.TaskStore].
func (s *TaskStore) UpdateTask(ctx context.Context, id model.TaskID, task model.Task) (model.PersistedTask, error) {
	var updated Task

	err := s.withRetry(ctx, func(ctx context.Context, db *gorm.DB) error {
		if err := db.First(&updated, "id = ?", int64(id)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.WithStack(port.ErrNotFound)
			}

			return errors.WithStack(err)
		}

		applyTask(&updated, task)

		if err := db.Save(&updated).Error; err != nil {
			return errors.WithStack(err)
		}

		return nil
	}, sqlite3.LOCKED, sqlite3.BUSY)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &wrappedTask{&updated}, nil
}

// DeleteTask implements [port.TaskStore].
func (s *TaskStore) DeleteTask(ctx context.Context, id model.TaskID) error {
	err := s.withRetry(ctx, func(ctx context.Context, db *gorm.DB) error {
		res := db.Delete(&Task{}, "id = ?", int64(id))
		if res.Error != nil {
			return errors.WithStack(res.Error)
		}

		if res.RowsAffected == 0 {
			return errors.WithStack(port.ErrNotFound)
		}

		return nil
	}, sqlite3.LOCKED, sqlite3.BUSY)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func (s *TaskStore) withRetry(ctx context.Context, fn func(ctx context.Context, db *gorm.DB) error, codes ...sqlite3.ErrorCode) error {
	db, err := s.getDatabase(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	backoff := 500 * time.Millisecond
	maxRetries := 10
	retries := 0

	for {
		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := fn(ctx, tx); err != nil {
				return errors.WithStack(err)
			}

			return nil
		})
		if err != nil {
			if retries >= maxRetries {
				return errors.WithStack(err)
			}

			var sqliteErr *sqlite3.Error
			if errors.As(err, &sqliteErr) {
				if !slices.Contains(codes, sqliteErr.Code()) {
					return errors.WithStack(err)
				}

				slog.DebugContext(ctx, "transaction failed, will retry", slog.Int("retries", retries), slog.Duration("backoff", backoff), slogx.Error(err))

				retries++

				select {
				case <-ctx.Done():
					return errors.WithStack(ctx.Err())
				case <-time.After(backoff):
				}

				backoff *= 2
				continue
			}

			return errors.WithStack(err)
		}

		return nil
	}
}

func NewTaskStore(db *gorm.DB) *TaskStore {
	return &TaskStore{
		getDatabase: createGetDatabase(db, &Task{}),
	}
}

var _ port.TaskStore = &TaskStore{}

func createGetDatabase(db *gorm.DB, models ...any) func(ctx context.Context) (*gorm.DB, error) {
	var (
		migrateOnce sync.Once
		migrateErr  error
	)

	return func(ctx context.Context) (*gorm.DB, error) {
		migrateOnce.Do(func() {
			if err := db.AutoMigrate(models...); err != nil {
				migrateErr = errors.WithStack(err)
				return
			}
		})
		if migrateErr != nil {
			return nil, errors.WithStack(migrateErr)
		}

		return db, nil
	}
}
