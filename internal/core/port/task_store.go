package port

import (
	"context"

	"github.com/bornholm/taskmanager/internal/core/model"
	"github.com/pkg/errors"
)

type TaskStore interface {
	// QueryTasks returns the persisted tasks matching the given options, ordered by ascending id.
	// Options rejected by QueryTasksOptions.Validate yield port.ErrInvalidQuery
	QueryTasks(ctx context.Context, opts QueryTasksOptions) ([]model.PersistedTask, error)

	// GetTaskByID returns the task with the given id, or port.ErrNotFound
	GetTaskByID(ctx context.Context, id model.TaskID) (model.PersistedTask, error)

	// CreateTask persists a new task and assigns its id
	CreateTask(ctx context.Context, task model.Task) (model.PersistedTask, error)

	// UpdateTask replaces the mutable fields of an existing task, or returns port.ErrNotFound
	UpdateTask(ctx context.Context, id model.TaskID, task model.Task) (model.PersistedTask, error)

	// DeleteTask removes the task with the given id, or returns port.ErrNotFound
	DeleteTask(ctx context.Context, id model.TaskID) error
}

type QueryTasksOptions struct {
	Page  *int
	Limit *int

	Completed *bool
}

// Offset returns the number of tasks to skip, or 0 when no pagination is requested.
func (o QueryTasksOptions) Offset() int {
	if o.Page == nil || o.Limit == nil {
		return 0
	}

	return *o.Page * *o.Limit
}

// Validate returns port.ErrInvalidQuery when the page or limit is negative.
func (o QueryTasksOptions) Validate() error {
	if o.Page != nil && *o.Page < 0 {
		return errors.Wrapf(ErrInvalidQuery, "page must not be negative, got %d", *o.Page)
	}

	if o.Limit != nil && *o.Limit < 0 {
		return errors.Wrapf(ErrInvalidQuery, "limit must not be negative, got %d", *o.Limit)
	}

	return nil
}
