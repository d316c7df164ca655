package instrumented

import (
	"context"
	"log/slog"
	"time"

	"github.com/bornholm/go-x/slogx"
	"github.com/bornholm/taskmanager/internal/core/model"
	"github.com/bornholm/taskmanager/internal/core/port"
	"github.com/bornholm/taskmanager/internal/metrics"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	OperationQueryTasks  = "query_tasks"
	OperationGetTaskByID = "get_task_by_id"
	OperationCreateTask  = "create_task"
	OperationUpdateTask  = "update_task"
	OperationDeleteTask  = "delete_task"
)

type TaskStore struct {
	store port.TaskStore
}

// QueryTasks implements [port.TaskStore].
func (s *TaskStore) QueryTasks(ctx context.Context, opts port.QueryTasksOptions) ([]model.PersistedTask, error) {
	done := s.observe(ctx, OperationQueryTasks)

	tasks, err := s.store.QueryTasks(ctx, opts)
	done(err)

	if err != nil {
		return nil, errors.WithStack(err)
	}

	return tasks, nil
}

// GetTaskByID implements [port.TaskStore].
func (s *TaskStore) GetTaskByID(ctx context.Context, id model.TaskID) (model.PersistedTask, error) {
	done := s.observe(ctx, OperationGetTaskByID)

	task, err := s.store.GetTaskByID(ctx, id)
	done(err)

	if err != nil {
		return nil, errors.WithStack(err)
	}

	return task, nil
}

// CreateTask implements [port.TaskStore].
func (s *TaskStore) CreateTask(ctx context.Context, task model.Task) (model.PersistedTask, error) {
	done := s.observe(ctx, OperationCreateTask)

	created, err := s.store.CreateTask(ctx, task)
	done(err)

	if err != nil {
		return nil, errors.WithStack(err)
	}

	countEvent(metrics.EventCreated)

	return created, nil
}

// UpdateTask implements [port.TaskStore].
func (s *TaskStore) UpdateTask(ctx context.Context, id model.TaskID, task model.Task) (model.PersistedTask, error) {
	done := s.observe(ctx, OperationUpdateTask)

	updated, err := s.store.UpdateTask(ctx, id, task)
	done(err)

	if err != nil {
		return nil, errors.WithStack(err)
	}

	countEvent(metrics.EventUpdated)

	return updated, nil
}

// DeleteTask implements [port.TaskStore].
func (s *TaskStore) DeleteTask(ctx context.Context, id model.TaskID) error {
	done := s.observe(ctx, OperationDeleteTask)

	err := s.store.DeleteTask(ctx, id)
	done(err)

	if err != nil {
		return errors.WithStack(err)
	}

	countEvent(metrics.EventDeleted)

	return nil
}

func (s *TaskStore) observe(ctx context.Context, operation string) func(err error) {
	start := time.Now()

	return func(err error) {
		elapsed := time.Since(start)

		metrics.StoreOperationDuration.With(prometheus.Labels{
			metrics.LabelOperation: operation,
		}).Observe(elapsed.Seconds())

		status := metrics.StatusSuccess
		switch {
		case errors.Is(err, port.ErrNotFound):
			status = metrics.StatusNotFound
		case err != nil:
			status = metrics.StatusError
			slog.ErrorContext(ctx, "task store operation failed", slog.String("operation", operation), slogx.Error(err))
		}

		metrics.StoreOperations.With(prometheus.Labels{
			metrics.LabelOperation: operation,
			metrics.LabelStatus:    status,
		}).Inc()

		slog.DebugContext(ctx, "task store operation", slog.String("operation", operation), slog.String("status", status), slog.Duration("duration", elapsed))
	}
}

func countEvent(event string) {
	metrics.TaskEvents.With(prometheus.Labels{
		metrics.LabelEvent: event,
	}).Inc()
}

func NewTaskStore(store port.TaskStore) *TaskStore {
	return &TaskStore{
		store: store,
	}
}

var _ port.TaskStore = &TaskStore{}
