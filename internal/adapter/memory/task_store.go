package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/bornholm/taskmanager/internal/core/model"
	"github.com/bornholm/taskmanager/internal/core/port"
	"github.com/pkg/errors"
)

type TaskStore struct {
	mutex  sync.RWMutex
	nextID model.TaskID
	tasks  map[model.TaskID]*storedTask
}

// QueryTasks implements [port.TaskStore].
func (s *TaskStore) QueryTasks(ctx context.Context, opts port.QueryTasksOptions) ([]model.PersistedTask, error) {
	if err := opts.Validate(); err != nil {
		return nil, errors.WithStack(err)
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	ids := make([]model.TaskID, 0, len(s.tasks))
	for id, t := range s.tasks {
		if opts.Completed != nil && t.completed != *opts.Completed {
			continue
		}

		ids = append(ids, id)
	}

	slices.Sort(ids)

	if opts.Limit != nil {
		offset := min(opts.Offset(), len(ids))
		end := min(offset+*opts.Limit, len(ids))
		ids = ids[offset:end]
	}

	tasks := make([]model.PersistedTask, 0, len(ids))
	for _, id := range ids {
		tasks = append(tasks, s.tasks[id].clone())
	}

	return tasks, nil
}

// GetTaskByID implements [port.TaskStore].
func (s *TaskStore) GetTaskByID(ctx context.Context, id model.TaskID) (model.PersistedTask, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	t, exists := s.tasks[id]
	if !exists {
		return nil, errors.WithStack(port.ErrNotFound)
	}

	return t.clone(), nil
}

// CreateTask implements [port.TaskStore].
func (s *TaskStore) CreateTask(ctx context.Context, task model.Task) (model.PersistedTask, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.nextID++

	now := time.Now()

	t := &storedTask{
		id:          s.nextID,
		title:       task.Title(),
		description: task.Description(),
		completed:   task.Completed(),
		createdAt:   now,
		updatedAt:   now,
	}

	s.tasks[t.id] = t

	return t.clone(), nil
}

// UpdateTask implements [port.TaskStore].
func (s *TaskStore) UpdateTask(ctx context.Context, id model.TaskID, task model.Task) (model.PersistedTask, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	t, exists := s.tasks[id]
	if !exists {
		return nil, errors.WithStack(port.ErrNotFound)
	}

	t.title = task.Title()
	t.description = task.Description()
	t.completed = task.Completed()
	t.updatedAt = time.Now()

	return t.clone(), nil
}

// DeleteTask implements [port.TaskStore].
func (s *TaskStore) DeleteTask(ctx context.Context, id model.TaskID) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.tasks[id]; !exists {
		return errors.WithStack(port.ErrNotFound)
	}

	delete(s.tasks, id)

	return nil
}

func NewTaskStore() *TaskStore {
	return &TaskStore{
		tasks: make(map[model.TaskID]*storedTask),
	}
}

var _ port.TaskStore = &TaskStore{}

type storedTask struct {
	id          model.TaskID
	title       string
	description string
	completed   bool
	createdAt   time.Time
	updatedAt   time.Time
}

func (t *storedTask) clone() *storedTask {
	cloned := *t
	return &cloned
}

// ID implements [model.PersistedTask].
func (t *storedTask) ID() model.TaskID {
	return t.id
}

// Title implements [model.PersistedTask].
func (t *storedTask) Title() string {
	return t.title
}

// Description implements [model.PersistedTask].
func (t *storedTask) Description() string {
	return t.description
}

// Completed implements [model.PersistedTask].
func (t *storedTask) Completed() bool {
	return t.completed
}

// CreatedAt implements [model.PersistedTask].
func (t *storedTask) CreatedAt() time.Time {
	return t.createdAt
}

// UpdatedAt implements [model.PersistedTask].
func (t *storedTask) UpdatedAt() time.Time {
	return t.updatedAt
}

var _ model.PersistedTask = &storedTask{}
