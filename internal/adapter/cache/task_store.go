package cache

import (
	"context"
	"sync"
	"time"

	"github.com/bornholm/taskmanager/internal/core/model"
	"github.com/bornholm/taskmanager/internal/core/port"
	"github.com/bornholm/taskmanager/internal/metrics"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// TaskStore caches tasks retrieved by identifier. Queries always hit the
// backend since their results depend on the whole dataset.
type TaskStore struct {
	backend port.TaskStore
	cache   *expirable.LRU[model.TaskID, *CachedTask]

	// generation is incremented by every write reaching the backend. A read
	// only fills the cache if no write happened while it was in flight.
	mutex      sync.Mutex
	generation uint64
}

// QueryTasks implements [port.TaskStore].
func (s *TaskStore) QueryTasks(ctx context.Context, opts port.QueryTasksOptions) ([]model.PersistedTask, error) {
	tasks, err := s.backend.QueryTasks(ctx, opts)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return tasks, nil
}

// GetTaskByID implements [port.TaskStore].
func (s *TaskStore) GetTaskByID(ctx context.Context, id model.TaskID) (model.PersistedTask, error) {
	if task, exists := s.cache.Get(id); exists {
		countLookup(metrics.ResultHit)
		return task, nil
	}

	countLookup(metrics.ResultMiss)

	start := s.currentGeneration()

	task, err := s.backend.GetTaskByID(ctx, id)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	cached := NewCachedTask(task)
	s.addIfUnchanged(start, cached)

	return cached, nil
}

// CreateTask implements [port.TaskStore].
func (s *TaskStore) CreateTask(ctx context.Context, task model.Task) (model.PersistedTask, error) {
	start := s.currentGeneration()

	created, err := s.backend.CreateTask(ctx, task)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	cached := NewCachedTask(created)
	s.addIfUnchanged(start, cached)

	return cached, nil
}

// UpdateTask implements [port.TaskStore].
func (s *TaskStore) UpdateTask(ctx context.Context, id model.TaskID, task model.Task) (model.PersistedTask, error) {
	updated, err := s.backend.UpdateTask(ctx, id, task)

	// Concurrent updates may complete out of order, so the entry is dropped
	// rather than replaced.
	s.invalidate(id)

	if err != nil {
		return nil, errors.WithStack(err)
	}

	return NewCachedTask(updated), nil
}

// DeleteTask implements [port.TaskStore].
func (s *TaskStore) DeleteTask(ctx context.Context, id model.TaskID) error {
	err := s.backend.DeleteTask(ctx, id)

	s.invalidate(id)

	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func (s *TaskStore) currentGeneration() uint64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.generation
}

func (s *TaskStore) addIfUnchanged(start uint64, task *CachedTask) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.generation != start {
		return
	}

	s.cache.Add(task.ID(), task)
}

func (s *TaskStore) invalidate(id model.TaskID) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.generation++
	s.cache.Remove(id)
}

func countLookup(result string) {
	metrics.CacheLookups.With(prometheus.Labels{
		metrics.LabelResult: result,
	}).Inc()
}

func NewTaskStore(backend port.TaskStore, size int, ttl time.Duration) *TaskStore {
	return &TaskStore{
		backend: backend,
		cache:   expirable.NewLRU[model.TaskID, *CachedTask](size, nil, ttl),
	}
}

var _ port.TaskStore = &TaskStore{}
