package cache_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bornholm/taskmanager/internal/adapter/cache"
	"github.com/bornholm/taskmanager/internal/adapter/memory"
	"github.com/bornholm/taskmanager/internal/core/model"
	"github.com/bornholm/taskmanager/internal/core/port"
	"github.com/bornholm/taskmanager/internal/core/port/testsuite"
	"github.com/pkg/errors"
)

func TestTaskStore(t *testing.T) {
	testsuite.TestTaskStore(t, func(t *testing.T) (port.TaskStore, error) {
		return cache.NewTaskStore(memory.NewTaskStore(), 100, time.Minute), nil
	})
}

func TestTaskStoreCaching(t *testing.T) {
	backend := &spyStore{TaskStore: memory.NewTaskStore()}
	store := cache.NewTaskStore(backend, 100, time.Minute)

	ctx := context.Background()

	created, err := store.CreateTask(ctx, model.NewTask("A", "", false))
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	for range 3 {
		if _, err := store.GetTaskByID(ctx, created.ID()); err != nil {
			t.Fatalf("%+v", errors.WithStack(err))
		}
	}

	if e, g := 0, backend.gets; e != g {
		t.Errorf("backend.gets: expected %d, got %d", e, g)
	}

	if _, err := store.UpdateTask(ctx, created.ID(), model.NewTask("B", "", true)); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	fetched, err := store.GetTaskByID(ctx, created.ID())
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := "B", fetched.Title(); e != g {
		t.Errorf("fetched.Title(): expected %s, got %s", e, g)
	}

	if e, g := 1, backend.gets; e != g {
		t.Errorf("backend.gets: expected %d, got %d", e, g)
	}

	if err := store.DeleteTask(ctx, created.ID()); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if _, err := store.GetTaskByID(ctx, created.ID()); !errors.Is(err, port.ErrNotFound) {
		t.Errorf("err: expected port.ErrNotFound, got %+v", err)
	}

	if e, g := 2, backend.gets; e != g {
		t.Errorf("backend.gets: expected %d, got %d", e, g)
	}
}

func TestTaskStoreExpiration(t *testing.T) {
	backend := &spyStore{TaskStore: memory.NewTaskStore()}
	store := cache.NewTaskStore(backend, 100, 10*time.Millisecond)

	ctx := context.Background()

	created, err := store.CreateTask(ctx, model.NewTask("A", "", false))
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	time.Sleep(50 * time.Millisecond)

	if _, err := store.GetTaskByID(ctx, created.ID()); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := 1, backend.gets; e != g {
		t.Errorf("backend.gets: expected %d, got %d", e, g)
	}
}

func TestTaskStoreConcurrentDelete(t *testing.T) {
	backend := &blockingStore{
		TaskStore: memory.NewTaskStore(),
		read:      make(chan struct{}),
		release:   make(chan struct{}),
	}
	store := cache.NewTaskStore(backend, 100, time.Minute)

	ctx := context.Background()

	created, err := backend.CreateTask(ctx, model.NewTask("A", "", false))
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	backend.block.Store(true)

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()

		if _, err := store.GetTaskByID(ctx, created.ID()); err != nil {
			t.Errorf("%+v", errors.WithStack(err))
		}
	}()

	// Wait for the reader to fetch the row before deleting it
	<-backend.read

	if err := store.DeleteTask(ctx, created.ID()); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	close(backend.release)
	wg.Wait()

	if _, err := store.GetTaskByID(ctx, created.ID()); !errors.Is(err, port.ErrNotFound) {
		t.Errorf("err: expected port.ErrNotFound, got %+v", err)
	}
}

func TestTaskStoreConcurrentUpdate(t *testing.T) {
	backend := &blockingStore{
		TaskStore: memory.NewTaskStore(),
		read:      make(chan struct{}),
		release:   make(chan struct{}),
	}
	store := cache.NewTaskStore(backend, 100, time.Minute)

	ctx := context.Background()

	created, err := backend.CreateTask(ctx, model.NewTask("A", "", false))
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	backend.block.Store(true)

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()

		if _, err := store.GetTaskByID(ctx, created.ID()); err != nil {
			t.Errorf("%+v", errors.WithStack(err))
		}
	}()

	<-backend.read

	if _, err := store.UpdateTask(ctx, created.ID(), model.NewTask("B", "", true)); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	close(backend.release)
	wg.Wait()

	fetched, err := store.GetTaskByID(ctx, created.ID())
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := "B", fetched.Title(); e != g {
		t.Errorf("fetched.Title(): expected %s, got %s", e, g)
	}

	if e, g := true, fetched.Completed(); e != g {
		t.Errorf("fetched.Completed(): expected %v, got %v", e, g)
	}
}

// blockingStore suspends the first GetTaskByID call after the row has been
// read, until release is closed.
type blockingStore struct {
	*memory.TaskStore
	block   atomic.Bool
	read    chan struct{}
	release chan struct{}
}

// GetTaskByID implements [port.TaskStore].
func (s *blockingStore) GetTaskByID(ctx context.Context, id model.TaskID) (model.PersistedTask, error) {
	task, err := s.TaskStore.GetTaskByID(ctx, id)

	if s.block.CompareAndSwap(true, false) {
		close(s.read)
		<-s.release
	}

	return task, err
}

var _ port.TaskStore = &blockingStore{}

type spyStore struct {
	*memory.TaskStore
	gets int
}

// GetTaskByID implements [port.TaskStore].
func (s *spyStore) GetTaskByID(ctx context.Context, id model.TaskID) (model.PersistedTask, error) {
	s.gets++
	return s.TaskStore.GetTaskByID(ctx, id)
}

var _ port.TaskStore = &spyStore{}
