package testsuite

import (
	"context"
	"fmt"
	"testing"

	"github.com/bornholm/taskmanager/internal/core/model"
	"github.com/bornholm/taskmanager/internal/core/port"
	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
)

func TestTaskStore(t *testing.T, factory func(t *testing.T) (port.TaskStore, error)) {
	type testCase struct {
		Name string
		Run  func(t *testing.T, ctx context.Context, store port.TaskStore) error
	}

	var testCases []testCase = []testCase{
		{
			Name: "EmptyQuery",
			Run: func(t *testing.T, ctx context.Context, store port.TaskStore) error {
				tasks, err := store.QueryTasks(ctx, port.QueryTasksOptions{})
				if err != nil {
					return errors.WithStack(err)
				}

				if e, g := 0, len(tasks); e != g {
					t.Errorf("len(tasks): expected %d, got %d", e, g)
				}

				return nil
			},
		},
		{
			Name: "CreateThenGet",
			Run: func(t *testing.T, ctx context.Context, store port.TaskStore) error {
				created, err := store.CreateTask(ctx, model.NewTask("A", "first task", false))
				if err != nil {
					return errors.WithStack(err)
				}

				t.Logf("created: %s", spew.Sdump(toSnapshot(created)))

				if created.ID() == 0 {
					t.Errorf("created.ID(): should not be zero")
				}

				if e, g := "A", created.Title(); e != g {
					t.Errorf("created.Title(): expected %s, got %s", e, g)
				}

				if created.CreatedAt().IsZero() {
					t.Errorf("created.CreatedAt(): should not be zero")
				}

				fetched, err := store.GetTaskByID(ctx, created.ID())
				if err != nil {
					return errors.WithStack(err)
				}

				if e, g := toSnapshot(created), toSnapshot(fetched); e != g {
					t.Errorf("fetched: expected %+v, got %+v", e, g)
				}

				return nil
			},
		},
		{
			Name: "CreateAssignsDistinctIDs",
			Run: func(t *testing.T, ctx context.Context, store port.TaskStore) error {
				seen := map[model.TaskID]struct{}{}

				for i := range 5 {
					created, err := store.CreateTask(ctx, model.NewTask(fmt.Sprintf("task %d", i), "", false))
					if err != nil {
						return errors.WithStack(err)
					}

					if _, exists := seen[created.ID()]; exists {
						t.Errorf("id %d assigned twice", created.ID())
					}

					seen[created.ID()] = struct{}{}
				}

				tasks, err := store.QueryTasks(ctx, port.QueryTasksOptions{})
				if err != nil {
					return errors.WithStack(err)
				}

				if e, g := 5, len(tasks); e != g {
					t.Fatalf("len(tasks): expected %d, got %d", e, g)
				}

				for i := 1; i < len(tasks); i++ {
					if tasks[i-1].ID() >= tasks[i].ID() {
						t.Errorf("tasks should be ordered by ascending id, got %d before %d", tasks[i-1].ID(), tasks[i].ID())
					}
				}

				return nil
			},
		},
		{
			Name: "GetUnknown",
			Run: func(t *testing.T, ctx context.Context, store port.TaskStore) error {
				_, err := store.GetTaskByID(ctx, -1)
				if !errors.Is(err, port.ErrNotFound) {
					t.Errorf("err: expected port.ErrNotFound, got %+v", err)
				}

				return nil
			},
		},
		{
			Name: "Update",
			Run: func(t *testing.T, ctx context.Context, store port.TaskStore) error {
				created, err := store.CreateTask(ctx, model.NewTask("A", "before", false))
				if err != nil {
					return errors.WithStack(err)
				}

				updated, err := store.UpdateTask(ctx, created.ID(), model.NewTask("B", "after", true))
				if err != nil {
					return errors.WithStack(err)
				}

				if e, g := created.ID(), updated.ID(); e != g {
					t.Errorf("updated.ID(): expected %d, got %d", e, g)
				}

				fetched, err := store.GetTaskByID(ctx, created.ID())
				if err != nil {
					return errors.WithStack(err)
				}

				if e, g := "B", fetched.Title(); e != g {
					t.Errorf("fetched.Title(): expected %s, got %s", e, g)
				}

				if e, g := "after", fetched.Description(); e != g {
					t.Errorf("fetched.Description(): expected %s, got %s", e, g)
				}

				if e, g := true, fetched.Completed(); e != g {
					t.Errorf("fetched.Completed(): expected %v, got %v", e, g)
				}

				if e, g := created.ID(), fetched.ID(); e != g {
					t.Errorf("fetched.ID(): expected %d, got %d", e, g)
				}

				if e, g := created.CreatedAt().Unix(), fetched.CreatedAt().Unix(); e != g {
					t.Errorf("fetched.CreatedAt().Unix(): expected %d, got %d", e, g)
				}

				return nil
			},
		},
		{
			Name: "UpdateUnknown",
			Run: func(t *testing.T, ctx context.Context, store port.TaskStore) error {
				_, err := store.UpdateTask(ctx, -1, model.NewTask("B", "", false))
				if !errors.Is(err, port.ErrNotFound) {
					t.Errorf("err: expected port.ErrNotFound, got %+v", err)
				}

				return nil
			},
		},
		{
			Name: "Delete",
			Run: func(t *testing.T, ctx context.Context, store port.TaskStore) error {
				created, err := store.CreateTask(ctx, model.NewTask("A", "", false))
				if err != nil {
					return errors.WithStack(err)
				}

				if err := store.DeleteTask(ctx, created.ID()); err != nil {
					return errors.WithStack(err)
				}

				if _, err := store.GetTaskByID(ctx, created.ID()); !errors.Is(err, port.ErrNotFound) {
					t.Errorf("err: expected port.ErrNotFound, got %+v", err)
				}

				if err := store.DeleteTask(ctx, created.ID()); !errors.Is(err, port.ErrNotFound) {
					t.Errorf("second delete: expected port.ErrNotFound, got %+v", err)
				}

				return nil
			},
		},
		{
			Name: "DeleteUnknown",
			Run: func(t *testing.T, ctx context.Context, store port.TaskStore) error {
				if err := store.DeleteTask(ctx, -1); !errors.Is(err, port.ErrNotFound) {
					t.Errorf("err: expected port.ErrNotFound, got %+v", err)
				}

				return nil
			},
		},
		{
			Name: "QueryFilterAndPagination",
			Run: func(t *testing.T, ctx context.Context, store port.TaskStore) error {
				for i := range 6 {
					completed := i%2 == 0
					if _, err := store.CreateTask(ctx, model.NewTask(fmt.Sprintf("task %d", i), "", completed)); err != nil {
						return errors.WithStack(err)
					}
				}

				completed := true
				tasks, err := store.QueryTasks(ctx, port.QueryTasksOptions{Completed: &completed})
				if err != nil {
					return errors.WithStack(err)
				}

				if e, g := 3, len(tasks); e != g {
					t.Errorf("len(tasks): expected %d, got %d", e, g)
				}

				for _, task := range tasks {
					if !task.Completed() {
						t.Errorf("task %d should be completed", task.ID())
					}
				}

				page, limit := 1, 4
				tasks, err = store.QueryTasks(ctx, port.QueryTasksOptions{Page: &page, Limit: &limit})
				if err != nil {
					return errors.WithStack(err)
				}

				if e, g := 2, len(tasks); e != g {
					t.Fatalf("len(tasks): expected %d, got %d", e, g)
				}

				if e, g := "task 4", tasks[0].Title(); e != g {
					t.Errorf("tasks[0].Title(): expected %s, got %s", e, g)
				}

				return nil
			},
		},
		{
			Name: "QueryNegativePagination",
			Run: func(t *testing.T, ctx context.Context, store port.TaskStore) error {
				for i := range 3 {
					if _, err := store.CreateTask(ctx, model.NewTask(fmt.Sprintf("task %d", i), "", false)); err != nil {
						return errors.WithStack(err)
					}
				}

				negative, positive := -1, 2

				options := []port.QueryTasksOptions{
					{Limit: &negative},
					{Page: &negative, Limit: &positive},
					{Page: &positive, Limit: &negative},
				}

				for _, opts := range options {
					tasks, err := store.QueryTasks(ctx, opts)
					if !errors.Is(err, port.ErrInvalidQuery) {
						t.Errorf("QueryTasks(%s): expected port.ErrInvalidQuery, got %d tasks and err %+v", spew.Sdump(opts), len(tasks), err)
					}
				}

				return nil
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			store, err := factory(t)
			if err != nil {
				t.Fatalf("%+v", errors.WithStack(err))
			}

			ctx := context.Background()

			if err := tc.Run(t, ctx, store); err != nil {
				t.Errorf("%+v", errors.WithStack(err))
			}
		})
	}
}

type taskSnapshot struct {
	ID          model.TaskID
	Title       string
	Description string
	Completed   bool
	CreatedAt   string
}

func toSnapshot(task model.PersistedTask) taskSnapshot {
	return taskSnapshot{
		ID:          task.ID(),
		Title:       task.Title(),
		Description: task.Description(),
		Completed:   task.Completed(),
		CreatedAt:   task.CreatedAt().UTC().Format("2006-01-02T15:04:05"),
	}
}
