package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bornholm/taskmanager/internal/adapter/memory"
	"github.com/bornholm/taskmanager/internal/http/handler/api"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/pkg/errors"
)

func TestClient(t *testing.T) {
	mux := http.NewServeMux()
	mux.Handle("/api/", http.StripPrefix("/api", api.NewHandler(memory.NewTaskStore())))

	server := httptest.NewServer(mux)
	defer server.Close()

	serverURL, err := url.Parse(server.URL)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	client := New(WithBaseURL(serverURL))
	ctx := context.Background()

	created, err := client.CreateTask(ctx, api.TaskPayload{Title: "A", Description: "first task"})
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	fetched, err := client.GetTask(ctx, created.ID)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if diff := cmp.Diff(created, fetched); diff != "" {
		t.Errorf("fetched mismatch (-want +got):\n%s", diff)
	}

	updated, err := client.UpdateTask(ctx, created.ID, api.TaskPayload{Title: "A", Description: "first task", Completed: true})
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	expected := &api.Task{
		ID:          created.ID,
		Title:       "A",
		Description: "first task",
		Completed:   true,
	}

	if diff := cmp.Diff(expected, updated, cmpopts.IgnoreFields(api.Task{}, "CreatedAt", "UpdatedAt")); diff != "" {
		t.Errorf("updated mismatch (-want +got):\n%s", diff)
	}

	if _, err := client.CreateTask(ctx, api.TaskPayload{Title: "B"}); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	tasks, err := client.ListTasks(ctx, WithCompleted(false))
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := 1, len(tasks); e != g {
		t.Fatalf("len(tasks): expected %d, got %d", e, g)
	}

	if e, g := "B", tasks[0].Title; e != g {
		t.Errorf("tasks[0].Title: expected %s, got %s", e, g)
	}

	if err := client.DeleteTask(ctx, created.ID); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if _, err := client.GetTask(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("err: expected ErrNotFound, got %+v", err)
	}

	if err := client.DeleteTask(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("err: expected ErrNotFound, got %+v", err)
	}
}

func TestRateLimitTransport(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	httpClient := &http.Client{
		Transport: &RateLimitTransport{
			MaxRetries:  5,
			DefaultWait: 10 * time.Millisecond,
		},
	}

	res, err := httpClient.Get(server.URL)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	defer res.Body.Close()

	if e, g := http.StatusOK, res.StatusCode; e != g {
		t.Errorf("res.StatusCode: expected %d, got %d", e, g)
	}

	if e, g := int32(3), calls.Load(); e != g {
		t.Errorf("calls: expected %d, got %d", e, g)
	}
}
