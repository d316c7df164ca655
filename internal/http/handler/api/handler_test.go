package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bornholm/taskmanager/internal/adapter/memory"
	"github.com/bornholm/taskmanager/internal/core/model"
	"github.com/bornholm/taskmanager/internal/core/port"
	"github.com/bornholm/taskmanager/internal/http/handler/api"
	"github.com/pkg/errors"
)

func TestHandler(t *testing.T) {
	type testCase struct {
		Name string
		Run  func(t *testing.T, handler http.Handler)
	}

	testCases := []testCase{
		{
			Name: "ListEmpty",
			Run: func(t *testing.T, handler http.Handler) {
				res := serve(handler, http.MethodGet, "/tasks", "")

				if e, g := http.StatusOK, res.Code; e != g {
					t.Fatalf("res.Code: expected %d, got %d", e, g)
				}

				var tasks []api.Task
				decode(t, res, &tasks)

				if tasks == nil {
					t.Errorf("tasks: expected empty array, got null")
				}

				if e, g := 0, len(tasks); e != g {
					t.Errorf("len(tasks): expected %d, got %d", e, g)
				}
			},
		},
		{
			Name: "CreateThenGet",
			Run: func(t *testing.T, handler http.Handler) {
				created := create(t, handler, `{"title":"A"}`)

				if created.ID == 0 {
					t.Errorf("created.ID: should not be zero")
				}

				if e, g := "A", created.Title; e != g {
					t.Errorf("created.Title: expected %s, got %s", e, g)
				}

				res := serve(handler, http.MethodGet, fmt.Sprintf("/tasks/%d", created.ID), "")
				if e, g := http.StatusOK, res.Code; e != g {
					t.Fatalf("res.Code: expected %d, got %d", e, g)
				}

				var fetched api.Task
				decode(t, res, &fetched)

				if e, g := created.ID, fetched.ID; e != g {
					t.Errorf("fetched.ID: expected %d, got %d", e, g)
				}

				if e, g := created.Title, fetched.Title; e != g {
					t.Errorf("fetched.Title: expected %s, got %s", e, g)
				}

				if !created.CreatedAt.Equal(fetched.CreatedAt) {
					t.Errorf("fetched.CreatedAt: expected %v, got %v", created.CreatedAt, fetched.CreatedAt)
				}
			},
		},
		{
			Name: "CreateIgnoresID",
			Run: func(t *testing.T, handler http.Handler) {
				created := create(t, handler, `{"id":42,"title":"A","completed":true}`)

				if e, g := model.TaskID(1), created.ID; e != g {
					t.Errorf("created.ID: expected %d, got %d", e, g)
				}

				if !created.Completed {
					t.Errorf("created.Completed: expected true")
				}
			},
		},
		{
			Name: "GetUnknown",
			Run: func(t *testing.T, handler http.Handler) {
				res := serve(handler, http.MethodGet, "/tasks/-1", "")

				if e, g := http.StatusNotFound, res.Code; e != g {
					t.Errorf("res.Code: expected %d, got %d", e, g)
				}

				if e, g := 0, res.Body.Len(); e != g {
					t.Errorf("res.Body.Len(): expected %d, got %d", e, g)
				}
			},
		},
		{
			Name: "GetInvalidID",
			Run: func(t *testing.T, handler http.Handler) {
				res := serve(handler, http.MethodGet, "/tasks/foo", "")

				if e, g := http.StatusBadRequest, res.Code; e != g {
					t.Errorf("res.Code: expected %d, got %d", e, g)
				}
			},
		},
		{
			Name: "Update",
			Run: func(t *testing.T, handler http.Handler) {
				created := create(t, handler, `{"title":"A"}`)

				res := serve(handler, http.MethodPut, fmt.Sprintf("/tasks/%d", created.ID), `{"title":"B"}`)
				if e, g := http.StatusOK, res.Code; e != g {
					t.Fatalf("res.Code: expected %d, got %d", e, g)
				}

				res = serve(handler, http.MethodGet, fmt.Sprintf("/tasks/%d", created.ID), "")
				if e, g := http.StatusOK, res.Code; e != g {
					t.Fatalf("res.Code: expected %d, got %d", e, g)
				}

				var fetched api.Task
				decode(t, res, &fetched)

				if e, g := "B", fetched.Title; e != g {
					t.Errorf("fetched.Title: expected %s, got %s", e, g)
				}

				if e, g := created.ID, fetched.ID; e != g {
					t.Errorf("fetched.ID: expected %d, got %d", e, g)
				}
			},
		},
		{
			Name: "UpdateUnknown",
			Run: func(t *testing.T, handler http.Handler) {
				res := serve(handler, http.MethodPut, "/tasks/-1", `{"title":"B"}`)

				if e, g := http.StatusNotFound, res.Code; e != g {
					t.Errorf("res.Code: expected %d, got %d", e, g)
				}

				if e, g := 0, res.Body.Len(); e != g {
					t.Errorf("res.Body.Len(): expected %d, got %d", e, g)
				}
			},
		},
		{
			Name: "UpdateInvalidBody",
			Run: func(t *testing.T, handler http.Handler) {
				created := create(t, handler, `{"title":"A"}`)

				res := serve(handler, http.MethodPut, fmt.Sprintf("/tasks/%d", created.ID), `{"title":`)
				if e, g := http.StatusBadRequest, res.Code; e != g {
					t.Errorf("res.Code: expected %d, got %d", e, g)
				}
			},
		},
		{
			Name: "Delete",
			Run: func(t *testing.T, handler http.Handler) {
				created := create(t, handler, `{"title":"A"}`)

				res := serve(handler, http.MethodDelete, fmt.Sprintf("/tasks/%d", created.ID), "")
				if e, g := http.StatusOK, res.Code; e != g {
					t.Fatalf("res.Code: expected %d, got %d", e, g)
				}

				if e, g := 0, res.Body.Len(); e != g {
					t.Errorf("res.Body.Len(): expected %d, got %d", e, g)
				}

				res = serve(handler, http.MethodGet, fmt.Sprintf("/tasks/%d", created.ID), "")
				if e, g := http.StatusNotFound, res.Code; e != g {
					t.Errorf("res.Code: expected %d, got %d", e, g)
				}
			},
		},
		{
			Name: "DeleteUnknown",
			Run: func(t *testing.T, handler http.Handler) {
				res := serve(handler, http.MethodDelete, "/tasks/-1", "")

				if e, g := http.StatusNotFound, res.Code; e != g {
					t.Errorf("res.Code: expected %d, got %d", e, g)
				}
			},
		},
		{
			Name: "ListWithQuery",
			Run: func(t *testing.T, handler http.Handler) {
				create(t, handler, `{"title":"A","completed":true}`)
				create(t, handler, `{"title":"B"}`)
				create(t, handler, `{"title":"C","completed":true}`)

				res := serve(handler, http.MethodGet, "/tasks?completed=true", "")
				if e, g := http.StatusOK, res.Code; e != g {
					t.Fatalf("res.Code: expected %d, got %d", e, g)
				}

				var tasks []api.Task
				decode(t, res, &tasks)

				if e, g := 2, len(tasks); e != g {
					t.Fatalf("len(tasks): expected %d, got %d", e, g)
				}

				if e, g := "C", tasks[1].Title; e != g {
					t.Errorf("tasks[1].Title: expected %s, got %s", e, g)
				}

				res = serve(handler, http.MethodGet, "/tasks?page=1&limit=2", "")
				if e, g := http.StatusOK, res.Code; e != g {
					t.Fatalf("res.Code: expected %d, got %d", e, g)
				}

				decode(t, res, &tasks)

				if e, g := 1, len(tasks); e != g {
					t.Fatalf("len(tasks): expected %d, got %d", e, g)
				}

				if e, g := "C", tasks[0].Title; e != g {
					t.Errorf("tasks[0].Title: expected %s, got %s", e, g)
				}

				for _, query := range []string{"completed=maybe", "limit=-1", "page=-1&limit=2", "page=1&limit=-2", "limit=foo"} {
					res = serve(handler, http.MethodGet, "/tasks?"+query, "")
					if e, g := http.StatusBadRequest, res.Code; e != g {
						t.Errorf("GET /tasks?%s: expected status %d, got %d", query, e, g)
					}
				}
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			handler := api.NewHandler(memory.NewTaskStore())
			tc.Run(t, handler)
		})
	}
}

func TestHandlerStoreFailure(t *testing.T) {
	handler := api.NewHandler(&failingStore{err: errors.New("disk on fire")})

	requests := []struct {
		Method string
		Path   string
		Body   string
	}{
		{http.MethodGet, "/tasks", ""},
		{http.MethodGet, "/tasks/1", ""},
		{http.MethodPost, "/tasks", `{"title":"A"}`},
		{http.MethodPut, "/tasks/1", `{"title":"B"}`},
		{http.MethodDelete, "/tasks/1", ""},
	}

	for _, req := range requests {
		res := serve(handler, req.Method, req.Path, req.Body)

		if e, g := http.StatusInternalServerError, res.Code; e != g {
			t.Errorf("%s %s: expected status %d, got %d", req.Method, req.Path, e, g)
		}
	}
}

func TestRoutes(t *testing.T) {
	handler := api.NewHandler(memory.NewTaskStore())

	routes := handler.Routes()

	if e, g := 5, len(routes); e != g {
		t.Fatalf("len(routes): expected %d, got %d", e, g)
	}

	for _, r := range routes {
		if r.Handler == nil {
			t.Errorf("route %s %s: handler should not be nil", r.Method, r.Path)
		}

		if r.Summary == "" || r.OperationID == "" {
			t.Errorf("route %s %s: summary and operation id should be set", r.Method, r.Path)
		}
	}
}

func serve(handler http.Handler, method string, path string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	return res
}

func create(t *testing.T, handler http.Handler, body string) api.Task {
	res := serve(handler, http.MethodPost, "/tasks", body)

	if e, g := http.StatusOK, res.Code; e != g {
		t.Fatalf("create: expected status %d, got %d", e, g)
	}

	var task api.Task
	decode(t, res, &task)

	return task
}

func decode(t *testing.T, res *httptest.ResponseRecorder, v any) {
	if err := json.NewDecoder(bytes.NewReader(res.Body.Bytes())).Decode(v); err != nil {
		t.Fatalf("could not decode response: %+v", errors.WithStack(err))
	}
}

type failingStore struct {
	err error
}

// CreateTask implements [port.TaskStore].
func (s *failingStore) CreateTask(ctx context.Context, task model.Task) (model.PersistedTask, error) {
	return nil, s.err
}

// DeleteTask implements [port.TaskStore].
func (s *failingStore) DeleteTask(ctx context.Context, id model.TaskID) error {
	return s.err
}

// GetTaskByID implements [port.TaskStore].
func (s *failingStore) GetTaskByID(ctx context.Context, id model.TaskID) (model.PersistedTask, error) {
	return nil, s.err
}

// QueryTasks implements [port.TaskStore].
func (s *failingStore) QueryTasks(ctx context.Context, opts port.QueryTasksOptions) ([]model.PersistedTask, error) {
	return nil, s.err
}

// UpdateTask implements [port.TaskStore].
func (s *failingStore) UpdateTask(ctx context.Context, id model.TaskID, task model.Task) (model.PersistedTask, error) {
	return nil, s.err
}

var _ port.TaskStore = &failingStore{}
