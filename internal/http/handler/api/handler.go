package api

import (
	"net/http"

	"github.com/bornholm/taskmanager/internal/core/port"
)

// Store failures are reported as 500, not as 404 like a missing task.
var internalServerError = Response{
	Status:      http.StatusInternalServerError,
	Description: "Internal Server Error: the task store failed, missing tasks are reported as 404 instead",
}

type Handler struct {
	store  port.TaskStore
	routes []Route
	mux    *http.ServeMux
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// Routes returns the route table of the handler, paths relative to its mount point.
func (h *Handler) Routes() []Route {
	return h.routes
}

func NewHandler(store port.TaskStore) *Handler {
	h := &Handler{
		store: store,
		mux:   &http.ServeMux{},
	}

	h.routes = []Route{
		{
			Method:      http.MethodGet,
			Path:        "/tasks",
			OperationID: "getAllTasks",
			Summary:     "Get all tasks",
			Description: "Retrieves a list of all tasks",
			Tags:        []string{TagTasks},
			Parameters: []Parameter{
				{Name: "completed", In: "query", Description: "Only return tasks with the given completion state", Type: "boolean"},
				{Name: "page", In: "query", Description: "Zero based page index, requires limit, must not be negative", Type: "integer"},
				{Name: "limit", In: "query", Description: "Maximum number of tasks to return, must not be negative", Type: "integer"},
			},
			Responses: []Response{
				{Status: http.StatusOK, Description: "OK", Body: []Task{}},
				{Status: http.StatusBadRequest, Description: "Bad Request"},
				internalServerError,
			},
			Handler: h.handleListTasks,
		},
		{
			Method:      http.MethodGet,
			Path:        "/tasks/{taskID}",
			OperationID: "getTaskById",
			Summary:     "Get task by ID",
			Description: "Retrieves a specific task by its ID",
			Tags:        []string{TagTasks},
			Parameters:  []Parameter{taskIDParameter},
			Responses: []Response{
				{Status: http.StatusOK, Description: "OK", Body: Task{}},
				{Status: http.StatusNotFound, Description: "Not Found"},
				internalServerError,
			},
			Handler: h.handleGetTask,
		},
		{
			Method:      http.MethodPost,
			Path:        "/tasks",
			OperationID: "createTask",
			Summary:     "Create new task",
			Description: "Creates a new task",
			Tags:        []string{TagTasks},
			RequestBody: TaskPayload{},
			Responses: []Response{
				{Status: http.StatusOK, Description: "OK", Body: Task{}},
				{Status: http.StatusBadRequest, Description: "Bad Request"},
				internalServerError,
			},
			Handler: h.handleCreateTask,
		},
		{
			Method:      http.MethodPut,
			Path:        "/tasks/{taskID}",
			OperationID: "updateTask",
			Summary:     "Update task",
			Description: "Updates an existing task by its ID",
			Tags:        []string{TagTasks},
			Parameters:  []Parameter{taskIDParameter},
			RequestBody: TaskPayload{},
			Responses: []Response{
				{Status: http.StatusOK, Description: "OK", Body: Task{}},
				{Status: http.StatusBadRequest, Description: "Bad Request"},
				{Status: http.StatusNotFound, Description: "Not Found"},
				internalServerError,
			},
			Handler: h.handleUpdateTask,
		},
		{
			Method:      http.MethodDelete,
			Path:        "/tasks/{taskID}",
			OperationID: "deleteTask",
			Summary:     "Delete task",
			Description: "Deletes a task by its ID",
			Tags:        []string{TagTasks},
			Parameters:  []Parameter{taskIDParameter},
			Responses: []Response{
				{Status: http.StatusOK, Description: "OK"},
				{Status: http.StatusNotFound, Description: "Not Found"},
				internalServerError,
			},
			Handler: h.handleDeleteTask,
		},
	}

	for _, r := range h.routes {
		h.mux.Handle(r.Method+" "+r.Path, r.Handler)
	}

	return h
}

var taskIDParameter = Parameter{
	Name:        "taskID",
	In:          "path",
	Description: "Task identifier",
	Type:        "integer",
	Required:    true,
}

var _ http.Handler = &Handler{}
