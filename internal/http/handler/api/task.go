package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/bornholm/go-x/slogx"
	"github.com/bornholm/taskmanager/internal/core/model"
	"github.com/bornholm/taskmanager/internal/core/port"
	"github.com/pkg/errors"
)

type Task struct {
	ID          model.TaskID `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Completed   bool         `json:"completed"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// TaskPayload is the body accepted on creation and update. An id, if
// present, is ignored.
type TaskPayload struct {
	ID          *model.TaskID `json:"id,omitempty"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Completed   bool          `json:"completed"`
}

func (p TaskPayload) toTask() model.Task {
	return model.NewTask(p.Title, p.Description, p.Completed)
}

func fromTask(t model.PersistedTask) Task {
	return Task{
		ID:          t.ID(),
		Title:       t.Title(),
		Description: t.Description(),
		Completed:   t.Completed(),
		CreatedAt:   t.CreatedAt(),
		UpdatedAt:   t.UpdatedAt(),
	}
}

func (h *Handler) handleListTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	var (
		opts port.QueryTasksOptions
		err  error
	)

	if opts.Completed, err = getQueryBool(query, "completed"); err != nil {
		slog.DebugContext(ctx, "invalid query", slogx.Error(err))
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if opts.Page, err = getQueryInt(query, "page"); err != nil {
		slog.DebugContext(ctx, "invalid query", slogx.Error(err))
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if opts.Limit, err = getQueryInt(query, "limit"); err != nil {
		slog.DebugContext(ctx, "invalid query", slogx.Error(err))
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if err := opts.Validate(); err != nil {
		slog.DebugContext(ctx, "invalid query", slogx.Error(err))
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	tasks, err := h.store.QueryTasks(ctx, opts)
	if err != nil {
		if errors.Is(err, port.ErrInvalidQuery) {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		slog.ErrorContext(ctx, "could not query tasks", slogx.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	res := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		res = append(res, fromTask(t))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *Handler) handleGetTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	taskID, err := getTaskID(r)
	if err != nil {
		slog.DebugContext(ctx, "invalid task id", slogx.Error(err))
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	task, err := h.store.GetTaskByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, port.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		slog.ErrorContext(ctx, "could not get task", slogx.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	writeJSON(w, r, http.StatusOK, fromTask(task))
}

func (h *Handler) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var payload TaskPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		slog.DebugContext(ctx, "could not decode request body", slogx.Error(err))
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	task, err := h.store.CreateTask(ctx, payload.toTask())
	if err != nil {
		slog.ErrorContext(ctx, "could not create task", slogx.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	slog.DebugContext(ctx, "task created", slog.Int64("taskID", int64(task.ID())))

	writeJSON(w, r, http.StatusOK, fromTask(task))
}

func (h *Handler) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	taskID, err := getTaskID(r)
	if err != nil {
		slog.DebugContext(ctx, "invalid task id", slogx.Error(err))
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	var payload TaskPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		slog.DebugContext(ctx, "could not decode request body", slogx.Error(err))
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	task, err := h.store.UpdateTask(ctx, taskID, payload.toTask())
	if err != nil {
		if errors.Is(err, port.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		slog.ErrorContext(ctx, "could not update task", slogx.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	writeJSON(w, r, http.StatusOK, fromTask(task))
}

func (h *Handler) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	taskID, err := getTaskID(r)
	if err != nil {
		slog.DebugContext(ctx, "invalid task id", slogx.Error(err))
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if err := h.store.DeleteTask(ctx, taskID); err != nil {
		if errors.Is(err, port.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		slog.ErrorContext(ctx, "could not delete task", slogx.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	slog.DebugContext(ctx, "task deleted", slog.Int64("taskID", int64(taskID)))

	w.WriteHeader(http.StatusOK)
}
