package postgres

import (
	"time"

	"github.com/bornholm/taskmanager/internal/core/model"
)

const taskColumns = "id, title, description, completed, created_at, updated_at"

type taskRow struct {
	ID          int64     `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Completed   bool      `db:"completed"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type wrappedTask struct {
	r *taskRow
}

// ID implements model.PersistedTask.
func (w *wrappedTask) ID() model.TaskID {
	return model.TaskID(w.r.ID)
}

// Title implements model.PersistedTask.
func (w *wrappedTask) Title() string {
	return w.r.Title
}

// Description implements model.PersistedTask.
func (w *wrappedTask) Description() string {
	return w.r.Description
}

// Completed implements model.PersistedTask.
func (w *wrappedTask) Completed() bool {
	return w.r.Completed
}

// CreatedAt implements model.PersistedTask.
func (w *wrappedTask) CreatedAt() time.Time {
	return w.r.CreatedAt
}

// UpdatedAt implements model.PersistedTask.
func (w *wrappedTask) UpdatedAt() time.Time {
	return w.r.UpdatedAt
}

var _ model.PersistedTask = &wrappedTask{}
