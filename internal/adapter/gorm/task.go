package gorm

import (
	"time"

	"github.com/bornholm/taskmanager/internal/core/model"
)

type Task struct {
	ID          int64 `gorm:"primaryKey;autoIncrement"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Title       string `gorm:"not null"`
	Description string
	Completed   bool `gorm:"index;not null;default:false"`
}

type wrappedTask struct {
	t *Task
}

// ID implements model.PersistedTask.
func (w *wrappedTask) ID() model.TaskID {
	return model.TaskID(w.t.ID)
}

// Title implements model.PersistedTask.
func (w *wrappedTask) Title() string {
	return w.t.Title
}

// Description implements model.PersistedTask.
func (w *wrappedTask) Description() string {
	return w.t.Description
}

// Completed implements model.PersistedTask.
func (w *wrappedTask) Completed() bool {
	return w.t.Completed
}

// CreatedAt implements model.PersistedTask.
func (w *wrappedTask) CreatedAt() time.Time {
	return w.t.CreatedAt
}

// UpdatedAt implements model.PersistedTask.
func (w *wrappedTask) UpdatedAt() time.Time {
	return w.t.UpdatedAt
}

var _ model.PersistedTask = &wrappedTask{}

func applyTask(dst *Task, src model.Task) {
	dst.Title = src.Title()
	dst.Description = src.Description()
	dst.Completed = src.Completed()
}
