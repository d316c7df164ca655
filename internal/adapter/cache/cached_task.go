package cache

import (
	"time"

	"github.com/bornholm/taskmanager/internal/core/model"
)

// CachedTask is an immutable snapshot of a persisted task.
type CachedTask struct {
	id          model.TaskID
	title       string
	description string
	completed   bool
	createdAt   time.Time
	updatedAt   time.Time
}

// ID implements [model.PersistedTask].
func (t *CachedTask) ID() model.TaskID {
	return t.id
}

// Title implements [model.PersistedTask].
func (t *CachedTask) Title() string {
	return t.title
}

// Description implements [model.PersistedTask].
func (t *CachedTask) Description() string {
	return t.description
}

// Completed implements [model.PersistedTask].
func (t *CachedTask) Completed() bool {
	return t.completed
}

// CreatedAt implements [model.PersistedTask].
func (t *CachedTask) CreatedAt() time.Time {
	return t.createdAt
}

// UpdatedAt implements [model.PersistedTask].
func (t *CachedTask) UpdatedAt() time.Time {
	return t.updatedAt
}

func NewCachedTask(task model.PersistedTask) *CachedTask {
	return &CachedTask{
		id:          task.ID(),
		title:       task.Title(),
		description: task.Description(),
		completed:   task.Completed(),
		createdAt:   task.CreatedAt(),
		updatedAt:   task.UpdatedAt(),
	}
}

var _ model.PersistedTask = &CachedTask{}
