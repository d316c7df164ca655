package model

import (
	"strconv"
)

type TaskID int64

func (id TaskID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

func ParseTaskID(raw string) (TaskID, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}

	return TaskID(id), nil
}

// Task holds the mutable fields of a task.
type Task interface {
	Title() string
	Description() string
	Completed() bool
}

// PersistedTask is a task as returned by a store, with its assigned
// identifier and lifecycle timestamps.
type PersistedTask interface {
	WithID[TaskID]
	WithLifecycle
	Task
}

type BaseTask struct {
	title       string
	description string
	completed   bool
}

// Completed implements Task.
func (t *BaseTask) Completed() bool {
	return t.completed
}

// Description implements Task.
func (t *BaseTask) Description() string {
	return t.description
}

// Title implements Task.
func (t *BaseTask) Title() string {
	return t.title
}

var _ Task = &BaseTask{}

func NewTask(title string, description string, completed bool) *BaseTask {
	return &BaseTask{
		title:       title,
		description: description,
		completed:   completed,
	}
}
