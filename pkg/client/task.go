package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/bornholm/taskmanager/internal/core/model"
	"github.com/bornholm/taskmanager/internal/http/handler/api"
	"github.com/pkg/errors"
)

type ListTasksOptions struct {
	Completed *bool
	Page      *int
	Limit     *int
}

type ListTasksOptionFunc func(opts *ListTasksOptions)

func WithCompleted(completed bool) ListTasksOptionFunc {
	return func(opts *ListTasksOptions) {
		opts.Completed = &completed
	}
}

func WithPagination(page int, limit int) ListTasksOptionFunc {
	return func(opts *ListTasksOptions) {
		opts.Page = &page
		opts.Limit = &limit
	}
}

func NewListTasksOptions(funcs ...ListTasksOptionFunc) *ListTasksOptions {
	opts := &ListTasksOptions{}
	for _, fn := range funcs {
		fn(opts)
	}
	return opts
}

func (c *Client) ListTasks(ctx context.Context, funcs ...ListTasksOptionFunc) ([]*api.Task, error) {
	opts := NewListTasksOptions(funcs...)

	query := url.Values{}

	if opts.Completed != nil {
		query.Set("completed", strconv.FormatBool(*opts.Completed))
	}

	if opts.Page != nil {
		query.Set("page", strconv.Itoa(*opts.Page))
	}

	if opts.Limit != nil {
		query.Set("limit", strconv.Itoa(*opts.Limit))
	}

	endpoint := "/tasks"
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	tasks := []*api.Task{}
	if err := c.jsonRequest(ctx, http.MethodGet, endpoint, nil, &tasks); err != nil {
		return nil, errors.WithStack(err)
	}

	return tasks, nil
}

func (c *Client) GetTask(ctx context.Context, id model.TaskID) (*api.Task, error) {
	var task api.Task
	if err := c.jsonRequest(ctx, http.MethodGet, "/tasks/"+id.String(), nil, &task); err != nil {
		return nil, errors.WithStack(err)
	}

	return &task, nil
}

func (c *Client) CreateTask(ctx context.Context, payload api.TaskPayload) (*api.Task, error) {
	var task api.Task
	if err := c.jsonRequest(ctx, http.MethodPost, "/tasks", payload, &task); err != nil {
		return nil, errors.WithStack(err)
	}

	return &task, nil
}

func (c *Client) UpdateTask(ctx context.Context, id model.TaskID, payload api.TaskPayload) (*api.Task, error) {
	var task api.Task
	if err := c.jsonRequest(ctx, http.MethodPut, "/tasks/"+id.String(), payload, &task); err != nil {
		return nil, errors.WithStack(err)
	}

	return &task, nil
}

func (c *Client) DeleteTask(ctx context.Context, id model.TaskID) error {
	if err := c.jsonRequest(ctx, http.MethodDelete, "/tasks/"+id.String(), nil, nil); err != nil {
		return errors.WithStack(err)
	}

	return nil
}
