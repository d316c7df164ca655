package postgres

import (
	"context"
	"database/sql"
	"embed"
	"io/fs"
	"sync"

	"github.com/Masterminds/squirrel"
	"github.com/bornholm/taskmanager/internal/core/model"
	"github.com/bornholm/taskmanager/internal/core/port"
	"github.com/jmoiron/sqlx"
	"github.com/maragudk/migrate"
	"github.com/pkg/errors"
)

//go:embed migrations/*.sql
var migrations embed.FS

var builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

type TaskStore struct {
	getDatabase func(ctx context.Context) (*sqlx.DB, error)
}

// QueryTasks implements [port.TaskStore].
func (s *TaskStore) QueryTasks(ctx context.Context, opts port.QueryTasksOptions) ([]model.PersistedTask, error) {
	if err := opts.Validate(); err != nil {
		return nil, errors.WithStack(err)
	}

	db, err := s.getDatabase(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	stmt := builder.Select(taskColumns).From("tasks").OrderBy("id ASC")

	if opts.Completed != nil {
		stmt = stmt.Where(squirrel.Eq{"completed": *opts.Completed})
	}

	if opts.Limit != nil {
		stmt = stmt.Limit(uint64(*opts.Limit)).Offset(uint64(opts.Offset()))
	}

	query, args, err := stmt.ToSql()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	rows := []*taskRow{}
	if err := db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.WithStack(err)
	}

	tasks := make([]model.PersistedTask, 0, len(rows))
	for _, r := range rows {
		tasks = append(tasks, &wrappedTask{r})
	}

	return tasks, nil
}

// GetTaskByID implements [port.TaskStore].
func (s *TaskStore) GetTaskByID(ctx context.Context, id model.TaskID) (model.PersistedTask, error) {
	stmt := builder.Select(taskColumns).From("tasks").Where(squirrel.Eq{"id": int64(id)})

	row, err := s.getRow(ctx, stmt)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &wrappedTask{row}, nil
}

// CreateTask implements [port.TaskStore].
func (s *TaskStore) CreateTask(ctx context.Context, task model.Task) (model.PersistedTask, error) {
	stmt := builder.Insert("tasks").
		Columns("title", "description", "completed").
		Values(task.Title(), task.Description(), task.Completed()).
		Suffix("RETURNING " + taskColumns)

	row, err := s.getRow(ctx, stmt)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &wrappedTask{row}, nil
}

// UpdateTask implements [port.TaskStore].
func (s *TaskStore) UpdateTask(ctx context.Context, id model.TaskID, task model.Task) (model.PersistedTask, error) {
	stmt := builder.Update("tasks").
		Set("title", task.Title()).
		Set("description", task.Description()).
		Set("completed", task.Completed()).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": int64(id)}).
		Suffix("RETURNING " + taskColumns)

	row, err := s.getRow(ctx, stmt)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &wrappedTask{row}, nil
}

// DeleteTask implements [port.TaskStore].
func (s *TaskStore) DeleteTask(ctx context.Context, id model.TaskID) error {
	db, err := s.getDatabase(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	query, args, err := builder.Delete("tasks").Where(squirrel.Eq{"id": int64(id)}).ToSql()
	if err != nil {
		return errors.WithStack(err)
	}

	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.WithStack(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return errors.WithStack(err)
	}

	if affected == 0 {
		return errors.WithStack(port.ErrNotFound)
	}

	return nil
}

func (s *TaskStore) getRow(ctx context.Context, stmt squirrel.Sqlizer) (*taskRow, error) {
	db, err := s.getDatabase(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	query, args, err := stmt.ToSql()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	row := &taskRow{}
	if err := db.GetContext(ctx, row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.WithStack(port.ErrNotFound)
		}

		return nil, errors.WithStack(err)
	}

	return row, nil
}

func NewTaskStore(db *sqlx.DB) *TaskStore {
	return &TaskStore{
		getDatabase: createGetDatabase(db),
	}
}

var _ port.TaskStore = &TaskStore{}

func createGetDatabase(db *sqlx.DB) func(ctx context.Context) (*sqlx.DB, error) {
	var (
		migrateOnce sync.Once
		migrateErr  error
	)

	return func(ctx context.Context) (*sqlx.DB, error) {
		migrateOnce.Do(func() {
			fsys, err := fs.Sub(migrations, "migrations")
			if err != nil {
				migrateErr = errors.WithStack(err)
				return
			}

			if err := migrate.Up(ctx, db.DB, fsys); err != nil {
				migrateErr = errors.Wrap(err, "could not apply migrations")
				return
			}
		})
		if migrateErr != nil {
			return nil, errors.WithStack(migrateErr)
		}

		return db, nil
	}
}
