package postgres

import (
	"context"
	"net/url"

	"github.com/bornholm/taskmanager/internal/core/port"
	"github.com/bornholm/taskmanager/internal/setup"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	_ "github.com/lib/pq"
)

func init() {
	factory := func(ctx context.Context, u *url.URL) (port.TaskStore, error) {
		db, err := OpenDatabase(ctx, u.String())
		if err != nil {
			return nil, errors.WithStack(err)
		}

		return NewTaskStore(db), nil
	}

	setup.TaskStore.Register("postgres", factory)
	setup.TaskStore.Register("postgresql", factory)
}

func OpenDatabase(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "could not connect to database")
	}

	return db, nil
}
