package gorm

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/bornholm/taskmanager/internal/core/port"
	"github.com/bornholm/taskmanager/internal/setup"
	"github.com/ncruces/go-sqlite3/gormlite"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "github.com/ncruces/go-sqlite3/embed"
)

func init() {
	setup.TaskStore.Register("sqlite", func(ctx context.Context, u *url.URL) (port.TaskStore, error) {
		db, err := OpenDatabase(ctx, getDSN(u))
		if err != nil {
			return nil, errors.WithStack(err)
		}

		return NewTaskStore(db), nil
	})
}

// getDSN extracts the database file path from urls such as
// sqlite://data.sqlite, sqlite:///var/lib/tasks.sqlite or sqlite::memory:
func getDSN(u *url.URL) string {
	dsn := u.Opaque
	if dsn == "" {
		dsn = u.Host + u.Path
	}

	if u.RawQuery != "" {
		dsn += "?" + u.RawQuery
	}

	return dsn
}

func OpenDatabase(ctx context.Context, dsn string) (*gorm.DB, error) {
	dialector := gormlite.Open(dsn)

	handler := slog.Default().Handler()

	var logLevel logger.LogLevel
	switch {
	case handler.Enabled(ctx, slog.LevelInfo):
		logLevel = logger.Info
	case handler.Enabled(ctx, slog.LevelWarn):
		logLevel = logger.Warn
	default:
		logLevel = logger.Error
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if handler.Enabled(ctx, slog.LevelDebug) {
		db = db.Debug()
	}

	internalDB, err := db.DB()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	internalDB.SetMaxOpenConns(1)

	if err := db.Exec("PRAGMA journal_mode=wal; PRAGMA foreign_keys=on; PRAGMA busy_timeout=5000").Error; err != nil {
		return nil, errors.WithStack(err)
	}

	return db, nil
}
