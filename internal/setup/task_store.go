package setup

import (
	"context"
	"log/slog"
	"slices"

	"github.com/bornholm/taskmanager/internal/adapter/cache"
	"github.com/bornholm/taskmanager/internal/adapter/instrumented"
	"github.com/bornholm/taskmanager/internal/config"
	"github.com/bornholm/taskmanager/internal/core/port"
	"github.com/pkg/errors"
)

var TaskStore = NewRegistry[port.TaskStore]()

var getTaskStoreFromConfig = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (port.TaskStore, error) {
	backend, err := TaskStore.From(ctx, conf.Storage.URI)
	if err != nil {
		schemes := TaskStore.Schemes()
		slices.Sort(schemes)
		return nil, errors.Wrapf(err, "could not create task store (available schemes: %v)", schemes)
	}

	var store port.TaskStore = instrumented.NewTaskStore(backend)

	if conf.Storage.Cache.Enabled {
		slog.DebugContext(ctx, "enabling task store cache", slog.Int("size", conf.Storage.Cache.Size), slog.Duration("ttl", conf.Storage.Cache.TTL))
		store = cache.NewTaskStore(store, conf.Storage.Cache.Size, conf.Storage.Cache.TTL)
	}

	return store, nil
})
