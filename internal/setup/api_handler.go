package setup

import (
	"context"

	"github.com/bornholm/taskmanager/internal/config"
	"github.com/bornholm/taskmanager/internal/http/handler/api"
	"github.com/pkg/errors"
)

func getAPIHandlerFromConfig(ctx context.Context, conf *config.Config) (*api.Handler, error) {
	store, err := getTaskStoreFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return api.NewHandler(store), nil
}
