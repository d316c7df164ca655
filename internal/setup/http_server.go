package setup

import (
	"context"
	"log/slog"
	"net/http"
	"path"

	"github.com/bornholm/taskmanager/internal/config"
	taskHTTP "github.com/bornholm/taskmanager/internal/http"
	"github.com/bornholm/taskmanager/internal/http/handler/metrics"
	"github.com/bornholm/taskmanager/internal/http/handler/openapi"
	"github.com/bornholm/taskmanager/internal/http/middleware/ratelimit"
	"github.com/pkg/errors"
	"github.com/rs/cors"
)

func NewHTTPServerFromConfig(ctx context.Context, conf *config.Config) (*taskHTTP.Server, error) {
	apiHandler, err := getAPIHandlerFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.Wrap(err, "could not configure api handler")
	}

	var handler http.Handler = apiHandler

	if conf.HTTP.RateLimit.Enabled {
		slog.DebugContext(ctx, "enabling rate limiting", slog.Duration("interval", conf.HTTP.RateLimit.Interval), slog.Int("burst", conf.HTTP.RateLimit.Burst))

		rateLimit := ratelimit.Middleware(
			ratelimit.WithLimit(conf.HTTP.RateLimit.Interval, conf.HTTP.RateLimit.Burst),
			ratelimit.WithTrustHeaders(conf.HTTP.RateLimit.TrustHeaders),
			ratelimit.WithCache(conf.HTTP.RateLimit.CacheSize, conf.HTTP.RateLimit.CacheTTL),
		)

		handler = rateLimit(handler)
	}

	handler = cors.New(cors.Options{
		AllowedOrigins: conf.HTTP.CORS.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(handler)

	document := openapi.NewDocument()
	document.AddRoutes(path.Join(conf.HTTP.BaseURL, "/api"), apiHandler.Routes()...)

	options := []taskHTTP.OptionFunc{
		taskHTTP.WithAddress(conf.HTTP.Address),
		taskHTTP.WithBaseURL(conf.HTTP.BaseURL),
		taskHTTP.WithMount("/api/", handler),
		taskHTTP.WithMount("/metrics/", metrics.NewHandler()),
		taskHTTP.WithMount("/", openapi.NewHandler(document, conf.HTTP.BaseURL, openapi.WithSwaggerUIAssetsURL(conf.HTTP.SwaggerUIAssetsURL))),
	}

	return taskHTTP.NewServer(options...), nil
}
