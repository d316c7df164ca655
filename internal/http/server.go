package http

import (
	"context"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/pkg/errors"
	sloghttp "github.com/samber/slog-http"
)

type Server struct {
	opts *Options
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.opts.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)

	go func() {
		defer close(errs)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- errors.WithStack(err)
		}
	}()

	select {
	case err := <-errs:
		return err

	case <-ctx.Done():
		slog.InfoContext(ctx, "shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return errors.WithStack(err)
		}

		return nil
	}
}

// Handler returns the root handler, with every mount registered under the
// configured base url.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	for prefix, handler := range s.opts.Mounts {
		pattern := mountPattern(s.opts.BaseURL, prefix)
		strip := strings.TrimSuffix(pattern, "/")

		slog.Debug("mounting handler", slog.String("pattern", pattern))

		if strip == "" {
			mux.Handle(pattern, handler)
			continue
		}

		mux.Handle(pattern, http.StripPrefix(strip, handler))
	}

	var handler http.Handler = mux

	handler = sloghttp.Recovery(handler)
	handler = sloghttp.NewWithConfig(slog.Default(), sloghttp.Config{
		DefaultLevel:     slog.LevelDebug,
		ClientErrorLevel: slog.LevelWarn,
		ServerErrorLevel: slog.LevelError,
		WithRequestID:    true,
	})(handler)

	return handler
}

func mountPattern(baseURL string, prefix string) string {
	pattern := path.Join("/", baseURL, prefix)
	if strings.HasSuffix(prefix, "/") && pattern != "/" {
		pattern += "/"
	}

	return pattern
}

func NewServer(funcs ...OptionFunc) *Server {
	opts := NewOptions(funcs...)
	return &Server{opts}
}
