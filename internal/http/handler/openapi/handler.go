package openapi

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/bornholm/go-x/slogx"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultSwaggerUIAssetsURL points to the swagger-ui-dist package on a public CDN.
// The page renders blank when it cannot be reached.
const DefaultSwaggerUIAssetsURL = "https://unpkg.com/swagger-ui-dist@5.17.14"

var swaggerUITemplate = template.Must(template.New("").Parse(`<!DOCTYPE html>
<html lang="en">
	<head>
		<meta charset="utf-8" />
		<title>{{ .Title }}</title>
		<link rel="stylesheet" href="{{ .AssetsURL }}/swagger-ui.css" />
	</head>
	<body>
		<div id="swagger-ui"></div>
		<script src="{{ .AssetsURL }}/swagger-ui-bundle.js" crossorigin></script>
		<script>
			window.onload = () => {
				window.ui = SwaggerUIBundle({ url: {{ .SpecURL }}, dom_id: '#swagger-ui' });
			};
		</script>
	</body>
</html>
`))

type Options struct {
	// SwaggerUIAssetsURL is the location of the swagger-ui-dist files
	SwaggerUIAssetsURL string
}

type OptionFunc func(opts *Options)

func WithSwaggerUIAssetsURL(url string) OptionFunc {
	return func(opts *Options) {
		opts.SwaggerUIAssetsURL = url
	}
}

type Handler struct {
	document  *Document
	baseURL   string
	assetsURL string
	mux       *http.ServeMux
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func NewHandler(document *Document, baseURL string, funcs ...OptionFunc) *Handler {
	opts := &Options{
		SwaggerUIAssetsURL: DefaultSwaggerUIAssetsURL,
	}
	for _, fn := range funcs {
		fn(opts)
	}

	assetsURL := strings.TrimSuffix(opts.SwaggerUIAssetsURL, "/")
	if assetsURL == "" {
		assetsURL = DefaultSwaggerUIAssetsURL
	}

	h := &Handler{
		document:  document,
		baseURL:   baseURL,
		assetsURL: assetsURL,
		mux:       http.NewServeMux(),
	}

	h.mux.HandleFunc("GET /v3/api-docs", h.serveJSON)
	h.mux.HandleFunc("GET /v3/api-docs.yaml", h.serveYAML)
	h.mux.HandleFunc("GET /swagger-ui/{$}", h.serveSwaggerUI)
	h.mux.Handle("GET /swagger-ui.html", http.RedirectHandler(path.Join("/", baseURL, "/swagger-ui")+"/", http.StatusMovedPermanently))

	return h
}

func (h *Handler) serveJSON(w http.ResponseWriter, r *http.Request) {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", " ")

	w.Header().Set("Content-Type", "application/json")

	if err := encoder.Encode(h.document); err != nil {
		slog.ErrorContext(r.Context(), "could not encode openapi document", slogx.Error(err))
	}
}

func (h *Handler) serveYAML(w http.ResponseWriter, r *http.Request) {
	data, err := yaml.Marshal(h.document)
	if err != nil {
		slog.ErrorContext(r.Context(), "could not marshal openapi document", slogx.Error(errors.WithStack(err)))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/yaml")

	if _, err := w.Write(data); err != nil {
		slog.ErrorContext(r.Context(), "could not write openapi document", slogx.Error(errors.WithStack(err)))
	}
}

func (h *Handler) serveSwaggerUI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	err := swaggerUITemplate.Execute(w, struct {
		Title     string
		AssetsURL string
		SpecURL   string
	}{
		Title:     h.document.Info.Title,
		AssetsURL: h.assetsURL,
		SpecURL:   path.Join("/", h.baseURL, "/v3/api-docs"),
	})
	if err != nil {
		slog.ErrorContext(r.Context(), "could not execute template", slogx.Error(errors.WithStack(err)))
	}
}

var _ http.Handler = &Handler{}
