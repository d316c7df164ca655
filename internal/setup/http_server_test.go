package setup_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bornholm/taskmanager/internal/config"
	"github.com/bornholm/taskmanager/internal/setup"
	"github.com/pkg/errors"

	_ "github.com/bornholm/taskmanager/internal/adapter/memory"
)

func TestNewHTTPServerFromConfig(t *testing.T) {
	t.Setenv("TASKMANAGER_STORAGE_URI", "memory://")

	conf, err := config.Parse()
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	server, err := setup.NewHTTPServerFromConfig(t.Context(), conf)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	handler := server.Handler()

	t.Run("CreateAndList", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader(`{"title":"A"}`))
		req.Header.Set("Content-Type", "application/json")
		res := httptest.NewRecorder()

		handler.ServeHTTP(res, req)

		if e, g := http.StatusOK, res.Code; e != g {
			t.Fatalf("res.Code: expected %d, got %d", e, g)
		}

		req = httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		res = httptest.NewRecorder()

		handler.ServeHTTP(res, req)

		if e, g := http.StatusOK, res.Code; e != g {
			t.Fatalf("res.Code: expected %d, got %d", e, g)
		}

		var tasks []map[string]any
		if err := json.Unmarshal(res.Body.Bytes(), &tasks); err != nil {
			t.Fatalf("%+v", errors.WithStack(err))
		}

		if e, g := 1, len(tasks); e != g {
			t.Errorf("len(tasks): expected %d, got %d", e, g)
		}
	})

	t.Run("CORSPreflight", func(t *testing.T) {
		testCases := []struct {
			Origin  string
			Allowed bool
		}{
			{Origin: "http://localhost:3000", Allowed: true},
			{Origin: "http://evil.example", Allowed: false},
		}

		for _, tc := range testCases {
			req := httptest.NewRequest(http.MethodOptions, "/api/tasks", nil)
			req.Header.Set("Origin", tc.Origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			res := httptest.NewRecorder()

			handler.ServeHTTP(res, req)

			allowOrigin := res.Header().Get("Access-Control-Allow-Origin")

			if tc.Allowed && allowOrigin != tc.Origin {
				t.Errorf("origin %s: expected Access-Control-Allow-Origin %s, got '%s'", tc.Origin, tc.Origin, allowOrigin)
			}

			if !tc.Allowed && allowOrigin != "" {
				t.Errorf("origin %s: expected no Access-Control-Allow-Origin, got '%s'", tc.Origin, allowOrigin)
			}
		}
	})

	t.Run("APIDocs", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v3/api-docs", nil)
		res := httptest.NewRecorder()

		handler.ServeHTTP(res, req)

		if e, g := http.StatusOK, res.Code; e != g {
			t.Fatalf("res.Code: expected %d, got %d", e, g)
		}

		if !strings.Contains(res.Body.String(), `"/api/tasks/{taskID}"`) {
			t.Errorf("api docs should document '/api/tasks/{taskID}'")
		}
	})

	t.Run("Metrics", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/metrics/", nil)
		res := httptest.NewRecorder()

		handler.ServeHTTP(res, req)

		if e, g := http.StatusOK, res.Code; e != g {
			t.Fatalf("res.Code: expected %d, got %d", e, g)
		}

		if !strings.Contains(res.Body.String(), "taskmanager_store_operations") {
			t.Errorf("metrics should expose store operations")
		}
	})
}
