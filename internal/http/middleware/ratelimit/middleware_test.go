package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestMiddleware(t *testing.T) {
	middleware := Middleware(WithLimit(time.Hour, 2))

	handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(remoteAddr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
		req.RemoteAddr = remoteAddr
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)
		return res
	}

	for i := range 2 {
		if e, g := http.StatusOK, send("192.0.2.1:1234").Code; e != g {
			t.Fatalf("request #%d: expected status %d, got %d", i, e, g)
		}
	}

	res := send("192.0.2.1:4321")
	if e, g := http.StatusTooManyRequests, res.Code; e != g {
		t.Fatalf("res.Code: expected %d, got %d", e, g)
	}

	if res.Header().Get("Retry-After") == "" {
		t.Errorf("Retry-After header should be set")
	}

	if e, g := http.StatusOK, send("192.0.2.2:1234").Code; e != g {
		t.Errorf("other client: expected status %d, got %d", e, g)
	}
}

func TestMiddlewareTrustHeaders(t *testing.T) {
	middleware := Middleware(WithLimit(time.Hour, 1), WithTrustHeaders(true))

	handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(forwardedFor string) int {
		req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		req.Header.Set("X-Forwarded-For", forwardedFor)
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)
		return res.Code
	}

	if e, g := http.StatusOK, send("203.0.113.1, 10.0.0.1"); e != g {
		t.Fatalf("expected status %d, got %d", e, g)
	}

	if e, g := http.StatusOK, send("203.0.113.2"); e != g {
		t.Errorf("distinct forwarded client: expected status %d, got %d", e, g)
	}

	if e, g := http.StatusTooManyRequests, send("203.0.113.1"); e != g {
		t.Errorf("same forwarded client: expected status %d, got %d", e, g)
	}
}
