package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
)

func loggedHandler(t *testing.T, next http.HandlerFunc) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return Logger(logger)(next)
}

func TestLogger_SetsResponseTimeHeader(t *testing.T) {
	h := loggedHandler(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	header := rec.Header().Get("X-Response-Time")
	if header == "" {
		t.Fatal("X-Response-Time header not set")
	}
	seconds, err := strconv.ParseFloat(header, 64)
	if err != nil {
		t.Fatalf("X-Response-Time %q is not a float: %v", header, err)
	}
	if seconds < 0 {
		t.Errorf("X-Response-Time = %f, want >= 0", seconds)
	}
}

func TestLogger_SetsHeaderOnImplicitWriteHeader(t *testing.T) {
	// Handlers that go straight to Write never call WriteHeader themselves.
	h := loggedHandler(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Header().Get("X-Response-Time") == "" {
		t.Error("X-Response-Time header not set on implicit WriteHeader")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestLogger_PreservesStatusCode(t *testing.T) {
	h := loggedHandler(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs/x", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if rec.Header().Get("X-Response-Time") == "" {
		t.Error("X-Response-Time header not set on error responses")
	}
}
