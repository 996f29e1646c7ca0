package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devready/code-runner/internal/apperror"
	"github.com/devready/code-runner/internal/handler"
	"github.com/devready/code-runner/internal/model"
)

// newRunsRouter mounts the handler the way the server does, so PathValue
// and query parsing are exercised through real routing.
func newRunsRouter(svc *mockRunService) *chi.Mux {
	h := handler.NewRunsHandler(svc, testLogger())
	r := chi.NewRouter()
	r.Get("/api/runs", h.HandleList)
	r.Get("/api/runs/{id}", h.HandleGetByID)
	return r
}

func TestHandleList(t *testing.T) {
	t.Run("returns recorded runs", func(t *testing.T) {
		svc := &mockRunService{
			listFn: func(_ context.Context, limit, offset int) ([]model.Run, error) {
				assert.Equal(t, 5, limit)
				assert.Equal(t, 10, offset)
				return []model.Run{
					{ID: "run_b", Language: "go", CreatedAt: time.Now()},
					{ID: "run_a", Language: "python", CreatedAt: time.Now().Add(-time.Minute)},
				}, nil
			},
		}
		router := newRunsRouter(svc)

		req := httptest.NewRequest(http.MethodGet, "/api/runs?limit=5&offset=10", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var runs []model.Run
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runs))
		require.Len(t, runs, 2)
		assert.Equal(t, "run_b", runs[0].ID)
	})

	t.Run("non-numeric pagination falls back to defaults", func(t *testing.T) {
		svc := &mockRunService{
			listFn: func(_ context.Context, limit, offset int) ([]model.Run, error) {
				// strconv.Atoi failure leaves the zero value; the service
				// layer turns that into its defaults.
				assert.Equal(t, 0, limit)
				assert.Equal(t, 0, offset)
				return []model.Run{}, nil
			},
		}
		router := newRunsRouter(svc)

		req := httptest.NewRequest(http.MethodGet, "/api/runs?limit=abc&offset=xyz", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestHandleGetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := &mockRunService{
			getFn: func(_ context.Context, id string) (*model.Run, error) {
				assert.Equal(t, "run_abc", id)
				return &model.Run{ID: "run_abc", Language: "python", ExitCode: 0}, nil
			},
		}
		router := newRunsRouter(svc)

		req := httptest.NewRequest(http.MethodGet, "/api/runs/run_abc", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var run model.Run
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &run))
		assert.Equal(t, "run_abc", run.ID)
	})

	t.Run("not found", func(t *testing.T) {
		svc := &mockRunService{
			getFn: func(_ context.Context, id string) (*model.Run, error) {
				return nil, apperror.NotFound("run", id)
			},
		}
		router := newRunsRouter(svc)

		req := httptest.NewRequest(http.MethodGet, "/api/runs/run_missing", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)

		var resp handler.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "not_found", resp.Error)
	})
}
