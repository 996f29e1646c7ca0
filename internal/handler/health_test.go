package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devready/code-runner/internal/handler"
)

func TestHandleHealth(t *testing.T) {
	h := handler.NewHealthHandler([]string{"go", "python"}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	h.HandleHealth(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.NotEmpty(t, resp["time"])

	// Stat samples are best effort, but the containers are always present.
	assert.Contains(t, resp, "system")
	assert.Contains(t, resp, "process")
}

func TestHandleInfo(t *testing.T) {
	h := handler.NewHealthHandler([]string{"go", "python"}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	h.HandleInfo(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, handler.Version, resp["version"])

	langs, ok := resp["supportedLanguages"].([]any)
	require.True(t, ok, "supportedLanguages should be a list")
	assert.Contains(t, langs, "python")
}
