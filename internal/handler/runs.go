package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// RunsHandler serves the recorded execution history.
type RunsHandler struct {
	runs   RunService
	logger *slog.Logger
}

// NewRunsHandler creates a new RunsHandler.
func NewRunsHandler(runs RunService, logger *slog.Logger) *RunsHandler {
	return &RunsHandler{
		runs:   runs,
		logger: logger,
	}
}

// HandleList returns recorded executions, newest first.
//
// HTTP: GET /api/runs?limit=20&offset=0
func (h *RunsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	runs, err := h.runs.ListRuns(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error("failed to list runs", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, runs)
}

// HandleGetByID returns one recorded execution.
//
// HTTP: GET /api/runs/{id}
func (h *RunsHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := h.runs.GetRun(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, run)
}
