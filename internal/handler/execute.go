package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/devready/code-runner/internal/apperror"
	"github.com/devready/code-runner/internal/model"
)

// RunService is what the handlers need from the service layer. Declared here
// (at the point of use) so tests can inject a mock.
type RunService interface {
	Execute(ctx context.Context, language, code string, timeoutSeconds int) (*model.Run, error)
	Languages() []string
	GetRun(ctx context.Context, id string) (*model.Run, error)
	ListRuns(ctx context.Context, limit, offset int) ([]model.Run, error)
}

// ExecuteHandler handles code execution requests.
type ExecuteHandler struct {
	runs   RunService
	logger *slog.Logger
}

// NewExecuteHandler creates a new ExecuteHandler.
func NewExecuteHandler(runs RunService, logger *slog.Logger) *ExecuteHandler {
	return &ExecuteHandler{
		runs:   runs,
		logger: logger,
	}
}

// executeRequest is the body of POST /api/execute.
// Timeout is optional; zero means "use the server default".
type executeRequest struct {
	Language string `json:"language"`
	Code     string `json:"code"`
	Timeout  int    `json:"timeout"`
}

// executeResponse reports one finished execution. A timed-out run is a
// successful call: the snippet ran and was stopped, so it comes back here,
// not as an error body.
type executeResponse struct {
	ID            string  `json:"id,omitempty"`
	Language      string  `json:"language"`
	Output        string  `json:"output"`
	ExitCode      int     `json:"exitCode"`
	TimedOut      bool    `json:"timedOut"`
	ExecutionTime float64 `json:"executionTime"` // seconds
}

// HandleExecute processes an incoming code execution request.
//
// HTTP: POST /api/execute
// REQUEST BODY: {"language": "python", "code": "print('hi')", "timeout": 10}
func (h *ExecuteHandler) HandleExecute(w http.ResponseWriter, r *http.Request) {
	var req executeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid execution request body", slog.String("error", err.Error()))
		writeError(w, apperror.ValidationFailed("", "request body must be valid JSON"))
		return
	}

	h.logger.Info("executing code snippet",
		slog.String("language", req.Language),
		slog.Int("codeBytes", len(req.Code)),
		slog.Int("timeout", req.Timeout),
	)

	run, err := h.runs.Execute(r.Context(), req.Language, req.Code, req.Timeout)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, executeResponse{
		ID:            run.ID,
		Language:      run.Language,
		Output:        run.Output,
		ExitCode:      run.ExitCode,
		TimedOut:      run.TimedOut,
		ExecutionTime: float64(run.DurationMs) / 1000,
	})
}

// HandleLanguages returns the supported language identifiers.
//
// HTTP: GET /api/languages
func (h *ExecuteHandler) HandleLanguages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{
		"languages": h.runs.Languages(),
	})
}
