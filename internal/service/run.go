// Package service contains the business logic layer: request validation,
// execution orchestration, and run-history access.
//
// Handlers only know HTTP; this layer only knows the domain. It receives the
// executor and repository as interfaces so tests can inject mocks.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/devready/code-runner/internal/apperror"
	"github.com/devready/code-runner/internal/executor"
	"github.com/devready/code-runner/internal/model"
	"github.com/devready/code-runner/internal/repository"
)

const (
	// MaxCodeLength bounds snippet size (~100KB of code).
	MaxCodeLength    = 100000
	DefaultListLimit = 20
	MaxListLimit     = 100

	// storedOutputBudget caps how much combined output is persisted per run.
	// The full output still travels in the execution response.
	storedOutputBudget = 64 * 1024
)

// RunService validates execution requests, runs them, and records history.
type RunService struct {
	exec   executor.Executor
	repo   repository.RunRepository
	logger *slog.Logger
}

// NewRunService creates a RunService.
func NewRunService(exec executor.Executor, repo repository.RunRepository, logger *slog.Logger) *RunService {
	return &RunService{
		exec:   exec,
		repo:   repo,
		logger: logger,
	}
}

// Execute validates the request, runs the snippet, and records the outcome.
//
// Validation failures short-circuit before any process is spawned or
// directory created. A timed-out or non-zero-exit run is a normal outcome;
// only launch/environment faults come back as errors (apperror.ErrExecution).
// History recording is best effort and never fails the execution.
func (s *RunService) Execute(ctx context.Context, language, code string, timeoutSeconds int) (*model.Run, error) {
	language = strings.ToLower(strings.TrimSpace(language))

	var violations []string
	if language == "" {
		violations = append(violations, "missing 'language' parameter")
	}
	if code == "" {
		violations = append(violations, "missing 'code' parameter")
	}
	if len(code) > MaxCodeLength {
		violations = append(violations,
			fmt.Sprintf("code must be %d characters or less", MaxCodeLength))
	}
	if language != "" && !s.supported(language) {
		violations = append(violations, fmt.Sprintf(
			"unsupported language: %s. Supported languages: %s",
			language, strings.Join(s.exec.Languages(), ", ")))
	}
	if len(violations) > 0 {
		return nil, apperror.ValidationFailed("", strings.Join(violations, "; "))
	}

	result, err := s.exec.Execute(ctx, executor.ExecutionRequest{
		Language:       language,
		Code:           code,
		TimeoutSeconds: timeoutSeconds,
	})
	if err != nil {
		s.logger.Error("code execution failed",
			slog.String("language", language),
			slog.String("error", err.Error()),
		)
		return nil, apperror.ExecutionFailed("execution error: " + err.Error())
	}

	run := &model.Run{
		Language:   language,
		ExitCode:   result.ExitCode,
		TimedOut:   result.TimedOut,
		DurationMs: result.Duration.Milliseconds(),
		Output:     truncate(result.Output, storedOutputBudget),
	}
	if err := s.repo.Create(ctx, run); err != nil {
		// The caller still gets their result; history is advisory.
		s.logger.Error("failed to record run",
			slog.String("language", language),
			slog.String("error", err.Error()),
		)
	}

	// Respond with the full output regardless of what was persisted.
	run.Output = result.Output

	return run, nil
}

// Languages returns the supported language identifiers.
func (s *RunService) Languages() []string {
	return s.exec.Languages()
}

// GetRun retrieves one recorded execution.
func (s *RunService) GetRun(ctx context.Context, id string) (*model.Run, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "run ID is required")
	}

	return s.repo.GetByID(ctx, id)
}

// ListRuns retrieves recorded executions with pagination, newest first.
func (s *RunService) ListRuns(ctx context.Context, limit, offset int) ([]model.Run, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	runs, err := s.repo.List(ctx, repository.ListOptions{Limit: limit, Offset: offset})
	if err != nil {
		s.logger.Error("failed to list runs", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing runs: %w", err)
	}

	return runs, nil
}

func (s *RunService) supported(language string) bool {
	for _, name := range s.exec.Languages() {
		if name == language {
			return true
		}
	}
	return false
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
