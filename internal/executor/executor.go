package executor

import (
	"context"
	"time"
)

// ExecutionRequest represents a request to execute a code snippet.
// Language is matched case-insensitively against the supported set.
// TimeoutSeconds of zero means "use the configured default".
type ExecutionRequest struct {
	Language       string `json:"language"`
	Code           string `json:"code"`
	TimeoutSeconds int    `json:"timeout"`
}

// ExecutionResult represents the output and status of the code execution.
//
// Output holds stdout and stderr combined: stderr is appended after a blank
// line when both streams are non-empty. A timed-out run is a normal result
// (TimedOut true, ExitCode -1), not an error.
type ExecutionResult struct {
	Output   string        `json:"output"`
	ExitCode int           `json:"exitCode"`
	TimedOut bool          `json:"timedOut"`
	Duration time.Duration `json:"duration"`
}

// Executor represents the core interface for running code in an isolated environment.
type Executor interface {
	Execute(ctx context.Context, req ExecutionRequest) (*ExecutionResult, error)
	// Languages returns the supported language identifiers, including aliases.
	Languages() []string
}
