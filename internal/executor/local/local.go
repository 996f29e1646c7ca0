// Package local implements the executor.Executor interface by running
// interpreters and compilers directly on the host.
//
// Each execution gets a disposable working directory, its own process group,
// rlimit-style ceilings (process count, CPU time, virtual memory), and a
// wall-clock timeout that terminates the whole process tree. This is not
// namespace or container isolation; the service is expected to run inside
// an already isolated host.
package local

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/devready/code-runner/internal/executor"
)

// Executor runs snippets as supervised local processes.
type Executor struct {
	config Config
	logger *slog.Logger
}

// New creates a local Executor and makes sure the sandbox root exists.
func New(cfg Config, logger *slog.Logger) (*Executor, error) {
	if err := os.MkdirAll(cfg.SandboxRoot, 0o755); err != nil {
		return nil, fmt.Errorf("creating sandbox root %s: %w", cfg.SandboxRoot, err)
	}
	return &Executor{config: cfg, logger: logger}, nil
}

// Languages returns the supported language identifiers.
func (e *Executor) Languages() []string {
	return SupportedLanguages()
}

// Execute runs the snippet in a fresh execution directory under the
// configured resource ceilings.
//
// A run that exits non-zero or times out is a successful execution: the
// result reports what happened. Execute only returns an error when the
// process could not be run at all (unsupported language, workspace I/O
// failure, launch failure).
func (e *Executor) Execute(ctx context.Context, req executor.ExecutionRequest) (*executor.ExecutionResult, error) {
	profile, ok := lookupProfile(req.Language)
	if !ok {
		return nil, fmt.Errorf("unsupported language %q (supported: %s)",
			req.Language, strings.Join(SupportedLanguages(), ", "))
	}
	timeout := e.clampTimeout(req.TimeoutSeconds)

	setupStart := time.Now()
	ws, err := e.allocate()
	if err != nil {
		return nil, fmt.Errorf("allocating execution directory: %w", err)
	}
	// The workspace is released on every exit path, including launch failure.
	defer func() {
		cleanupStart := time.Now()
		e.release(ws)
		e.logger.Debug("cleanup completed",
			slog.String("execId", ws.ID),
			slog.Duration("took", time.Since(cleanupStart)),
		)
	}()

	e.logger.Info("starting execution",
		slog.String("execId", ws.ID),
		slog.String("language", strings.ToLower(req.Language)),
		slog.Int("timeoutSeconds", timeout),
		slog.Int("codeBytes", len(req.Code)),
	)

	srcPath, err := ws.writeSource(profile, req.Code)
	if err != nil {
		return nil, fmt.Errorf("preparing source: %w", err)
	}
	e.logger.Debug("setup completed",
		slog.String("execId", ws.ID),
		slog.Duration("took", time.Since(setupStart)),
	)

	cmd := e.buildLimitedCommand(profile.Command(srcPath), ws.Dir, timeout)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting process: %w", err)
	}
	e.logger.Debug("process started",
		slog.String("execId", ws.ID),
		slog.Int("pid", cmd.Process.Pid),
	)

	go e.monitor(ctx, ws.ID, cmd.Process.Pid)

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	timer := time.NewTimer(time.Duration(timeout) * time.Second)
	defer timer.Stop()

	var (
		exitCode int
		timedOut bool
	)

	select {
	case waitErr := <-done:
		exitCode = exitCodeFrom(waitErr, cmd)

	case <-timer.C:
		timedOut = true
		e.logger.Warn("process timeout",
			slog.String("execId", ws.ID),
			slog.Int("timeoutSeconds", timeout),
		)
		e.killTree(ws.ID, cmd)
		// Reap the child; the wait channel is consumed exactly once.
		<-done
		exitCode = -1
		fmt.Fprintf(&stderr, "\n\nExecution timed out after %d seconds.", timeout)
	}

	duration := time.Since(start)
	e.logger.Info("execution finished",
		slog.String("execId", ws.ID),
		slog.Int("exitCode", exitCode),
		slog.Bool("timedOut", timedOut),
		slog.Duration("duration", duration),
		slog.Int("stdoutBytes", stdout.Len()),
		slog.Int("stderrBytes", stderr.Len()),
	)

	return &executor.ExecutionResult{
		Output:   combineOutput(stdout.String(), stderr.String(), exitCode),
		ExitCode: exitCode,
		TimedOut: timedOut,
		Duration: duration,
	}, nil
}

// clampTimeout normalizes the requested timeout into [1, MaxTimeout],
// defaulting when the request carries none.
func (e *Executor) clampTimeout(seconds int) int {
	if seconds <= 0 {
		seconds = e.config.DefaultTimeout
	}
	if seconds < 1 {
		seconds = 1
	}
	if seconds > e.config.MaxTimeout {
		seconds = e.config.MaxTimeout
	}
	return seconds
}

// killTree signals the child's entire process group for termination, then
// forcibly kills the direct child regardless. Both attempts are independently
// best effort (the group may already be gone) and neither failure is
// escalated: the request still completes with a result.
func (e *Executor) killTree(execID string, cmd *exec.Cmd) {
	pid := cmd.Process.Pid
	// Setpgid made the child the group leader, so -pid addresses the group.
	if err := syscall.Kill(-pid, syscall.SIGTERM); err != nil {
		e.logger.Debug("failed to signal process group",
			slog.String("execId", execID),
			slog.String("error", err.Error()),
		)
	}
	if err := cmd.Process.Kill(); err != nil {
		e.logger.Debug("failed to kill process",
			slog.String("execId", execID),
			slog.String("error", err.Error()),
		)
	}
}

// exitCodeFrom extracts the child's exit code after Wait has returned.
func exitCodeFrom(waitErr error, cmd *exec.Cmd) int {
	if waitErr == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return exitErr.ExitCode()
	}
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	return -1
}

// combineOutput merges the two streams: stderr is appended after a blank
// line when stdout is non-empty, and stands alone when stdout is empty. A
// silent non-zero exit gets a synthetic message so callers always see why
// the run produced nothing.
func combineOutput(stdout, stderr string, exitCode int) string {
	output := stdout
	if stderr != "" {
		if output != "" {
			output += "\n\n" + stderr
		} else {
			output = stderr
		}
	}
	if output == "" && exitCode != 0 {
		output = fmt.Sprintf("Process exited with code %d", exitCode)
	}
	return output
}
