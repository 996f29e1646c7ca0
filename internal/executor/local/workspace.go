package local

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// workspace is the per-execution disposable directory holding the source
// file. It is owned by exactly one in-flight request: the UUID name makes
// collisions between concurrent requests impossible, so no cross-request
// locking is needed.
type workspace struct {
	ID  string
	Dir string
}

// allocate creates a fresh, uniquely named directory under the sandbox root.
func (e *Executor) allocate() (*workspace, error) {
	if err := os.MkdirAll(e.config.SandboxRoot, 0o755); err != nil {
		return nil, fmt.Errorf("creating sandbox root %s: %w", e.config.SandboxRoot, err)
	}

	id := uuid.NewString()
	dir := filepath.Join(e.config.SandboxRoot, id)
	if err := os.Mkdir(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating execution directory: %w", err)
	}

	return &workspace{ID: id, Dir: dir}, nil
}

// writeSource writes the snippet verbatim (no transformation, no newline
// normalization) to the language's file name and returns the absolute path.
func (ws *workspace) writeSource(profile Profile, code string) (string, error) {
	path := filepath.Join(ws.Dir, profile.SourceFileName())
	if err := os.WriteFile(path, []byte(code), 0o644); err != nil {
		return "", fmt.Errorf("writing source file: %w", err)
	}
	return path, nil
}

// release removes the execution directory and everything the run left in it.
// Failure is logged and swallowed: the caller's result or error must not be
// masked by housekeeping problems.
func (e *Executor) release(ws *workspace) {
	if err := os.RemoveAll(ws.Dir); err != nil {
		e.logger.Error("failed to remove execution directory",
			slog.String("execId", ws.ID),
			slog.String("dir", ws.Dir),
			slog.String("error", err.Error()),
		)
	}
}
