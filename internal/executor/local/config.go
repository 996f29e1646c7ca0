package local

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds the sandbox policy for local process execution.
//
// The ceilings are fixed by policy for the lifetime of the process; only the
// CPU-time ceiling varies per request, because it tracks the requested
// wall-clock timeout.
type Config struct {
	// SandboxRoot is the directory under which per-execution directories are created.
	SandboxRoot string
	// DefaultTimeout (seconds) applies when a request does not specify a timeout.
	DefaultTimeout int
	// MaxTimeout (seconds) is the upper bound requests are clamped to.
	MaxTimeout int
	// MaxProcesses caps how many processes/threads the child tree may create.
	MaxProcesses int
	// MemoryLimit is the virtual memory ceiling for the child tree (in bytes).
	MemoryLimit int64
	// MonitorInterval is how often the advisory monitor samples the child.
	MonitorInterval time.Duration
}

// DefaultConfig provides the policy the hosted runner ships with.
func DefaultConfig() Config {
	return Config{
		SandboxRoot:    filepath.Join(os.TempDir(), "code-runner"),
		DefaultTimeout: 30,
		MaxTimeout:     120,
		// Low enough to stop fork bombs, high enough for `go run` and tsc pipelines.
		MaxProcesses: 20,
		// 512 MB virtual memory
		MemoryLimit:     512 * 1024 * 1024,
		MonitorInterval: 500 * time.Millisecond,
	}
}
