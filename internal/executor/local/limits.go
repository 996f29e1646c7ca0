package local

import (
	"fmt"
	"os/exec"
	"strings"
	"syscall"
	"time"
)

// buildLimitedCommand wraps the launch argv in a shell that applies the
// resource ceilings before exec'ing the payload. Go offers no way to run code
// between fork and exec in the child, so the shell sets the ulimits on itself
// and the children inherit them: process count, CPU seconds, and virtual
// memory all bind the whole tree.
//
// The paths involved are built from the sandbox root, a UUID and a fixed file
// name, so joining argv with spaces is unambiguous.
func (e *Executor) buildLimitedCommand(argv []string, dir string, cpuSeconds int) *exec.Cmd {
	limits := []string{
		fmt.Sprintf("ulimit -t %d", cpuSeconds),
		fmt.Sprintf("ulimit -u %d", e.config.MaxProcesses),
		// ulimit -v takes kilobytes
		fmt.Sprintf("ulimit -v %d", e.config.MemoryLimit/1024),
	}

	var payload string
	if len(argv) == 3 && argv[0] == "sh" && argv[1] == "-c" {
		// Compile-then-run pipelines are already shell commands.
		payload = argv[2]
	} else {
		payload = "exec " + strings.Join(argv, " ")
	}

	script := strings.Join(limits, "; ") + "; " + payload

	cmd := exec.Command("sh", "-c", script)
	cmd.Dir = dir
	// Own process group, so signaling the group never touches the server.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	// Stop waiting on the stdout/stderr pipes if an orphaned grandchild
	// keeps them open after the child itself is gone.
	cmd.WaitDelay = 2 * time.Second
	return cmd
}
