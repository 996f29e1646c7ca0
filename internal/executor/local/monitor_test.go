package local

import (
	"context"
	"os/exec"
	"testing"
	"time"
)

func TestMonitor_ReturnsAfterProcessExit(t *testing.T) {
	e := newTestExecutor(t)
	e.config.MonitorInterval = 25 * time.Millisecond

	cmd := exec.Command("sleep", "0.2")
	if err := cmd.Start(); err != nil {
		t.Fatalf("starting sleep: %v", err)
	}

	done := make(chan struct{})
	go func() {
		e.monitor(context.Background(), "test-exec", cmd.Process.Pid)
		close(done)
	}()

	_ = cmd.Wait()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("monitor did not stop after the process exited")
	}
}

func TestMonitor_ReturnsOnContextCancel(t *testing.T) {
	e := newTestExecutor(t)
	e.config.MonitorInterval = 25 * time.Millisecond

	cmd := exec.Command("sleep", "10")
	if err := cmd.Start(); err != nil {
		t.Fatalf("starting sleep: %v", err)
	}
	defer func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	}()

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		e.monitor(ctx, "test-exec", cmd.Process.Pid)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("monitor did not stop on context cancellation")
	}
}

func TestMonitor_NonexistentProcess(t *testing.T) {
	e := newTestExecutor(t)
	e.config.MonitorInterval = 25 * time.Millisecond

	done := make(chan struct{})
	go func() {
		// A PID far above pid_max never maps to a live process.
		e.monitor(context.Background(), "test-exec", 1<<30)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("monitor did not stop for a nonexistent process")
	}
}
