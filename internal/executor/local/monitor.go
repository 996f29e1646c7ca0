package local

import (
	"context"
	"log/slog"
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

// monitor samples CPU percentage and resident memory of the running child at
// a fixed interval until the process no longer exists.
//
// It is purely advisory: it runs fire-and-forget, sampling errors are logged
// and the loop continues, and nothing here feeds back into the supervisor's
// timeout or result.
func (e *Executor) monitor(ctx context.Context, execID string, pid int) {
	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		e.logger.Debug("resource monitor could not attach",
			slog.String("execId", execID),
			slog.String("error", err.Error()),
		)
		return
	}

	ticker := time.NewTicker(e.config.MonitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		running, err := proc.IsRunning()
		if err != nil || !running {
			return
		}

		cpuPercent, err := proc.CPUPercent()
		if err != nil {
			e.logger.Debug("cpu sample failed",
				slog.String("execId", execID),
				slog.String("error", err.Error()),
			)
			continue
		}

		memInfo, err := proc.MemoryInfo()
		if err != nil {
			e.logger.Debug("memory sample failed",
				slog.String("execId", execID),
				slog.String("error", err.Error()),
			)
			continue
		}

		attrs := []any{
			slog.String("execId", execID),
			slog.Float64("cpuPercent", cpuPercent),
			slog.Float64("memoryMB", float64(memInfo.RSS)/(1024*1024)),
		}
		if children, childErr := proc.Children(); childErr == nil && len(children) > 0 {
			attrs = append(attrs, slog.Int("children", len(children)))
		}
		e.logger.Debug("process stats", attrs...)
	}
}
