package handler

import (
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
)

// Version is reported by the health and info endpoints.
const Version = "2.0.0"

// HealthHandler serves liveness and service-info endpoints.
type HealthHandler struct {
	languages []string
	logger    *slog.Logger
	started   time.Time
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(languages []string, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		languages: languages,
		logger:    logger,
		started:   time.Now(),
	}
}

// HandleHealth reports service status plus host and process statistics.
// The samples are advisory; a failed sample is logged and the field omitted
// rather than failing the health check.
//
// HTTP: GET /health
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	system := map[string]any{}
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		system["cpuPercent"] = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		system["memoryPercent"] = vm.UsedPercent
	}
	if du, err := disk.Usage("/"); err == nil {
		system["diskPercent"] = du.UsedPercent
	}

	proc := map[string]any{
		"uptimeSeconds": time.Since(h.started).Seconds(),
	}
	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if cpuPercent, err := p.CPUPercent(); err == nil {
			proc["cpuPercent"] = cpuPercent
		}
		if memInfo, err := p.MemoryInfo(); err == nil {
			proc["memoryMB"] = float64(memInfo.RSS) / (1024 * 1024)
		}
		if threads, err := p.NumThreads(); err == nil {
			proc["threads"] = threads
		}
	} else {
		h.logger.Debug("process stats unavailable", slog.String("error", err.Error()))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"message": "code runner service is operational",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"system":  system,
		"process": proc,
	})
}

// HandleInfo reports service metadata: version, endpoints, supported
// languages, and basic host facts.
//
// HTTP: GET /
func (h *HealthHandler) HandleInfo(w http.ResponseWriter, r *http.Request) {
	system := map[string]any{
		"cpus": runtime.NumCPU(),
	}
	if info, err := host.Info(); err == nil {
		system["hostname"] = info.Hostname
		system["platform"] = info.Platform
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"service": "Code Runner Service",
		"version": Version,
		"endpoints": map[string]string{
			"/api/execute":   "POST - run a code snippet",
			"/api/languages": "GET - supported languages",
			"/api/runs":      "GET - execution history",
			"/health":        "GET - service health check",
		},
		"supportedLanguages": h.languages,
		"systemInfo":         system,
	})
}
