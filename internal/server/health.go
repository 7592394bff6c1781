package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

const gb = 1024 * 1024 * 1024

// healthHandler reports service state and host metrics. Host probes that fail
// are left out of the response instead of failing the check.
func (s *Server) healthHandler(c echo.Context) error {
	uptime := time.Since(s.startTime)

	resp := map[string]any{
		"status": "online",
		"service": map[string]any{
			"uptime":     uptime.Truncate(time.Second).String(),
			"start_time": s.startTime.Format(time.RFC3339),
			"model":      s.model,
			"dashboards": s.dashboards.Len(),
		},
	}

	// 1. Host/Runtime Info
	if hInfo, err := host.Info(); err == nil {
		resp["runtime"] = map[string]any{
			"os":       hInfo.OS,
			"platform": hInfo.Platform,
			"arch":     hInfo.KernelArch,
			"hostname": hInfo.Hostname,
		}
	}

	// 2. CPU Usage since the previous call
	if cpuPercent, err := cpu.Percent(0, false); err == nil && len(cpuPercent) > 0 {
		resp["cpu"] = map[string]any{
			"usage_percent": fmt.Sprintf("%.2f%%", cpuPercent[0]),
		}
	}

	// 3. Memory Stats
	if v, err := mem.VirtualMemory(); err == nil {
		resp["memory"] = map[string]any{
			"total_gb":     fmt.Sprintf("%.2f GB", float64(v.Total)/gb),
			"used_gb":      fmt.Sprintf("%.2f GB", float64(v.Used)/gb),
			"used_percent": fmt.Sprintf("%.2f%%", v.UsedPercent),
		}
	}

	// 4. Disk Stats (Root partition)
	if d, err := disk.Usage("/"); err == nil {
		resp["disk"] = map[string]any{
			"total_gb":     fmt.Sprintf("%.2f GB", float64(d.Total)/gb),
			"used_gb":      fmt.Sprintf("%.2f GB", float64(d.Used)/gb),
			"used_percent": fmt.Sprintf("%.2f%%", d.UsedPercent),
		}
	}

	return c.JSON(http.StatusOK, resp)
}
