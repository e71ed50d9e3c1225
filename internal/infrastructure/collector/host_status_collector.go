package collector

import (
	"context"
	"runtime"
	"time"

	"github.com/dreschagin/vibration-diagnostics/internal/application/port"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// HostStatusCollector собирает состояние хоста, на котором работает сервис
// Реализует интерфейс port.HostStatusCollector
type HostStatusCollector struct {
	rootPath string
}

// NewHostStatusCollector создает новый host collector
func NewHostStatusCollector() *HostStatusCollector {
	return &HostStatusCollector{rootPath: "/"}
}

// Collect собирает текущее состояние хоста
func (c *HostStatusCollector) Collect(ctx context.Context) (port.HostStatus, error) {
	status := port.HostStatus{
		GoVersion:   runtime.Version(),
		CollectedAt: time.Now().UTC(),
	}

	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return port.HostStatus{}, err
	}
	status.Hostname = info.Hostname
	status.Uptime = time.Duration(info.Uptime) * time.Second

	// Процент использования CPU за короткое окно
	percentages, err := cpu.PercentWithContext(ctx, 500*time.Millisecond, false)
	if err == nil && len(percentages) > 0 {
		status.CPUPercent = percentages[0]
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		status.MemoryPercent = vm.UsedPercent
		status.MemoryUsedMB = float64(vm.Used) / 1024 / 1024
	}

	if usage, err := disk.UsageWithContext(ctx, c.rootPath); err == nil {
		status.DiskPercent = usage.UsedPercent
	}

	return status, nil
}
