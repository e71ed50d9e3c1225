package port

import (
	"context"
	"time"
)

// HostStatus представляет состояние хоста, на котором работает сервис
type HostStatus struct {
	Hostname      string
	Uptime        time.Duration
	CPUPercent    float64
	MemoryPercent float64
	MemoryUsedMB  float64
	DiskPercent   float64
	GoVersion     string
	CollectedAt   time.Time
}

// HostStatusCollector определяет интерфейс сбора состояния хоста (Port)
// Реализация будет в Infrastructure слое
type HostStatusCollector interface {
	Collect(ctx context.Context) (HostStatus, error)
}
