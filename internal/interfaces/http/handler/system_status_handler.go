package handler

import (
	"net/http"
	"time"

	"github.com/dreschagin/vibration-diagnostics/internal/application/port"
	"github.com/dreschagin/vibration-diagnostics/pkg/logger"
)

// SystemStatusHandler отдает состояние хоста и сервиса
type SystemStatusHandler struct {
	hostCollector port.HostStatusCollector
	notifier      port.NotificationService
	startedAt     time.Time
	logger        *logger.Logger
}

// NewSystemStatusHandler создает новый handler
func NewSystemStatusHandler(
	hostCollector port.HostStatusCollector,
	notifier port.NotificationService,
	logger *logger.Logger,
) *SystemStatusHandler {
	return &SystemStatusHandler{
		hostCollector: hostCollector,
		notifier:      notifier,
		startedAt:     time.Now().UTC(),
		logger:        logger,
	}
}

// GetStatus возвращает текущее состояние хоста и количество подключенных клиентов
func (h *SystemStatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"service_uptime_seconds": int64(time.Since(h.startedAt).Seconds()),
	}

	if h.notifier != nil {
		response["websocket_clients"] = h.notifier.ClientCount()
	}

	if h.hostCollector != nil {
		status, err := h.hostCollector.Collect(r.Context())
		if err != nil {
			h.logger.Error("Failed to collect host status", err)
		} else {
			response["host"] = map[string]any{
				"hostname":       status.Hostname,
				"uptime_seconds": int64(status.Uptime.Seconds()),
				"cpu_percent":    status.CPUPercent,
				"memory_percent": status.MemoryPercent,
				"memory_used_mb": status.MemoryUsedMB,
				"disk_percent":   status.DiskPercent,
				"go_version":     status.GoVersion,
				"collected_at":   status.CollectedAt,
			}
		}
	}

	writeJSON(w, h.logger, response)
}
