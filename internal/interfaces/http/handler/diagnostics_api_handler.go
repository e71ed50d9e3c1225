package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/dreschagin/vibration-diagnostics/internal/application/port"
	"github.com/dreschagin/vibration-diagnostics/internal/application/usecase"
	"github.com/dreschagin/vibration-diagnostics/internal/domain/valueobject"
	"github.com/dreschagin/vibration-diagnostics/pkg/logger"
)

// DiagnosticsAPIHandler обрабатывает API запросы диагностики
type DiagnosticsAPIHandler struct {
	diagnoseUC   *usecase.DiagnoseSampleUseCase
	getLatestUC  *usecase.GetLatestAssessmentUseCase
	getHistoryUC *usecase.GetAssessmentHistoryUseCase
	maxDuration  time.Duration
	logger       *logger.Logger
}

// diagnoseRequest представляет измерение вибрации в теле POST запроса
type diagnoseRequest struct {
	EquipmentID string    `json:"equipment_id"`
	VH          float64   `json:"vh"`
	VV          float64   `json:"vv"`
	VA          float64   `json:"va"`
	AH          float64   `json:"ah"`
	AV          float64   `json:"av"`
	AA          float64   `json:"aa"`
	Frequency   float64   `json:"frequency"`
	RPM         float64   `json:"rpm"`
	Temperature float64   `json:"temperature,omitempty"`
	MeasuredAt  time.Time `json:"measured_at,omitempty"`
}

// NewDiagnosticsAPIHandler создает новый handler
func NewDiagnosticsAPIHandler(
	diagnoseUC *usecase.DiagnoseSampleUseCase,
	getLatestUC *usecase.GetLatestAssessmentUseCase,
	getHistoryUC *usecase.GetAssessmentHistoryUseCase,
	maxDuration time.Duration,
	logger *logger.Logger,
) *DiagnosticsAPIHandler {
	if maxDuration <= 0 {
		maxDuration = 30 * 24 * time.Hour
	}

	return &DiagnosticsAPIHandler{
		diagnoseUC:   diagnoseUC,
		getLatestUC:  getLatestUC,
		getHistoryUC: getHistoryUC,
		maxDuration:  maxDuration,
		logger:       logger,
	}
}

// RunDiagnostics принимает измерение и возвращает полную оценку здоровья
func (h *DiagnosticsAPIHandler) RunDiagnostics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	defer r.Body.Close()
	var req diagnoseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.EquipmentID) == "" {
		http.Error(w, "Missing required parameter: equipment_id", http.StatusBadRequest)
		return
	}

	measuredAt := req.MeasuredAt
	if measuredAt.IsZero() {
		measuredAt = time.Now().UTC()
	}

	assessment, err := h.diagnoseUC.ExecuteRaw(r.Context(), port.RawSample{
		EquipmentID: req.EquipmentID,
		VH:          req.VH,
		VV:          req.VV,
		VA:          req.VA,
		AH:          req.AH,
		AV:          req.AV,
		AA:          req.AA,
		Frequency:   req.Frequency,
		RPM:         req.RPM,
		Temperature: req.Temperature,
		MeasuredAt:  measuredAt,
	})
	if err != nil {
		h.logger.Error("Diagnostics run failed", err, "equipment_id", req.EquipmentID)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, h.logger, assessment)
}

// GetLatestAssessment возвращает последнюю оценку здоровья агрегата
func (h *DiagnosticsAPIHandler) GetLatestAssessment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	equipmentID := strings.TrimSpace(r.URL.Query().Get("equipment_id"))
	if equipmentID == "" {
		http.Error(w, "Missing required parameter: equipment_id", http.StatusBadRequest)
		return
	}

	assessment, err := h.getLatestUC.Execute(r.Context(), equipmentID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			http.Error(w, "Assessment not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to get latest assessment", err, "equipment_id", equipmentID)
		http.Error(w, "Failed to fetch assessment", http.StatusInternalServerError)
		return
	}

	writeJSON(w, h.logger, assessment)
}

// GetAssessmentHistory возвращает историю оценок за период
func (h *DiagnosticsAPIHandler) GetAssessmentHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	equipmentID := strings.TrimSpace(r.URL.Query().Get("equipment_id"))
	durationStr := r.URL.Query().Get("duration")

	if equipmentID == "" || durationStr == "" {
		http.Error(w, "Missing required parameters: equipment_id, duration", http.StatusBadRequest)
		return
	}

	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		http.Error(w, "Invalid duration format", http.StatusBadRequest)
		return
	}
	if duration <= 0 || duration > h.maxDuration {
		http.Error(w, "Duration out of allowed range", http.StatusBadRequest)
		return
	}

	timeRange, err := valueobject.NewTimeRangeFromDuration(duration)
	if err != nil {
		http.Error(w, "Invalid time range", http.StatusBadRequest)
		return
	}

	history, err := h.getHistoryUC.ExecuteWithAggregation(r.Context(), equipmentID, timeRange)
	if err != nil {
		h.logger.Error("Failed to get assessment history", err, "equipment_id", equipmentID)
		http.Error(w, "Failed to fetch history", http.StatusInternalServerError)
		return
	}

	writeJSON(w, h.logger, history)
}

// ListEquipment возвращает список агрегатов с известными оценками
func (h *DiagnosticsAPIHandler) ListEquipment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ids, err := h.getLatestUC.ListEquipment(r.Context())
	if err != nil {
		h.logger.Error("Failed to list equipment", err)
		http.Error(w, "Failed to fetch equipment list", http.StatusInternalServerError)
		return
	}

	writeJSON(w, h.logger, map[string]any{
		"equipment_ids": ids,
		"count":         len(ids),
	})
}

func writeJSON(w http.ResponseWriter, log *logger.Logger, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error("Failed to encode response", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
