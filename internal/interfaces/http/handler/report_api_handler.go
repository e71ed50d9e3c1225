package handler

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dreschagin/vibration-diagnostics/internal/application/usecase"
	"github.com/dreschagin/vibration-diagnostics/internal/interfaces/http/middleware"
	"github.com/dreschagin/vibration-diagnostics/pkg/logger"
)

type ReportAPIHandler struct {
	exportReportUC  *usecase.ExportDiagnosticReportUseCase
	listReportsUC   *usecase.ListDiagnosticReportsUseCase
	authConfig      middleware.AuthConfig
	logger          *logger.Logger
	maxPayloadBytes int64
	rateLimiter     *fixedWindowRateLimiter
}

type exportReportRequest struct {
	EquipmentID  string    `json:"equipment_id"`
	AssessmentID string    `json:"assessment_id,omitempty"`
	GeneratedAt  time.Time `json:"generated_at,omitempty"`
}

type exportReportResponse struct {
	EquipmentID  string    `json:"equipment_id"`
	AssessmentID string    `json:"assessment_id"`
	S3Key        string    `json:"s3_key"`
	URL          string    `json:"url"`
	SizeBytes    int64     `json:"size_bytes"`
	GeneratedAt  time.Time `json:"generated_at"`
}

type reportListResponse struct {
	Items      []reportListResponseItem `json:"items"`
	NextCursor string                   `json:"next_cursor,omitempty"`
}

type reportListResponseItem struct {
	AssessmentID string    `json:"assessment_id"`
	S3Key        string    `json:"s3_key"`
	URL          string    `json:"url"`
	HealthGrade  string    `json:"health_grade,omitempty"`
	HealthScore  float64   `json:"health_score,omitempty"`
	GeneratedAt  time.Time `json:"generated_at"`
}

func NewReportAPIHandler(
	exportReportUC *usecase.ExportDiagnosticReportUseCase,
	listReportsUC *usecase.ListDiagnosticReportsUseCase,
	authConfig middleware.AuthConfig,
	maxPayloadBytes int64,
	rateLimitPerMinute int,
	log *logger.Logger,
) *ReportAPIHandler {
	if maxPayloadBytes <= 0 {
		maxPayloadBytes = 1024 * 1024
	}
	if rateLimitPerMinute <= 0 {
		rateLimitPerMinute = 30
	}

	return &ReportAPIHandler{
		exportReportUC:  exportReportUC,
		listReportsUC:   listReportsUC,
		authConfig:      authConfig,
		logger:          log,
		maxPayloadBytes: maxPayloadBytes,
		rateLimiter:     newFixedWindowRateLimiter(rateLimitPerMinute, time.Minute),
	}
}

// HandleReports маршрутизирует запросы: POST экспортирует отчет, GET возвращает список
func (h *ReportAPIHandler) HandleReports(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.ExportReport(w, r)
	case http.MethodGet:
		h.ListReports(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ReportAPIHandler) ExportReport(w http.ResponseWriter, r *http.Request) {
	if err := middleware.ValidateRequestAuth(r, h.authConfig); err != nil {
		w.Header().Set("WWW-Authenticate", `Bearer realm="vibration-diagnostics"`)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	clientIP := extractClientIP(r)
	if !h.rateLimiter.Allow(clientIP) {
		http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxPayloadBytes)
	defer r.Body.Close()

	var req exportReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if strings.Contains(err.Error(), "http: request body too large") {
			http.Error(w, "Payload too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.exportReportUC.Execute(r.Context(), usecase.ExportDiagnosticReportCommand{
		EquipmentID:  req.EquipmentID,
		AssessmentID: req.AssessmentID,
		GeneratedAt:  req.GeneratedAt,
	})
	if err != nil {
		h.logger.Error("Failed to export diagnostic report", err,
			"equipment_id", req.EquipmentID,
			"assessment_id", req.AssessmentID,
		)
		statusCode := http.StatusBadRequest
		if strings.Contains(err.Error(), "not found") {
			statusCode = http.StatusNotFound
		}
		if strings.Contains(err.Error(), "failed to upload") {
			statusCode = http.StatusInternalServerError
		}
		http.Error(w, err.Error(), statusCode)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(exportReportResponse{
		EquipmentID:  result.EquipmentID,
		AssessmentID: result.AssessmentID,
		S3Key:        result.S3Key,
		URL:          result.URL,
		SizeBytes:    result.SizeBytes,
		GeneratedAt:  result.GeneratedAt,
	}); err != nil {
		h.logger.Error("Failed to encode export report response", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func (h *ReportAPIHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	if err := middleware.ValidateRequestAuth(r, h.authConfig); err != nil {
		w.Header().Set("WWW-Authenticate", `Bearer realm="vibration-diagnostics"`)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	query := r.URL.Query()
	equipmentID := strings.TrimSpace(query.Get("equipment_id"))
	if equipmentID == "" {
		http.Error(w, "Missing required parameter: equipment_id", http.StatusBadRequest)
		return
	}

	limit := 0
	if rawLimit := strings.TrimSpace(query.Get("limit")); rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil || parsed < 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	from, err := parseOptionalTime(query.Get("from"))
	if err != nil {
		http.Error(w, "Invalid from timestamp", http.StatusBadRequest)
		return
	}
	to, err := parseOptionalTime(query.Get("to"))
	if err != nil {
		http.Error(w, "Invalid to timestamp", http.StatusBadRequest)
		return
	}

	result, err := h.listReportsUC.Execute(r.Context(), usecase.ListDiagnosticReportsCommand{
		EquipmentID: equipmentID,
		Limit:       limit,
		Cursor:      strings.TrimSpace(query.Get("cursor")),
		HealthGrade: strings.TrimSpace(query.Get("grade")),
		From:        from,
		To:          to,
	})
	if err != nil {
		h.logger.Error("Failed to list diagnostic reports", err, "equipment_id", equipmentID)
		statusCode := http.StatusInternalServerError
		if strings.Contains(err.Error(), "invalid") {
			statusCode = http.StatusBadRequest
		}
		http.Error(w, err.Error(), statusCode)
		return
	}

	items := make([]reportListResponseItem, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, reportListResponseItem{
			AssessmentID: item.AssessmentID,
			S3Key:        item.S3Key,
			URL:          item.URL,
			HealthGrade:  item.HealthGrade,
			HealthScore:  item.HealthScore,
			GeneratedAt:  item.GeneratedAt,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(reportListResponse{
		Items:      items,
		NextCursor: result.NextCursor,
	}); err != nil {
		h.logger.Error("Failed to encode report list response", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func parseOptionalTime(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, value)
}

func extractClientIP(r *http.Request) string {
	xForwardedFor := strings.TrimSpace(r.Header.Get("X-Forwarded-For"))
	if xForwardedFor != "" {
		parts := strings.Split(xForwardedFor, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}

type fixedWindowRateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	entries map[string]*rateLimitEntry
}

type rateLimitEntry struct {
	windowStart time.Time
	count       int
}

func newFixedWindowRateLimiter(limit int, window time.Duration) *fixedWindowRateLimiter {
	return &fixedWindowRateLimiter{
		limit:   limit,
		window:  window,
		entries: make(map[string]*rateLimitEntry),
	}
}

func (rl *fixedWindowRateLimiter) Allow(key string) bool {
	now := time.Now()
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, ok := rl.entries[key]
	if !ok || now.Sub(entry.windowStart) >= rl.window {
		rl.entries[key] = &rateLimitEntry{windowStart: now, count: 1}
		return true
	}

	if entry.count >= rl.limit {
		return false
	}

	entry.count++
	return true
}
