package handler

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dreschagin/vibration-diagnostics/internal/interfaces/http/middleware"
	"github.com/dreschagin/vibration-diagnostics/pkg/logger"
)

const maxTrendAnalyzerResponseBytes = 2 * 1024 * 1024

type TrendAnalyzerAPIHandler struct {
	baseURL string
	client  *http.Client
	logger  *logger.Logger
}

func NewTrendAnalyzerAPIHandler(baseURL string, timeout time.Duration, log *logger.Logger) *TrendAnalyzerAPIHandler {
	if timeout <= 0 {
		timeout = 6 * time.Second
	}

	return &TrendAnalyzerAPIHandler{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client: &http.Client{
			Timeout: timeout,
		},
		logger: log,
	}
}

func (h *TrendAnalyzerAPIHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.proxy(r.Context(), w, http.MethodGet, "/api/v1/trend-analyzer/summary")
}

func (h *TrendAnalyzerAPIHandler) RunNow(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.proxy(r.Context(), w, http.MethodPost, "/api/v1/trend-analyzer/run")
}

func (h *TrendAnalyzerAPIHandler) proxy(ctx context.Context, w http.ResponseWriter, method string, path string) {
	if h.baseURL == "" {
		middleware.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "trend analyzer base URL is not configured",
		})
		return
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, nil)
	if err != nil {
		h.logger.Error("Failed to build trend analyzer request", err, "path", path)
		middleware.WriteJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to build trend analyzer request",
		})
		return
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		h.logger.Error("Trend analyzer request failed", err, "path", path)
		middleware.WriteJSON(w, http.StatusBadGateway, map[string]string{
			"error": "trend analyzer is unavailable",
		})
		return
	}
	defer resp.Body.Close()

	body, err := readLimited(resp.Body, maxTrendAnalyzerResponseBytes)
	if err != nil {
		h.logger.Error("Failed to read trend analyzer response body", err, "path", path)
		middleware.WriteJSON(w, http.StatusBadGateway, map[string]string{
			"error": "failed to read trend analyzer response",
		})
		return
	}

	contentType := strings.TrimSpace(resp.Header.Get("Content-Type"))
	if contentType == "" {
		contentType = "application/json"
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(resp.StatusCode)
	if _, err := w.Write(body); err != nil {
		h.logger.Error("Failed to write trend analyzer response to client", err, "path", path)
	}
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	lr := io.LimitReader(r, limit+1)
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, io.ErrUnexpectedEOF
	}
	return data, nil
}
