package http

import (
	"net/http"

	"github.com/dreschagin/vibration-diagnostics/internal/interfaces/http/handler"
	"github.com/dreschagin/vibration-diagnostics/internal/interfaces/http/middleware"
	"github.com/dreschagin/vibration-diagnostics/pkg/config"
	"github.com/dreschagin/vibration-diagnostics/pkg/logger"
)

// Router настраивает маршруты приложения
type Router struct {
	mux                     *http.ServeMux
	diagnosticsAPIHandler   *handler.DiagnosticsAPIHandler
	reportAPIHandler        *handler.ReportAPIHandler
	systemStatusHandler     *handler.SystemStatusHandler
	websocketHandler        *handler.WebSocketHandler
	authAPIHandler          *handler.AuthAPIHandler
	trendAnalyzerAPIHandler *handler.TrendAnalyzerAPIHandler
	security                config.SecurityConfig
	rateLimiter             *middleware.IPRateLimiter
	logger                  *logger.Logger
}

// NewRouter создает новый router
func NewRouter(
	diagnosticsAPIHandler *handler.DiagnosticsAPIHandler,
	reportAPIHandler *handler.ReportAPIHandler,
	systemStatusHandler *handler.SystemStatusHandler,
	websocketHandler *handler.WebSocketHandler,
	authAPIHandler *handler.AuthAPIHandler,
	trendAnalyzerAPIHandler *handler.TrendAnalyzerAPIHandler,
	security config.SecurityConfig,
	rateLimiter *middleware.IPRateLimiter,
	logger *logger.Logger,
) *Router {
	return &Router{
		mux:                     http.NewServeMux(),
		diagnosticsAPIHandler:   diagnosticsAPIHandler,
		reportAPIHandler:        reportAPIHandler,
		systemStatusHandler:     systemStatusHandler,
		websocketHandler:        websocketHandler,
		authAPIHandler:          authAPIHandler,
		trendAnalyzerAPIHandler: trendAnalyzerAPIHandler,
		security:                security,
		rateLimiter:             rateLimiter,
		logger:                  logger,
	}
}

// Setup настраивает все маршруты
func (rt *Router) Setup() http.Handler {
	// Health endpoints are intentionally unauthenticated for probes.
	rt.mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	rt.mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	authMiddleware := middleware.Auth(middleware.AuthConfig{
		Enabled:     rt.security.AuthEnabled,
		BearerToken: rt.security.AuthToken,
	}, rt.logger)

	// WebSocket
	rt.mux.Handle("/ws", authMiddleware(http.HandlerFunc(rt.websocketHandler.HandleConnection)))

	// Auth endpoints
	rt.mux.HandleFunc("/api/v1/auth/login", rt.authAPIHandler.Login)
	rt.mux.HandleFunc("/api/v1/auth/logout", rt.authAPIHandler.Logout)
	rt.mux.HandleFunc("/api/v1/auth/status", rt.authAPIHandler.Status)

	// Diagnostics API
	rt.mux.Handle("/api/v1/diagnostics/run", authMiddleware(http.HandlerFunc(rt.diagnosticsAPIHandler.RunDiagnostics)))
	rt.mux.Handle("/api/v1/assessments/latest", authMiddleware(http.HandlerFunc(rt.diagnosticsAPIHandler.GetLatestAssessment)))
	rt.mux.Handle("/api/v1/assessments/history", authMiddleware(http.HandlerFunc(rt.diagnosticsAPIHandler.GetAssessmentHistory)))
	rt.mux.Handle("/api/v1/equipment", authMiddleware(http.HandlerFunc(rt.diagnosticsAPIHandler.ListEquipment)))

	// Reports API (handler проверяет авторизацию сам, чтобы выставить WWW-Authenticate)
	rt.mux.HandleFunc("/api/v1/reports", rt.reportAPIHandler.HandleReports)

	// System status
	rt.mux.Handle("/api/v1/system/status", authMiddleware(http.HandlerFunc(rt.systemStatusHandler.GetStatus)))

	// Trend analyzer proxy
	if rt.trendAnalyzerAPIHandler != nil {
		rt.mux.Handle("/api/v1/trend-analyzer/summary", authMiddleware(http.HandlerFunc(rt.trendAnalyzerAPIHandler.GetSummary)))
		rt.mux.Handle("/api/v1/trend-analyzer/run", authMiddleware(http.HandlerFunc(rt.trendAnalyzerAPIHandler.RunNow)))
	}

	// Применяем middleware
	var h http.Handler = rt.mux
	h = middleware.Compression(h)
	if rt.rateLimiter != nil {
		h = middleware.RateLimit(rt.rateLimiter)(h)
	}
	h = middleware.Logger(rt.logger)(h)
	h = middleware.Recovery(rt.logger)(h)

	return h
}
