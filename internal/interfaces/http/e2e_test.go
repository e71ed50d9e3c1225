package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dreschagin/vibration-diagnostics/internal/application/dto"
	"github.com/dreschagin/vibration-diagnostics/internal/application/port"
	"github.com/dreschagin/vibration-diagnostics/internal/application/usecase"
	"github.com/dreschagin/vibration-diagnostics/internal/domain/entity"
	"github.com/dreschagin/vibration-diagnostics/internal/domain/repository"
	"github.com/dreschagin/vibration-diagnostics/internal/domain/valueobject"
	wsInfra "github.com/dreschagin/vibration-diagnostics/internal/infrastructure/notification/websocket"
	"github.com/dreschagin/vibration-diagnostics/internal/interfaces/http/handler"
	"github.com/dreschagin/vibration-diagnostics/internal/interfaces/http/middleware"
	"github.com/dreschagin/vibration-diagnostics/pkg/config"
	"github.com/dreschagin/vibration-diagnostics/pkg/logger"
)

const testToken = "test-token"

type memoryAssessmentRepo struct {
	mu      sync.RWMutex
	records []repository.AssessmentRecord
}

func newMemoryAssessmentRepo() *memoryAssessmentRepo {
	return &memoryAssessmentRepo{
		records: make([]repository.AssessmentRecord, 0),
	}
}

func (r *memoryAssessmentRepo) Save(_ context.Context, record repository.AssessmentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	return nil
}

func (r *memoryAssessmentRepo) FindByID(_ context.Context, id string) (*entity.MasterHealthAssessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, record := range r.records {
		if record.Assessment.ID() == id {
			return record.Assessment, nil
		}
	}
	return nil, errors.New("assessment not found")
}

func (r *memoryAssessmentRepo) FindLatestByEquipment(_ context.Context, equipmentID string) (*entity.MasterHealthAssessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var latest *entity.MasterHealthAssessment
	for _, record := range r.records {
		if record.Assessment.EquipmentID() != equipmentID {
			continue
		}
		if latest == nil || record.Assessment.AssessedAt().After(latest.AssessedAt()) {
			latest = record.Assessment
		}
	}
	if latest == nil {
		return nil, errors.New("assessment not found")
	}
	return latest, nil
}

func (r *memoryAssessmentRepo) FindByEquipment(_ context.Context, equipmentID string, limit int) ([]*entity.MasterHealthAssessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*entity.MasterHealthAssessment, 0)
	for _, record := range r.records {
		if record.Assessment.EquipmentID() != equipmentID {
			continue
		}
		result = append(result, record.Assessment)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].AssessedAt().After(result[j].AssessedAt())
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *memoryAssessmentRepo) FindByTimeRange(_ context.Context, equipmentID string, timeRange valueobject.TimeRange) ([]*entity.MasterHealthAssessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*entity.MasterHealthAssessment, 0)
	for _, record := range r.records {
		if record.Assessment.EquipmentID() != equipmentID {
			continue
		}
		if timeRange.Contains(record.Assessment.AssessedAt()) {
			result = append(result, record.Assessment)
		}
	}
	return result, nil
}

func (r *memoryAssessmentRepo) ListEquipmentIDs(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for _, record := range r.records {
		id := record.Assessment.EquipmentID()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *memoryAssessmentRepo) DeleteOlderThan(_ context.Context, age valueobject.TimeRange) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	filtered := r.records[:0]
	for _, record := range r.records {
		if record.Assessment.AssessedAt().After(age.Start()) {
			filtered = append(filtered, record)
		}
	}
	r.records = filtered
	return nil
}

func (r *memoryAssessmentRepo) Count(_ context.Context, equipmentID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var count int64
	for _, record := range r.records {
		if record.Assessment.EquipmentID() == equipmentID {
			count++
		}
	}
	return count, nil
}

type memoryReportStorage struct {
	mu      sync.RWMutex
	objects map[string]storedReport
}

type storedReport struct {
	contentType  string
	data         []byte
	lastModified time.Time
}

func newMemoryReportStorage() *memoryReportStorage {
	return &memoryReportStorage{
		objects: make(map[string]storedReport),
	}
}

func (s *memoryReportStorage) PutObject(_ context.Context, key, contentType string, body []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = storedReport{
		contentType:  contentType,
		data:         append([]byte(nil), body...),
		lastModified: time.Now().UTC(),
	}
	return "https://storage.local/" + key, nil
}

func (s *memoryReportStorage) GetObjectURL(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.objects[key]; !ok {
		return "", http.ErrMissingFile
	}
	return "https://storage.local/" + key, nil
}

func (s *memoryReportStorage) ListObjects(_ context.Context, prefix string, limit int) ([]port.StoredObject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]port.StoredObject, 0, len(s.objects))
	for key, obj := range s.objects {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		items = append(items, port.StoredObject{
			Key:          key,
			URL:          "https://storage.local/" + key,
			SizeBytes:    int64(len(obj.data)),
			LastModified: obj.lastModified,
		})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].LastModified.After(items[j].LastModified)
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

type stubSampleSource struct{}

func (stubSampleSource) AcquireAll(_ context.Context) ([]port.RawSample, error) {
	return nil, nil
}

func (stubSampleSource) Acquire(_ context.Context, equipmentID string) (port.RawSample, error) {
	return port.RawSample{}, errors.New("unknown equipment: " + equipmentID)
}

func (stubSampleSource) EquipmentIDs() []string { return nil }

type stubHostCollector struct{}

func (stubHostCollector) Collect(_ context.Context) (port.HostStatus, error) {
	return port.HostStatus{
		Hostname:      "test-host",
		Uptime:        90 * time.Minute,
		CPUPercent:    12.5,
		MemoryPercent: 40.0,
		MemoryUsedMB:  2048,
		DiskPercent:   55.0,
		GoVersion:     "go1.25",
		CollectedAt:   time.Now().UTC(),
	}, nil
}

func newTestServer(t *testing.T, trendAnalyzerBaseURL string) (*httptest.Server, *memoryReportStorage) {
	t.Helper()

	log := logger.New("error")
	repo := newMemoryAssessmentRepo()

	hub := wsInfra.NewHub(log)
	authConfig := middleware.AuthConfig{
		Enabled:     true,
		BearerToken: testToken,
	}
	websocketHandler := handler.NewWebSocketHandler(hub, []string{"http://localhost:8080"}, authConfig, log)

	diagnoseUC := usecase.NewDiagnoseSampleUseCase(stubSampleSource{}, repo, nil, nil, hub, nil, log)
	getLatestUC := usecase.NewGetLatestAssessmentUseCase(repo, nil, log)
	getHistoryUC := usecase.NewGetAssessmentHistoryUseCase(repo, nil, log)
	diagnosticsAPIHandler := handler.NewDiagnosticsAPIHandler(diagnoseUC, getLatestUC, getHistoryUC, 24*time.Hour, log)

	storage := newMemoryReportStorage()
	exportReportUC := usecase.NewExportDiagnosticReportUseCase(repo, storage, nil, usecase.ExportDiagnosticReportConfig{
		KeyPrefix: "reports",
	}, log)
	listReportsUC := usecase.NewListDiagnosticReportsUseCase(storage, nil, usecase.ListDiagnosticReportsConfig{
		KeyPrefix: "reports",
	}, log)
	reportAPIHandler := handler.NewReportAPIHandler(exportReportUC, listReportsUC, authConfig, 1024*1024, 100, log)

	systemStatusHandler := handler.NewSystemStatusHandler(stubHostCollector{}, hub, log)
	authAPIHandler := handler.NewAuthAPIHandler(authConfig, log)

	var trendAnalyzerAPIHandler *handler.TrendAnalyzerAPIHandler
	if trendAnalyzerBaseURL != "" {
		trendAnalyzerAPIHandler = handler.NewTrendAnalyzerAPIHandler(trendAnalyzerBaseURL, 2*time.Second, log)
	}

	router := NewRouter(
		diagnosticsAPIHandler,
		reportAPIHandler,
		systemStatusHandler,
		websocketHandler,
		authAPIHandler,
		trendAnalyzerAPIHandler,
		config.SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			AuthEnabled:    true,
			AuthToken:      testToken,
		},
		nil,
		log,
	)

	server := httptest.NewServer(router.Setup())
	t.Cleanup(server.Close)
	return server, storage
}

// Эталонное измерение: насос со средним износом, оценка B
func buildDiagnoseRequest(t *testing.T, equipmentID string) *bytes.Buffer {
	t.Helper()
	payload := map[string]interface{}{
		"equipment_id": equipmentID,
		"vh":           3.0,
		"vv":           2.0,
		"va":           5.0,
		"ah":           4.0,
		"av":           3.0,
		"aa":           6.0,
		"frequency":    30.0,
		"rpm":          1500.0,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal diagnose request: %v", err)
	}
	return bytes.NewBuffer(raw)
}

func TestE2EHealthEndpoints(t *testing.T) {
	server, _ := newTestServer(t, "")

	for _, path := range []string{"/healthz", "/readyz"} {
		resp, err := http.Get(server.URL + path)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200 for %s, got %d", path, resp.StatusCode)
		}
	}
}

func TestE2EAuthFlow(t *testing.T) {
	server, _ := newTestServer(t, "")
	client := server.Client()

	statusResp := doRequest(t, client, http.MethodGet, server.URL+"/api/v1/auth/status", nil, nil)
	if statusResp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected auth status: %d", statusResp.StatusCode)
	}

	var statusPayload map[string]interface{}
	if err := json.NewDecoder(statusResp.Body).Decode(&statusPayload); err != nil {
		t.Fatalf("decode status response: %v", err)
	}
	statusResp.Body.Close()

	if statusPayload["auth_enabled"] != true {
		t.Fatalf("expected auth_enabled true, got %v", statusPayload["auth_enabled"])
	}
	if statusPayload["authenticated"] != false {
		t.Fatalf("expected authenticated false, got %v", statusPayload["authenticated"])
	}

	loginBody := bytes.NewBufferString(`{"token":"bad-token"}`)
	loginResp := doRequest(t, client, http.MethodPost, server.URL+"/api/v1/auth/login", loginBody, map[string]string{
		"Content-Type": "application/json",
	})
	if loginResp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for invalid login, got %d", loginResp.StatusCode)
	}
	loginResp.Body.Close()

	loginBody = bytes.NewBufferString(`{"token":"` + testToken + `"}`)
	loginResp = doRequest(t, client, http.MethodPost, server.URL+"/api/v1/auth/login", loginBody, map[string]string{
		"Content-Type": "application/json",
	})
	if loginResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for valid login, got %d", loginResp.StatusCode)
	}
	loginResp.Body.Close()

	cookies := loginResp.Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected auth cookie")
	}

	authorizedStatusReq, _ := http.NewRequest(http.MethodGet, server.URL+"/api/v1/auth/status", nil)
	for _, cookie := range cookies {
		authorizedStatusReq.AddCookie(cookie)
	}
	authorizedStatusResp, err := client.Do(authorizedStatusReq)
	if err != nil {
		t.Fatalf("authorized status request failed: %v", err)
	}
	defer authorizedStatusResp.Body.Close()

	var authorizedStatusPayload map[string]interface{}
	if err := json.NewDecoder(authorizedStatusResp.Body).Decode(&authorizedStatusPayload); err != nil {
		t.Fatalf("decode authorized status response: %v", err)
	}
	if authorizedStatusPayload["authenticated"] != true {
		t.Fatalf("expected authenticated true, got %v", authorizedStatusPayload["authenticated"])
	}
}

func TestE2EDiagnosticsFlow(t *testing.T) {
	server, _ := newTestServer(t, "")
	client := server.Client()

	unauthorizedResp := doRequest(t, client, http.MethodPost, server.URL+"/api/v1/diagnostics/run", buildDiagnoseRequest(t, "pump-001"), nil)
	if unauthorizedResp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without auth, got %d", unauthorizedResp.StatusCode)
	}
	unauthorizedResp.Body.Close()

	runResp := doRequest(t, client, http.MethodPost, server.URL+"/api/v1/diagnostics/run", buildDiagnoseRequest(t, "pump-001"), map[string]string{
		"Authorization": "Bearer " + testToken,
		"Content-Type":  "application/json",
	})
	if runResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for diagnostics run, got %d", runResp.StatusCode)
	}

	var assessment dto.AssessmentDTO
	if err := json.NewDecoder(runResp.Body).Decode(&assessment); err != nil {
		t.Fatalf("decode diagnostics response: %v", err)
	}
	runResp.Body.Close()

	if assessment.EquipmentID != "pump-001" {
		t.Fatalf("expected equipment pump-001, got %s", assessment.EquipmentID)
	}
	if assessment.HealthGrade != "B" {
		t.Fatalf("expected health grade B, got %s", assessment.HealthGrade)
	}
	criticals := strings.Join(assessment.CriticalFailures, ",")
	if !strings.Contains(criticals, "Misalignment") || !strings.Contains(criticals, "Soft Foot") {
		t.Fatalf("expected Misalignment and Soft Foot in criticals, got %v", assessment.CriticalFailures)
	}
	if len(assessment.Analyses) == 0 {
		t.Fatal("expected failure analyses in response")
	}

	latestResp := doRequest(t, client, http.MethodGet, server.URL+"/api/v1/assessments/latest?equipment_id=pump-001", nil, map[string]string{
		"Authorization": "Bearer " + testToken,
	})
	if latestResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for latest assessment, got %d", latestResp.StatusCode)
	}

	var latest dto.AssessmentDTO
	if err := json.NewDecoder(latestResp.Body).Decode(&latest); err != nil {
		t.Fatalf("decode latest response: %v", err)
	}
	latestResp.Body.Close()
	if latest.ID != assessment.ID {
		t.Fatalf("expected latest assessment %s, got %s", assessment.ID, latest.ID)
	}

	missingResp := doRequest(t, client, http.MethodGet, server.URL+"/api/v1/assessments/latest?equipment_id=ghost-999", nil, map[string]string{
		"Authorization": "Bearer " + testToken,
	})
	if missingResp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown equipment, got %d", missingResp.StatusCode)
	}
	missingResp.Body.Close()

	historyResp := doRequest(t, client, http.MethodGet, server.URL+"/api/v1/assessments/history?equipment_id=pump-001&duration=1h", nil, map[string]string{
		"Authorization": "Bearer " + testToken,
	})
	if historyResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for assessment history, got %d", historyResp.StatusCode)
	}

	var history dto.AssessmentHistoryDTO
	if err := json.NewDecoder(historyResp.Body).Decode(&history); err != nil {
		t.Fatalf("decode history response: %v", err)
	}
	historyResp.Body.Close()
	if history.EquipmentID != "pump-001" {
		t.Fatalf("expected pump-001 history, got %s", history.EquipmentID)
	}
	if len(history.Assessments) == 0 {
		t.Fatal("expected assessment history entries")
	}

	equipmentResp := doRequest(t, client, http.MethodGet, server.URL+"/api/v1/equipment", nil, map[string]string{
		"Authorization": "Bearer " + testToken,
	})
	if equipmentResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for equipment list, got %d", equipmentResp.StatusCode)
	}

	var equipmentPayload struct {
		EquipmentIDs []string `json:"equipment_ids"`
		Count        int      `json:"count"`
	}
	if err := json.NewDecoder(equipmentResp.Body).Decode(&equipmentPayload); err != nil {
		t.Fatalf("decode equipment response: %v", err)
	}
	equipmentResp.Body.Close()
	if equipmentPayload.Count != 1 || len(equipmentPayload.EquipmentIDs) != 1 || equipmentPayload.EquipmentIDs[0] != "pump-001" {
		t.Fatalf("expected single pump-001 entry, got %+v", equipmentPayload)
	}
}

func TestE2EReportEndpoints(t *testing.T) {
	server, storage := newTestServer(t, "")
	client := server.Client()

	runResp := doRequest(t, client, http.MethodPost, server.URL+"/api/v1/diagnostics/run", buildDiagnoseRequest(t, "pump-001"), map[string]string{
		"Authorization": "Bearer " + testToken,
		"Content-Type":  "application/json",
	})
	if runResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for diagnostics run, got %d", runResp.StatusCode)
	}
	runResp.Body.Close()

	unauthorizedResp := doRequest(t, client, http.MethodPost, server.URL+"/api/v1/reports", bytes.NewBufferString(`{}`), nil)
	if unauthorizedResp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for report export without auth, got %d", unauthorizedResp.StatusCode)
	}
	unauthorizedResp.Body.Close()

	exportBody := bytes.NewBufferString(`{"equipment_id":"pump-001"}`)
	exportResp := doRequest(t, client, http.MethodPost, server.URL+"/api/v1/reports", exportBody, map[string]string{
		"Authorization": "Bearer " + testToken,
		"Content-Type":  "application/json",
	})
	if exportResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for report export, got %d", exportResp.StatusCode)
	}

	var exportPayload struct {
		EquipmentID string `json:"equipment_id"`
		S3Key       string `json:"s3_key"`
		URL         string `json:"url"`
		SizeBytes   int64  `json:"size_bytes"`
	}
	if err := json.NewDecoder(exportResp.Body).Decode(&exportPayload); err != nil {
		t.Fatalf("decode export response: %v", err)
	}
	exportResp.Body.Close()

	if exportPayload.EquipmentID != "pump-001" {
		t.Fatalf("expected pump-001 report, got %s", exportPayload.EquipmentID)
	}
	if !strings.HasPrefix(exportPayload.S3Key, "reports/pump-001/") {
		t.Fatalf("unexpected report key: %s", exportPayload.S3Key)
	}
	if exportPayload.SizeBytes == 0 {
		t.Fatal("expected non-empty report body")
	}

	storage.mu.RLock()
	stored, ok := storage.objects[exportPayload.S3Key]
	storage.mu.RUnlock()
	if !ok {
		t.Fatalf("report %s not found in storage", exportPayload.S3Key)
	}
	if stored.contentType != "application/json" {
		t.Fatalf("expected application/json report, got %s", stored.contentType)
	}

	missingResp := doRequest(t, client, http.MethodPost, server.URL+"/api/v1/reports", bytes.NewBufferString(`{"equipment_id":"ghost-999"}`), map[string]string{
		"Authorization": "Bearer " + testToken,
		"Content-Type":  "application/json",
	})
	if missingResp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown equipment, got %d", missingResp.StatusCode)
	}
	missingResp.Body.Close()

	listResp := doRequest(t, client, http.MethodGet, server.URL+"/api/v1/reports?equipment_id=pump-001&limit=10", nil, map[string]string{
		"Authorization": "Bearer " + testToken,
	})
	if listResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for report list, got %d", listResp.StatusCode)
	}
	defer listResp.Body.Close()

	var listPayload struct {
		Items []struct {
			S3Key string `json:"s3_key"`
			URL   string `json:"url"`
		} `json:"items"`
	}
	if err := json.NewDecoder(listResp.Body).Decode(&listPayload); err != nil {
		t.Fatalf("decode report list response: %v", err)
	}
	if len(listPayload.Items) == 0 {
		t.Fatal("expected at least one report item")
	}
}

func TestE2ESystemStatus(t *testing.T) {
	server, _ := newTestServer(t, "")
	client := server.Client()

	resp := doRequest(t, client, http.MethodGet, server.URL+"/api/v1/system/status", nil, map[string]string{
		"Authorization": "Bearer " + testToken,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for system status, got %d", resp.StatusCode)
	}
	defer resp.Body.Close()

	var payload struct {
		ServiceUptimeSeconds float64        `json:"service_uptime_seconds"`
		WebsocketClients     int            `json:"websocket_clients"`
		Host                 map[string]any `json:"host"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode status response: %v", err)
	}
	if payload.Host["hostname"] != "test-host" {
		t.Fatalf("expected hostname test-host, got %v", payload.Host["hostname"])
	}
}

func TestE2ETrendAnalyzerProxy(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/v1/trend-analyzer/summary":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		case "/api/v1/trend-analyzer/run":
			if r.Method != http.MethodPost {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			w.WriteHeader(http.StatusAccepted)
			_, _ = w.Write([]byte(`{"status":"queued"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(upstream.Close)

	server, _ := newTestServer(t, strings.TrimRight(upstream.URL, "/"))
	client := server.Client()

	summaryResp := doRequest(t, client, http.MethodGet, server.URL+"/api/v1/trend-analyzer/summary", nil, map[string]string{
		"Authorization": "Bearer " + testToken,
	})
	if summaryResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for trend analyzer summary, got %d", summaryResp.StatusCode)
	}
	summaryResp.Body.Close()

	runResp := doRequest(t, client, http.MethodPost, server.URL+"/api/v1/trend-analyzer/run", nil, map[string]string{
		"Authorization": "Bearer " + testToken,
	})
	if runResp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202 for trend analyzer run, got %d", runResp.StatusCode)
	}
	runResp.Body.Close()
}

func doRequest(t *testing.T, client *http.Client, method, url string, body *bytes.Buffer, headers map[string]string) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body.Bytes())
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}
