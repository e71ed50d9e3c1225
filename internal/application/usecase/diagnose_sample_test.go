package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dreschagin/vibration-diagnostics/internal/application/dto"
	"github.com/dreschagin/vibration-diagnostics/internal/application/port"
	"github.com/dreschagin/vibration-diagnostics/internal/domain/entity"
	"github.com/dreschagin/vibration-diagnostics/internal/domain/repository"
	"github.com/dreschagin/vibration-diagnostics/internal/domain/valueobject"
	"github.com/dreschagin/vibration-diagnostics/pkg/logger"
)

type mockAssessmentRepository struct {
	saved   []repository.AssessmentRecord
	saveErr error
	latest  map[string]*entity.MasterHealthAssessment
}

func (m *mockAssessmentRepository) Save(_ context.Context, record repository.AssessmentRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, record)
	return nil
}

func (m *mockAssessmentRepository) FindByID(_ context.Context, id string) (*entity.MasterHealthAssessment, error) {
	for _, record := range m.saved {
		if record.Assessment.ID() == id {
			return record.Assessment, nil
		}
	}
	return nil, errors.New("assessment not found")
}

func (m *mockAssessmentRepository) FindLatestByEquipment(_ context.Context, equipmentID string) (*entity.MasterHealthAssessment, error) {
	if a, ok := m.latest[equipmentID]; ok {
		return a, nil
	}
	return nil, errors.New("assessment not found")
}

func (m *mockAssessmentRepository) FindByEquipment(_ context.Context, _ string, _ int) ([]*entity.MasterHealthAssessment, error) {
	return nil, nil
}

func (m *mockAssessmentRepository) FindByTimeRange(_ context.Context, _ string, _ valueobject.TimeRange) ([]*entity.MasterHealthAssessment, error) {
	return nil, nil
}

func (m *mockAssessmentRepository) ListEquipmentIDs(_ context.Context) ([]string, error) {
	return nil, nil
}

func (m *mockAssessmentRepository) DeleteOlderThan(_ context.Context, _ valueobject.TimeRange) error {
	return nil
}

func (m *mockAssessmentRepository) Count(_ context.Context, _ string) (int64, error) {
	return int64(len(m.saved)), nil
}

type mockCache struct {
	entries map[string]interface{}
}

func (m *mockCache) Get(_ context.Context, key string, _ interface{}) error {
	if _, ok := m.entries[key]; ok {
		return nil
	}
	return errors.New("cache miss")
}

func (m *mockCache) Set(_ context.Context, key string, value interface{}) error {
	if m.entries == nil {
		m.entries = make(map[string]interface{})
	}
	m.entries[key] = value
	return nil
}

func (m *mockCache) Delete(_ context.Context, key string) error {
	delete(m.entries, key)
	return nil
}

func (m *mockCache) DeletePattern(_ context.Context, _ string) error { return nil }
func (m *mockCache) Close() error                                    { return nil }

type mockEventPublisher struct {
	subjects []string
}

func (m *mockEventPublisher) PublishEvent(_ context.Context, subject string, _ interface{}) error {
	m.subjects = append(m.subjects, subject)
	return nil
}

func (m *mockEventPublisher) Close() error { return nil }

type mockNotifier struct {
	snapshots []*dto.DiagnosticSnapshotDTO
	alerts    []*dto.AlertDTO
}

func (m *mockNotifier) Broadcast(snapshot *dto.DiagnosticSnapshotDTO) {
	m.snapshots = append(m.snapshots, snapshot)
}

func (m *mockNotifier) BroadcastAlert(alert *dto.AlertDTO) {
	m.alerts = append(m.alerts, alert)
}

func (m *mockNotifier) ClientCount() int { return 1 }

type mockHealthMetricsPublisher struct {
	published []*dto.AssessmentDTO
}

func (m *mockHealthMetricsPublisher) PublishAssessment(_ context.Context, assessment *dto.AssessmentDTO) error {
	m.published = append(m.published, assessment)
	return nil
}

func (m *mockHealthMetricsPublisher) Flush(_ context.Context) error { return nil }

type mockSampleSource struct {
	samples []port.RawSample
	err     error
}

func (m *mockSampleSource) AcquireAll(_ context.Context) ([]port.RawSample, error) {
	return m.samples, m.err
}

func (m *mockSampleSource) Acquire(_ context.Context, equipmentID string) (port.RawSample, error) {
	for _, s := range m.samples {
		if s.EquipmentID == equipmentID {
			return s, nil
		}
	}
	return port.RawSample{}, errors.New("unknown equipment")
}

func (m *mockSampleSource) EquipmentIDs() []string {
	ids := make([]string, len(m.samples))
	for i, s := range m.samples {
		ids[i] = s.EquipmentID
	}
	return ids
}

func referenceRawSample() port.RawSample {
	return port.RawSample{
		EquipmentID: "pump-001",
		VH:          3, VV: 2, VA: 5,
		AH: 4, AV: 3, AA: 6,
		Frequency: 30,
		RPM:       1500,
	}
}

// newDiagnoseUseCase wraps mocks into ports; a nil mock becomes a nil
// interface so the optional-dependency paths are actually exercised
func newDiagnoseUseCase(
	repo *mockAssessmentRepository,
	cache *mockCache,
	events *mockEventPublisher,
	notifier *mockNotifier,
	metrics *mockHealthMetricsPublisher,
) *DiagnoseSampleUseCase {
	var cachePort port.Cache
	if cache != nil {
		cachePort = cache
	}
	var eventsPort port.EventPublisher
	if events != nil {
		eventsPort = events
	}
	var notifierPort port.NotificationService
	if notifier != nil {
		notifierPort = notifier
	}
	var metricsPort port.HealthMetricsPublisher
	if metrics != nil {
		metricsPort = metrics
	}

	return NewDiagnoseSampleUseCase(
		&mockSampleSource{},
		repo, cachePort, eventsPort, notifierPort, metricsPort,
		logger.New("error"),
	)
}

func TestDiagnoseSampleUseCase_ExecuteRaw(t *testing.T) {
	repo := &mockAssessmentRepository{}
	cache := &mockCache{}
	events := &mockEventPublisher{}
	notifier := &mockNotifier{}
	metrics := &mockHealthMetricsPublisher{}

	uc := newDiagnoseUseCase(repo, cache, events, notifier, metrics)

	assessment, err := uc.ExecuteRaw(context.Background(), referenceRawSample())
	if err != nil {
		t.Fatalf("ExecuteRaw() error = %v", err)
	}

	if assessment.EquipmentID != "pump-001" {
		t.Fatalf("equipment id = %q", assessment.EquipmentID)
	}
	if len(assessment.Analyses) != 9 {
		t.Fatalf("expected 9 analyses, got %d", len(assessment.Analyses))
	}
	if assessment.HealthGrade != "B" {
		t.Fatalf("grade = %q, want B", assessment.HealthGrade)
	}

	if len(repo.saved) != 1 {
		t.Fatalf("expected 1 saved record, got %d", len(repo.saved))
	}
	if len(repo.saved[0].Analyses) != 9 {
		t.Fatalf("record must carry all analyses, got %d", len(repo.saved[0].Analyses))
	}

	if _, ok := cache.entries[LatestAssessmentCacheKey("pump-001")]; !ok {
		t.Fatal("latest assessment must be cached")
	}

	if len(events.subjects) != 1 || events.subjects[0] != "diagnostics.assessment.pump-001" {
		t.Fatalf("event subjects = %v", events.subjects)
	}

	if len(notifier.snapshots) != 1 {
		t.Fatalf("expected 1 snapshot broadcast, got %d", len(notifier.snapshots))
	}
	// Misalignment and Soft Foot are Severe on the reference sample
	if len(notifier.alerts) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(notifier.alerts))
	}
	for _, alert := range notifier.alerts {
		if alert.Level != "critical" {
			t.Fatalf("severe analysis alert level = %q, want critical", alert.Level)
		}
	}

	if len(metrics.published) != 1 {
		t.Fatalf("expected 1 metrics publication, got %d", len(metrics.published))
	}
}

func TestDiagnoseSampleUseCase_InvalidSample(t *testing.T) {
	uc := newDiagnoseUseCase(&mockAssessmentRepository{}, nil, nil, &mockNotifier{}, nil)

	raw := referenceRawSample()
	raw.VH = -1

	if _, err := uc.ExecuteRaw(context.Background(), raw); err == nil {
		t.Fatal("expected error for negative magnitude")
	}

	raw = referenceRawSample()
	raw.RPM = 0
	if _, err := uc.ExecuteRaw(context.Background(), raw); err == nil {
		t.Fatal("expected error for zero rpm")
	}
}

func TestDiagnoseSampleUseCase_RepositoryError(t *testing.T) {
	repo := &mockAssessmentRepository{saveErr: errors.New("connection refused")}
	notifier := &mockNotifier{}
	uc := newDiagnoseUseCase(repo, nil, nil, notifier, nil)

	_, err := uc.ExecuteRaw(context.Background(), referenceRawSample())
	if err == nil || !strings.Contains(err.Error(), "failed to save assessment") {
		t.Fatalf("error = %v", err)
	}

	// Nothing is broadcast when persistence fails
	if len(notifier.snapshots) != 0 {
		t.Fatal("snapshot must not be broadcast after save failure")
	}
}

func TestDiagnoseSampleUseCase_OptionalDepsNil(t *testing.T) {
	uc := newDiagnoseUseCase(&mockAssessmentRepository{}, nil, nil, nil, nil)

	if _, err := uc.ExecuteRaw(context.Background(), referenceRawSample()); err != nil {
		t.Fatalf("ExecuteRaw() with nil optional deps error = %v", err)
	}
}

func TestDiagnoseSampleUseCase_ExecuteSkipsInvalid(t *testing.T) {
	repo := &mockAssessmentRepository{}
	bad := referenceRawSample()
	bad.EquipmentID = "pump-002"
	bad.Frequency = 0

	source := &mockSampleSource{samples: []port.RawSample{referenceRawSample(), bad}}
	uc := NewDiagnoseSampleUseCase(source, repo, nil, nil, nil, nil, logger.New("error"))

	if err := uc.Execute(context.Background()); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(repo.saved) != 1 {
		t.Fatalf("expected 1 saved record, got %d", len(repo.saved))
	}
}

func TestDiagnoseSampleUseCase_ExecuteAllFail(t *testing.T) {
	bad := referenceRawSample()
	bad.Frequency = 0

	source := &mockSampleSource{samples: []port.RawSample{bad}}
	uc := NewDiagnoseSampleUseCase(source, &mockAssessmentRepository{}, nil, nil, nil, nil, logger.New("error"))

	if err := uc.Execute(context.Background()); err == nil {
		t.Fatal("expected error when every sample fails")
	}
}
