package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dreschagin/vibration-diagnostics/internal/application/dto"
	"github.com/dreschagin/vibration-diagnostics/internal/application/port"
	"github.com/dreschagin/vibration-diagnostics/internal/domain/repository"
	"github.com/dreschagin/vibration-diagnostics/pkg/logger"
)

var equipmentIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// ExportDiagnosticReportCommand задает параметры экспорта отчета
type ExportDiagnosticReportCommand struct {
	EquipmentID  string
	AssessmentID string // пусто = последняя оценка агрегата
	GeneratedAt  time.Time
}

// ExportDiagnosticReportResult содержит данные экспортированного отчета
type ExportDiagnosticReportResult struct {
	EquipmentID  string
	AssessmentID string
	S3Key        string
	URL          string
	SizeBytes    int64
	GeneratedAt  time.Time
}

// ExportDiagnosticReportConfig задает настройки экспорта
type ExportDiagnosticReportConfig struct {
	KeyPrefix string
	TTL       time.Duration
}

// diagnosticReport - сериализуемая форма отчета, загружаемая в хранилище
type diagnosticReport struct {
	GeneratedAt time.Time          `json:"generated_at"`
	EquipmentID string             `json:"equipment_id"`
	Assessment  *dto.AssessmentDTO `json:"assessment"`
}

// ExportDiagnosticReportUseCase выгружает JSON-отчет об оценке в объектное
// хранилище и индексирует его метаданные
type ExportDiagnosticReportUseCase struct {
	repository repository.AssessmentRepository
	storage    port.ReportStorage
	metadata   port.ReportMetadataRepository
	config     ExportDiagnosticReportConfig
	logger     *logger.Logger
}

// NewExportDiagnosticReportUseCase создает новый use case.
// metadata опционален: nil отключает индексацию.
func NewExportDiagnosticReportUseCase(
	repository repository.AssessmentRepository,
	storage port.ReportStorage,
	metadata port.ReportMetadataRepository,
	config ExportDiagnosticReportConfig,
	log *logger.Logger,
) *ExportDiagnosticReportUseCase {
	return &ExportDiagnosticReportUseCase{
		repository: repository,
		storage:    storage,
		metadata:   metadata,
		config:     config,
		logger:     log,
	}
}

// Execute строит отчет, загружает его и индексирует метаданные
func (uc *ExportDiagnosticReportUseCase) Execute(
	ctx context.Context,
	cmd ExportDiagnosticReportCommand,
) (*ExportDiagnosticReportResult, error) {
	if uc.storage == nil {
		return nil, fmt.Errorf("report storage is not configured")
	}

	equipmentID := strings.TrimSpace(cmd.EquipmentID)
	if !equipmentIDRegex.MatchString(equipmentID) {
		return nil, fmt.Errorf("invalid equipment_id")
	}

	generatedAt := cmd.GeneratedAt.UTC()
	if generatedAt.IsZero() {
		generatedAt = time.Now().UTC()
	}

	assessment, err := uc.loadAssessment(ctx, equipmentID, cmd.AssessmentID)
	if err != nil {
		return nil, err
	}

	report := diagnosticReport{
		GeneratedAt: generatedAt,
		EquipmentID: equipmentID,
		Assessment:  assessment,
	}
	body, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize report: %w", err)
	}

	key := uc.buildS3Key(equipmentID, generatedAt, assessment.ID)
	url, err := uc.storage.PutObject(ctx, key, "application/json", body)
	if err != nil {
		uc.logger.Error("Failed to upload diagnostic report", err,
			"equipment_id", equipmentID,
			"assessment_id", assessment.ID,
		)
		return nil, fmt.Errorf("failed to upload report: %w", err)
	}

	result := &ExportDiagnosticReportResult{
		EquipmentID:  equipmentID,
		AssessmentID: assessment.ID,
		S3Key:        key,
		URL:          url,
		SizeBytes:    int64(len(body)),
		GeneratedAt:  generatedAt,
	}

	uc.indexReport(ctx, result, assessment)

	return result, nil
}

// loadAssessment возвращает указанную или последнюю оценку агрегата
func (uc *ExportDiagnosticReportUseCase) loadAssessment(
	ctx context.Context,
	equipmentID, assessmentID string,
) (*dto.AssessmentDTO, error) {
	if assessmentID != "" {
		assessment, err := uc.repository.FindByID(ctx, assessmentID)
		if err != nil {
			return nil, fmt.Errorf("failed to load assessment %s: %w", assessmentID, err)
		}
		if assessment.EquipmentID() != equipmentID {
			return nil, fmt.Errorf("assessment %s does not belong to %s", assessmentID, equipmentID)
		}
		return dto.FromAssessment(assessment), nil
	}

	assessment, err := uc.repository.FindLatestByEquipment(ctx, equipmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest assessment: %w", err)
	}
	return dto.FromAssessment(assessment), nil
}

// indexReport записывает метаданные отчета в индекс
func (uc *ExportDiagnosticReportUseCase) indexReport(
	ctx context.Context,
	result *ExportDiagnosticReportResult,
	assessment *dto.AssessmentDTO,
) {
	if uc.metadata == nil {
		return
	}

	record := port.ReportMetadata{
		EquipmentID:  result.EquipmentID,
		AssessmentID: result.AssessmentID,
		S3Key:        result.S3Key,
		URL:          result.URL,
		ContentType:  "application/json",
		SizeBytes:    result.SizeBytes,
		HealthGrade:  assessment.HealthGrade,
		HealthScore:  assessment.HealthScore,
		GeneratedAt:  result.GeneratedAt,
	}
	if uc.config.TTL > 0 {
		record.ExpiresAt = result.GeneratedAt.Add(uc.config.TTL)
	}

	if err := uc.metadata.Put(ctx, record); err != nil {
		// Индекс вторичен: отчет уже в хранилище
		uc.logger.Warn("Failed to index diagnostic report",
			"equipment_id", result.EquipmentID,
			"s3_key", result.S3Key,
			"error", err.Error(),
		)
	}
}

func (uc *ExportDiagnosticReportUseCase) buildS3Key(equipmentID string, generatedAt time.Time, assessmentID string) string {
	prefix := strings.Trim(uc.config.KeyPrefix, "/")
	if prefix == "" {
		prefix = "reports"
	}

	timestamp := generatedAt.Format("20060102T150405Z")
	datePrefix := generatedAt.Format("2006/01/02")

	return fmt.Sprintf("%s/%s/%s/%s_%s.json", prefix, equipmentID, datePrefix, timestamp, assessmentID)
}
