package usecase

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/dreschagin/vibration-diagnostics/internal/application/port"
	"github.com/dreschagin/vibration-diagnostics/pkg/logger"
)

// ListDiagnosticReportsCommand задает параметры выборки отчетов
type ListDiagnosticReportsCommand struct {
	EquipmentID string
	Limit       int
	Cursor      string
	HealthGrade string
	From        time.Time
	To          time.Time
}

// DiagnosticReportListItem представляет один отчет в списке
type DiagnosticReportListItem struct {
	AssessmentID string
	S3Key        string
	URL          string
	HealthGrade  string
	HealthScore  float64
	GeneratedAt  time.Time
}

// ListDiagnosticReportsResult содержит страницу отчетов
type ListDiagnosticReportsResult struct {
	Items      []DiagnosticReportListItem
	NextCursor string
}

// ListDiagnosticReportsConfig задает настройки выборки
type ListDiagnosticReportsConfig struct {
	KeyPrefix           string
	DefaultLimit        int
	MaxLimit            int
	FallbackToS3OnError bool
}

// ListDiagnosticReportsUseCase возвращает список экспортированных отчетов.
// Основной путь - индекс метаданных; при его недоступности опционально
// используется прямой листинг объектного хранилища.
type ListDiagnosticReportsUseCase struct {
	storage            port.ReportStorage
	metadataRepository port.ReportMetadataRepository
	config             ListDiagnosticReportsConfig
	logger             *logger.Logger
}

// NewListDiagnosticReportsUseCase создает новый use case
func NewListDiagnosticReportsUseCase(
	storage port.ReportStorage,
	metadataRepository port.ReportMetadataRepository,
	config ListDiagnosticReportsConfig,
	log *logger.Logger,
) *ListDiagnosticReportsUseCase {
	if config.DefaultLimit <= 0 {
		config.DefaultLimit = 24
	}
	if config.MaxLimit <= 0 {
		config.MaxLimit = 100
	}
	return &ListDiagnosticReportsUseCase{
		storage:            storage,
		metadataRepository: metadataRepository,
		config:             config,
		logger:             log,
	}
}

// Execute выполняет выборку отчетов агрегата
func (uc *ListDiagnosticReportsUseCase) Execute(
	ctx context.Context,
	cmd ListDiagnosticReportsCommand,
) (*ListDiagnosticReportsResult, error) {
	equipmentID := strings.TrimSpace(cmd.EquipmentID)
	if !equipmentIDRegex.MatchString(equipmentID) {
		return nil, fmt.Errorf("invalid equipment_id")
	}

	limit := cmd.Limit
	if limit <= 0 {
		limit = uc.config.DefaultLimit
	}
	if limit > uc.config.MaxLimit {
		limit = uc.config.MaxLimit
	}

	if !cmd.From.IsZero() && !cmd.To.IsZero() && cmd.From.After(cmd.To) {
		return nil, fmt.Errorf("from must be less than or equal to to")
	}

	query := port.ReportListQuery{
		EquipmentID: equipmentID,
		Limit:       limit,
		Cursor:      strings.TrimSpace(cmd.Cursor),
		HealthGrade: strings.TrimSpace(cmd.HealthGrade),
		From:        cmd.From.UTC(),
		To:          cmd.To.UTC(),
	}

	if uc.metadataRepository != nil {
		page, err := uc.metadataRepository.ListByEquipment(ctx, query)
		if err == nil {
			return uc.mapMetadataPage(ctx, page), nil
		}

		if !uc.config.FallbackToS3OnError {
			return nil, fmt.Errorf("failed to list reports via metadata index: %w", err)
		}

		if uc.logger != nil {
			uc.logger.Warn("Report metadata index is unavailable, using S3 fallback",
				"equipment_id", equipmentID,
				"error", err.Error(),
			)
		}
	}

	return uc.listFromS3(ctx, query)
}

func (uc *ListDiagnosticReportsUseCase) buildPrefix(equipmentID string) string {
	prefix := strings.Trim(uc.config.KeyPrefix, "/")
	if prefix == "" {
		prefix = "reports"
	}
	return fmt.Sprintf("%s/%s/", prefix, equipmentID)
}

func (uc *ListDiagnosticReportsUseCase) mapMetadataPage(
	ctx context.Context,
	page port.ReportListPage,
) *ListDiagnosticReportsResult {
	items := make([]DiagnosticReportListItem, 0, len(page.Items))
	for _, record := range page.Items {
		url := record.URL
		if uc.storage != nil {
			if generatedURL, err := uc.storage.GetObjectURL(ctx, record.S3Key); err == nil {
				url = generatedURL
			}
		}

		items = append(items, DiagnosticReportListItem{
			AssessmentID: record.AssessmentID,
			S3Key:        record.S3Key,
			URL:          url,
			HealthGrade:  record.HealthGrade,
			HealthScore:  record.HealthScore,
			GeneratedAt:  record.GeneratedAt.UTC(),
		})
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].GeneratedAt.After(items[j].GeneratedAt)
	})

	return &ListDiagnosticReportsResult{
		Items:      items,
		NextCursor: page.NextCursor,
	}
}

func (uc *ListDiagnosticReportsUseCase) listFromS3(
	ctx context.Context,
	query port.ReportListQuery,
) (*ListDiagnosticReportsResult, error) {
	if uc.storage == nil {
		return nil, fmt.Errorf("report storage is not configured")
	}
	if strings.TrimSpace(query.Cursor) != "" {
		return nil, fmt.Errorf("cursor pagination requires report metadata index")
	}
	if query.HealthGrade != "" {
		return nil, fmt.Errorf("grade filtering requires report metadata index")
	}

	prefix := uc.buildPrefix(query.EquipmentID)
	objects, err := uc.storage.ListObjects(ctx, prefix, query.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	filtered := make([]DiagnosticReportListItem, 0, len(objects))
	for _, object := range objects {
		item := DiagnosticReportListItem{
			AssessmentID: inferAssessmentID(object.Key),
			S3Key:        object.Key,
			URL:          object.URL,
			GeneratedAt:  inferGeneratedAt(object.Key),
		}

		if !query.From.IsZero() && item.GeneratedAt.Before(query.From) {
			continue
		}
		if !query.To.IsZero() && item.GeneratedAt.After(query.To) {
			continue
		}

		filtered = append(filtered, item)
	}

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].GeneratedAt.After(filtered[j].GeneratedAt)
	})

	if len(filtered) > query.Limit {
		filtered = filtered[:query.Limit]
	}

	return &ListDiagnosticReportsResult{
		Items:      filtered,
		NextCursor: "",
	}, nil
}

// inferAssessmentID извлекает идентификатор оценки из ключа вида
// <prefix>/<equipment>/<date>/<timestamp>_<assessment_id>.json
func inferAssessmentID(key string) string {
	filename := path.Base(strings.TrimSpace(key))
	if filename == "" || filename == "." || !strings.HasSuffix(filename, ".json") {
		return ""
	}

	withoutExt := strings.TrimSuffix(filename, ".json")
	underscore := strings.IndexRune(withoutExt, '_')
	if underscore <= 0 || underscore == len(withoutExt)-1 {
		return ""
	}
	return withoutExt[underscore+1:]
}

func inferGeneratedAt(key string) time.Time {
	filename := path.Base(strings.TrimSpace(key))
	if filename == "" || filename == "." {
		return time.Time{}
	}

	withoutExt := strings.TrimSuffix(filename, ".json")
	underscore := strings.IndexRune(withoutExt, '_')
	if underscore <= 0 {
		return time.Time{}
	}

	generatedAt, err := time.Parse("20060102T150405Z", withoutExt[:underscore])
	if err != nil {
		return time.Time{}
	}
	return generatedAt.UTC()
}
