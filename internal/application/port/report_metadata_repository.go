package port

import (
	"context"
	"time"
)

// ReportMetadata представляет метаданные экспортированного отчета.
type ReportMetadata struct {
	EquipmentID  string
	AssessmentID string
	S3Key        string
	URL          string
	ContentType  string
	SizeBytes    int64
	HealthGrade  string
	HealthScore  float64
	GeneratedAt  time.Time
	ExpiresAt    time.Time
}

// ReportListQuery определяет параметры выборки списка отчетов.
type ReportListQuery struct {
	EquipmentID string
	Limit       int
	Cursor      string
	HealthGrade string
	From        time.Time
	To          time.Time
}

// ReportListPage содержит результат выборки и курсор следующей страницы.
type ReportListPage struct {
	Items      []ReportMetadata
	NextCursor string
}

// ReportMetadataRepository определяет интерфейс хранения метаданных отчетов.
type ReportMetadataRepository interface {
	Put(ctx context.Context, record ReportMetadata) error
	ListByEquipment(ctx context.Context, query ReportListQuery) (ReportListPage, error)
}
