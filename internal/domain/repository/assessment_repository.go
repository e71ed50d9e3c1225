package repository

import (
	"context"

	"github.com/dreschagin/vibration-diagnostics/internal/domain/entity"
	"github.com/dreschagin/vibration-diagnostics/internal/domain/valueobject"
)

// AssessmentRecord связывает оценку с анализами, на которых она построена.
// Репозиторий хранит их атомарно: оценка без анализов не сохраняется.
type AssessmentRecord struct {
	Assessment *entity.MasterHealthAssessment
	Analyses   []*entity.FailureAnalysis
}

// AssessmentRepository определяет интерфейс для работы с хранилищем оценок (Port)
// Реализация будет в Infrastructure слое
type AssessmentRepository interface {
	// Save сохраняет оценку вместе с анализами одной транзакцией
	Save(ctx context.Context, record AssessmentRecord) error

	// FindByID находит оценку по идентификатору
	FindByID(ctx context.Context, id string) (*entity.MasterHealthAssessment, error)

	// FindLatestByEquipment находит последнюю оценку агрегата
	FindLatestByEquipment(ctx context.Context, equipmentID string) (*entity.MasterHealthAssessment, error)

	// FindByEquipment находит оценки агрегата с ограничением количества,
	// новые первыми
	FindByEquipment(ctx context.Context, equipmentID string, limit int) ([]*entity.MasterHealthAssessment, error)

	// FindByTimeRange находит оценки агрегата во временном диапазоне
	FindByTimeRange(
		ctx context.Context,
		equipmentID string,
		timeRange valueobject.TimeRange,
	) ([]*entity.MasterHealthAssessment, error)

	// ListEquipmentIDs возвращает идентификаторы агрегатов с оценками
	ListEquipmentIDs(ctx context.Context) ([]string, error)

	// DeleteOlderThan удаляет оценки старше указанного диапазона
	DeleteOlderThan(ctx context.Context, age valueobject.TimeRange) error

	// Count возвращает количество оценок агрегата
	Count(ctx context.Context, equipmentID string) (int64, error)
}
