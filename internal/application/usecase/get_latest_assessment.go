package usecase

import (
	"context"
	"fmt"

	"github.com/dreschagin/vibration-diagnostics/internal/application/dto"
	"github.com/dreschagin/vibration-diagnostics/internal/application/port"
	"github.com/dreschagin/vibration-diagnostics/internal/domain/repository"
	"github.com/dreschagin/vibration-diagnostics/pkg/logger"
)

// GetLatestAssessmentUseCase возвращает последнюю оценку агрегата
type GetLatestAssessmentUseCase struct {
	repository repository.AssessmentRepository
	cache      port.Cache
	logger     *logger.Logger
}

// NewGetLatestAssessmentUseCase создает новый use case.
// cache опционален: nil всегда идет в репозиторий.
func NewGetLatestAssessmentUseCase(
	repository repository.AssessmentRepository,
	cache port.Cache,
	logger *logger.Logger,
) *GetLatestAssessmentUseCase {
	return &GetLatestAssessmentUseCase{
		repository: repository,
		cache:      cache,
		logger:     logger,
	}
}

// Execute выполняет получение последней оценки агрегата
func (uc *GetLatestAssessmentUseCase) Execute(ctx context.Context, equipmentID string) (*dto.AssessmentDTO, error) {
	if equipmentID == "" {
		return nil, fmt.Errorf("equipment id is required")
	}

	// Пытаемся получить из кеша
	if uc.cache != nil {
		var cached *dto.AssessmentDTO
		if err := uc.cache.Get(ctx, LatestAssessmentCacheKey(equipmentID), &cached); err == nil && cached != nil {
			uc.logger.Debug("Cache hit for latest assessment", "equipment_id", equipmentID)
			return cached, nil
		}
	}

	uc.logger.Debug("Fetching latest assessment", "equipment_id", equipmentID)

	assessment, err := uc.repository.FindLatestByEquipment(ctx, equipmentID)
	if err != nil {
		uc.logger.Error("Failed to fetch latest assessment", err)
		return nil, fmt.Errorf("failed to fetch latest assessment: %w", err)
	}

	return dto.FromAssessment(assessment), nil
}

// ListEquipment возвращает идентификаторы агрегатов с оценками
func (uc *GetLatestAssessmentUseCase) ListEquipment(ctx context.Context) ([]string, error) {
	ids, err := uc.repository.ListEquipmentIDs(ctx)
	if err != nil {
		uc.logger.Error("Failed to list equipment", err)
		return nil, fmt.Errorf("failed to list equipment: %w", err)
	}
	return ids, nil
}
