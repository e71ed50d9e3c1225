package usecase

import (
	"context"
	"fmt"

	"github.com/dreschagin/vibration-diagnostics/internal/application/dto"
	"github.com/dreschagin/vibration-diagnostics/internal/application/port"
	"github.com/dreschagin/vibration-diagnostics/internal/domain/repository"
	"github.com/dreschagin/vibration-diagnostics/internal/domain/valueobject"
	"github.com/dreschagin/vibration-diagnostics/pkg/logger"
)

// GetAssessmentHistoryUseCase возвращает исторические оценки с кешированием
type GetAssessmentHistoryUseCase struct {
	repository repository.AssessmentRepository
	cache      port.Cache
	logger     *logger.Logger
}

// NewGetAssessmentHistoryUseCase создает новый use case с кешированием
func NewGetAssessmentHistoryUseCase(
	repository repository.AssessmentRepository,
	cache port.Cache,
	logger *logger.Logger,
) *GetAssessmentHistoryUseCase {
	return &GetAssessmentHistoryUseCase{
		repository: repository,
		cache:      cache,
		logger:     logger,
	}
}

// Execute выполняет получение исторических оценок агрегата с кешированием
func (uc *GetAssessmentHistoryUseCase) Execute(
	ctx context.Context,
	equipmentID string,
	timeRange valueobject.TimeRange,
) ([]*dto.AssessmentDTO, error) {
	if equipmentID == "" {
		return nil, fmt.Errorf("equipment id is required")
	}

	// Если кеш не настроен, используем стандартный путь
	if uc.cache == nil {
		return uc.executeWithoutCache(ctx, equipmentID, timeRange)
	}

	cacheKey := historyCacheKey(equipmentID, timeRange)

	// Пытаемся получить из кеша
	var cachedDTOs []*dto.AssessmentDTO
	err := uc.cache.Get(ctx, cacheKey, &cachedDTOs)
	if err == nil {
		uc.logger.Debug("Cache hit for assessment history",
			"equipment_id", equipmentID,
			"count", len(cachedDTOs))
		return cachedDTOs, nil
	}

	// Cache miss - получаем из БД
	uc.logger.Debug("Cache miss for assessment history, fetching from DB",
		"equipment_id", equipmentID)

	dtos, err := uc.executeWithoutCache(ctx, equipmentID, timeRange)
	if err != nil {
		return nil, err
	}

	// Сохраняем в кеш (асинхронно, не блокируем ответ)
	go func() {
		if err := uc.cache.Set(context.Background(), cacheKey, dtos); err != nil {
			uc.logger.Warn("Failed to cache assessment history", err)
		}
	}()

	return dtos, nil
}

// executeWithoutCache получает оценки без кеширования
func (uc *GetAssessmentHistoryUseCase) executeWithoutCache(
	ctx context.Context,
	equipmentID string,
	timeRange valueobject.TimeRange,
) ([]*dto.AssessmentDTO, error) {
	assessments, err := uc.repository.FindByTimeRange(ctx, equipmentID, timeRange)
	if err != nil {
		uc.logger.Error("Failed to fetch assessment history", err)
		return nil, fmt.Errorf("failed to fetch assessment history: %w", err)
	}

	uc.logger.Debug("Fetched assessment history", "count", len(assessments))

	return dto.ToAssessmentDTOs(assessments), nil
}

// ExecuteWithAggregation возвращает историю с агрегированной статистикой
func (uc *GetAssessmentHistoryUseCase) ExecuteWithAggregation(
	ctx context.Context,
	equipmentID string,
	timeRange valueobject.TimeRange,
) (*dto.AssessmentHistoryDTO, error) {
	dtos, err := uc.Execute(ctx, equipmentID, timeRange)
	if err != nil {
		return nil, err
	}

	history := &dto.AssessmentHistoryDTO{
		EquipmentID: equipmentID,
		Assessments: dtos,
	}
	if len(dtos) == 0 {
		return history, nil
	}

	minScore, maxScore := dtos[0].HealthScore, dtos[0].HealthScore
	var sum float64
	for _, a := range dtos {
		sum += a.HealthScore
		if a.HealthScore < minScore {
			minScore = a.HealthScore
		}
		if a.HealthScore > maxScore {
			maxScore = a.HealthScore
		}
		if a.IsDegraded {
			history.DegradedCount++
		}
		if len(a.CriticalFailures) > 0 {
			history.CriticalCount++
		}
	}

	history.AverageScore = sum / float64(len(dtos))
	history.MinScore = minScore
	history.MaxScore = maxScore

	return history, nil
}

// historyCacheKey строит ключ кеша истории по агрегату и длительности окна
func historyCacheKey(equipmentID string, timeRange valueobject.TimeRange) string {
	return fmt.Sprintf("diagnostics:history:%s:%s", equipmentID, timeRange.Duration().String())
}
