package usecase

import (
	"context"
	"fmt"

	"github.com/dreschagin/vibration-diagnostics/internal/application/dto"
	"github.com/dreschagin/vibration-diagnostics/internal/application/port"
	"github.com/dreschagin/vibration-diagnostics/internal/domain/entity"
	"github.com/dreschagin/vibration-diagnostics/internal/domain/repository"
	"github.com/dreschagin/vibration-diagnostics/internal/domain/service"
	"github.com/dreschagin/vibration-diagnostics/pkg/logger"
)

// SubjectAssessmentCompleted - NATS subject завершенных оценок.
// Идентификатор агрегата добавляется суффиксом.
const SubjectAssessmentCompleted = "diagnostics.assessment"

// DiagnoseSampleUseCase координирует полный цикл диагностики:
// получение измерения, валидация, анализ, оценка, сохранение и рассылка
type DiagnoseSampleUseCase struct {
	source     port.SampleSource
	repository repository.AssessmentRepository
	cache      port.Cache
	events     port.EventPublisher
	notifier   port.NotificationService
	metrics    port.HealthMetricsPublisher
	validator  *service.SampleValidator
	aggregator *service.AnalysisAggregator
	assessor   *service.HealthAssessor
	logger     *logger.Logger
}

// NewDiagnoseSampleUseCase создает новый use case.
// cache, events и metrics опциональны: nil отключает соответствующий шаг.
func NewDiagnoseSampleUseCase(
	source port.SampleSource,
	repository repository.AssessmentRepository,
	cache port.Cache,
	events port.EventPublisher,
	notifier port.NotificationService,
	metrics port.HealthMetricsPublisher,
	logger *logger.Logger,
) *DiagnoseSampleUseCase {
	return &DiagnoseSampleUseCase{
		source:     source,
		repository: repository,
		cache:      cache,
		events:     events,
		notifier:   notifier,
		metrics:    metrics,
		validator:  service.NewSampleValidator(),
		aggregator: service.NewAnalysisAggregator(),
		assessor:   service.NewHealthAssessor(),
		logger:     logger,
	}
}

// Execute снимает измерения со всех агрегатов и диагностирует каждое.
// Ошибка диагностики одного агрегата не прерывает остальные.
func (uc *DiagnoseSampleUseCase) Execute(ctx context.Context) error {
	uc.logger.Debug("Acquiring samples from all equipment")
	rawSamples, err := uc.source.AcquireAll(ctx)
	if err != nil {
		uc.logger.Error("Failed to acquire samples", err)
		return fmt.Errorf("failed to acquire samples: %w", err)
	}

	uc.logger.Debug("Acquired raw samples", "count", len(rawSamples))

	var diagnosed int
	for _, raw := range rawSamples {
		if _, err := uc.ExecuteRaw(ctx, raw); err != nil {
			uc.logger.Warn("Skipping sample", "equipment_id", raw.EquipmentID, "error", err.Error())
			continue
		}
		diagnosed++
	}

	if diagnosed == 0 && len(rawSamples) > 0 {
		return fmt.Errorf("all %d samples failed diagnostics", len(rawSamples))
	}

	uc.logger.Debug("Diagnostics cycle complete", "diagnosed", diagnosed)
	return nil
}

// ExecuteRaw диагностирует одно сырое измерение и возвращает оценку
func (uc *DiagnoseSampleUseCase) ExecuteRaw(ctx context.Context, raw port.RawSample) (*dto.AssessmentDTO, error) {
	// 1. Конвертируем в Domain Entity с валидацией на фабрике
	sample, err := entity.NewVibrationSample(
		raw.EquipmentID,
		raw.VH, raw.VV, raw.VA,
		raw.AH, raw.AV, raw.AA,
		raw.Frequency, raw.RPM,
	)
	if err != nil {
		return nil, fmt.Errorf("invalid sample: %w", err)
	}

	if raw.Temperature != 0 {
		sample.SetTemperature(raw.Temperature)
	}
	for key, value := range raw.Metadata {
		sample.SetMetadata(key, value)
	}

	// 2. Доменная валидация
	if err := uc.validator.Validate(sample); err != nil {
		return nil, fmt.Errorf("sample validation failed: %w", err)
	}
	if !uc.validator.IsReasonable(sample) {
		uc.logger.Warn("Sample values outside physical range",
			"equipment_id", sample.EquipmentID())
		sample.SetMetadata("out_of_range", true)
	}

	// 3. Запускаем все анализаторы и оцениваем здоровье
	result := uc.aggregator.PerformComprehensiveAnalysis(sample)
	for _, omission := range result.Omissions {
		uc.logger.Warn("Analyzer omitted from aggregation",
			"equipment_id", sample.EquipmentID(),
			"type", omission.Type.String(),
			"reason", omission.Reason)
	}

	assessment := uc.assessor.Assess(sample.EquipmentID(), result)

	uc.logger.Debug("Assessment computed",
		"equipment_id", assessment.EquipmentID(),
		"mfi", assessment.MasterFaultIndex(),
		"score", assessment.HealthScore(),
		"grade", string(assessment.HealthGrade()))

	// 4. Сохраняем оценку с анализами одной транзакцией
	record := repository.AssessmentRecord{
		Assessment: assessment,
		Analyses:   result.Analyses,
	}
	if err := uc.repository.Save(ctx, record); err != nil {
		uc.logger.Error("Failed to save assessment", err)
		return nil, fmt.Errorf("failed to save assessment: %w", err)
	}

	assessmentDTO := dto.FromAssessmentWithAnalyses(assessment, result.Analyses)

	// 5. Обновляем кеш последней оценки
	uc.cacheLatest(ctx, assessmentDTO)

	// 6. Публикуем событие в брокер
	uc.publishEvent(ctx, assessmentDTO)

	// 7. Рассылаем snapshot через WebSocket
	if uc.notifier != nil {
		snapshot := dto.NewDiagnosticSnapshotDTO(assessment, result.Analyses)
		uc.notifier.Broadcast(snapshot)
		uc.logger.Debug("Snapshot broadcasted", "client_count", uc.notifier.ClientCount())
	}

	// 8. Публикуем числовые серии в observability
	if uc.metrics != nil {
		if err := uc.metrics.PublishAssessment(ctx, assessmentDTO); err != nil {
			uc.logger.Warn("Failed to publish health metrics", err)
		}
	}

	// 9. Отправляем alerts по анализам, требующим вмешательства
	uc.checkAndSendAlerts(sample.EquipmentID(), result.Analyses)

	return assessmentDTO, nil
}

// cacheLatest сохраняет последнюю оценку агрегата в кеше
func (uc *DiagnoseSampleUseCase) cacheLatest(ctx context.Context, assessment *dto.AssessmentDTO) {
	if uc.cache == nil {
		return
	}

	key := LatestAssessmentCacheKey(assessment.EquipmentID)
	if err := uc.cache.Set(ctx, key, assessment); err != nil {
		uc.logger.Warn("Failed to cache latest assessment", err)
	}
}

// publishEvent публикует завершенную оценку в message broker
func (uc *DiagnoseSampleUseCase) publishEvent(ctx context.Context, assessment *dto.AssessmentDTO) {
	if uc.events == nil {
		return
	}

	subject := fmt.Sprintf("%s.%s", SubjectAssessmentCompleted, assessment.EquipmentID)
	if err := uc.events.PublishEvent(ctx, subject, assessment); err != nil {
		uc.logger.Warn("Failed to publish assessment event", err)
	}
}

// checkAndSendAlerts отправляет alerts по всем не-Good анализам
func (uc *DiagnoseSampleUseCase) checkAndSendAlerts(equipmentID string, analyses []*entity.FailureAnalysis) {
	if uc.notifier == nil {
		return
	}

	for _, analysis := range analyses {
		if !analysis.IsActionable() {
			continue
		}

		message := fmt.Sprintf("%s: %s condition detected on %s (index %.2f)",
			equipmentID,
			analysis.Severity().String(),
			analysis.Type().String(),
			analysis.Index())

		alert := dto.NewAlertDTO(equipmentID, analysis, message)
		uc.notifier.BroadcastAlert(alert)
		uc.logger.Warn("Actionable failure mode detected",
			"equipment_id", equipmentID,
			"type", analysis.Type().String(),
			"severity", analysis.Severity().String())
	}
}

// LatestAssessmentCacheKey возвращает ключ кеша последней оценки агрегата
func LatestAssessmentCacheKey(equipmentID string) string {
	return "diagnostics:latest:" + equipmentID
}
