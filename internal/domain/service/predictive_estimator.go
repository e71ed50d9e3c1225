package service

import (
	"github.com/dreschagin/vibration-diagnostics/internal/domain/entity"
	"github.com/dreschagin/vibration-diagnostics/internal/domain/valueobject"
)

// normalWearMode возвращается, когда ни один анализ не указывает
// на доминирующий режим отказа
const normalWearMode = "Normal Wear"

// PredictiveInsightEstimator строит эвристический прогноз отказа
// из списка анализов и композитных индексов (Domain Service)
type PredictiveInsightEstimator struct{}

// NewPredictiveInsightEstimator создает новый PredictiveInsightEstimator
func NewPredictiveInsightEstimator() *PredictiveInsightEstimator {
	return &PredictiveInsightEstimator{}
}

// Estimate прогнозирует доминирующий режим отказа, время до отказа,
// уверенность прогноза и срочность обслуживания.
// Доминирующий режим выбирается по максимальному индексу, а не по
// рангу серьезности: шкалы индексов у анализаторов разные, но внутри
// одного измерения наибольший индекс указывает на самый развитый дефект.
func (e *PredictiveInsightEstimator) Estimate(
	masterFaultIndex, healthScore float64,
	analyses []*entity.FailureAnalysis,
) entity.PredictiveInsights {
	mode := normalWearMode
	if len(analyses) > 0 {
		worst := analyses[0]
		for _, fa := range analyses[1:] {
			if fa.Index() > worst.Index() {
				worst = fa
			}
		}
		mode = worst.Type().String()
	}

	confidence := 100 - 2*masterFaultIndex
	if confidence < 60 {
		confidence = 60
	}
	if confidence > 95 {
		confidence = 95
	}

	return entity.PredictiveInsights{
		PredictedFailureMode: mode,
		TimeToFailureDays:    timeToFailureDays(healthScore),
		ConfidenceLevel:      confidence,
		MaintenanceUrgency:   urgencyForScore(healthScore),
	}
}

func timeToFailureDays(healthScore float64) int {
	switch {
	case healthScore < 60:
		return 30
	case healthScore < 70:
		return 90
	case healthScore < 80:
		return 180
	case healthScore < 90:
		return 270
	default:
		return 365
	}
}

func urgencyForScore(healthScore float64) valueobject.MaintenanceUrgency {
	switch {
	case healthScore < 60:
		return valueobject.UrgencyCritical
	case healthScore < 70:
		return valueobject.UrgencyHigh
	case healthScore < 85:
		return valueobject.UrgencyMedium
	default:
		return valueobject.UrgencyLow
	}
}
