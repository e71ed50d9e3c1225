package service

import (
	"fmt"
	"math"
	"strings"

	"github.com/dreschagin/vibration-diagnostics/internal/domain/entity"
	"github.com/dreschagin/vibration-diagnostics/internal/domain/valueobject"
)

// HealthAssessor вычисляет итоговую оценку здоровья агрегата из
// упорядоченного списка анализов (Domain Service)
// Композирует ReliabilityEstimator и PredictiveInsightEstimator.
type HealthAssessor struct {
	reliability *ReliabilityEstimator
	predictive  *PredictiveInsightEstimator
}

// NewHealthAssessor создает новый HealthAssessor
func NewHealthAssessor() *HealthAssessor {
	return &HealthAssessor{
		reliability: NewReliabilityEstimator(),
		predictive:  NewPredictiveInsightEstimator(),
	}
}

// Assess строит MasterHealthAssessment из результата агрегации.
// Ожидает список, уже отсортированный по рангу серьезности: первый
// элемент используется как приоритетный фокус рекомендаций.
func (h *HealthAssessor) Assess(equipmentID string, result AggregationResult) *entity.MasterHealthAssessment {
	analyses := result.Analyses

	mfi := h.masterFaultIndex(analyses)
	score := h.healthScore(mfi)
	grade := valueobject.GradeForScore(score)

	critical := h.criticalFailures(analyses)
	recommendations := h.recommendations(score, critical, analyses)

	return entity.NewMasterHealthAssessment(
		equipmentID,
		mfi,
		score,
		grade,
		critical,
		recommendations,
		h.reliability.Estimate(mfi, analyses),
		h.predictive.Estimate(mfi, score, analyses),
		result.Omissions,
	)
}

// masterFaultIndex вычисляет взвешенный композитный индекс по
// фактически присутствующим анализам. Пустой список дает MFI=0:
// отсутствие данных трактуется как отсутствие выявленных дефектов.
func (h *HealthAssessor) masterFaultIndex(analyses []*entity.FailureAnalysis) float64 {
	if len(analyses) == 0 {
		return 0
	}

	var weighted, weightSum float64
	for _, fa := range analyses {
		w := fa.Type().Weight()
		weighted += w * fa.Index()
		weightSum += w
	}

	return weighted / weightSum
}

// healthScore отображает MFI в шкалу 0-100 через tanh.
// Монотонно невозрастающая по MFI функция с насыщением.
func (h *HealthAssessor) healthScore(masterFaultIndex float64) float64 {
	score := 100 * (1 - math.Tanh(masterFaultIndex/30))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func (h *HealthAssessor) criticalFailures(analyses []*entity.FailureAnalysis) []valueobject.FailureType {
	var critical []valueobject.FailureType
	for _, fa := range analyses {
		if fa.Severity() == valueobject.SeveritySevere {
			critical = append(critical, fa.Type())
		}
	}
	return critical
}

// recommendations строит упорядоченный список рекомендаций:
// срочная строка по критическим отказам, строка по уровню OMHS,
// приоритетный фокус по худшему анализу.
func (h *HealthAssessor) recommendations(
	score float64,
	critical []valueobject.FailureType,
	analyses []*entity.FailureAnalysis,
) []string {
	if len(analyses) == 0 {
		return []string{"No analysis data available: collect a vibration sample before assessing equipment health"}
	}

	var recs []string

	if len(critical) > 0 {
		names := make([]string, len(critical))
		for i, ft := range critical {
			names[i] = ft.String()
		}
		recs = append(recs, fmt.Sprintf("URGENT: severe failure modes detected (%s), schedule corrective maintenance immediately", strings.Join(names, ", ")))
	}

	switch {
	case score < 70:
		recs = append(recs, "Immediate intervention required: switch the equipment to continuous monitoring")
	case score < 85:
		recs = append(recs, "Plan preventive maintenance and increase monitoring frequency")
	default:
		recs = append(recs, "Continue routine condition monitoring")
	}

	if worst := analyses[0]; worst.Severity() != valueobject.SeverityGood {
		recs = append(recs, fmt.Sprintf("Priority focus: %s", worst.Type()))
		actions := worst.ImmediateActions()
		if len(actions) > 2 {
			actions = actions[:2]
		}
		recs = append(recs, actions...)
	}

	return recs
}
