package service

import (
	"math"

	"github.com/dreschagin/vibration-diagnostics/internal/domain/entity"
	"github.com/dreschagin/vibration-diagnostics/internal/domain/valueobject"
)

// complexRepairTypes - отказы, ремонт которых требует разборки агрегата
// и удлиняет MTTR
var complexRepairTypes = map[valueobject.FailureType]bool{
	valueobject.BearingDefects: true,
	valueobject.Misalignment:   true,
	valueobject.Cavitation:     true,
}

// ReliabilityEstimator выводит показатели надежности из MFI и списка
// анализов (Domain Service)
type ReliabilityEstimator struct{}

// NewReliabilityEstimator создает новый ReliabilityEstimator
func NewReliabilityEstimator() *ReliabilityEstimator {
	return &ReliabilityEstimator{}
}

// Estimate вычисляет MTBF, MTTR, доступность и уровень риска.
// MTBF экспоненциально падает с ростом MFI, но не ниже 720 часов;
// MTTR растет с числом сложных в ремонте отказов, но не выше 72 часов.
func (e *ReliabilityEstimator) Estimate(masterFaultIndex float64, analyses []*entity.FailureAnalysis) entity.ReliabilityMetrics {
	mtbf := math.Max(720, 8760*math.Exp(-masterFaultIndex/20))

	complexCount := 0
	for _, fa := range analyses {
		if complexRepairTypes[fa.Type()] && fa.Severity() != valueobject.SeverityGood {
			complexCount++
		}
	}
	mttr := math.Min(72, float64(4+8*complexCount))

	availability := math.Round(100*mtbf/(mtbf+mttr)*100) / 100

	return entity.ReliabilityMetrics{
		MTBFHours:    mtbf,
		MTTRHours:    mttr,
		Availability: availability,
		RiskLevel:    riskForAvailability(availability),
	}
}

func riskForAvailability(availability float64) valueobject.RiskLevel {
	switch {
	case availability < 85:
		return valueobject.RiskCritical
	case availability < 92:
		return valueobject.RiskHigh
	case availability < 97:
		return valueobject.RiskMedium
	default:
		return valueobject.RiskLow
	}
}
