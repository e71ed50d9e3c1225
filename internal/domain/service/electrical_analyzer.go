package service

import (
	"fmt"

	"github.com/dreschagin/vibration-diagnostics/internal/domain/entity"
	"github.com/dreschagin/vibration-diagnostics/internal/domain/valueobject"
)

// ElectricalFaultAnalyzer диагностирует электрические дефекты двигателя
type ElectricalFaultAnalyzer struct{}

// NewElectricalFaultAnalyzer создает новый анализатор электрических дефектов
func NewElectricalFaultAnalyzer() *ElectricalFaultAnalyzer {
	return &ElectricalFaultAnalyzer{}
}

// Type возвращает тип отказа
func (a *ElectricalFaultAnalyzer) Type() valueobject.FailureType {
	return valueobject.ElectricalFault
}

// Analyze вычисляет индекс электрических дефектов.
// EUI - радиальная скорость относительно осевой, нормированная на
// частоту вращения. RBDI - индикатор дефектов стержней ротора:
// отношение радиальных ускорений к скоростям на сетевой частоте 50 Гц.
func (a *ElectricalFaultAnalyzer) Analyze(sample *entity.VibrationSample) (*entity.FailureAnalysis, error) {
	radialVelocity := rss(sample.VH(), sample.VV())

	eui := safeDiv(radialVelocity, sample.VA(), 0) * (sample.RPM() / 1800)

	rbdi := safeDiv(rss(sample.AH(), sample.AV()), radialVelocity, 0) *
		(sample.Frequency() / 50)

	combined := (eui + rbdi) / 2

	return finalizeAnalysis(
		valueobject.ElectricalFault,
		combined,
		fmt.Sprintf("EUI=%.4f, RBDI=%.4f", eui, rbdi),
	)
}
