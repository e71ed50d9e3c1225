package service

import (
	"fmt"
	"math"

	"github.com/dreschagin/vibration-diagnostics/internal/domain/entity"
	"github.com/dreschagin/vibration-diagnostics/internal/domain/valueobject"
)

// FlowTurbulenceAnalyzer диагностирует турбулентность потока
type FlowTurbulenceAnalyzer struct{}

// NewFlowTurbulenceAnalyzer создает новый анализатор турбулентности
func NewFlowTurbulenceAnalyzer() *FlowTurbulenceAnalyzer {
	return &FlowTurbulenceAnalyzer{}
}

// Type возвращает тип отказа
func (a *FlowTurbulenceAnalyzer) Type() valueobject.FailureType {
	return valueobject.FlowTurbulence
}

// Analyze вычисляет индекс турбулентности.
// TFI - коэффициент вариации каналов скорости, взвешенный отношением
// частоты к оборотам в степени 1.2.
func (a *FlowTurbulenceAnalyzer) Analyze(sample *entity.VibrationSample) (*entity.FailureAnalysis, error) {
	vh, vv, va := sample.VH(), sample.VV(), sample.VA()

	variation := safeDiv(stddevOf(vh, vv, va), meanOf(vh, vv, va), 0)
	tfi := variation * math.Pow(sample.Frequency()/sample.RPM(), 1.2)

	return finalizeAnalysis(
		valueobject.FlowTurbulence,
		tfi,
		fmt.Sprintf("TFI=%.4f", tfi),
	)
}
